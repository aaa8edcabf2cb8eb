package pattern

// ruleKey identifies one allowed placement: b at (dx,dy) from a.
type ruleKey struct {
	a, b   ID
	dx, dy int
}

// Rules is an allow-list of pattern placements. The zero value is not usable;
// call NewRules. Rules is not safe for concurrent mutation, but its Compatible
// method may be used concurrently once building is finished.
type Rules struct {
	allowed map[ruleKey]struct{}
}

// NewRules returns an empty allow-list.
func NewRules() *Rules {
	return &Rules{allowed: make(map[ruleKey]struct{})}
}

// Allow permits b at offset (dx,dy) from a. A Library only admits the
// placement if the mirrored rule is allowed too; see AllowSymmetric.
func (r *Rules) Allow(a, b ID, dx, dy int) *Rules {
	r.allowed[ruleKey{a, b, dx, dy}] = struct{}{}

	return r
}

// AllowSymmetric permits b at (dx,dy) from a and a at (−dx,−dy) from b.
func (r *Rules) AllowSymmetric(a, b ID, dx, dy int) *Rules {
	r.Allow(a, b, dx, dy)
	r.Allow(b, a, -dx, -dy)

	return r
}

// Len returns the number of allowed placements.
func (r *Rules) Len() int { return len(r.allowed) }

// Compatible implements CompatibleFunc over the allow-list.
func (r *Rules) Compatible(a, b ID, dx, dy int) bool {
	_, ok := r.allowed[ruleKey{a, b, dx, dy}]

	return ok
}

// AllCompatible is a CompatibleFunc with no constraints at all.
func AllCompatible(ID, ID, int, int) bool { return true }

// NoneCompatible is a CompatibleFunc under which no two patterns may neighbour.
func NoneCompatible(ID, ID, int, int) bool { return false }
