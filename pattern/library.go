// SPDX-License-Identifier: MIT
// Package: wavecollapse/pattern
//
// library.go: the immutable pattern library and its agreement table.
//
// Design:
//   • IDs are positional: the i-th pattern passed to NewLibrary gets ID(i).
//   • The compatibility predicate is evaluated exactly once per
//     (offset, a, b) triple at construction and cached as bitsets.
//   • WithWeights returns a sibling library; the receiver is never mutated.

package pattern

import (
	"math"
)

// ID is the stable identity of a pattern inside one Library.
type ID int

// Pattern is one tile of the library.
type Pattern struct {
	// ID is assigned by NewLibrary from the pattern's position.
	ID ID
	// Name is an optional human-readable label (used by Decode and renderers).
	Name string
	// Weight is the relative frequency; must be positive and finite.
	Weight float64
	// Content is an opaque payload for visualization; the engine never reads it.
	Content any
}

// CompatibleFunc reports whether pattern b may sit at offset (dx,dy) from
// pattern a. Offsets lie in [-(N-1), N-1]²; (0,0) is never queried.
//
// A placement is admissible only when both sides accept it:
// compat(a, b, dx, dy) && compat(b, a, −dx, −dy).
type CompatibleFunc func(a, b ID, dx, dy int) bool

// Offset is a relative grid displacement.
type Offset struct {
	DX, DY int
}

// Library is an ordered, read-only set of patterns sharing footprint N.
type Library struct {
	n        int
	patterns []Pattern
	weights  []float64
	offsets  []Offset
	// agree[k][a] holds every b admissible at offsets[k] from a.
	agree [][]Bitset
}

// NewLibrary validates the inputs, assigns positional IDs and precomputes the
// agreement table. The patterns slice is copied.
//
// Errors: ErrEmptyLibrary, ErrInvalidFootprint, ErrInvalidWeight, ErrNilCompatible.
// Complexity: O(P²·(2N−1)²) predicate calls.
func NewLibrary(n int, patterns []Pattern, compat CompatibleFunc) (*Library, error) {
	const op = "NewLibrary"
	if len(patterns) == 0 {
		return nil, ErrEmptyLibrary
	}
	if n < 1 {
		return nil, errorf(op, ErrInvalidFootprint, "got %d", n)
	}
	if compat == nil {
		return nil, ErrNilCompatible
	}

	ps := make([]Pattern, len(patterns))
	ws := make([]float64, len(patterns))
	for i, p := range patterns {
		if !validWeight(p.Weight) {
			return nil, errorf(op, ErrInvalidWeight, "pattern %d has weight %v", i, p.Weight)
		}
		p.ID = ID(i)
		ps[i] = p
		ws[i] = p.Weight
	}

	lib := &Library{
		n:        n,
		patterns: ps,
		weights:  ws,
		offsets:  window(n),
	}
	lib.agree = buildAgreement(lib.offsets, len(ps), compat)

	return lib, nil
}

// window lists every offset of the (2n−1)² square except (0,0), row by row.
// The ordering is point-symmetric: offsets[i] == −offsets[len−1−i].
func window(n int) []Offset {
	r := n - 1
	out := make([]Offset, 0, (2*r+1)*(2*r+1)-1)
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			out = append(out, Offset{DX: dx, DY: dy})
		}
	}

	return out
}

func buildAgreement(offsets []Offset, p int, compat CompatibleFunc) [][]Bitset {
	agree := make([][]Bitset, len(offsets))
	for k, off := range offsets {
		row := make([]Bitset, p)
		for a := 0; a < p; a++ {
			set := NewBitset(p)
			for b := 0; b < p; b++ {
				if compat(ID(a), ID(b), off.DX, off.DY) && compat(ID(b), ID(a), -off.DX, -off.DY) {
					set.Set(ID(b))
				}
			}
			row[a] = set
		}
		agree[k] = row
	}

	return agree
}

func validWeight(w float64) bool {
	return w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w)
}

// WithWeights returns a library identical to l except for its weights.
// The agreement table and patterns' content are shared; l is untouched.
//
// Errors: ErrWeightsLength, ErrInvalidWeight.
// Complexity: O(P).
func (l *Library) WithWeights(weights []float64) (*Library, error) {
	const op = "WithWeights"
	if len(weights) != len(l.patterns) {
		return nil, errorf(op, ErrWeightsLength, "got %d weights for %d patterns", len(weights), len(l.patterns))
	}
	ps := make([]Pattern, len(l.patterns))
	ws := make([]float64, len(weights))
	for i, w := range weights {
		if !validWeight(w) {
			return nil, errorf(op, ErrInvalidWeight, "weight %d is %v", i, w)
		}
		ps[i] = l.patterns[i]
		ps[i].Weight = w
		ws[i] = w
	}

	return &Library{
		n:        l.n,
		patterns: ps,
		weights:  ws,
		offsets:  l.offsets,
		agree:    l.agree,
	}, nil
}

// Len returns the number of patterns.
func (l *Library) Len() int { return len(l.patterns) }

// N returns the shared footprint size.
func (l *Library) N() int { return l.n }

// Pattern returns the pattern with the given ID.
func (l *Library) Pattern(id ID) (Pattern, error) {
	if int(id) < 0 || int(id) >= len(l.patterns) {
		return Pattern{}, errorf("Pattern", ErrUnknownPattern, "id %d", id)
	}

	return l.patterns[id], nil
}

// Lookup returns the ID of the pattern with the given name.
func (l *Library) Lookup(name string) (ID, error) {
	for _, p := range l.patterns {
		if p.Name == name {
			return p.ID, nil
		}
	}

	return 0, errorf("Lookup", ErrUnknownPattern, "name %q", name)
}

// Patterns returns a copy of the ordered pattern list.
func (l *Library) Patterns() []Pattern {
	out := make([]Pattern, len(l.patterns))
	copy(out, l.patterns)

	return out
}

// Weight returns the weight of id. The caller guarantees id is in range.
func (l *Library) Weight(id ID) float64 { return l.weights[id] }

// Weights returns a copy of all weights indexed by ID.
func (l *Library) Weights() []float64 {
	out := make([]float64, len(l.weights))
	copy(out, l.weights)

	return out
}

// Content returns the opaque payload of id. The caller guarantees id is in range.
func (l *Library) Content(id ID) any { return l.patterns[id].Content }

// Compatible reports whether b may sit at (dx,dy) from a, i.e. whether the
// placement is admissible in both directions.
// Offsets outside the window are unconstrained and always compatible.
func (l *Library) Compatible(a, b ID, dx, dy int) bool {
	k, ok := l.OffsetIndex(dx, dy)
	if !ok {
		return true
	}

	return l.agree[k][a].Has(b)
}

// Offsets returns the window offsets in index order. The slice is shared; do not modify.
func (l *Library) Offsets() []Offset { return l.offsets }

// OffsetIndex maps (dx,dy) to its position in Offsets.
// ok is false for (0,0) and for offsets outside the window.
func (l *Library) OffsetIndex(dx, dy int) (int, bool) {
	r := l.n - 1
	if dx < -r || dx > r || dy < -r || dy > r || (dx == 0 && dy == 0) {
		return 0, false
	}
	side := 2*r + 1
	k := (dy+r)*side + (dx + r)
	if center := (side*side - 1) / 2; k > center {
		k--
	}

	return k, true
}

// Opposite returns the index of −Offsets()[k].
func (l *Library) Opposite(k int) int { return len(l.offsets) - 1 - k }

// Agrees returns the set of patterns admissible at Offsets()[k] from a.
// The returned set is shared; do not modify.
func (l *Library) Agrees(k int, a ID) Bitset { return l.agree[k][a] }

// HeaviestIDs returns every ID whose weight equals the library maximum,
// in ascending order.
func (l *Library) HeaviestIDs() []ID {
	best := math.Inf(-1)
	for _, w := range l.weights {
		if w > best {
			best = w
		}
	}
	var out []ID
	for i, w := range l.weights {
		if w == best {
			out = append(out, ID(i))
		}
	}

	return out
}
