package pattern

import "math/bits"

// wordBits is the number of pattern IDs packed into one Bitset word.
const wordBits = 64

// Bitset is a fixed-capacity set of pattern IDs packed into 64-bit words.
// A Bitset for a library of P patterns always has ⌈P/64⌉ words; bits at or
// beyond P are kept clear so Count and Equal stay exact.
type Bitset []uint64

// NewBitset returns an empty set able to hold IDs in [0, n).
// Complexity: O(n/64).
func NewBitset(n int) Bitset {
	return make(Bitset, (n+wordBits-1)/wordBits)
}

// FullBitset returns a set holding every ID in [0, n).
// Complexity: O(n/64).
func FullBitset(n int) Bitset {
	b := NewBitset(n)
	for i := range b {
		b[i] = ^uint64(0)
	}
	if r := n % wordBits; r != 0 {
		b[len(b)-1] = (uint64(1) << r) - 1
	}

	return b
}

// Set adds id to the set.
func (b Bitset) Set(id ID) {
	b[int(id)/wordBits] |= 1 << (uint(id) % wordBits)
}

// Has reports whether id is in the set.
func (b Bitset) Has(id ID) bool {
	return b[int(id)/wordBits]&(1<<(uint(id)%wordBits)) != 0
}

// Count returns the number of IDs in the set.
// Complexity: O(words).
func (b Bitset) Count() int {
	n := 0
	for _, w := range b {
		n += bits.OnesCount64(w)
	}

	return n
}

// Empty reports whether the set holds no IDs.
func (b Bitset) Empty() bool {
	for _, w := range b {
		if w != 0 {
			return false
		}
	}

	return true
}

// Reset removes every ID from b in place.
func (b Bitset) Reset() {
	for i := range b {
		b[i] = 0
	}
}

// Or merges o into b in place.
func (b Bitset) Or(o Bitset) {
	for i := range b {
		b[i] |= o[i]
	}
}

// And keeps only the IDs also present in o, in place, and reports whether b changed.
func (b Bitset) And(o Bitset) bool {
	changed := false
	for i, w := range b {
		nw := w & o[i]
		if nw != w {
			b[i] = nw
			changed = true
		}
	}

	return changed
}

// Copy returns an independent copy of b.
func (b Bitset) Copy() Bitset {
	c := make(Bitset, len(b))
	copy(c, b)

	return c
}

// Single returns the only ID of a one-element set.
// ok is false when the set is empty or holds more than one ID.
func (b Bitset) Single() (id ID, ok bool) {
	found := -1
	for i, w := range b {
		if w == 0 {
			continue
		}
		if found >= 0 || w&(w-1) != 0 {
			return 0, false
		}
		found = i*wordBits + bits.TrailingZeros64(w)
	}
	if found < 0 {
		return 0, false
	}

	return ID(found), true
}

// ForEach calls fn for every ID in ascending order.
func (b Bitset) ForEach(fn func(id ID)) {
	for i, w := range b {
		for w != 0 {
			t := bits.TrailingZeros64(w)
			fn(ID(i*wordBits + t))
			w &= w - 1
		}
	}
}

// IDs returns the members of the set in ascending order.
func (b Bitset) IDs() []ID {
	out := make([]ID, 0, b.Count())
	b.ForEach(func(id ID) { out = append(out, id) })

	return out
}
