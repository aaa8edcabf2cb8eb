package history

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange indicates At was called with an index outside [0, Len).
var ErrIndexOutOfRange = errors.New("history: index out of range")

// History is an ordered, append-only list of snapshots.
type History struct {
	elems []Element
}

// New returns an empty History.
func New() *History {
	return &History{}
}

// Append adds e at the end.
func (h *History) Append(e Element) {
	h.elems = append(h.elems, e)
}

// Len returns the number of snapshots.
func (h *History) Len() int { return len(h.elems) }

// At returns the i-th snapshot.
func (h *History) At(i int) (Element, error) {
	if i < 0 || i >= len(h.elems) {
		return Element{}, fmt.Errorf("At(%d) with %d elements: %w", i, len(h.elems), ErrIndexOutOfRange)
	}

	return h.elems[i], nil
}

// Elements returns a copy of the snapshot list in insertion order.
func (h *History) Elements() []Element {
	out := make([]Element, len(h.elems))
	copy(out, h.elems)

	return out
}

// Last returns the most recent snapshot; ok is false when h is empty.
func (h *History) Last() (e Element, ok bool) {
	if len(h.elems) == 0 {
		return Element{}, false
	}

	return h.elems[len(h.elems)-1], true
}

// Clear drops every snapshot.
func (h *History) Clear() {
	h.elems = nil
}
