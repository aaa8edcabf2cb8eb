package wave

import (
	"fmt"

	"github.com/katalvlaran/wavecollapse/pattern"
)

// domains is the part of the wave state touched by propagation. The live wave
// and look-ahead simulations each run the same fixpoint over their own copy.
type domains struct {
	cells []pattern.Bitset
	sizes []int
}

// PropagateByUpdatingSuperposition fixes obs's cell to {obs.Pattern} and
// removes, until a fixpoint, every candidate of every cell that lacks a
// compatible partner in some neighbour within the N−1 window. A change in a
// cell requeues it so its own neighbours are re-examined (AC-3 style).
//
// If obs.Pattern was not a candidate of the cell, or any superposition becomes
// empty along the way, propagation stops and returns Contradicted; the wave is
// then terminal. The returned error is reserved for misuse: ErrTerminal,
// ErrOutOfBounds, pattern.ErrUnknownPattern.
func (w *Wave) PropagateByUpdatingSuperposition(obs Observation) (Outcome, error) {
	if w.contradicted {
		return Contradicted, ErrTerminal
	}
	if err := w.checkObservation(obs); err != nil {
		return Propagated, err
	}

	idx := w.grid.Index(obs.X, obs.Y)
	prior := w.cells[idx]
	if w.pending != nil {
		if w.pending.index == idx {
			prior = w.pending.domain
			w.pending = nil
		} else {
			w.restorePending()
		}
	}
	w.propagations++

	fixed := pattern.NewBitset(w.lib.Len())
	if prior.Has(obs.Pattern) {
		fixed.Set(obs.Pattern)
	}
	w.setCell(idx, fixed)
	if fixed.Empty() {
		w.contradicted = true

		return Contradicted, nil
	}

	d := domains{cells: w.cells, sizes: w.sizes}
	ok := w.fixpoint(d, idx, func(i, before int) {
		w.entropy[i] = entropyOf(w.lib, w.cells[i])
		w.trackResolved(before, w.sizes[i])
	})
	if !ok {
		w.contradicted = true

		return Contradicted, nil
	}

	return Propagated, nil
}

// CheckIfPropagateWithoutContradiction reports whether propagating obs would
// keep every superposition non-empty. It runs the same fixpoint as
// PropagateByUpdatingSuperposition on a scratch copy and never mutates the wave.
// Invalid observations and terminal waves report false.
func (w *Wave) CheckIfPropagateWithoutContradiction(obs Observation) bool {
	if w.contradicted || w.checkObservation(obs) != nil {
		return false
	}
	idx := w.grid.Index(obs.X, obs.Y)

	prior := w.cells[idx]
	if w.pending != nil && w.pending.index == idx {
		prior = w.pending.domain
	}
	if !prior.Has(obs.Pattern) {
		return false
	}

	d := domains{
		cells: make([]pattern.Bitset, len(w.cells)),
		sizes: make([]int, len(w.sizes)),
	}
	for i, c := range w.cells {
		d.cells[i] = c.Copy()
	}
	copy(d.sizes, w.sizes)
	if w.pending != nil && w.pending.index != idx {
		d.cells[w.pending.index] = w.pending.domain.Copy()
		d.sizes[w.pending.index] = w.pending.domain.Count()
	}

	fixed := pattern.NewBitset(w.lib.Len())
	fixed.Set(obs.Pattern)
	d.cells[idx] = fixed
	d.sizes[idx] = 1

	return w.fixpoint(d, idx, nil)
}

func (w *Wave) checkObservation(obs Observation) error {
	if !w.grid.InBounds(obs.X, obs.Y) {
		return fmt.Errorf("(%d,%d) on %d×%d: %w", obs.X, obs.Y, w.grid.Width, w.grid.Height, ErrOutOfBounds)
	}
	if int(obs.Pattern) < 0 || int(obs.Pattern) >= w.lib.Len() {
		return fmt.Errorf("pattern %d: %w", obs.Pattern, pattern.ErrUnknownPattern)
	}

	return nil
}

// fixpoint runs the worklist from start until no domain changes. changed, if
// non-nil, is called after each shrink with the cell index and its prior size.
// Returns false as soon as a domain becomes empty.
//
// Revising v against a changed neighbour u keeps p ∈ D(v) only if some
// q ∈ D(u) admits p at offset (v − u): D(v) ∩= ∪ Agrees(k, q) over q ∈ D(u).
func (w *Wave) fixpoint(d domains, start int, changed func(i, before int)) bool {
	offsets := w.lib.Offsets()
	queue := append(w.queue[:0], start)
	w.queued[start] = true
	defer func() {
		for _, i := range queue {
			w.queued[i] = false
		}
		w.queue = queue[:0]
	}()

	sup := w.support
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		w.queued[u] = false
		ux, uy := w.grid.Coordinate(u)
		du := d.cells[u]

		for k, off := range offsets {
			vx, vy := ux+off.DX, uy+off.DY
			if !w.grid.InBounds(vx, vy) {
				continue
			}
			v := w.grid.Index(vx, vy)

			sup.Reset()
			du.ForEach(func(q pattern.ID) { sup.Or(w.lib.Agrees(k, q)) })
			if !d.cells[v].And(sup) {
				continue
			}
			before := d.sizes[v]
			after := d.cells[v].Count()
			d.sizes[v] = after
			if changed != nil {
				changed(v, before)
			}
			if after == 0 {
				return false
			}
			if !w.queued[v] {
				w.queued[v] = true
				queue = append(queue, v)
			}
		}
	}

	return true
}
