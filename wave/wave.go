package wave

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/katalvlaran/wavecollapse/grid"
	"github.com/katalvlaran/wavecollapse/pattern"
)

// entropyTol is the absolute tolerance under which two entropies are a tie.
const entropyTol = 1e-12

// pending is an observation that has collapsed a cell but not yet been propagated.
type pending struct {
	index  int
	domain pattern.Bitset
}

// Wave is the grid of cell superpositions for one attempt.
type Wave struct {
	lib  *pattern.Library
	grid grid.Grid
	rng  *rand.Rand

	cells   []pattern.Bitset // row-major superpositions
	sizes   []int            // cached Count() of each cell
	entropy []float64        // cached Shannon entropy of each cell

	resolved     int // cells with size == 1
	contradicted bool
	pending      *pending
	propagations int

	ties    []int          // scratch for Observe
	support pattern.Bitset // scratch for propagation
	queue   []int          // scratch worklist for propagation
	queued  []bool
}

// New returns a Wave with every cell superposed over the whole library.
//
// Errors: ErrNilLibrary, ErrNilRand, grid.ErrEmptyGrid, ErrFootprint.
// Complexity: O(W·H·P/64).
func New(lib *pattern.Library, width, height int, rng *rand.Rand) (*Wave, error) {
	if lib == nil {
		return nil, ErrNilLibrary
	}
	if rng == nil {
		return nil, ErrNilRand
	}
	g, err := grid.New(width, height)
	if err != nil {
		return nil, err
	}
	if lib.N() > width || lib.N() > height {
		return nil, fmt.Errorf("New: N=%d on %d×%d: %w", lib.N(), width, height, ErrFootprint)
	}

	total := g.Len()
	full := pattern.FullBitset(lib.Len())
	h := entropyOf(lib, full)
	w := &Wave{
		lib:     lib,
		grid:    g,
		rng:     rng,
		cells:   make([]pattern.Bitset, total),
		sizes:   make([]int, total),
		entropy: make([]float64, total),
		queued:  make([]bool, total),
		support: pattern.NewBitset(lib.Len()),
	}
	for i := range w.cells {
		w.cells[i] = full.Copy()
		w.sizes[i] = lib.Len()
		w.entropy[i] = h
	}
	if lib.Len() == 1 {
		w.resolved = total
	}

	return w, nil
}

// entropyOf returns ln(Σw) − Σ(w·ln w)/Σw over the members of set.
// Empty and singleton sets have entropy 0. Weights are scaled by the set's
// maximum first, so the sums stay finite for any valid weights.
func entropyOf(lib *pattern.Library, set pattern.Bitset) float64 {
	top, n := heaviest(lib, set)
	if n < 2 {
		return 0
	}
	var sum, sumLog float64
	set.ForEach(func(id pattern.ID) {
		w := lib.Weight(id) / top
		sum += w
		if w > 0 {
			sumLog += w * math.Log(w)
		}
	})

	return math.Log(sum) - sumLog/sum
}

// heaviest returns the largest weight in set and the set's size.
func heaviest(lib *pattern.Library, set pattern.Bitset) (float64, int) {
	top, n := 0.0, 0
	set.ForEach(func(id pattern.ID) {
		top = math.Max(top, lib.Weight(id))
		n++
	})

	return top, n
}

// Width returns the number of columns.
func (w *Wave) Width() int { return w.grid.Width }

// Height returns the number of rows.
func (w *Wave) Height() int { return w.grid.Height }

// IsCollapsed reports whether every cell holds exactly one pattern.
func (w *Wave) IsCollapsed() bool {
	return !w.contradicted && w.resolved == len(w.cells)
}

// Contradiction reports whether some cell has no candidate left.
func (w *Wave) Contradiction() bool {
	return w.contradicted
}

// Propagations returns the number of committed propagation calls.
func (w *Wave) Propagations() int { return w.propagations }

// Size returns the number of candidates left at (x,y), or -1 outside the grid.
func (w *Wave) Size(x, y int) int {
	if !w.grid.InBounds(x, y) {
		return -1
	}

	return w.sizes[w.grid.Index(x, y)]
}

// Domain returns the candidates left at (x,y) in ascending ID order,
// or nil outside the grid.
func (w *Wave) Domain(x, y int) []pattern.ID {
	if !w.grid.InBounds(x, y) {
		return nil
	}

	return w.cells[w.grid.Index(x, y)].IDs()
}

// Observe collapses the open cell of minimum entropy to one pattern drawn
// with probability proportional to weight. Entropy ties are broken uniformly
// at random. Only the chosen cell changes.
//
// The chosen cell's previous superposition is remembered until the next
// propagation. Calling Observe again before propagating first restores it,
// so repeated observations resample instead of stacking unpropagated
// collapses.
//
// Errors: ErrTerminal if the wave is contradicted or already collapsed.
// Complexity: O(W·H + P).
func (w *Wave) Observe() (Observation, error) {
	if w.contradicted {
		return Observation{}, ErrTerminal
	}
	w.restorePending()
	if w.resolved == len(w.cells) {
		return Observation{}, ErrTerminal
	}

	best := math.Inf(1)
	w.ties = w.ties[:0]
	for i, s := range w.sizes {
		if s < 2 {
			continue
		}
		e := w.entropy[i]
		switch {
		case e < best-entropyTol:
			best = e
			w.ties = append(w.ties[:0], i)
		case e <= best+entropyTol:
			w.ties = append(w.ties, i)
		}
	}

	if len(w.ties) == 0 {
		// Only NaN entropies leave no candidate: take the first open cell.
		for i, s := range w.sizes {
			if s > 1 {
				w.ties = append(w.ties, i)
				break
			}
		}
	}
	idx := w.ties[0]
	if len(w.ties) > 1 {
		idx = w.ties[w.rng.Intn(len(w.ties))]
	}
	id := w.draw(w.cells[idx])

	w.pending = &pending{index: idx, domain: w.cells[idx]}
	single := pattern.NewBitset(w.lib.Len())
	single.Set(id)
	w.setCell(idx, single)

	x, y := w.grid.Coordinate(idx)

	return Observation{X: x, Y: y, Pattern: id}, nil
}

// draw samples one member of set proportionally to its weight.
func (w *Wave) draw(set pattern.Bitset) pattern.ID {
	top, _ := heaviest(w.lib, set)
	var total float64
	set.ForEach(func(id pattern.ID) { total += w.lib.Weight(id) / top })

	r := w.rng.Float64() * total
	chosen, last := pattern.ID(-1), pattern.ID(-1)
	set.ForEach(func(id pattern.ID) {
		rel := w.lib.Weight(id) / top
		if rel > 0 {
			last = id
		}
		if chosen >= 0 {
			return
		}
		r -= rel
		if r < 0 {
			chosen = id
		}
	})
	if chosen < 0 {
		// Float rounding left r marginally ≥ 0: take the last drawable member.
		chosen = last
	}

	return chosen
}

// setCell replaces the superposition at idx and refreshes the caches.
func (w *Wave) setCell(idx int, set pattern.Bitset) {
	before := w.sizes[idx]
	after := set.Count()
	w.cells[idx] = set
	w.sizes[idx] = after
	w.entropy[idx] = entropyOf(w.lib, set)
	w.trackResolved(before, after)
}

func (w *Wave) trackResolved(before, after int) {
	if before == 1 && after != 1 {
		w.resolved--
	}
	if before != 1 && after == 1 {
		w.resolved++
	}
}

// restorePending undoes an unpropagated observation.
func (w *Wave) restorePending() {
	if w.pending == nil {
		return
	}
	p := w.pending
	w.pending = nil
	w.setCell(p.index, p.domain)
}

// PossibleCounts returns the number of candidates left per cell, indexed [y][x].
func (w *Wave) PossibleCounts() [][]int {
	out := make([][]int, w.grid.Height)
	for y := range out {
		row := make([]int, w.grid.Width)
		copy(row, w.sizes[y*w.grid.Width:(y+1)*w.grid.Width])
		out[y] = row
	}

	return out
}

// CollapsedCounts returns, per pattern ID, how many cells are resolved to it.
func (w *Wave) CollapsedCounts() []int {
	counts := make([]int, w.lib.Len())
	for i, s := range w.sizes {
		if s != 1 {
			continue
		}
		if id, ok := w.cells[i].Single(); ok {
			counts[id]++
		}
	}

	return counts
}

// Labels returns the resolved pattern ID per cell, indexed [y][x];
// LabelUnresolved or LabelContradicted for the other cells.
func (w *Wave) Labels() [][]int {
	out := make([][]int, w.grid.Height)
	for y := range out {
		row := make([]int, w.grid.Width)
		for x := range row {
			i := w.grid.Index(x, y)
			switch s := w.sizes[i]; {
			case s == 0:
				row[x] = LabelContradicted
			case s == 1:
				id, _ := w.cells[i].Single()
				row[x] = int(id)
			default:
				row[x] = LabelUnresolved
			}
		}
		out[y] = row
	}

	return out
}

// Visualise projects the grid onto collapsed, uncollapsed and contradicted
// positions. It never mutates the wave.
func (w *Wave) Visualise() Projection {
	var p Projection
	for i, s := range w.sizes {
		x, y := w.grid.Coordinate(i)
		switch {
		case s == 0:
			p.Contradicted = append(p.Contradicted, grid.Point{X: x, Y: y})
		case s == 1:
			id, _ := w.cells[i].Single()
			p.Collapsed = append(p.Collapsed, Tile{X: x, Y: y, Pattern: id, Content: w.lib.Content(id)})
		default:
			p.Uncollapsed = append(p.Uncollapsed, grid.Point{X: x, Y: y})
		}
	}

	return p
}
