package history

import (
	"github.com/katalvlaran/wavecollapse/grid"
	"github.com/katalvlaran/wavecollapse/wave"
)

// Element is one snapshot of a wave.
type Element struct {
	// Step is the number of committed propagations when the snapshot was taken.
	Step int
	// Width and Height are the grid dimensions.
	Width, Height int

	Collapsed    []wave.Tile
	Uncollapsed  []grid.Point
	Contradicted []grid.Point

	// Possible holds the candidate count per cell, indexed [y][x].
	Possible [][]int
	// Labels holds the resolved pattern per cell, or wave.LabelUnresolved /
	// wave.LabelContradicted, indexed [y][x].
	Labels [][]int
	// Counts holds, per pattern ID, the number of cells resolved to it.
	Counts []int
}

// Capture snapshots w. The result shares no memory with the wave.
func Capture(w *wave.Wave, step int) Element {
	p := w.Visualise()

	return Element{
		Step:         step,
		Width:        w.Width(),
		Height:       w.Height(),
		Collapsed:    p.Collapsed,
		Uncollapsed:  p.Uncollapsed,
		Contradicted: p.Contradicted,
		Possible:     w.PossibleCounts(),
		Labels:       w.Labels(),
		Counts:       w.CollapsedCounts(),
	}
}

// IsCollapsed reports whether every cell of the snapshot is resolved.
func (e Element) IsCollapsed() bool {
	return len(e.Uncollapsed) == 0 && len(e.Contradicted) == 0 && len(e.Collapsed) > 0
}

// Regions groups resolved cells into connected regions of the same pattern.
// Unresolved and contradicted cells belong to no region.
func (e Element) Regions(conn grid.Connectivity) ([][]int, error) {
	g, err := grid.New(e.Width, e.Height)
	if err != nil {
		return nil, err
	}

	return g.Regions(e.Labels, conn)
}
