package wave

import (
	"errors"

	"github.com/katalvlaran/wavecollapse/grid"
	"github.com/katalvlaran/wavecollapse/pattern"
)

// Sentinel errors for wave operations.
var (
	// ErrNilLibrary indicates New was called without a pattern library.
	ErrNilLibrary = errors.New("wave: pattern library is nil")
	// ErrNilRand indicates New was called without a random source.
	ErrNilRand = errors.New("wave: random source is nil")
	// ErrFootprint indicates a pattern footprint larger than the grid.
	ErrFootprint = errors.New("wave: pattern footprint exceeds grid dimensions")
	// ErrTerminal indicates an operation on a collapsed or contradicted wave.
	ErrTerminal = errors.New("wave: wave is already collapsed or contradicted")
	// ErrOutOfBounds indicates an observation outside the grid.
	ErrOutOfBounds = errors.New("wave: observation outside the grid")
)

// Outcome is the result of a propagation.
type Outcome int

const (
	// Propagated means propagation reached a fixpoint with every domain non-empty.
	Propagated Outcome = iota
	// Contradicted means some cell lost its last candidate; the wave is now terminal.
	Contradicted
)

// String returns a lowercase name for logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case Propagated:
		return "propagated"
	case Contradicted:
		return "contradicted"
	default:
		return "unknown"
	}
}

// Label values reported by Labels for cells that are not resolved to one pattern.
const (
	// LabelUnresolved marks a cell with two or more candidates.
	LabelUnresolved = -1
	// LabelContradicted marks a cell with no candidate left.
	LabelContradicted = -2
)

// Observation is a cell chosen by Observe together with the pattern drawn for it.
type Observation struct {
	X, Y    int
	Pattern pattern.ID
}

// Tile is a collapsed cell with its resolved pattern and content.
type Tile struct {
	X, Y    int
	Pattern pattern.ID
	Content any
}

// Projection splits the grid into three disjoint position sets.
// Cells appear in row-major order within each set.
type Projection struct {
	Collapsed    []Tile
	Uncollapsed  []grid.Point
	Contradicted []grid.Point
}
