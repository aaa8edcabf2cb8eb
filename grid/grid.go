package grid

import "fmt"

// Connectivity selects neighbor connectivity: orthogonal (Conn4) or including diagonals (Conn8).
type Connectivity int

const (
	// Conn4 uses 4-directional connectivity: N, E, S, W.
	Conn4 Connectivity = iota
	// Conn8 uses 8-directional connectivity: N, NE, E, SE, S, SW, W, NW.
	Conn8
)

var (
	offsets4 = [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}
	offsets8 = [][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}
)

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// String renders the point as "x,y".
func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Grid is an immutable Width×Height rectangle of cells addressed row-major.
type Grid struct {
	Width, Height int
}

// New returns a Grid of the given size.
// Returns ErrEmptyGrid if either dimension is below 1.
func New(width, height int) (Grid, error) {
	if width < 1 || height < 1 {
		return Grid{}, fmt.Errorf("New(%d,%d): %w", width, height, ErrEmptyGrid)
	}

	return Grid{Width: width, Height: height}, nil
}

// Len returns the number of cells.
func (g Grid) Len() int {
	return g.Width * g.Height
}

// InBounds reports whether (x,y) lies within the grid boundaries.
// Complexity: O(1).
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// Index maps (x,y) to a row‑major index: y*Width + x.
// Complexity: O(1).
func (g Grid) Index(x, y int) int {
	return y*g.Width + x
}

// Coordinate converts a row‑major index back to (x,y).
// Complexity: O(1).
func (g Grid) Coordinate(idx int) (x, y int) {
	return idx % g.Width, idx / g.Width
}

// NeighborOffsets returns the unit offsets for conn.
// The slice is shared; do not modify.
func NeighborOffsets(conn Connectivity) [][2]int {
	if conn == Conn8 {
		return offsets8
	}

	return offsets4
}
