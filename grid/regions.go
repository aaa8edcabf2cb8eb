package grid

import "fmt"

// Regions finds all contiguous areas of cells sharing the same non-negative
// label, according to conn. labels is indexed [y][x]; negative labels mark
// cells that belong to no region (unresolved or contradictory).
//
// Returns one slice of row-major indices per region, in scan order of the
// region's first cell; indices inside a region are in BFS order.
// To convert an index back to (x,y), use Coordinate.
//
// Time:   O(W·H·d), where d = 4 or 8.
// Memory: O(W·H) for visited flags and output.
func (g Grid) Regions(labels [][]int, conn Connectivity) ([][]int, error) {
	if len(labels) != g.Height {
		return nil, fmt.Errorf("Regions: %d rows for height %d: %w", len(labels), g.Height, ErrLabelsShape)
	}
	for y, row := range labels {
		if len(row) != g.Width {
			return nil, fmt.Errorf("Regions: row %d has %d cells for width %d: %w", y, len(row), g.Width, ErrLabelsShape)
		}
	}

	seen := make([]bool, g.Len())
	offsets := NeighborOffsets(conn)
	var regions [][]int

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			label := labels[y][x]
			if label < 0 {
				continue
			}
			i0 := g.Index(x, y)
			if seen[i0] {
				continue
			}
			// BFS to collect region
			queue := []int{i0}
			seen[i0] = true

			for qi := 0; qi < len(queue); qi++ {
				ux, uy := g.Coordinate(queue[qi])
				for _, d := range offsets {
					vx, vy := ux+d[0], uy+d[1]
					if !g.InBounds(vx, vy) || labels[vy][vx] != label {
						continue
					}
					vi := g.Index(vx, vy)
					if !seen[vi] {
						seen[vi] = true
						queue = append(queue, vi)
					}
				}
			}
			regions = append(regions, queue)
		}
	}

	return regions, nil
}
