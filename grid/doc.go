// Package grid provides the rectangular cell geometry shared by the
// wave-function-collapse engine and its snapshots.
//
// What:
//
//   - Grid fixes Width and Height and maps (x,y) to row-major indices and back.
//   - Regions labels contiguous areas of equal non-negative values,
//     e.g. cells resolved to the same pattern in a finished wave.
//
// Complexity:
//
//   - InBounds, Index, Coordinate: O(1).
//   - Regions: O(W×H×d), Memory: O(W×H)   (d = 4 or 8 neighbors).
//
// Options:
//
//   - Conn4 (N, E, S, W) or Conn8 (adds diagonals) for Regions.
//
// Errors:
//
//   - ErrEmptyGrid: width or height below 1.
//   - ErrLabelsShape: labels slice does not match the grid.
package grid
