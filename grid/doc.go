// Package grid models a square board of cells as a graph for
// four-directional, unit-cost path search.
//
// What:
//
//   - Grid is an N×N matrix of cells, each Free, Blocked, Start or Goal.
//   - Neighbors are the up-to-4 orthogonal in-bounds cells that are not
//     Blocked, always reported in the order Down, Up, Right, Left.
//   - The neighbor relation is cached and rebuilt by RefreshNeighbors.
//   - Cells carry no search state, so one Grid serves any number of searches.
//
// Why:
//
//   - Path-finding demos: paint walls, place endpoints, rerun.
//   - Reachability checks before running a heuristic search (Distances).
//   - Region analysis of open space (Components).
//
// Complexity:
//
//   - New, Clear, Snapshot:  O(N²) time and memory.
//   - RefreshNeighbors:      O(N²), memory O(N²) for the cached lists.
//   - Neighbors, Kind, SetKind, InBounds: O(1).
//   - Distances, Components: O(N²) time, O(N²) memory.
//
// Errors:
//
//   - ErrBadSize:     requested size is smaller than 1.
//   - ErrOutOfBounds: a coordinate lies outside the grid.
//
// Editing:
//
// Paint and Erase reproduce the classic point-and-click editor: the first
// painted cell becomes Start, the second Goal, the rest are walls; erasing a
// cell frees it and forgets Start or Goal if it was one. SetKind is the raw
// setter and leaves the "at most one Start, at most one Goal" rule to the caller.
package grid
