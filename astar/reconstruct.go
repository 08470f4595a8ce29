package astar

import "github.com/katalvlaran/astarviz/grid"

// ReconstructPath follows predecessor links from terminal until it reaches a
// node with no predecessor (the start) and returns the nodes start → terminal
// inclusive. cameFrom is not modified.
//
// cameFrom must be acyclic, which holds for any map built by a search: every
// predecessor has a strictly lower g-score than its successor.
// Complexity: O(path length).
func ReconstructPath(cameFrom map[grid.Coord]grid.Coord, terminal grid.Coord) []grid.Coord {
	path := []grid.Coord{terminal}
	for cur := terminal; ; {
		prev, ok := cameFrom[cur]
		if !ok {
			break
		}
		path = append(path, prev)
		cur = prev
	}
	// reverse to get start → terminal
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path
}
