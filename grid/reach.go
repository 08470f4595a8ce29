package grid

// Distances floods outward from `from` over non-Blocked cells and returns the
// hop count to every reachable cell, `from` included at distance 0.
// It reads kinds directly and does not depend on the neighbor cache.
// A Blocked or out-of-bounds origin yields an empty map.
//
// Time:   O(N²).
// Memory: O(N²) for the queue and result.
func (g *Grid) Distances(from Coord) map[Coord]int {
	dist := make(map[Coord]int)
	if g.Kind(from) == Blocked {
		return dist
	}
	dist[from] = 0
	queue := []Coord{from}
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, d := range neighborOffsets {
			v := Coord{Row: u.Row + d.Row, Col: u.Col + d.Col}
			if g.Kind(v) == Blocked {
				continue
			}
			if _, seen := dist[v]; seen {
				continue
			}
			dist[v] = dist[u] + 1
			queue = append(queue, v)
		}
	}

	return dist
}

// Reachable reports whether a non-Blocked path joins a and b.
func (g *Grid) Reachable(a, b Coord) bool {
	_, ok := g.Distances(a)[b]
	return ok
}

// Components finds all connected regions of non-Blocked cells under
// 4-connectivity. Regions are listed in row-major order of their first cell;
// cells within a region appear in discovery order.
//
// Time:   O(N²).
// Memory: O(N²) for visited flags and output.
func (g *Grid) Components() [][]Coord {
	seen := make([]bool, len(g.kinds))
	var comps [][]Coord

	for i0, k := range g.kinds {
		if k == Blocked || seen[i0] {
			continue
		}
		seen[i0] = true
		queue := []int{i0}
		var comp []Coord
		for qi := 0; qi < len(queue); qi++ {
			u := g.Coordinate(queue[qi])
			comp = append(comp, u)
			for _, d := range neighborOffsets {
				v := Coord{Row: u.Row + d.Row, Col: u.Col + d.Col}
				if g.Kind(v) == Blocked {
					continue
				}
				vi := g.Index(v)
				if !seen[vi] {
					seen[vi] = true
					queue = append(queue, vi)
				}
			}
		}
		comps = append(comps, comp)
	}

	return comps
}
