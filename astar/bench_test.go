package astar_test

import (
	"math/rand"
	"testing"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
)

// BenchmarkRun_Open measures a corner-to-corner search on an open 50×50 grid.
func BenchmarkRun_Open(b *testing.B) {
	g, err := grid.New(grid.DefaultSize)
	if err != nil {
		b.Fatalf("setup New failed: %v", err)
	}
	goal := grid.Coord{Row: grid.DefaultSize - 1, Col: grid.DefaultSize - 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = astar.Run(g, grid.Coord{}, goal)
	}
}

// BenchmarkRun_Random measures a 200×200 grid with ~30% random walls.
func BenchmarkRun_Random(b *testing.B) {
	const n = 200
	rng := rand.New(rand.NewSource(42))
	g, err := grid.New(n)
	if err != nil {
		b.Fatalf("setup New failed: %v", err)
	}
	start, goal := grid.Coord{}, grid.Coord{Row: n - 1, Col: n - 1}
	for i := 0; i < n*n; i++ {
		c := g.Coordinate(i)
		if c != start && c != goal && rng.Intn(10) < 3 {
			_ = g.SetKind(c, grid.Blocked)
		}
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = astar.Run(g, start, goal)
	}
}
