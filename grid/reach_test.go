package grid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/astarviz/grid"
)

// wall builds an n×n grid with the listed cells Blocked.
func wall(t *testing.T, n int, blocked ...grid.Coord) *grid.Grid {
	t.Helper()
	g, err := grid.New(n)
	require.NoError(t, err)
	for _, c := range blocked {
		require.NoError(t, g.SetKind(c, grid.Blocked))
	}
	g.RefreshNeighbors()
	return g
}

// TestDistances_Open checks that an open grid yields Manhattan distances.
func TestDistances_Open(t *testing.T) {
	g := wall(t, 4)
	from := grid.Coord{Row: 1, Col: 2}
	dist := g.Distances(from)
	require.Len(t, dist, 16)
	for c, d := range dist {
		assert.Equal(t, grid.Manhattan(from, c), d, "distance to %s", c)
	}
}

// TestDistances_Wall verifies detours around a wall and unreachable cells.
func TestDistances_Wall(t *testing.T) {
	// . # .
	// . # .
	// . . .
	g := wall(t, 3, grid.Coord{0, 1}, grid.Coord{1, 1})
	dist := g.Distances(grid.Coord{Row: 0, Col: 0})
	assert.Equal(t, 6, dist[grid.Coord{Row: 0, Col: 2}])
	_, ok := dist[grid.Coord{Row: 0, Col: 1}]
	assert.False(t, ok, "blocked cell must not be reached")

	assert.Empty(t, g.Distances(grid.Coord{Row: 0, Col: 1}), "blocked origin")
}

// TestReachable covers a sealed-off corner.
func TestReachable(t *testing.T) {
	g := wall(t, 3, grid.Coord{1, 2}, grid.Coord{2, 1})
	assert.True(t, g.Reachable(grid.Coord{0, 0}, grid.Coord{1, 1}))
	assert.False(t, g.Reachable(grid.Coord{0, 0}, grid.Coord{2, 2}))
}

// TestComponents finds the open regions split by a full wall column.
func TestComponents(t *testing.T) {
	g := wall(t, 3, grid.Coord{0, 1}, grid.Coord{1, 1}, grid.Coord{2, 1})
	comps := g.Components()
	require.Len(t, comps, 2)
	assert.ElementsMatch(t, []grid.Coord{{0, 0}, {1, 0}, {2, 0}}, comps[0])
	assert.ElementsMatch(t, []grid.Coord{{0, 2}, {1, 2}, {2, 2}}, comps[1])
}
