package scenario

import (
	"fmt"
	"math/rand"

	"github.com/katalvlaran/astarviz/grid"
)

// maxAttempts bounds the reseeding loop when Solvable is requested.
const maxAttempts = 64

// RandomOptions configures Random.
type RandomOptions struct {
	// Size is the grid side length.
	Size int
	// Density in [0,1] is the chance that a random-walk step drops a wall.
	Density float64
	// Clusters is the number of random walks; 0 picks Size/5+1.
	Clusters int
	// Steps is the length of each walk; 0 picks Size*4.
	Steps int
	// Seed makes layouts reproducible.
	Seed int64
	// Start and Goal are kept free and painted on the result.
	Start, Goal grid.Coord
	// Solvable reseeds (Seed+1, Seed+2, …) until Goal is reachable from Start.
	Solvable bool
}

// Random builds a grid with clustered walls laid by random walks.
func Random(opts RandomOptions) (*grid.Grid, error) {
	switch {
	case opts.Size < 2:
		return nil, fmt.Errorf("%w: size %d", ErrBadRandom, opts.Size)
	case opts.Density < 0 || opts.Density > 1:
		return nil, fmt.Errorf("%w: density %v outside [0,1]", ErrBadRandom, opts.Density)
	case opts.Start == opts.Goal:
		return nil, fmt.Errorf("%w: start and goal are both %s", ErrBadRandom, opts.Start)
	}
	if opts.Clusters == 0 {
		opts.Clusters = opts.Size/5 + 1
	}
	if opts.Steps == 0 {
		opts.Steps = opts.Size * 4
	}

	for attempt := int64(0); attempt < maxAttempts; attempt++ {
		g, err := grid.New(opts.Size)
		if err != nil {
			return nil, err
		}
		if !g.InBounds(opts.Start) || !g.InBounds(opts.Goal) {
			return nil, fmt.Errorf("%w: endpoints %s %s outside %d×%d", ErrBadRandom, opts.Start, opts.Goal, opts.Size, opts.Size)
		}
		walls(g, rand.New(rand.NewSource(opts.Seed+attempt)), opts)
		_ = g.SetKind(opts.Start, grid.Start)
		_ = g.SetKind(opts.Goal, grid.Goal)
		g.RefreshNeighbors()
		if !opts.Solvable || g.Reachable(opts.Start, opts.Goal) {
			return g, nil
		}
	}

	return nil, fmt.Errorf("%w: no solvable layout after %d attempts", ErrBadRandom, maxAttempts)
}

// walls lays opts.Clusters random walks of opts.Steps moves each.
func walls(g *grid.Grid, rng *rand.Rand, opts RandomOptions) {
	dirs := [4]grid.Coord{{Row: 1}, {Row: -1}, {Col: 1}, {Col: -1}}
	n := g.Size()
	for c := 0; c < opts.Clusters; c++ {
		p := grid.Coord{Row: rng.Intn(n), Col: rng.Intn(n)}
		for s := 0; s < opts.Steps; s++ {
			if rng.Float64() < opts.Density && p != opts.Start && p != opts.Goal {
				_ = g.SetKind(p, grid.Blocked)
			}
			d := dirs[rng.Intn(len(dirs))]
			np := grid.Coord{Row: p.Row + d.Row, Col: p.Col + d.Col}
			if g.InBounds(np) {
				p = np
			}
		}
	}
}
