// Package grid defines coordinates, cell kinds and sentinel errors
// for the grid subpackage of github.com/katalvlaran/astarviz.
package grid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for grid operations.
var (
	// ErrBadSize indicates a grid side length smaller than one cell.
	ErrBadSize = errors.New("grid: size must be at least 1")
	// ErrOutOfBounds indicates a coordinate outside the grid.
	ErrOutOfBounds = errors.New("grid: coordinate out of bounds")
)

// DefaultSize is the side length used by the interactive front ends.
const DefaultSize = 50

// Kind classifies a cell. The kinds are mutually exclusive.
type Kind uint8

const (
	// Free cells can be walked through.
	Free Kind = iota
	// Blocked cells are impassable.
	Blocked
	// Start marks the search origin.
	Start
	// Goal marks the search target.
	Goal
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case Free:
		return "free"
	case Blocked:
		return "blocked"
	case Start:
		return "start"
	case Goal:
		return "goal"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Coord identifies a cell by 0-indexed row and column.
type Coord struct {
	Row, Col int
}

// String formats the coordinate as "(row,col)".
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Manhattan returns |a.Row-b.Row| + |a.Col-b.Col|.
func Manhattan(a, b Coord) int {
	return abs(a.Row-b.Row) + abs(a.Col-b.Col)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// neighborOffsets is the fixed expansion order: Down, Up, Right, Left.
// Search tie-breaking depends on it.
var neighborOffsets = [4]Coord{
	{Row: 1, Col: 0},
	{Row: -1, Col: 0},
	{Row: 0, Col: 1},
	{Row: 0, Col: -1},
}

// Grid is an N×N board of cells with a cached neighbor relation.
// The zero value is not usable; construct with New.
type Grid struct {
	n         int
	kinds     []Kind    // row-major, len n*n
	neighbors [][]Coord // row-major cache, rebuilt by RefreshNeighbors
}

// ParseCoord parses "row,col", as used on command lines and in URLs.
// Surrounding spaces are ignored. Bounds are not checked.
func ParseCoord(s string) (Coord, error) {
	rs, cs, ok := strings.Cut(s, ",")
	if !ok {
		return Coord{}, fmt.Errorf("grid: want row,col, got %q", s)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rs))
	if err != nil {
		return Coord{}, fmt.Errorf("grid: bad row in %q", s)
	}
	col, err := strconv.Atoi(strings.TrimSpace(cs))
	if err != nil {
		return Coord{}, fmt.Errorf("grid: bad col in %q", s)
	}
	return Coord{Row: row, Col: col}, nil
}
