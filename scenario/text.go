package scenario

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/katalvlaran/astarviz/grid"
)

// Cell characters of the text format.
const (
	charFree    = '.'
	charBlocked = '#'
	charStart   = 'S'
	charGoal    = 'G'
	charComment = ';'
)

// ParseText reads a square text map. Blank lines and ';' comments are skipped.
// At most one 'S' and one 'G' are accepted.
func ParseText(r io.Reader) (*grid.Grid, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)
	var rows []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line == "" || line[0] == charComment {
			continue
		}
		rows = append(rows, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scenario: reading map: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty map", ErrMalformed)
	}

	n := len(rows)
	g, err := grid.New(n)
	if err != nil {
		return nil, err
	}
	var starts, goals int
	for r, row := range rows {
		if len([]rune(row)) != n {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, r, len([]rune(row)), n)
		}
		for c, ch := range []rune(row) {
			var k grid.Kind
			switch ch {
			case charFree:
				k = grid.Free
			case charBlocked:
				k = grid.Blocked
			case charStart:
				k = grid.Start
				starts++
			case charGoal:
				k = grid.Goal
				goals++
			default:
				return nil, fmt.Errorf("%w: unexpected %q at row %d col %d", ErrMalformed, ch, r, c)
			}
			_ = g.SetKind(grid.Coord{Row: r, Col: c}, k)
		}
	}
	if starts > 1 || goals > 1 {
		return nil, fmt.Errorf("%w: %d starts and %d goals, want at most one each", ErrMalformed, starts, goals)
	}
	g.RefreshNeighbors()

	return g, nil
}

// Render returns the text-map form of g, one line per row, each line ending
// in a newline. ParseText(Render(g)) reproduces g.
func Render(g *grid.Grid) string {
	var b strings.Builder
	n := g.Size()
	b.Grow(n * (n + 1))
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			b.WriteRune(kindChar(g.Kind(grid.Coord{Row: r, Col: c})))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderPath is Render with path cells (other than Start and Goal) drawn as '*'.
func RenderPath(g *grid.Grid, path []grid.Coord) string {
	onPath := make(map[grid.Coord]bool, len(path))
	for _, c := range path {
		onPath[c] = true
	}
	var b strings.Builder
	n := g.Size()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			at := grid.Coord{Row: r, Col: c}
			k := g.Kind(at)
			if onPath[at] && k == grid.Free {
				b.WriteByte('*')
				continue
			}
			b.WriteRune(kindChar(k))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func kindChar(k grid.Kind) rune {
	switch k {
	case grid.Blocked:
		return charBlocked
	case grid.Start:
		return charStart
	case grid.Goal:
		return charGoal
	default:
		return charFree
	}
}
