package scenario

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/astarviz/grid"
)

// File is the YAML document layout. The same field names are used when a grid
// travels as JSON.
type File struct {
	Size      int      `yaml:"size" json:"size"`
	Start     *[2]int  `yaml:"start,omitempty" json:"start,omitempty"`
	Goal      *[2]int  `yaml:"goal,omitempty" json:"goal,omitempty"`
	Obstacles [][2]int `yaml:"obstacles,omitempty" json:"obstacles"`
	Map       string   `yaml:"map,omitempty" json:"map,omitempty"`
}

// ParseYAML decodes a YAML scenario. When "map" is set it wins over size and
// obstacles; start and goal, if given, are painted on top of either form.
func ParseYAML(r io.Reader) (*grid.Grid, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return f.Grid()
}

// Grid builds the grid described by f.
func (f File) Grid() (*grid.Grid, error) {
	var (
		g   *grid.Grid
		err error
	)
	if strings.TrimSpace(f.Map) != "" {
		g, err = ParseText(strings.NewReader(f.Map))
	} else {
		g, err = grid.New(f.Size)
	}
	if err != nil {
		return nil, err
	}

	for _, o := range f.Obstacles {
		c := coord(o)
		if g.InBounds(c) && (g.Kind(c) == grid.Start || g.Kind(c) == grid.Goal) {
			return nil, fmt.Errorf("%w: obstacle %s covers the %s", ErrMalformed, c, g.Kind(c))
		}
		if err := g.SetKind(c, grid.Blocked); err != nil {
			return nil, fmt.Errorf("%w: obstacle: %v", ErrMalformed, err)
		}
	}
	if err := place(g, f.Start, grid.Start); err != nil {
		return nil, err
	}
	if err := place(g, f.Goal, grid.Goal); err != nil {
		return nil, err
	}
	g.RefreshNeighbors()

	return g, nil
}

// place moves the single k cell to at, clearing any previous one. at must be
// Free or already k.
func place(g *grid.Grid, at *[2]int, k grid.Kind) error {
	if at == nil {
		return nil
	}
	c := coord(*at)
	if g.InBounds(c) {
		if cur := g.Kind(c); cur != grid.Free && cur != k {
			return fmt.Errorf("%w: %s %s lands on a %s cell", ErrMalformed, k, c, cur)
		}
	}
	var prev grid.Coord
	var ok bool
	if k == grid.Start {
		prev, ok = g.Start()
	} else {
		prev, ok = g.Goal()
	}
	if ok {
		_ = g.Erase(prev)
	}
	if err := g.SetKind(c, k); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, k, err)
	}
	return nil
}

// FromGrid captures g as a File with an obstacle list.
func FromGrid(g *grid.Grid) File {
	f := File{Size: g.Size(), Obstacles: [][2]int{}}
	if s, ok := g.Start(); ok {
		f.Start = &[2]int{s.Row, s.Col}
	}
	if goal, ok := g.Goal(); ok {
		f.Goal = &[2]int{goal.Row, goal.Col}
	}
	for i := 0; i < g.Size()*g.Size(); i++ {
		c := g.Coordinate(i)
		if g.Kind(c) == grid.Blocked {
			f.Obstacles = append(f.Obstacles, [2]int{c.Row, c.Col})
		}
	}
	return f
}

// EncodeYAML writes g as a YAML scenario.
func EncodeYAML(w io.Writer, g *grid.Grid) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(FromGrid(g)); err != nil {
		return fmt.Errorf("scenario: encoding yaml: %w", err)
	}
	return enc.Close()
}

// Load reads a scenario file, choosing the parser by extension.
func Load(path string) (*grid.Grid, error) {
	var parse func(io.Reader) (*grid.Grid, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parse = ParseYAML
	case ".txt", ".map":
		parse = ParseText
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	defer file.Close()

	g, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func coord(p [2]int) grid.Coord {
	return grid.Coord{Row: p[0], Col: p[1]}
}
