package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/scenario"
	"github.com/katalvlaran/astarviz/telemetry"
)

// Config tunes the editor.
type Config struct {
	// Delay between animated expansions. Zero steps as fast as bubbletea
	// delivers messages.
	Delay time.Duration
	// Density and Seed drive the "g" wall generator; each press advances Seed.
	Density float64
	Seed    int64
	// Search adds engine options (timeouts, step limits) to every run.
	Search []astar.Option
	// Recorder instruments runs; nil records nothing.
	Recorder *telemetry.Recorder
	// Log receives one entry per run; nil discards.
	Log logrus.FieldLogger
}

// stepMsg asks the model to advance run gen by one expansion.
type stepMsg struct{ gen int }

// run is the state of one animated search. The observer writes into shades
// through the pointer, so copies of Model share it.
type run struct {
	gen    int
	search *astar.Search
	shades []Shade
	cancel context.CancelFunc
	finish func(astar.Result, error)
}

// Model is the bubbletea model of the editor.
type Model struct {
	cfg    Config
	grid   *grid.Grid
	cursor grid.Coord

	shades []Shade
	run    *run
	gen    int

	result    astar.Result
	hasResult bool
	status    string
	quitting  bool
}

// New returns an editor over g. The model edits g in place.
func New(g *grid.Grid, cfg Config) Model {
	if cfg.Recorder == nil {
		cfg.Recorder = telemetry.NewRecorder(nil, nil)
	}
	if cfg.Log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Log = l
	}
	return Model{
		cfg:    cfg,
		grid:   g,
		shades: make([]Shade, g.Size()*g.Size()),
		status: "place a start and a goal, then press r",
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Grid returns the edited grid.
func (m Model) Grid() *grid.Grid { return m.grid }

// Cursor returns the cursor position.
func (m Model) Cursor() grid.Coord { return m.cursor }

// Running reports whether a search is being animated.
func (m Model) Running() bool { return m.run != nil }

// Result returns the outcome of the last finished run.
func (m Model) Result() (astar.Result, bool) { return m.result, m.hasResult }

// Shade returns the overlay of c from the current or last run.
func (m Model) Shade(c grid.Coord) Shade {
	if !m.grid.InBounds(c) {
		return ShadeNone
	}
	return m.shades[m.grid.Index(c)]
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		return m.step(msg)
	case tea.KeyMsg:
		return m.key(msg)
	case tea.MouseMsg:
		return m.mouse(msg)
	}
	return m, nil
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m = m.stop("quit")
		m.quitting = true
		return m, tea.Quit
	case "esc":
		if m.run != nil {
			return m.stop("stopped"), nil
		}
		m.wipe()
		return m, nil
	case "up", "k":
		m.move(-1, 0)
	case "down", "j":
		m.move(1, 0)
	case "left", "h":
		m.move(0, -1)
	case "right", "l":
		m.move(0, 1)
	}
	if m.run != nil {
		return m, nil
	}

	switch msg.String() {
	case " ", "enter":
		m.paint(m.cursor)
	case "x", "backspace":
		m.erase(m.cursor)
	case "c":
		m.grid.Clear()
		m.wipe()
		m.status = "cleared"
	case "g":
		m.generate()
	case "r":
		return m.start()
	}
	return m, nil
}

func (m Model) mouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.run != nil || msg.Action != tea.MouseActionPress {
		return m, nil
	}
	c := grid.Coord{Row: msg.Y, Col: msg.X / 2}
	if !m.grid.InBounds(c) {
		return m, nil
	}
	m.cursor = c
	switch msg.Button {
	case tea.MouseButtonLeft:
		m.paint(c)
	case tea.MouseButtonRight:
		m.erase(c)
	}
	return m, nil
}

func (m *Model) move(dr, dc int) {
	next := grid.Coord{Row: m.cursor.Row + dr, Col: m.cursor.Col + dc}
	if m.grid.InBounds(next) {
		m.cursor = next
	}
}

func (m *Model) paint(c grid.Coord) {
	m.wipe()
	k, err := m.grid.Paint(c)
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s %s", c, k)
}

func (m *Model) erase(c grid.Coord) {
	m.wipe()
	if err := m.grid.Erase(c); err != nil {
		m.status = err.Error()
		return
	}
	m.status = fmt.Sprintf("%s erased", c)
}

// wipe forgets the colours and outcome of the last run.
func (m *Model) wipe() {
	m.shades = make([]Shade, m.grid.Size()*m.grid.Size())
	m.hasResult = false
}

// generate replaces the walls with a random solvable layout around the
// current endpoints.
func (m *Model) generate() {
	start, okS := m.grid.Start()
	goal, okG := m.grid.Goal()
	if !okS || !okG {
		m.status = "place a start and a goal before generating walls"
		return
	}
	density := m.cfg.Density
	if density == 0 {
		density = 0.3
	}
	g, err := scenario.Random(scenario.RandomOptions{
		Size:     m.grid.Size(),
		Density:  density,
		Seed:     m.cfg.Seed,
		Start:    start,
		Goal:     goal,
		Solvable: true,
	})
	m.cfg.Seed++
	if err != nil {
		m.status = err.Error()
		return
	}
	m.grid = g
	m.wipe()
	m.status = "walls generated"
}

// start begins an animated run between the painted endpoints.
func (m Model) start() (tea.Model, tea.Cmd) {
	start, okS := m.grid.Start()
	goal, okG := m.grid.Goal()
	if !okS || !okG {
		m.status = "place a start and a goal first"
		return m, nil
	}

	m.wipe()
	m.gen++
	r := &run{gen: m.gen, shades: m.shades}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	ctx, r.finish = m.cfg.Recorder.Begin(ctx, m.grid.Size(), start, goal)

	g := m.grid
	observe := func(ev astar.Event) astar.Action {
		i := g.Index(ev.Node)
		switch ev.Kind {
		case astar.Opened:
			r.shades[i] = ShadeOpen
		case astar.Closed:
			r.shades[i] = ShadeClosed
		case astar.PathStep:
			r.shades[i] = ShadePath
		}
		return astar.Continue
	}
	opts := make([]astar.Option, 0, len(m.cfg.Search)+2)
	opts = append(opts, m.cfg.Search...)
	opts = append(opts, astar.WithContext(ctx), astar.WithObserver(m.cfg.Recorder.Observer(observe)))

	search, err := astar.NewSearch(g, start, goal, opts...)
	if err != nil {
		r.finish(astar.Result{}, err)
		cancel()
		m.status = err.Error()
		return m, nil
	}
	r.search = search
	m.run = r
	m.status = "searching"
	return m, m.tick(r.gen)
}

func (m Model) tick(gen int) tea.Cmd {
	if m.cfg.Delay <= 0 {
		return func() tea.Msg { return stepMsg{gen: gen} }
	}
	return tea.Tick(m.cfg.Delay, func(time.Time) tea.Msg { return stepMsg{gen: gen} })
}

// step advances the current run; ticks from abandoned runs are dropped.
func (m Model) step(msg stepMsg) (tea.Model, tea.Cmd) {
	if m.run == nil || msg.gen != m.run.gen {
		return m, nil
	}
	if m.run.search.Step() {
		m.status = fmt.Sprintf("searching, %d expanded", m.run.search.Steps())
		return m, m.tick(msg.gen)
	}
	return m.done(""), nil
}

// stop cancels a running search and records it as Cancelled.
func (m Model) stop(reason string) Model {
	if m.run == nil {
		return m
	}
	m.run.cancel()
	for m.run.search.Step() {
	}
	return m.done(reason)
}

// done records the finished run's outcome.
func (m Model) done(reason string) Model {
	r := m.run
	res := r.search.Result()
	r.finish(res, nil)
	r.search.Close()
	m.run = nil
	m.result, m.hasResult = res, true

	switch res.Status {
	case astar.Found:
		m.status = fmt.Sprintf("found: cost %d, %d expanded", res.Cost, res.Expanded)
	case astar.NotFound:
		m.status = fmt.Sprintf("no path, %d expanded", res.Expanded)
	default:
		m.status = fmt.Sprintf("%s after %d expanded", res.Status, res.Expanded)
		if reason != "" {
			m.status = fmt.Sprintf("%s (%s)", m.status, reason)
		}
	}
	m.cfg.Log.WithFields(logrus.Fields{
		"status":   res.Status.String(),
		"expanded": res.Expanded,
		"cost":     res.Cost,
	}).Info("run finished")
	return m
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	n := m.grid.Size()
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			at := grid.Coord{Row: r, Col: c}
			glyph, style := cell(m.grid.Kind(at), m.Shade(at))
			if at == m.cursor {
				style = style.Reverse(true)
			}
			b.WriteString(style.Render(glyph))
		}
		b.WriteByte('\n')
	}
	b.WriteString(titleStyle.Render("astarviz"))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteByte('\n')
	b.WriteString(helpStyle.Render("arrows move · space paint · x erase · r run · g walls · c clear · esc stop · q quit"))
	b.WriteByte('\n')
	return b.String()
}

// Run starts a full-screen program editing g and blocks until the user quits
// or ctx ends. It returns the final model.
func Run(ctx context.Context, g *grid.Grid, cfg Config) (Model, error) {
	p := tea.NewProgram(New(g, cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	final, err := p.Run()
	if err != nil {
		return Model{}, fmt.Errorf("tui: %w", err)
	}
	m, _ := final.(Model)
	return m, nil
}
