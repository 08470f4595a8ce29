package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/scenario"
	"github.com/katalvlaran/astarviz/telemetry"
)

type solveFlags struct {
	gridFlags
	timeout  time.Duration
	maxSteps int
	trace    bool
	events   bool
	save     string
}

func newSolveCmd(a *app) *cobra.Command {
	f := &solveFlags{}
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Run one search headless and print the board, path and statistics",
		Example: `  astarviz solve --scenario maze.txt
  astarviz solve --size 30 --density 0.35 --seed 7 --start 0,0 --goal 29,29 --events`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSolve(cmd, a, f)
		},
	}
	f.register(cmd, true)
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "cancel the search after this long (0 = no limit)")
	cmd.Flags().IntVar(&f.maxSteps, "max-steps", 0, "stop after this many expansions (0 = no limit)")
	cmd.Flags().BoolVar(&f.trace, "trace", false, "print the OpenTelemetry span of the run to stderr")
	cmd.Flags().BoolVar(&f.events, "events", false, "print every search event")
	cmd.Flags().StringVar(&f.save, "save", "", "write the board to this .yaml or .txt file")
	return cmd
}

func runSolve(cmd *cobra.Command, a *app, f *solveFlags) error {
	cfg := a.cfg
	f.apply(cmd, &cfg.Grid)
	if cmd.Flags().Changed("timeout") {
		cfg.Search.Timeout = f.timeout
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Search.MaxSteps = f.maxSteps
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g, start, goal, err := f.board(cfg.Grid)
	if err != nil {
		return err
	}
	if f.save != "" {
		if err := save(f.save, g); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	opts := []astar.Option{
		astar.WithTimeout(cfg.Search.Timeout),
		astar.WithMaxSteps(cfg.Search.MaxSteps),
	}
	if f.events {
		opts = append(opts, astar.WithObserver(printEvents(out)))
	}

	rec := telemetry.NewRecorder(nil, nil)
	if f.trace {
		tp, err := telemetry.NewStdoutTracerProvider(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer func() { _ = tp.Shutdown(context.Background()) }()
		rec = telemetry.NewRecorder(nil, tp)
	}

	res, err := rec.Run(cmd.Context(), g, start, goal, opts...)
	if err != nil {
		return err
	}
	a.log.WithFields(logrus.Fields{
		"start":    start.String(),
		"goal":     goal.String(),
		"status":   res.Status.String(),
		"expanded": res.Expanded,
	}).Debug("search finished")

	printResult(out, g, res)
	return nil
}

func printEvents(w io.Writer) astar.Observer {
	return func(ev astar.Event) astar.Action {
		fmt.Fprintf(w, "%-13s %-8s step=%d g=%d f=%d\n", ev.Kind, ev.Node, ev.Step, ev.G, ev.F)
		return astar.Continue
	}
}

func printResult(w io.Writer, g *grid.Grid, res astar.Result) {
	fmt.Fprint(w, scenario.RenderPath(g, res.Path))
	fmt.Fprintf(w, "status:   %s\n", res.Status)
	fmt.Fprintf(w, "expanded: %d\n", res.Expanded)
	if res.Status != astar.Found {
		return
	}
	cells := make([]string, len(res.Path))
	for i, c := range res.Path {
		cells[i] = c.String()
	}
	fmt.Fprintf(w, "cost:     %d\n", res.Cost)
	fmt.Fprintf(w, "path:     %s\n", strings.Join(cells, " "))
}

// save writes g as YAML or as a text map, by extension.
func save(path string, g *grid.Grid) error {
	var encode func(io.Writer, *grid.Grid) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		encode = scenario.EncodeYAML
	case ".txt", ".map":
		encode = func(w io.Writer, g *grid.Grid) error {
			_, err := io.WriteString(w, scenario.Render(g))
			return err
		}
	default:
		return fmt.Errorf("%w: %q", scenario.ErrUnknownFormat, path)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(file, g); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
