package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/astarviz/config"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/scenario"
)

var version = "dev"

// app carries what every subcommand needs after the root's pre-run.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	cfg config.Config
	log *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "astarviz",
		Short:         "Edit grids and watch A* search them",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "trace, debug, info, warn or error (overrides config)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "text or json (overrides config)")

	root.AddCommand(newSolveCmd(a), newTUICmd(a), newServeCmd(a))
	return root
}

// setup loads the configuration and builds the logger. Persistent flags win
// over the file.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if a.logFormat != "" {
		cfg.Log.Format = a.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	lvl, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	a.log = logrus.New()
	a.log.SetOutput(cmd.ErrOrStderr())
	a.log.SetLevel(lvl)
	if cfg.Log.Format == "json" {
		a.log.SetFormatter(&logrus.JSONFormatter{})
	}
	a.cfg = cfg
	a.log.WithField("config", a.configPath).Debug("configuration loaded")
	return nil
}

// gridFlags are shared by every subcommand that needs a board.
type gridFlags struct {
	scenario string
	size     int
	density  float64
	seed     int64
	start    string
	goal     string
}

func (f *gridFlags) register(cmd *cobra.Command, withEndpoints bool) {
	d := config.Default().Grid
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "scenario file (.txt, .map, .yaml, .yml)")
	cmd.Flags().IntVar(&f.size, "size", d.Size, "grid side length")
	cmd.Flags().Float64Var(&f.density, "density", d.Density, "wall density for random grids, in [0,1]")
	cmd.Flags().Int64Var(&f.seed, "seed", d.Seed, "random seed")
	if withEndpoints {
		cmd.Flags().StringVar(&f.start, "start", "", "start cell row,col (default: scenario start or 0,0)")
		cmd.Flags().StringVar(&f.goal, "goal", "", "goal cell row,col (default: scenario goal or the far corner)")
	}
}

// apply copies explicitly set flags over the configuration.
func (f *gridFlags) apply(cmd *cobra.Command, cfg *config.GridConfig) {
	if cmd.Flags().Changed("scenario") {
		cfg.Scenario = f.scenario
	}
	if cmd.Flags().Changed("size") {
		cfg.Size = f.size
	}
	if cmd.Flags().Changed("density") {
		cfg.Density = f.density
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = f.seed
	}
}

// endpoints resolves start and goal from flags, then the grid's painted
// cells, then the top-left and bottom-right corners.
func (f *gridFlags) endpoints(g *grid.Grid) (grid.Coord, grid.Coord, error) {
	n := g.Size()
	start, err := pick(f.start, g.Start, grid.Coord{})
	if err != nil {
		return grid.Coord{}, grid.Coord{}, fmt.Errorf("--start: %w", err)
	}
	goal, err := pick(f.goal, g.Goal, grid.Coord{Row: n - 1, Col: n - 1})
	if err != nil {
		return grid.Coord{}, grid.Coord{}, fmt.Errorf("--goal: %w", err)
	}
	return start, goal, nil
}

func pick(flag string, painted func() (grid.Coord, bool), fallback grid.Coord) (grid.Coord, error) {
	if flag != "" {
		return grid.ParseCoord(flag)
	}
	if c, ok := painted(); ok {
		return c, nil
	}
	return fallback, nil
}

// board loads the configured scenario, or builds a random grid with the
// endpoints painted when no scenario is set.
func (f *gridFlags) board(cfg config.GridConfig) (*grid.Grid, grid.Coord, grid.Coord, error) {
	if cfg.Scenario != "" {
		g, err := scenario.Load(cfg.Scenario)
		if err != nil {
			return nil, grid.Coord{}, grid.Coord{}, err
		}
		start, goal, err := f.endpoints(g)
		return g, start, goal, err
	}

	blank, err := grid.New(cfg.Size)
	if err != nil {
		return nil, grid.Coord{}, grid.Coord{}, err
	}
	start, goal, err := f.endpoints(blank)
	if err != nil {
		return nil, grid.Coord{}, grid.Coord{}, err
	}
	g, err := scenario.Random(scenario.RandomOptions{
		Size:     cfg.Size,
		Density:  cfg.Density,
		Clusters: cfg.Clusters,
		Seed:     cfg.Seed,
		Start:    start,
		Goal:     goal,
		Solvable: true,
	})
	if err != nil {
		return nil, grid.Coord{}, grid.Coord{}, err
	}
	return g, start, goal, nil
}
