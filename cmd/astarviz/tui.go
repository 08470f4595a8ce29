package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/config"
	"github.com/katalvlaran/astarviz/grid"
	"github.com/katalvlaran/astarviz/scenario"
	"github.com/katalvlaran/astarviz/telemetry"
	"github.com/katalvlaran/astarviz/tui"
)

type tuiFlags struct {
	gridFlags
	delay   time.Duration
	logFile string
	save    string
}

func newTUICmd(a *app) *cobra.Command {
	f := &tuiFlags{}
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Edit a grid and animate searches in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, a, f)
		},
	}
	f.register(cmd, false)
	cmd.Flags().DurationVar(&f.delay, "delay", config.Default().TUI.Delay, "pause between expansions")
	cmd.Flags().StringVar(&f.logFile, "log-file", "", "append logs here while the screen is in use")
	cmd.Flags().StringVar(&f.save, "save", "", "write the board to this .yaml or .txt file on exit")
	return cmd
}

func runTUI(cmd *cobra.Command, a *app, f *tuiFlags) error {
	cfg := a.cfg
	f.apply(cmd, &cfg.Grid)
	if cmd.Flags().Changed("delay") {
		cfg.TUI.Delay = f.delay
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	var (
		g   *grid.Grid
		err error
	)
	if cfg.Grid.Scenario != "" {
		g, err = scenario.Load(cfg.Grid.Scenario)
	} else {
		g, err = grid.New(cfg.Grid.Size)
	}
	if err != nil {
		return err
	}

	// The screen belongs to bubbletea; logs go to a file or nowhere.
	var logger logrus.FieldLogger
	if f.logFile != "" {
		file, err := os.OpenFile(f.logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		defer file.Close()
		l := logrus.New()
		l.SetOutput(file)
		l.SetLevel(a.log.GetLevel())
		l.SetFormatter(a.log.Formatter)
		logger = l
	}

	final, err := tui.Run(cmd.Context(), g, tui.Config{
		Delay:   cfg.TUI.Delay,
		Density: cfg.Grid.Density,
		Seed:    cfg.Grid.Seed,
		Search: []astar.Option{
			astar.WithTimeout(cfg.Search.Timeout),
			astar.WithMaxSteps(cfg.Search.MaxSteps),
		},
		Recorder: telemetry.NewRecorder(nil, nil),
		Log:      logger,
	})
	if err != nil {
		return err
	}
	if f.save != "" {
		if err := save(f.save, final.Grid()); err != nil {
			return err
		}
		a.log.WithField("path", f.save).Info("board saved")
	}
	if res, ok := final.Result(); ok {
		fmt.Fprintf(cmd.OutOrStdout(), "last run: %s, %d expanded, cost %d\n", res.Status, res.Expanded, res.Cost)
	}
	return nil
}
