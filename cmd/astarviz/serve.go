package main

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/astarviz/astar"
	"github.com/katalvlaran/astarviz/config"
	"github.com/katalvlaran/astarviz/stream"
	"github.com/katalvlaran/astarviz/telemetry"
)

type serveFlags struct {
	gridFlags
	addr      string
	watch     bool
	stepDelay time.Duration
}

func newServeCmd(a *app) *cobra.Command {
	f := &serveFlags{}
	d := config.Default().Serve
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grid and stream searches to browsers over websockets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, a, f)
		},
	}
	f.register(cmd, true)
	cmd.Flags().StringVar(&f.addr, "addr", d.Addr, "listen address")
	cmd.Flags().BoolVar(&f.watch, "watch", d.Watch, "reload --scenario when the file changes")
	cmd.Flags().DurationVar(&f.stepDelay, "step-delay", d.StepDelay, "pause between streamed expansions")
	return cmd
}

func runServe(cmd *cobra.Command, a *app, f *serveFlags) error {
	cfg := a.cfg
	f.apply(cmd, &cfg.Grid)
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr = f.addr
	}
	if cmd.Flags().Changed("watch") {
		cfg.Serve.Watch = f.watch
	}
	if cmd.Flags().Changed("step-delay") {
		cfg.Serve.StepDelay = f.stepDelay
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	g, _, _, err := f.board(cfg.Grid)
	if err != nil {
		return err
	}

	opts := []stream.Option{
		stream.WithLogger(a.log),
		stream.WithStepDelay(cfg.Serve.StepDelay),
		stream.WithWriteTimeout(cfg.Serve.WriteTimeout),
		stream.WithSearchOptions(
			astar.WithTimeout(cfg.Search.Timeout),
			astar.WithMaxSteps(cfg.Search.MaxSteps),
		),
	}
	var metrics *telemetry.Metrics
	if cfg.Serve.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		if metrics, err = telemetry.NewMetrics(reg); err != nil {
			return err
		}
		opts = append(opts, stream.WithMetrics(reg))
	}
	opts = append(opts, stream.WithRecorder(telemetry.NewRecorder(metrics, nil)))

	srv, err := stream.New(g, opts...)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if cfg.Serve.Watch && cfg.Grid.Scenario != "" {
		go func() {
			if err := srv.Watch(ctx, cfg.Grid.Scenario); err != nil {
				a.log.WithError(err).Error("scenario watch stopped")
			}
		}()
	}
	return srv.ListenAndServe(ctx, cfg.Serve.Addr)
}
