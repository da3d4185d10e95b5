package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
	"git.home.luguber.info/inful/sitemapper/internal/pipeline"
	"git.home.luguber.info/inful/sitemapper/internal/plugin"
	"git.home.luguber.info/inful/sitemapper/internal/watch"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Source          string `short:"s" help:"Override the source directory"`
	Destination     string `short:"o" help:"Override the destination directory"`
	Watch           bool   `short:"w" help:"Rebuild whenever the source directory changes"`
	MetricsTextfile string `name:"metrics-textfile" help:"Write Prometheus metrics in text format to this file after each build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return err
	}
	if err := b.applyOverrides(cfg); err != nil {
		return err
	}

	logger := newLogger(os.Stderr, cfg.Logging, root.Verbose)
	slog.SetDefault(logger)
	g.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	build := newBuilder(cfg, plugin.DefaultRegistry(), logger, b.MetricsTextfile)
	if !b.Watch {
		return build(ctx)
	}

	if err := build(ctx); err != nil {
		logger.Warn("Initial build failed; watching for changes", logfields.Error(err))
	}
	return watch.Run(ctx, cfg.Source, watch.DefaultDebounce, build)
}

// applyOverrides layers command line flags over the loaded configuration.
func (b *BuildCmd) applyOverrides(cfg *config.Config) error {
	if b.Source != "" {
		cfg.Source = b.Source
	}
	if b.Destination != "" {
		cfg.Destination = b.Destination
	}
	if b.MetricsTextfile == "" {
		b.MetricsTextfile = cfg.Metrics.Textfile
	}
	cfg.Normalize()
	return cfg.Validate()
}

// newBuilder returns a build function sharing one metrics registry across runs.
func newBuilder(cfg *config.Config, registry *plugin.Registry, logger *slog.Logger, textfile string) watch.BuildFunc {
	promRegistry := prom.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(promRegistry)

	return func(ctx context.Context) error {
		report, err := pipeline.BuildSite(ctx, cfg, registry,
			pipeline.WithLogger(logger),
			pipeline.WithRecorder(recorder),
		)
		if textfile != "" {
			if werr := metrics.WriteTextfile(promRegistry, textfile); werr != nil {
				logger.Warn("Failed to write metrics", logfields.Error(werr))
			}
		}
		if err != nil {
			return err
		}
		fmt.Printf("Built %d files into %s in %s\n", report.Files, cfg.Destination, report.Duration().Round(time.Millisecond))
		return nil
	}
}
