package pipeline

import (
	"context"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/fileset"
	"git.home.luguber.info/inful/sitemapper/internal/plugin"
)

// BuildSite loads cfg.Source, runs the configured plugins and writes the
// result to cfg.Destination. Plugin setup errors are returned before any
// file is read; nothing is written when a stage fails.
func BuildSite(ctx context.Context, cfg *config.Config, registry *plugin.Registry, options ...PipelineOption) (*Report, error) {
	plugins, err := registry.Build(cfg)
	if err != nil {
		return nil, err
	}

	files, err := fileset.Load(cfg.Source)
	if err != nil {
		return nil, err
	}

	report, err := New(plugins, options...).Run(ctx, cfg, files)
	if err != nil {
		return report, err
	}

	if err := fileset.Write(files, cfg.Destination, cfg.Clean); err != nil {
		return report, err
	}
	return report, nil
}
