package plugin

import (
	"log/slog"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/fileset"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
)

// Context provides plugins with the file set and build services.
// The pipeline owns it exclusively while a stage runs.
type Context struct {
	// Logger provides structured logging for plugin operations.
	Logger *slog.Logger

	// Config is the build configuration; may be nil for library use.
	Config *config.Config

	// Files is the site tree being built.
	Files *fileset.FileSet

	// BuildID uniquely identifies this build.
	BuildID string

	// Recorder receives stage metrics; never nil.
	Recorder metrics.Recorder
}

// NewContext creates a plugin context. A nil logger or recorder is replaced by a default.
func NewContext(logger *slog.Logger, cfg *config.Config, files *fileset.FileSet, buildID string, recorder metrics.Recorder) *Context {
	if logger == nil {
		logger = slog.Default()
	}
	if files == nil {
		files = fileset.New()
	}
	return &Context{
		Logger:   logger.With(logfields.BuildID(buildID)),
		Config:   cfg,
		Files:    files,
		BuildID:  buildID,
		Recorder: metrics.OrNoop(recorder),
	}
}

// ForPlugin returns a copy whose logger is tagged with the plugin name.
func (pc *Context) ForPlugin(name string) *Context {
	c := *pc
	c.Logger = pc.Logger.With(logfields.Plugin(name))
	return &c
}
