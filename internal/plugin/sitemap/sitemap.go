// Package sitemap generates a sitemaps.org document from the indexable pages
// of a file set.
//
// Crawl hints are resolved per file from four layers, highest first: the
// configured per-path override, the file's raw "sitemap" map, its
// frontmatter (including page-type defaults), and the global defaults.
package sitemap

import (
	"context"
	"log/slog"
	"maps"
	"net/url"
	"slices"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/fileset"
	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/plugin"
)

// Name is the registry name of the stage.
const Name = config.PluginSitemap

// Plugin is the sitemap generator stage. It holds only resolved configuration;
// each Execute starts from an empty entry list.
type Plugin struct {
	base          *url.URL
	pattern       string
	omitPattern   string
	global        layer
	pageTypes     map[string]layer
	overrides     map[string]map[string]any
	props         config.PropertyNames
	omitExtension bool
	omitIndex     bool
	output        string
	beautify      bool

	encoder Encoder
	logger  *slog.Logger
}

// Option customizes a Plugin.
type Option func(*Plugin)

// WithEncoder replaces the XML encoder.
func WithEncoder(enc Encoder) Option {
	return func(p *Plugin) { p.encoder = enc }
}

// WithLogger sets the logger used for configuration warnings and library calls
// to Entries without a logger.
func WithLogger(l *slog.Logger) Option {
	return func(p *Plugin) { p.logger = l }
}

// NewFromHostname creates a plugin with default options for hostname.
func NewFromHostname(hostname string, opts ...Option) (*Plugin, error) {
	return New(config.SitemapConfig{Hostname: hostname}, opts...)
}

// New validates cfg and creates the plugin. A missing or non-absolute hostname
// and malformed patterns are fatal configuration errors.
func New(cfg config.SitemapConfig, opts ...Option) (*Plugin, error) {
	cfg.Normalize()

	p := &Plugin{
		encoder: XMLEncoder{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	log := p.logger.With(logfields.Plugin(Name))

	base, err := parseHostname(cfg.Hostname)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "sitemap hostname is invalid").
			Fatal().
			WithContext("hostname", cfg.Hostname).
			Build()
	}
	for _, pattern := range []string{cfg.Pattern, cfg.OmitPattern} {
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			return nil, errors.ConfigError("invalid sitemap pattern").WithContext("pattern", pattern).Build()
		}
	}

	p.base = base
	p.pattern = cfg.Pattern
	p.omitPattern = cfg.OmitPattern
	p.global = globalLayer(cfg.ChangeFreq, cfg.Priority, cfg.LastMod, config.DefaultSitemapPriority, log)
	p.props = cfg.Properties
	p.omitExtension = cfg.OmitExtension
	p.omitIndex = cfg.OmitIndex
	p.output = toSlash(cfg.Output)
	p.beautify = cfg.Beautify

	p.pageTypes = make(map[string]layer, len(cfg.PageTypes))
	for name, d := range cfg.PageTypes {
		var l layer
		if d.ChangeFreq != "" {
			if cf, err := parseChangeFreq(d.ChangeFreq); err != nil {
				log.Warn("Ignoring invalid page type changefreq", slog.String("page_type", name), logfields.Error(err))
			} else {
				l.changeFreq = &cf
			}
		}
		if d.Priority != nil {
			if pr, err := parsePriority(d.Priority); err != nil {
				log.Warn("Ignoring invalid page type priority", slog.String("page_type", name), logfields.Error(err))
			} else {
				l.priority = &pr
			}
		}
		p.pageTypes[name] = l
	}

	p.overrides = make(map[string]map[string]any, len(cfg.Overrides))
	for path, fields := range cfg.Overrides {
		p.overrides[toSlash(path)] = fields
	}

	return p, nil
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "1.0.0",
		Type:        plugin.PluginTypeGenerator,
		Description: "Generates a sitemap from the indexable pages of the site",
	}
}

// Output returns the file-set path the document is written to.
func (p *Plugin) Output() string {
	return p.output
}

// Execute builds the entries, encodes them and inserts the document into the
// file set. Nothing is written when encoding fails.
func (p *Plugin) Execute(_ context.Context, pc *plugin.Context) error {
	entries := p.Entries(pc.Files, pc.Logger, pc.Recorder)
	for _, e := range entries {
		for _, key := range slices.Sorted(maps.Keys(e.Extra)) {
			pc.Logger.Debug("Dropping sitemap field with no document element",
				slog.String("url", e.URL),
				slog.String("field", key))
		}
	}

	data, err := p.encoder.Encode(p.base, entries, p.beautify)
	if err != nil {
		return errors.WrapError(err, errors.CategorySerialize, "failed to encode sitemap").
			WithContext("output", p.output).
			WithContext("entries", len(entries)).
			Build()
	}

	f := fileset.NewFile(data)
	f.ModTime = time.Now()
	pc.Files.Set(p.output, f)
	pc.Recorder.AddSitemapEntries(len(entries))

	pc.Logger.Info("Sitemap generated", logfields.Output(p.output), logfields.Entries(len(entries)))
	return nil
}

func init() {
	if err := plugin.Register(Name, factory); err != nil {
		panic(err)
	}
}

func factory(cfg *config.Config) (plugin.Plugin, error) {
	if cfg.Sitemap == nil {
		return nil, errors.ConfigError("sitemap plugin requires a sitemap configuration with a hostname").Build()
	}
	p, err := New(*cfg.Sitemap)
	if err != nil {
		return nil, err
	}
	return p, nil
}
