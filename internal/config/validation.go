package config

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// Validate checks structural consistency of a normalized configuration.
//
// Plugin-specific requirements (such as the sitemap hostname) are enforced when
// the plugin is constructed.
func (c *Config) Validate() error {
	if within(c.Source, c.Destination) {
		return errors.ConfigError("destination must not be inside the source directory").
			WithContext("source", c.Source).
			WithContext("destination", c.Destination).
			Build()
	}
	if c.Clean && within(c.Destination, c.Source) {
		return errors.ConfigError("clean would remove the source directory").
			WithContext("source", c.Source).
			WithContext("destination", c.Destination).
			Build()
	}

	seen := make(map[string]struct{}, len(c.Plugins))
	for _, name := range c.Plugins {
		if name == "" {
			return errors.ConfigError("empty plugin name in plugins list").Build()
		}
		if _, dup := seen[name]; dup {
			return errors.ConfigError("plugin listed more than once").WithContext("plugin", name).Build()
		}
		seen[name] = struct{}{}
	}

	if slices.Contains(c.Markdown.Extensions, "") {
		return errors.ConfigError("empty markdown extension").Build()
	}
	if !doublestar.ValidatePattern(c.HTMLMeta.Pattern) {
		return errors.ConfigError("invalid htmlmeta pattern").WithContext("pattern", c.HTMLMeta.Pattern).Build()
	}

	if s := c.Sitemap; s != nil {
		if !doublestar.ValidatePattern(s.Pattern) {
			return errors.ConfigError("invalid sitemap pattern").WithContext("pattern", s.Pattern).Build()
		}
		if s.OmitPattern != "" && !doublestar.ValidatePattern(s.OmitPattern) {
			return errors.ConfigError("invalid sitemap omitPattern").WithContext("pattern", s.OmitPattern).Build()
		}
	}
	return nil
}

// within reports whether dir is parent or lies below it.
func within(parent, dir string) bool {
	parent, dir = absPath(parent), absPath(dir)
	rel, err := filepath.Rel(parent, dir)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
