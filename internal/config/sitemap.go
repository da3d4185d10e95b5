package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSitemapPattern  = "**/*.html"
	DefaultSitemapOutput   = "sitemap.xml"
	DefaultSitemapPriority = 0.5
)

// SitemapConfig configures the sitemap stage.
//
// In YAML it may be written either as a mapping or as a bare hostname string:
//
//	sitemap: https://example.com
type SitemapConfig struct {
	// Hostname is the absolute base every entry URL is resolved against. Required.
	Hostname string `yaml:"hostname"`

	// Pattern selects candidate files (doublestar glob against forward-slash paths).
	Pattern string `yaml:"pattern,omitempty"`

	// OmitPattern excludes files even when Pattern matches.
	OmitPattern string `yaml:"omitPattern,omitempty"`

	// ChangeFreq, Priority and LastMod are the global fallbacks. Priority accepts a
	// number or numeric string; anything else falls back to 0.5. LastMod accepts
	// any date the frontmatter would.
	ChangeFreq string `yaml:"changefreq,omitempty"`
	Priority   any    `yaml:"priority,omitempty"`
	LastMod    any    `yaml:"lastmod,omitempty"`

	OmitExtension bool `yaml:"omitExtension,omitempty"`
	OmitIndex     bool `yaml:"omitIndex,omitempty"`

	// Output is the file-set path the document is written to.
	Output string `yaml:"output,omitempty"`

	// Beautify indents the generated XML.
	Beautify bool `yaml:"beautify,omitempty"`

	// PageTypes maps a category name to crawl-hint defaults.
	PageTypes map[string]PageTypeDefaults `yaml:"pageTypes,omitempty"`

	// Overrides maps a file path to entry fields applied after everything else.
	Overrides map[string]map[string]any `yaml:"overrides,omitempty"`

	// Properties renames the frontmatter keys the stage reads.
	Properties PropertyNames `yaml:"properties,omitempty"`
}

// PageTypeDefaults are the crawl hints inherited by files of one page type.
type PageTypeDefaults struct {
	ChangeFreq string `yaml:"changefreq,omitempty"`
	Priority   any    `yaml:"priority,omitempty"`
}

// PropertyNames names the frontmatter keys consulted per file.
type PropertyNames struct {
	Private    string `yaml:"private,omitempty"`
	Canonical  string `yaml:"canonical,omitempty"`
	ChangeFreq string `yaml:"changefreq,omitempty"`
	Priority   string `yaml:"priority,omitempty"`
	LastMod    string `yaml:"lastmod,omitempty"`
	Date       string `yaml:"date,omitempty"`
	PageType   string `yaml:"pageType,omitempty"`
	Sitemap    string `yaml:"sitemap,omitempty"`
}

// DefaultPropertyNames returns the frontmatter keys used when none are configured.
func DefaultPropertyNames() PropertyNames {
	return PropertyNames{
		Private:    "private",
		Canonical:  "canonical",
		ChangeFreq: "changefreq",
		Priority:   "priority",
		LastMod:    "lastmod",
		Date:       "date",
		PageType:   "pageType",
		Sitemap:    "sitemap",
	}
}

// UnmarshalYAML accepts either a hostname scalar or a full mapping.
func (s *SitemapConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*s = SitemapConfig{Hostname: value.Value}
		return nil
	}
	type plain SitemapConfig
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SitemapConfig(p)
	return nil
}

// Normalize fills defaults. It is idempotent.
func (s *SitemapConfig) Normalize() {
	s.Hostname = strings.TrimSpace(s.Hostname)
	if s.Pattern == "" {
		s.Pattern = DefaultSitemapPattern
	}
	if s.Output == "" {
		s.Output = DefaultSitemapOutput
	}
	s.ChangeFreq = strings.TrimSpace(s.ChangeFreq)
	s.Properties = s.Properties.withDefaults()
}

func (p PropertyNames) withDefaults() PropertyNames {
	d := DefaultPropertyNames()
	fill := func(v *string, def string) {
		if strings.TrimSpace(*v) == "" {
			*v = def
		}
	}
	fill(&p.Private, d.Private)
	fill(&p.Canonical, d.Canonical)
	fill(&p.ChangeFreq, d.ChangeFreq)
	fill(&p.Priority, d.Priority)
	fill(&p.LastMod, d.LastMod)
	fill(&p.Date, d.Date)
	fill(&p.PageType, d.PageType)
	fill(&p.Sitemap, d.Sitemap)
	return p
}
