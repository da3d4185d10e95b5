package config

import "strings"

// Default source and destination directories.
const (
	DefaultSource      = "./src"
	DefaultDestination = "./build"
)

// Registered plugin names.
const (
	PluginMarkdown = "markdown"
	PluginHTMLMeta = "htmlmeta"
	PluginSitemap  = "sitemap"
)

// DefaultPlugins returns the stage order used when none is configured.
func DefaultPlugins() []string {
	return []string{PluginMarkdown, PluginHTMLMeta, PluginSitemap}
}

// DefaultMarkdownExtensions are the file extensions rendered by the markdown stage.
func DefaultMarkdownExtensions() []string {
	return []string{".md", ".markdown"}
}

// Normalize applies defaults in place. It is idempotent.
func (c *Config) Normalize() {
	c.Source = strings.TrimSpace(c.Source)
	if c.Source == "" {
		c.Source = DefaultSource
	}
	c.Destination = strings.TrimSpace(c.Destination)
	if c.Destination == "" {
		c.Destination = DefaultDestination
	}

	if len(c.Plugins) == 0 {
		c.Plugins = DefaultPlugins()
	}
	for i, p := range c.Plugins {
		c.Plugins[i] = strings.ToLower(strings.TrimSpace(p))
	}

	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))

	if len(c.Markdown.Extensions) == 0 {
		c.Markdown.Extensions = DefaultMarkdownExtensions()
	}
	for i, ext := range c.Markdown.Extensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		c.Markdown.Extensions[i] = ext
	}

	if c.HTMLMeta.Pattern == "" {
		c.HTMLMeta.Pattern = DefaultSitemapPattern
	}

	if c.Sitemap != nil {
		c.Sitemap.Normalize()
	}
}
