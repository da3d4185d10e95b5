// Package htmlmeta lifts indexing hints from HTML heads into file metadata, so
// pages without frontmatter still carry their canonical URL and robots policy.
package htmlmeta

import (
	"bytes"
	"context"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/plugin"
)

// Name is the registry name of the stage.
const Name = config.PluginHTMLMeta

// Head holds the hints found in a document head.
type Head struct {
	Canonical string
	NoIndex   bool
}

// Plugin copies <link rel="canonical"> and <meta name="robots" content="noindex">
// into the canonical and private metadata keys, unless already set.
type Plugin struct {
	pattern      string
	canonicalKey string
	privateKey   string
}

// New creates the plugin. Keys name the metadata fields written.
func New(pattern, canonicalKey, privateKey string) (*Plugin, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, errors.ConfigError("invalid htmlmeta pattern").WithContext("pattern", pattern).Build()
	}
	return &Plugin{pattern: pattern, canonicalKey: canonicalKey, privateKey: privateKey}, nil
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "1.0.0",
		Type:        plugin.PluginTypeTransform,
		Description: "Reads canonical and robots hints from HTML heads",
	}
}

// Execute implements plugin.Plugin. Unparseable documents are skipped.
func (p *Plugin) Execute(_ context.Context, pc *plugin.Context) error {
	for filePath, f := range pc.Files.All() {
		if !doublestar.MatchUnvalidated(p.pattern, strings.ReplaceAll(filePath, `\`, "/")) {
			continue
		}
		_, hasCanonical := f.Meta[p.canonicalKey]
		_, hasPrivate := f.Meta[p.privateKey]
		if hasCanonical && hasPrivate {
			continue
		}

		head, err := ReadHead(f.Contents)
		if err != nil {
			pc.Logger.Warn("Skipping unparseable HTML", logfields.Path(filePath), logfields.Error(err))
			pc.Recorder.IncFileSkipped(Name, "parse_error")
			continue
		}
		if f.Meta == nil {
			f.Meta = map[string]any{}
		}
		if !hasCanonical && head.Canonical != "" {
			f.Meta[p.canonicalKey] = head.Canonical
		}
		if !hasPrivate && head.NoIndex {
			f.Meta[p.privateKey] = true
			pc.Logger.Debug("Page marked noindex", logfields.Path(filePath))
		}
	}
	return nil
}

// ReadHead parses an HTML document and extracts its indexing hints.
func ReadHead(content []byte) (Head, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return Head{}, err
	}

	var head Head
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "link":
				if hasToken(getAttr(n, "rel"), "canonical") && head.Canonical == "" {
					head.Canonical = strings.TrimSpace(getAttr(n, "href"))
				}
			case "meta":
				if strings.EqualFold(getAttr(n, "name"), "robots") && hasToken(getAttr(n, "content"), "noindex") {
					head.NoIndex = true
				}
			case "body":
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return head, nil
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// hasToken reports whether a space or comma separated attribute value holds token.
func hasToken(value, token string) bool {
	for _, t := range strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' }) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

func init() {
	if err := plugin.Register(Name, func(cfg *config.Config) (plugin.Plugin, error) {
		props := config.DefaultPropertyNames()
		if cfg.Sitemap != nil {
			cfg.Sitemap.Normalize()
			props = cfg.Sitemap.Properties
		}
		pattern := cfg.HTMLMeta.Pattern
		if pattern == "" {
			pattern = config.DefaultSitemapPattern
		}
		p, err := New(pattern, props.Canonical, props.Private)
		if err != nil {
			return nil, err
		}
		return p, nil
	}); err != nil {
		panic(err)
	}
}
