// Package markdown renders markdown sources to HTML pages.
package markdown

import (
	"bytes"
	"context"
	"path"
	"slices"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/plugin"
)

// Name is the registry name of the stage.
const Name = config.PluginMarkdown

// Plugin converts files with a markdown extension to .html, keeping their
// metadata and position in the file set.
type Plugin struct {
	extensions []string
	md         goldmark.Markdown
}

// New creates the plugin for the given file extensions (".md" form).
func New(extensions []string) *Plugin {
	return &Plugin{
		extensions: extensions,
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Metadata implements plugin.Plugin.
func (p *Plugin) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        Name,
		Version:     "1.0.0",
		Type:        plugin.PluginTypeTransform,
		Description: "Renders markdown files to HTML",
	}
}

// Execute implements plugin.Plugin.
func (p *Plugin) Execute(_ context.Context, pc *plugin.Context) error {
	rendered := 0
	for _, src := range pc.Files.Paths() {
		ext := strings.ToLower(path.Ext(src))
		if !slices.Contains(p.extensions, ext) {
			continue
		}
		f, _ := pc.Files.Get(src)

		var buf bytes.Buffer
		if err := p.md.Convert(f.Contents, &buf); err != nil {
			return errors.WrapError(err, errors.CategoryBuild, "failed to render markdown").
				WithContext("path", src).
				Build()
		}

		dst := strings.TrimSuffix(src, path.Ext(src)) + ".html"
		if err := pc.Files.Rename(src, dst); err != nil {
			return errors.BuildError("rendered page collides with an existing file").
				WithContext("path", src).
				WithContext("target", dst).
				Build()
		}
		f.Contents = buf.Bytes()
		rendered++
		pc.Logger.Debug("Rendered markdown", logfields.Path(src), logfields.Output(dst))
	}

	pc.Logger.Info("Markdown rendered", logfields.Files(rendered))
	return nil
}

func init() {
	if err := plugin.Register(Name, func(cfg *config.Config) (plugin.Plugin, error) {
		exts := cfg.Markdown.Extensions
		if len(exts) == 0 {
			exts = config.DefaultMarkdownExtensions()
		}
		return New(exts), nil
	}); err != nil {
		panic(err)
	}
}
