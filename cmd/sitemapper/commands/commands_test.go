package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapper/internal/config"
)

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sitemapper.yaml")
	require.NoError(t, RunInit(path, false))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Sitemap)
	assert.Equal(t, "https://example.com", cfg.Sitemap.Hostname)

	require.Error(t, RunInit(path, false))
	require.NoError(t, RunInit(path, true))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, config.LoggingConfig{Level: config.LogLevelWarn, Format: config.LogFormatJSON}, false)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	newLogger(&buf, config.LoggingConfig{Level: config.LogLevelError}, true).Debug("debug")
	assert.Contains(t, buf.String(), "msg=debug")
}

func TestBuildCmd_Run(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "build")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "blog"), 0o750))

	write := func(rel, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(src, rel), []byte(content), 0o600))
	}
	write("index.html", "<html><head></head><body>Home</body></html>")
	write("blog/first.md", "---\ndate: 2021-06-01\npageType: post\n---\n# First\n")
	write("secret.html", `<html><head><meta name="robots" content="noindex"></head></html>`)

	cfgPath := filepath.Join(dir, "sitemapper.yaml")
	metricsPath := filepath.Join(dir, "metrics.prom")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
sitemap:
  hostname: https://example.com
  omitIndex: true
  pageTypes:
    post: {changefreq: monthly, priority: 0.7}
`), 0o600))

	cmd := &BuildCmd{Source: src, Destination: dst, MetricsTextfile: metricsPath}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Config: cfgPath}))

	out, err := os.ReadFile(filepath.Join(dst, "sitemap.xml"))
	require.NoError(t, err)
	xml := string(out)
	assert.Contains(t, xml, "<loc>https://example.com/</loc>")
	assert.Contains(t, xml, "<loc>https://example.com/blog/first.html</loc><lastmod>2021-06-01T00:00:00Z</lastmod><changefreq>monthly</changefreq><priority>0.7</priority>")
	assert.NotContains(t, xml, "secret")

	rendered, err := os.ReadFile(filepath.Join(dst, "blog", "first.html"))
	require.NoError(t, err)
	assert.Contains(t, string(rendered), "<h1")

	prom, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "sitemapper_sitemap_entries_total 2")
}

func TestBuildCmd_MissingHostnameFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sitemapper.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("plugins: [sitemap]\nsitemap: {pattern: \"**/*.html\"}\n"), 0o600))

	cmd := &BuildCmd{Source: dir, Destination: t.TempDir()}
	err := cmd.Run(&Global{}, &CLI{Config: cfgPath})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hostname")
}
