package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("source: ./site\n"))
	require.NoError(t, err)

	assert.Equal(t, "./site", cfg.Source)
	assert.Equal(t, DefaultDestination, cfg.Destination)
	assert.Equal(t, DefaultPlugins(), cfg.Plugins)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, []string{".md", ".markdown"}, cfg.Markdown.Extensions)
	assert.Equal(t, DefaultSitemapPattern, cfg.HTMLMeta.Pattern)
	assert.Nil(t, cfg.Sitemap)
}

func TestParse_EmptyDocument(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultSource, cfg.Source)
}

func TestParse_SitemapAsBareHostname(t *testing.T) {
	cfg, err := Parse([]byte("sitemap: https://example.com\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.Sitemap)

	assert.Equal(t, "https://example.com", cfg.Sitemap.Hostname)
	assert.Equal(t, DefaultSitemapPattern, cfg.Sitemap.Pattern)
	assert.Equal(t, DefaultSitemapOutput, cfg.Sitemap.Output)
	assert.Equal(t, DefaultPropertyNames(), cfg.Sitemap.Properties)
}

func TestParse_SitemapMapping(t *testing.T) {
	data := []byte(`
plugins: [Sitemap]
logging:
  level: DEBUG
  format: json
sitemap:
  hostname: " https://example.com/ "
  omitPattern: "drafts/**"
  changefreq: weekly
  priority: "0.4"
  lastmod: 2021-06-01
  omitIndex: true
  beautify: true
  output: maps/site.xml
  pageTypes:
    post:
      changefreq: monthly
      priority: 0.7
  overrides:
    about.html:
      priority: 0.9
  properties:
    private: hidden
`)
	cfg, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, []string{PluginSitemap}, cfg.Plugins)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)

	s := cfg.Sitemap
	require.NotNil(t, s)
	assert.Equal(t, "https://example.com/", s.Hostname)
	assert.Equal(t, "drafts/**", s.OmitPattern)
	assert.Equal(t, "0.4", s.Priority)
	assert.Equal(t, "2021-06-01", s.LastMod)
	assert.True(t, s.OmitIndex)
	assert.True(t, s.Beautify)
	assert.Equal(t, "maps/site.xml", s.Output)
	assert.Equal(t, "monthly", s.PageTypes["post"].ChangeFreq)
	assert.Equal(t, 0.7, s.PageTypes["post"].Priority)
	assert.Equal(t, 0.9, s.Overrides["about.html"]["priority"])
	assert.Equal(t, "hidden", s.Properties.Private)
	assert.Equal(t, "canonical", s.Properties.Canonical)
}

func TestParse_Rejections(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown key", "sauce: ./x\n"},
		{"duplicate plugin", "plugins: [sitemap, sitemap]\n"},
		{"empty plugin", "plugins: [\"\"]\n"},
		{"bad sitemap pattern", "sitemap:\n  hostname: https://e.com\n  pattern: \"[\"\n"},
		{"bad omit pattern", "sitemap:\n  hostname: https://e.com\n  omitPattern: \"{a\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sitemap: ${SITEMAPPER_TEST_HOST}\n"), 0o600))
	t.Setenv("SITEMAPPER_TEST_HOST", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Sitemap.Hostname)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit_WritesLoadableExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, Init(path, false))
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cfg.Sitemap.Hostname)
	assert.True(t, cfg.Sitemap.OmitIndex)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	require.NoError(t, Init(path, true))
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("Warning"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("verbose"))
	assert.Equal(t, "DEBUG", LogLevelDebug.SlogLevel().String())
}

func TestValidate_CleanSourceRejected(t *testing.T) {
	_, err := Parse([]byte("source: ./site\ndestination: site/\nclean: true\n"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidate_DirectoryLayout(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		destination string
		clean       bool
		wantErr     string
	}{
		{name: "siblings", source: "./src", destination: "./build", clean: true},
		{name: "sibling with shared prefix", source: "./site", destination: "./site-build", clean: true},
		{name: "same directory", source: "./site", destination: "site/", wantErr: "inside the source"},
		{name: "destination inside source", source: ".", destination: "./build", wantErr: "inside the source"},
		{name: "nested destination", source: "site", destination: "site/public/out", wantErr: "inside the source"},
		{name: "clean parent of source", source: "site/src", destination: "site", clean: true, wantErr: "clean would remove"},
		{name: "parent of source without clean", source: "site/src", destination: "site"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Source: tt.source, Destination: tt.destination, Clean: tt.clean}
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
