// Package config loads and normalizes the sitemapper build configuration.
package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// Config represents the application configuration.
type Config struct {
	// Source is the directory scanned into the file set.
	Source string `yaml:"source"`

	// Destination is where the processed file set is written.
	Destination string `yaml:"destination,omitempty"`

	// Clean removes Destination before writing.
	Clean bool `yaml:"clean,omitempty"`

	// Plugins lists pipeline stages by registered name, in execution order.
	Plugins []string `yaml:"plugins"`

	Logging  LoggingConfig  `yaml:"logging,omitempty"`
	Metrics  MetricsConfig  `yaml:"metrics,omitempty"`
	Markdown MarkdownConfig `yaml:"markdown,omitempty"`
	HTMLMeta HTMLMetaConfig `yaml:"htmlmeta,omitempty"`
	Sitemap  *SitemapConfig `yaml:"sitemap,omitempty"`
}

// MetricsConfig controls Prometheus metric export.
type MetricsConfig struct {
	// Textfile, when set, receives the Prometheus text exposition after each build.
	Textfile string `yaml:"textfile,omitempty"`
}

// MarkdownConfig configures the markdown rendering stage.
type MarkdownConfig struct {
	Extensions []string `yaml:"extensions,omitempty"`
}

// HTMLMetaConfig configures the HTML head metadata stage.
type HTMLMetaConfig struct {
	Pattern string `yaml:"pattern,omitempty"`
}

// Load reads, expands and normalizes the configuration file at configPath.
//
// Environment variables from .env/.env.local are loaded first (without overriding
// the process environment) and ${VAR} references in the file are expanded.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigError("configuration file not found").WithContext("path", configPath).Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	return Parse([]byte(os.ExpandEnv(string(data))))
}

// Parse decodes, normalizes and validates configuration bytes.
// Unknown keys are rejected so typos surface early.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", configPath)).Build()
	}

	priority := DefaultSitemapPriority
	example := Config{
		Source:      DefaultSource,
		Destination: DefaultDestination,
		Plugins:     DefaultPlugins(),
		Logging:     LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Sitemap: &SitemapConfig{
			Hostname:   "https://example.com",
			ChangeFreq: "weekly",
			Priority:   priority,
			OmitIndex:  true,
			PageTypes: map[string]PageTypeDefaults{
				"post": {ChangeFreq: "monthly", Priority: 0.7},
			},
		},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
