// Package plugin provides the plugin system the sitemapper pipeline is built from.
// Each stage of a build (markdown rendering, head metadata, sitemap generation)
// is a Plugin that reads and rewrites the shared file set.
package plugin

import (
	"context"
	"fmt"
)

// Plugin represents one pipeline stage with metadata and an execution hook.
type Plugin interface {
	// Metadata returns the plugin's metadata (name, version, type).
	Metadata() PluginMetadata

	// Execute runs the stage against the file set held by pc.
	// It returns nil on success; any error fails the build.
	Execute(ctx context.Context, pc *Context) error
}

// PluginMetadata describes a plugin's identity.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "sitemap", "markdown").
	Name string

	// Version is the semantic version (e.g., "v1.0.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}
