package plugin

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPluginMetadataValidation tests plugin metadata validation.
func TestPluginMetadataValidation(t *testing.T) {
	tests := []struct {
		name      string
		metadata  PluginMetadata
		expectErr bool
	}{
		{
			name:     "valid metadata",
			metadata: PluginMetadata{Name: "sitemap", Version: "v1.0.0", Type: PluginTypeGenerator},
		},
		{
			name:      "missing name",
			metadata:  PluginMetadata{Version: "v1.0.0", Type: PluginTypeTransform},
			expectErr: true,
		},
		{
			name:      "missing version",
			metadata:  PluginMetadata{Name: "markdown", Type: PluginTypeTransform},
			expectErr: true,
		},
		{
			name:      "invalid type",
			metadata:  PluginMetadata{Name: "x", Version: "v1.0.0", Type: PluginType("theme")},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.metadata.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected error but got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

// TestPluginTypeValidation tests plugin type validation.
func TestPluginTypeValidation(t *testing.T) {
	tests := []struct {
		name       string
		pluginType PluginType
		expected   bool
	}{
		{"transform is valid", PluginTypeTransform, true},
		{"generator is valid", PluginTypeGenerator, true},
		{"invalid type", PluginType("publisher"), false},
		{"empty type", PluginType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pluginType.IsValid(); got != tt.expected {
				t.Errorf("IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestPluginMetadataString(t *testing.T) {
	m := PluginMetadata{Name: "sitemap", Version: "v1.0.0", Type: PluginTypeGenerator}
	if got := m.String(); got != "sitemap@v1.0.0 (generator)" {
		t.Errorf("String() = %q", got)
	}
}

func TestPluginError(t *testing.T) {
	cause := errors.New("encode failed")
	err := NewPluginError("sitemap", "execute", cause)

	if !errors.Is(err, cause) {
		t.Error("expected PluginError to unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "plugin sitemap failed during execute") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestContextForPluginTagsLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	pc := NewContext(logger, nil, nil, "build-1", nil)
	pc.ForPlugin("sitemap").Logger.Info("hello")

	out := buf.String()
	assert.Contains(t, out, "build_id=build-1")
	assert.Contains(t, out, "plugin=sitemap")
	assert.NotNil(t, pc.Files)
	assert.NotNil(t, pc.Recorder)
}
