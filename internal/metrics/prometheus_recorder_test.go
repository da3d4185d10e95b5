package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("sitemap", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("sitemap", ResultSuccess)
	pr.IncBuildOutcome("success")
	pr.AddSitemapEntries(4)
	pr.AddSitemapEntries(0)
	pr.IncFileSkipped("sitemap", "private")
	pr.IncFileSkipped("sitemap", "private")

	assert.InDelta(t, 4, testutil.ToFloat64(pr.sitemapEntries), 0.001)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.filesSkipped.WithLabelValues("sitemap", "private")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("sitemap", "success")), 0.001)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	assert.Len(t, mfs, 6)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.AddSitemapEntries(2)

	path := filepath.Join(t.TempDir(), "sitemapper.prom")
	require.NoError(t, WriteTextfile(reg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "sitemapper_sitemap_entries_total 2"))
}
