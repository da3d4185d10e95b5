package metrics

import (
	"testing"
	"time"
)

// compile-time checks
var (
	_ Recorder = NoopRecorder{}
	_ Recorder = (*PrometheusRecorder)(nil)
)

func TestNoopRecorder(t *testing.T) {
	r := OrNoop(nil)
	if _, ok := r.(NoopRecorder); !ok {
		t.Fatalf("expected NoopRecorder, got %T", r)
	}
	r.ObserveStageDuration("sitemap", time.Millisecond)
	r.ObserveBuildDuration(time.Second)
	r.IncStageResult("sitemap", ResultSuccess)
	r.IncBuildOutcome("success")
	r.AddSitemapEntries(3)
	r.IncFileSkipped("sitemap", "private")
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var p *PrometheusRecorder
	p.ObserveStageDuration("sitemap", time.Millisecond)
	p.IncStageResult("sitemap", ResultFailed)
	p.AddSitemapEntries(1)
	p.IncFileSkipped("sitemap", "pattern")
}
