package sitemap

import (
	"io"
	"log/slog"

	"git.home.luguber.info/inful/sitemapper/internal/metrics"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type countingRecorder struct {
	metrics.NoopRecorder
	entries int
	skipped map[string]int
}

func (r *countingRecorder) AddSitemapEntries(n int) { r.entries += n }

func (r *countingRecorder) IncFileSkipped(_, reason string) {
	if r.skipped == nil {
		r.skipped = make(map[string]int)
	}
	r.skipped[reason]++
}
