package pipeline

import (
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
type BuildObserver interface {
	OnStageStart(stage string)
	OnStageComplete(stage string, duration time.Duration, result metrics.ResultLabel)
	OnBuildComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(string)                                        {}
func (NoopObserver) OnStageComplete(string, time.Duration, metrics.ResultLabel) {}
func (NoopObserver) OnBuildComplete(*Report)                                    {}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnStageStart(string) {}

func (r RecorderObserver) OnStageComplete(stage string, d time.Duration, result metrics.ResultLabel) {
	if r.Recorder == nil {
		return
	}
	if result != metrics.ResultSkipped {
		r.Recorder.ObserveStageDuration(stage, d)
	}
	r.Recorder.IncStageResult(stage, result)
}

func (r RecorderObserver) OnBuildComplete(report *Report) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.Duration())
	r.Recorder.IncBuildOutcome(string(report.Outcome))
}
