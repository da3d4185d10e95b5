package pipeline

import (
	"time"

	"git.home.luguber.info/inful/sitemapper/internal/metrics"
)

// Outcome is the final status of a build.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
)

// StageOutcome records how one stage ended.
type StageOutcome struct {
	Stage    string
	Duration time.Duration
	Result   metrics.ResultLabel
	Err      error
}

// Report summarizes one pipeline run.
type Report struct {
	BuildID string
	Start   time.Time
	End     time.Time
	Stages  []StageOutcome
	Outcome Outcome
	Files   int
}

// Duration returns the wall time of the run.
func (r *Report) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Failed returns the first failed stage, if any.
func (r *Report) Failed() (StageOutcome, bool) {
	for _, s := range r.Stages {
		if s.Result == metrics.ResultFailed {
			return s, true
		}
	}
	return StageOutcome{}, false
}
