// Package pipeline runs configured plugins over a file set, in order.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitemapper/internal/config"
	"git.home.luguber.info/inful/sitemapper/internal/fileset"
	"git.home.luguber.info/inful/sitemapper/internal/logfields"
	"git.home.luguber.info/inful/sitemapper/internal/metrics"
	"git.home.luguber.info/inful/sitemapper/internal/plugin"
)

// CompletionFunc receives the outcome of a run. It is invoked exactly once.
type CompletionFunc func(report *Report, err error)

// Pipeline executes plugins sequentially, stopping at the first failure.
type Pipeline struct {
	plugins    []plugin.Plugin
	recorder   metrics.Recorder
	observers  []BuildObserver
	completion CompletionFunc
	logger     *slog.Logger
	newBuildID func() string
}

// PipelineOption configures pipeline behavior.
type PipelineOption func(*Pipeline)

// WithRecorder sets the metrics recorder handed to plugins and stage observers.
func WithRecorder(r metrics.Recorder) PipelineOption {
	return func(p *Pipeline) {
		p.recorder = metrics.OrNoop(r)
	}
}

// WithObserver adds a build observer.
func WithObserver(o BuildObserver) PipelineOption {
	return func(p *Pipeline) {
		p.observers = append(p.observers, o)
	}
}

// WithCompletion registers the completion callback.
func WithCompletion(fn CompletionFunc) PipelineOption {
	return func(p *Pipeline) {
		p.completion = fn
	}
}

// WithLogger sets the base logger.
func WithLogger(l *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// WithBuildID fixes the build id generator.
func WithBuildID(fn func() string) PipelineOption {
	return func(p *Pipeline) {
		p.newBuildID = fn
	}
}

// New creates a pipeline over plugins.
func New(plugins []plugin.Plugin, options ...PipelineOption) *Pipeline {
	p := &Pipeline{
		plugins:    plugins,
		recorder:   metrics.NoopRecorder{},
		logger:     slog.Default(),
		newBuildID: uuid.NewString,
	}
	for _, opt := range options {
		opt(p)
	}
	p.observers = append([]BuildObserver{RecorderObserver{Recorder: p.recorder}}, p.observers...)
	return p
}

// Run executes every plugin against files. Cancellation is checked between
// stages; a running stage always completes. The returned report is never nil.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config, files *fileset.FileSet) (report *Report, err error) {
	defer func() {
		if p.completion != nil {
			p.completion(report, err)
		}
	}()

	report = &Report{BuildID: p.newBuildID(), Start: time.Now()}
	pc := plugin.NewContext(p.logger, cfg, files, report.BuildID, p.recorder)
	pc.Logger.Info("Build started", logfields.Files(files.Len()), slog.Int("stages", len(p.plugins)))

	for i, pl := range p.plugins {
		name := pl.Metadata().Name

		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
			p.skipRemaining(report, i)
			break
		}

		p.notifyStart(name)
		stageCtx := pc.ForPlugin(name)
		t0 := time.Now()
		stageErr := pl.Execute(ctx, stageCtx)
		out := StageOutcome{Stage: name, Duration: time.Since(t0), Result: metrics.ResultSuccess}

		log := pc.Logger.With(logfields.Stage(name), logfields.DurationMS(float64(out.Duration.Microseconds())/1000))
		if stageErr != nil {
			out.Result = metrics.ResultFailed
			out.Err = plugin.NewPluginError(name, "execute", stageErr)
			log.Error("Stage failed", logfields.Error(stageErr))
		} else {
			log.Info("Stage completed")
		}
		report.Stages = append(report.Stages, out)
		p.notifyComplete(out)

		if out.Err != nil {
			err = out.Err
			p.skipRemaining(report, i+1)
			break
		}
	}

	report.End = time.Now()
	report.Files = files.Len()
	report.Outcome = OutcomeSuccess
	if err != nil {
		report.Outcome = OutcomeFailed
	}
	for _, o := range p.observers {
		o.OnBuildComplete(report)
	}
	pc.Logger.Info("Build finished",
		slog.String("outcome", string(report.Outcome)),
		logfields.DurationMS(float64(report.Duration().Microseconds())/1000),
		logfields.Files(report.Files))
	return report, err
}

func (p *Pipeline) skipRemaining(report *Report, from int) {
	for _, pl := range p.plugins[from:] {
		out := StageOutcome{Stage: pl.Metadata().Name, Result: metrics.ResultSkipped}
		report.Stages = append(report.Stages, out)
		p.notifyComplete(out)
	}
}

func (p *Pipeline) notifyStart(stage string) {
	for _, o := range p.observers {
		o.OnStageStart(stage)
	}
}

func (p *Pipeline) notifyComplete(out StageOutcome) {
	for _, o := range p.observers {
		o.OnStageComplete(out.Stage, out.Duration, out.Result)
	}
}
