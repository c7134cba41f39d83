// Package engine chooses between the remote oracle and the local heuristic pipeline.
//
// The oracle is consulted first when one is configured. Any fallback reason sends the
// request to the local pipeline, and the reason is kept on the report instead of being
// returned as an error.
package engine

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/metrics"
	"github.com/jonathan/resume-analyzer/internal/oracle"
	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/patterns"
	"github.com/jonathan/resume-analyzer/internal/scoring"
)

// Modes used in logs and metrics.
const (
	ModeAnalyze = "analyze"
	ModeParse   = "parse"
)

var errNoScorableFindings = errors.New("oracle returned no scorable findings")

// Engine runs analyses and parses. It is safe for concurrent use.
type Engine struct {
	lib     *patterns.Library
	oracle  oracle.Oracle
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithOracle sets the remote oracle. Nil keeps the disabled one.
func WithOracle(o oracle.Oracle) Option {
	return func(e *Engine) {
		if o != nil {
			e.oracle = o
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// New returns an engine over lib. A nil lib means patterns.Default().
func New(lib *patterns.Library, opts ...Option) *Engine {
	if lib == nil {
		lib = patterns.Default()
	}
	e := &Engine{
		lib:    lib,
		oracle: oracle.Disabled{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Library returns the pattern library in use.
func (e *Engine) Library() *patterns.Library {
	return e.lib
}

// OracleName names the configured oracle, "disabled" when there is none.
func (e *Engine) OracleName() string {
	return e.oracle.Name()
}

// Report is the outcome of Analyze.
type Report struct {
	Result *scoring.AnalysisResult `json:"result"`
	// Source is the pipeline that produced Result.
	Source parsing.Source `json:"source"`
	// FallbackReason explains why the oracle was not used, empty when it was.
	FallbackReason oracle.FallbackReason `json:"fallback_reason,omitempty"`
	Duration       time.Duration         `json:"duration_ns"`
}

// ParseReport is the outcome of Parse.
type ParseReport struct {
	Resume         *parsing.StructuredResume `json:"resume"`
	Source         parsing.Source            `json:"source"`
	FallbackReason oracle.FallbackReason     `json:"fallback_reason,omitempty"`
	Duration       time.Duration             `json:"duration_ns"`
}

// Analyze scores text, optionally against a job description. It always returns a result.
func (e *Engine) Analyze(ctx context.Context, text, jobDescription string) Report {
	start := time.Now()
	resume := ingestion.NewResumeText(text)
	jd := ingestion.NewResumeText(jobDescription)

	report := Report{Source: parsing.SourceHeuristic}
	if !resume.IsEmpty() {
		out := e.oracle.Analyze(ctx, oracle.Request{Text: resume.Normalized(), JobDescription: jd.Normalized()})
		if out.OK() {
			if result, ok := scoring.Normalize(e.lib, out.Value); ok {
				report.Result, report.Source = result, parsing.SourceOracle
			} else {
				out = oracle.Fallback[*scoring.AnalysisResult](oracle.ReasonMalformed, errNoScorableFindings)
			}
		}
		if !out.OK() {
			report.FallbackReason = out.Reason
			e.fellBack(ModeAnalyze, out.Reason, out.Err)
		}
	}
	if report.Result == nil {
		report.Result = scoring.Analyze(e.lib, resume, jd)
	}

	report.Duration = time.Since(start)
	e.metrics.Run(ModeAnalyze, string(report.Source), report.Duration)
	e.metrics.Score(report.Result.OverallScore)
	e.logger.Debug("analysis complete",
		zap.String("source", string(report.Source)),
		zap.Int("overall_score", report.Result.OverallScore),
		zap.Duration("duration", report.Duration))
	return report
}

// Parse decomposes text into a StructuredResume. It always returns a resume.
func (e *Engine) Parse(ctx context.Context, text string) ParseReport {
	start := time.Now()
	resume := ingestion.NewResumeText(text)

	report := ParseReport{Source: parsing.SourceHeuristic}
	if !resume.IsEmpty() {
		out := e.oracle.Parse(ctx, resume.Normalized())
		if out.OK() {
			report.Resume, report.Source = out.Value, parsing.SourceOracle
		} else {
			report.FallbackReason = out.Reason
			e.fellBack(ModeParse, out.Reason, out.Err)
		}
	}
	if report.Resume == nil {
		report.Resume = parsing.Parse(e.lib, resume)
	}

	report.Duration = time.Since(start)
	e.metrics.Run(ModeParse, string(report.Source), report.Duration)
	e.logger.Debug("parse complete",
		zap.String("source", string(report.Source)),
		zap.Int("experiences", len(report.Resume.Experiences)),
		zap.Duration("duration", report.Duration))
	return report
}

func (e *Engine) fellBack(mode string, reason oracle.FallbackReason, cause error) {
	e.metrics.Fallback(mode, string(reason))
	if reason == oracle.ReasonNotConfigured {
		return
	}
	e.logger.Warn("oracle unavailable, using local pipeline",
		zap.String("mode", mode),
		zap.String("oracle", e.oracle.Name()),
		zap.String("reason", string(reason)),
		zap.Error(cause))
}
