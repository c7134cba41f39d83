package oracle

import (
	"context"
	"encoding/json"
	"math"
	"slices"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/patterns"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/signals"
)

// Request is the text sent for analysis.
type Request struct {
	Text           string `json:"text"`
	JobDescription string `json:"job_description,omitempty"`
}

// Oracle analyzes and parses resumes remotely.
type Oracle interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Analyze returns findings with raw scores. Weighting is applied by scoring.Normalize.
	Analyze(ctx context.Context, req Request) Outcome[*scoring.AnalysisResult]
	Parse(ctx context.Context, text string) Outcome[*parsing.StructuredResume]
}

// Disabled is the Oracle used when nothing is configured.
type Disabled struct{}

// Name implements Oracle.
func (Disabled) Name() string { return "disabled" }

// Analyze implements Oracle.
func (Disabled) Analyze(context.Context, Request) Outcome[*scoring.AnalysisResult] {
	return Fallback[*scoring.AnalysisResult](ReasonNotConfigured, ErrNotConfigured)
}

// Parse implements Oracle.
func (Disabled) Parse(context.Context, string) Outcome[*parsing.StructuredResume] {
	return Fallback[*parsing.StructuredResume](ReasonNotConfigured, ErrNotConfigured)
}

// Categories lists the categories an oracle is asked to score.
func Categories(withJob bool) []string {
	out := patterns.Categories()
	if !withJob {
		out = slices.DeleteFunc(out, func(c string) bool { return c == patterns.CategoryJobMatch })
	}
	return out
}

type wireFinding struct {
	Category string   `json:"category"`
	Score    float64  `json:"score"`
	Details  []string `json:"details"`
	Hints    []string `json:"hints"`
}

type wireAnalysis struct {
	Findings        []wireFinding `json:"findings"`
	MatchedKeywords []string      `json:"matched_keywords"`
	MissingKeywords []string      `json:"missing_keywords"`
	Suggestions     []string      `json:"suggestions"`
	Strengths       []string      `json:"strengths"`
}

// DecodeAnalysis validates an analysis payload and keeps the first finding of each known
// category, scores rounded. The payload's own overall score and maxima are ignored; the
// caller weights the result with scoring.Normalize.
func DecodeAnalysis(data []byte) (*scoring.AnalysisResult, error) {
	if err := schemas.Validate(schemas.AnalysisResult, data); err != nil {
		return nil, &MalformedError{Message: "analysis schema", Cause: err}
	}
	var wire wireAnalysis
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, &MalformedError{Message: "analysis body", Cause: err}
	}

	known := patterns.Categories()
	seen := make(map[string]bool, len(known))
	result := &scoring.AnalysisResult{
		MatchedKeywords: wire.MatchedKeywords,
		MissingKeywords: wire.MissingKeywords,
		Suggestions:     wire.Suggestions,
		Strengths:       wire.Strengths,
	}
	for _, f := range wire.Findings {
		if !slices.Contains(known, f.Category) || seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		result.Findings = append(result.Findings, signals.Finding{
			Category: f.Category,
			Score:    int(math.Round(f.Score)),
			Details:  f.Details,
			Hints:    f.Hints,
		})
	}
	if len(result.Findings) == 0 {
		return nil, &MalformedError{Message: "no known categories in findings"}
	}
	return result, nil
}

// DecodeResume validates a structured resume payload. Entries without a confidence tag
// are treated as firm extractions.
func DecodeResume(data []byte) (*parsing.StructuredResume, error) {
	if err := schemas.Validate(schemas.StructuredResume, data); err != nil {
		return nil, &MalformedError{Message: "resume schema", Cause: err}
	}
	var resume parsing.StructuredResume
	if err := json.Unmarshal(data, &resume); err != nil {
		return nil, &MalformedError{Message: "resume body", Cause: err}
	}

	resume.Source = parsing.SourceOracle
	resume.EnsureDefaults()
	for i := range resume.Experiences {
		if resume.Experiences[i].Confidence == "" {
			resume.Experiences[i].Confidence = parsing.ConfidenceHigh
		}
	}
	return &resume, nil
}
