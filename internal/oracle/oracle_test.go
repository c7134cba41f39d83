package oracle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/parsing"
	"github.com/jonathan/resume-analyzer/internal/patterns"
	"github.com/jonathan/resume-analyzer/internal/scoring"
	"github.com/jonathan/resume-analyzer/internal/signals"
)

const validAnalysis = `{
  "overall_score": 99,
  "findings": [
    {"category": "Keywords", "score": 30, "max_score": 40, "details": ["Go"]},
    {"category": "Formatting", "score": 10.6},
    {"category": "Vibes", "score": 5},
    {"category": "Keywords", "score": 0}
  ],
  "matched_keywords": ["Go", "go", "SQL"],
  "suggestions": ["Quantify impact"]
}`

const validResume = `{
  "full_name": "Jordan Lee",
  "email": "jordan@example.com",
  "experiences": [
    {"position": "Engineer", "company": "Acme"},
    {"position": "Intern", "confidence": "low"}
  ],
  "projects": [{"name": "Analyzer"}]
}`

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected FallbackReason
	}{
		{"nil", nil, ReasonNone},
		{"not configured", ErrNotConfigured, ReasonNotConfigured},
		{"deadline", fmt.Errorf("post: %w", context.DeadlineExceeded), ReasonTimeout},
		{"canceled", fmt.Errorf("post: %w", context.Canceled), ReasonCanceled},
		{"net timeout", fmt.Errorf("dial: %w", timeoutErr{}), ReasonTimeout},
		{"status", &StatusError{Code: 503}, ReasonBadStatus},
		{"malformed", &MalformedError{Message: "x"}, ReasonMalformed},
		{"other", errors.New("connection refused"), ReasonTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}
}

func TestOutcome(t *testing.T) {
	ok := Success(42)
	assert.True(t, ok.OK())
	assert.Equal(t, 42, ok.Value)

	fb := Fallback[int](ReasonTimeout, context.DeadlineExceeded)
	assert.False(t, fb.OK())
	assert.Zero(t, fb.Value)
	assert.ErrorIs(t, fb.Err, context.DeadlineExceeded)
}

func TestDisabled(t *testing.T) {
	var o Oracle = Disabled{}
	a := o.Analyze(context.Background(), Request{Text: "x"})
	assert.Equal(t, ReasonNotConfigured, a.Reason)
	p := o.Parse(context.Background(), "x")
	assert.Equal(t, ReasonNotConfigured, p.Reason)
	assert.ErrorIs(t, p.Err, ErrNotConfigured)
}

func TestDecodeAnalysis_KeepsKnownCategories(t *testing.T) {
	result, err := DecodeAnalysis([]byte(validAnalysis))
	require.NoError(t, err)

	require.Len(t, result.Findings, 2, "unknown and repeated categories are dropped")
	kw, ok := result.Finding(signals.CategoryKeywords)
	require.True(t, ok)
	assert.Equal(t, 30, kw.Score)
	assert.Zero(t, kw.Max, "the payload's max_score is ignored")

	f, ok := result.Finding(signals.CategoryFormatting)
	require.True(t, ok)
	assert.Equal(t, 11, f.Score)
	assert.Zero(t, result.OverallScore)
}

func TestDecodeAnalysis_NormalizesUnderLibrary(t *testing.T) {
	override, err := patterns.FromJSON("override", []byte(`{"weights": {"Keywords": 40}}`))
	require.NoError(t, err)

	tests := []struct {
		name     string
		lib      *patterns.Library
		keywords int
		overall  int
	}{
		{"built-in weights", patterns.Default(), 15, 87},
		{"override weights", override, 30, 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := DecodeAnalysis([]byte(validAnalysis))
			require.NoError(t, err)

			result, ok := scoring.Normalize(tt.lib, raw)
			require.True(t, ok)

			kw, _ := result.Finding(signals.CategoryKeywords)
			assert.Equal(t, tt.keywords, kw.Score)
			assert.Equal(t, tt.overall, result.OverallScore, "recomputed, not the payload's 99")
			assert.Equal(t, []string{"Go", "SQL"}, result.MatchedKeywords)
			assert.Equal(t, []string{"Quantify impact"}, result.Suggestions)
		})
	}
}

func TestDecodeAnalysis_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "<html>busy</html>"},
		{"missing findings", `{"overall_score": 50}`},
		{"empty findings", `{"findings": []}`},
		{"score out of range", `{"overall_score": 140, "findings": [{"category": "Keywords", "score": 1}]}`},
		{"only unknown categories", `{"findings": [{"category": "Vibes", "score": 3}]}`},
		{"wrong type", `{"findings": [{"category": "Keywords", "score": "high"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeAnalysis([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, ReasonMalformed, Classify(err))
		})
	}
}

func TestDecodeResume(t *testing.T) {
	resume, err := DecodeResume([]byte(validResume))
	require.NoError(t, err)

	assert.Equal(t, parsing.SourceOracle, resume.Source)
	assert.Equal(t, "Jordan Lee", resume.FullName)
	assert.NotNil(t, resume.Skills)
	assert.NotNil(t, resume.Educations)
	require.Len(t, resume.Experiences, 2)
	assert.Equal(t, parsing.ConfidenceHigh, resume.Experiences[0].Confidence)
	assert.Equal(t, parsing.ConfidenceLow, resume.Experiences[1].Confidence)
	require.Len(t, resume.Projects, 1)
	assert.NotNil(t, resume.Projects[0].Technologies)

	_, err = DecodeResume([]byte(`{"skills": "Go"}`))
	assert.Equal(t, ReasonMalformed, Classify(err))
}

func TestCategories(t *testing.T) {
	assert.Len(t, Categories(false), 6)
	withJob := Categories(true)
	assert.Len(t, withJob, 7)
	assert.Equal(t, signals.CategoryJobMatch, withJob[6])
}
