package scoring

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/patterns"
	"github.com/jonathan/resume-analyzer/internal/schemas"
	"github.com/jonathan/resume-analyzer/internal/signals"
)

const sampleResume = `Jordan A. Lee
Email: jordan.lee@example.com | Phone: (415) 555-0199 | linkedin.com/in/jordanlee
Austin, TX

PROFESSIONAL SUMMARY
Backend engineer building distributed systems in Python and Kubernetes.

WORK EXPERIENCE
Senior Software Engineer, Acme Corp
Jan 2020 - Present
- Led a team of 8 engineers and increased throughput by 40%
- Reduced cloud spend by $1.2M across 12 projects

EDUCATION
Bachelor of Science in Computer Science, Stanford University, 2012 - 2016

SKILLS
Python, Docker, Kubernetes, AWS, SQL`

var none = ingestion.NewResumeText("")

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name     string
		findings []signals.Finding
		expected int
	}{
		{"No findings", nil, 0},
		{"Zero max only", []signals.Finding{{Category: "X", Score: 5, Max: 0}}, 0},
		{"Full marks", []signals.Finding{{Score: 15, Max: 15}, {Score: 20, Max: 20}}, 100},
		{"Rounds half up", []signals.Finding{{Score: 1, Max: 8}}, 13},
		{"Out of range scores are clamped", []signals.Finding{{Score: 50, Max: 10}, {Score: -3, Max: 10}}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, OverallScore(tt.findings))
		})
	}
}

func TestAggregate_Classification(t *testing.T) {
	findings := []signals.Finding{
		signals.NewFinding(patterns.Default(), signals.CategoryKeywords, 15, nil, nil),
		signals.NewFinding(patterns.Default(), signals.CategorySections, 8, nil, []string{"Add missing sections: Skills"}),
		signals.NewFinding(patterns.Default(), signals.CategoryAchievements, 0, nil, []string{"Quantify results"}),
		signals.NewFinding(patterns.Default(), signals.CategoryContact, 12, nil, []string{"Add your LinkedIn profile URL"}),
		signals.NewFinding(patterns.Default(), signals.CategoryFormatting, 5, nil, nil),
	}

	result := Aggregate(findings, Keywords{})

	assert.Equal(t, []string{"Good use of industry keywords", "Complete contact information"}, result.Strengths)
	// Weakest first: achievements (0), formatting (0.33), sections (0.4)
	assert.Equal(t, []string{"Quantify results", "Improve your formatting", "Add missing sections: Skills"}, result.Suggestions)
	assert.Equal(t, 47, result.OverallScore)
}

func TestAggregate_CapsAndDedupe(t *testing.T) {
	hints := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		hints = append(hints, strings.Repeat("x", i+1))
	}
	findings := []signals.Finding{
		signals.NewFinding(patterns.Default(), signals.CategoryKeywords, 0, nil, hints),
		signals.NewFinding(patterns.Default(), signals.CategorySections, 0, nil, []string{"x", "X "}),
	}
	matched := make([]string, 0, 30)
	for i := 0; i < 30; i++ {
		matched = append(matched, strings.Repeat("k", i+1))
	}

	result := Aggregate(findings, Keywords{Matched: append(matched, "k", "K"), Missing: matched})

	assert.Len(t, result.Suggestions, MaxSuggestions)
	assert.Len(t, result.MatchedKeywords, MaxMatchedKeywords)
	assert.Len(t, result.MissingKeywords, MaxMissingKeywords)
	assert.Equal(t, "k", result.MatchedKeywords[0])
}

func TestAggregate_DoesNotAliasInput(t *testing.T) {
	findings := []signals.Finding{{Category: signals.CategoryKeywords, Score: 99, Max: 15}}
	result := Aggregate(findings, Keywords{})
	assert.Equal(t, 15, result.Findings[0].Score)
	assert.Equal(t, 99, findings[0].Score)
}

func TestAnalyze_Bounds(t *testing.T) {
	lib := patterns.Default()
	inputs := []string{
		"",
		sampleResume,
		"\xff\xfe binary \x00 garbage",
		strings.Repeat("Led Managed Built 50% $3M ", 400),
		strings.Repeat("│", 2000),
	}

	for _, input := range inputs {
		result := Analyze(lib, ingestion.NewResumeText(input), none)
		assert.GreaterOrEqual(t, result.OverallScore, 0)
		assert.LessOrEqual(t, result.OverallScore, 100)
		require.Len(t, result.Findings, 6)
		for _, f := range result.Findings {
			assert.GreaterOrEqual(t, f.Score, 0, f.Category)
			assert.LessOrEqual(t, f.Score, f.Max, f.Category)
		}
		assert.LessOrEqual(t, len(result.Suggestions), MaxSuggestions)
		assert.LessOrEqual(t, len(result.Strengths), MaxStrengths)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	result := Analyze(patterns.Default(), ingestion.NewResumeText(""), none)

	assert.Equal(t, 0, result.OverallScore)
	assert.Len(t, result.Findings, 6)
	for _, f := range result.Findings {
		assert.Zero(t, f.Score, f.Category)
	}
	assert.Empty(t, result.MatchedKeywords)
	assert.Empty(t, result.Strengths)
	assert.NotEmpty(t, result.Suggestions)
}

func TestAnalyze_Idempotent(t *testing.T) {
	lib := patterns.Default()
	jd := ingestion.NewResumeText("Looking for Python and Terraform skills")

	first := Analyze(lib, ingestion.NewResumeText(sampleResume), jd)
	second := Analyze(lib, ingestion.NewResumeText(sampleResume), jd)
	assert.Equal(t, first, second)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
}

func TestAnalyze_SampleResume(t *testing.T) {
	result := Analyze(patterns.Default(), ingestion.NewResumeText(sampleResume), none)

	contact, ok := result.Finding(signals.CategoryContact)
	require.True(t, ok)
	assert.Equal(t, 15, contact.Score)

	sections, ok := result.Finding(signals.CategorySections)
	require.True(t, ok)
	assert.Equal(t, 20, sections.Score)

	assert.Contains(t, result.MatchedKeywords, "python")
	assert.Contains(t, result.MissingKeywords, "javascript")
	assert.Contains(t, result.Strengths, "Complete contact information")
	assert.Greater(t, result.OverallScore, 50)
}

func TestAnalyze_WithJobDescription(t *testing.T) {
	jd := ingestion.NewResumeText("We need Python, Kubernetes and Terraform experience.")
	result := Analyze(patterns.Default(), ingestion.NewResumeText(sampleResume), jd)

	require.Len(t, result.Findings, 7)
	match, ok := result.Finding(signals.CategoryJobMatch)
	require.True(t, ok)
	assert.Equal(t, 20, match.Max)
	assert.Equal(t, []string{"python", "kubernetes"}, result.MatchedKeywords)
	assert.Equal(t, []string{"terraform"}, result.MissingKeywords)
}

func TestAnalyze_OverrideWeights(t *testing.T) {
	lib, err := patterns.FromJSON("override", []byte(`{
		"weights": {"Keywords": 40, "Action Verbs": 5, "Sections": 10, "Job Match": 30}
	}`))
	require.NoError(t, err)

	tests := []struct {
		name     string
		jd       ingestion.ResumeText
		totalMax int
	}{
		{"local categories", none, 40 + 5 + 10 + 15 + 20 + 15},
		{"with job description", ingestion.NewResumeText("We need Python, Kubernetes and Terraform experience."), 40 + 5 + 10 + 15 + 20 + 15 + 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Analyze(lib, ingestion.NewResumeText(sampleResume), tt.jd)

			achieved, total := 0, 0
			for _, f := range result.Findings {
				max, ok := lib.MaxScore(f.Category)
				require.True(t, ok, f.Category)
				assert.Equal(t, max, f.Max, f.Category)
				achieved += f.Score
				total += f.Max
			}
			assert.Equal(t, tt.totalMax, total)
			assert.Equal(t, int(math.Round(100*float64(achieved)/float64(total))), result.OverallScore)

			kw, _ := result.Finding(signals.CategoryKeywords)
			assert.Equal(t, 40, kw.Max)
		})
	}
}

func TestAnalyze_ResultMatchesSchema(t *testing.T) {
	result := Analyze(patterns.Default(), ingestion.NewResumeText(sampleResume), none)
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NoError(t, schemas.Validate(schemas.AnalysisResult, data))
}
