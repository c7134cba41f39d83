// Package scoring reduces signal findings into an AnalysisResult.
package scoring

import (
	"math"
	"sort"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/patterns"
	"github.com/jonathan/resume-analyzer/internal/signals"
)

// Display caps.
const (
	MaxSuggestions     = 8
	MaxStrengths       = 6
	MaxMatchedKeywords = 15
	MaxMissingKeywords = 10
)

// strengthRatio is the share of a category's maximum at which it counts as a strength.
const strengthRatio = 0.8

var strengthText = map[string]string{
	signals.CategoryKeywords:     "Good use of industry keywords",
	signals.CategoryActionVerbs:  "Strong action verbs throughout",
	signals.CategorySections:     "All key resume sections are present",
	signals.CategoryContact:      "Complete contact information",
	signals.CategoryAchievements: "Achievements are well quantified",
	signals.CategoryFormatting:   "Clean, ATS-friendly formatting",
	signals.CategoryJobMatch:     "Strong match with the job description",
}

// AnalysisResult is the outcome of one analysis. It is never modified after Aggregate returns it.
type AnalysisResult struct {
	OverallScore    int               `json:"overall_score"`
	Findings        []signals.Finding `json:"findings"`
	MatchedKeywords []string          `json:"matched_keywords"`
	MissingKeywords []string          `json:"missing_keywords"`
	Suggestions     []string          `json:"suggestions"`
	Strengths       []string          `json:"strengths"`
}

// Keywords carries the keyword lists displayed alongside the findings.
type Keywords struct {
	Matched []string
	Missing []string
}

// Finding returns the finding for a category, if present.
func (r *AnalysisResult) Finding(category string) (signals.Finding, bool) {
	for _, f := range r.Findings {
		if f.Category == category {
			return f, true
		}
	}
	return signals.Finding{}, false
}

// Analyze runs the local extractors over resume and aggregates them. A non-empty job
// description adds the Job Match category and drives the keyword lists.
func Analyze(lib *patterns.Library, resume, jobDescription ingestion.ResumeText) *AnalysisResult {
	extractors := signals.Local()
	findings := make([]signals.Finding, 0, len(extractors)+1)
	for _, extract := range extractors {
		findings = append(findings, extract(lib, resume))
	}

	var kw Keywords
	if jobDescription.IsEmpty() {
		kw.Matched = signals.FindKeywords(lib, resume)
		kw.Missing = signals.MissingIndustryKeywords(lib, resume)
	} else {
		match := signals.JobMatch(lib, resume, jobDescription)
		findings = append(findings, match.Finding)
		kw.Matched = match.Matched
		kw.Missing = match.Missing
	}

	return Aggregate(findings, kw)
}

// Aggregate builds an AnalysisResult from findings. Scores are re-clamped to [0, Max],
// suggestions come from weak findings (weakest first) and strengths from strong ones.
func Aggregate(findings []signals.Finding, kw Keywords) *AnalysisResult {
	clamped := make([]signals.Finding, len(findings))
	for i, f := range findings {
		f.Score = signals.Clamp(f.Score, f.Max)
		if f.Details == nil {
			f.Details = []string{}
		}
		clamped[i] = f
	}

	return &AnalysisResult{
		OverallScore:    OverallScore(clamped),
		Findings:        clamped,
		MatchedKeywords: dedupe(kw.Matched, MaxMatchedKeywords),
		MissingKeywords: dedupe(kw.Missing, MaxMissingKeywords),
		Suggestions:     suggestions(clamped),
		Strengths:       strengths(clamped),
	}
}

// OverallScore is round(100 × Σscore / Σmax), or 0 when Σmax is 0.
func OverallScore(findings []signals.Finding) int {
	achieved, total := 0, 0
	for _, f := range findings {
		if f.Max <= 0 {
			continue
		}
		achieved += signals.Clamp(f.Score, f.Max)
		total += f.Max
	}
	if total == 0 {
		return 0
	}
	return signals.Clamp(int(math.Round(100*float64(achieved)/float64(total))), 100)
}

func isStrong(f signals.Finding) bool {
	return f.Max > 0 && f.Ratio() >= strengthRatio
}

func suggestions(findings []signals.Finding) []string {
	weak := make([]signals.Finding, 0, len(findings))
	for _, f := range findings {
		if f.Max > 0 && !isStrong(f) {
			weak = append(weak, f)
		}
	}
	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Ratio() < weak[j].Ratio()
	})

	var out []string
	for _, f := range weak {
		if len(f.Hints) == 0 {
			out = append(out, "Improve your "+strings.ToLower(f.Category))
			continue
		}
		out = append(out, f.Hints...)
	}
	return dedupe(out, MaxSuggestions)
}

func strengths(findings []signals.Finding) []string {
	var out []string
	for _, f := range findings {
		if !isStrong(f) {
			continue
		}
		text, ok := strengthText[f.Category]
		if !ok {
			text = "Strong " + strings.ToLower(f.Category)
		}
		out = append(out, text)
	}
	return dedupe(out, MaxStrengths)
}

// dedupe drops blanks and case-insensitive repeats, keeping order, capped at n.
func dedupe(items []string, n int) []string {
	out := make([]string, 0, min(len(items), n))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
		if len(out) == n {
			break
		}
	}
	return out
}
