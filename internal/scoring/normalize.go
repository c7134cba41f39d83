package scoring

import (
	"github.com/jonathan/resume-analyzer/internal/patterns"
	"github.com/jonathan/resume-analyzer/internal/signals"
)

// Normalize re-aggregates a result produced elsewhere under the library's weights.
// Findings for unknown categories are dropped, repeated categories keep the first, and
// scores are clamped to the library's maxima. It reports false when no finding survives.
// Suggestions and strengths supplied with the result are kept (deduplicated and capped);
// when absent they are derived locally.
func Normalize(lib *patterns.Library, in *AnalysisResult) (*AnalysisResult, bool) {
	if in == nil {
		return nil, false
	}

	kept := make([]signals.Finding, 0, len(in.Findings))
	seen := make(map[string]bool, len(in.Findings))
	for _, f := range in.Findings {
		max, ok := lib.MaxScore(f.Category)
		if !ok || seen[f.Category] {
			continue
		}
		seen[f.Category] = true
		f.Max = max
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return nil, false
	}

	out := Aggregate(kept, Keywords{Matched: in.MatchedKeywords, Missing: in.MissingKeywords})
	if s := dedupe(in.Suggestions, MaxSuggestions); len(s) > 0 {
		out.Suggestions = s
	}
	if s := dedupe(in.Strengths, MaxStrengths); len(s) > 0 {
		out.Strengths = s
	}
	return out, true
}
