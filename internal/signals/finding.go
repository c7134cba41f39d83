// Package signals implements the independent signal extractors that score resume text.
//
// Every extractor reads a patterns.Library and an ingestion.ResumeText and returns one
// Finding. Extractors never depend on each other and never mutate their inputs, so they
// can run in any order or concurrently.
package signals

import (
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/patterns"
)

// Category labels.
const (
	CategoryKeywords     = patterns.CategoryKeywords
	CategoryActionVerbs  = patterns.CategoryActionVerbs
	CategorySections     = patterns.CategorySections
	CategoryContact      = patterns.CategoryContact
	CategoryAchievements = patterns.CategoryAchievements
	CategoryFormatting   = patterns.CategoryFormatting
	CategoryJobMatch     = patterns.CategoryJobMatch
)

// Finding is the output of one extractor.
type Finding struct {
	Category string `json:"category"`
	Score    int    `json:"score"`
	Max      int    `json:"max_score"`
	// Details is evidence, in the order it was found.
	Details []string `json:"details"`
	// Hints are remediation sentences, empty when there is nothing to fix.
	Hints []string `json:"hints,omitempty"`
}

// Ratio returns Score/Max, or 0 for a zero maximum.
func (f Finding) Ratio() float64 {
	if f.Max <= 0 {
		return 0
	}
	return float64(f.Score) / float64(f.Max)
}

// Extractor is the signature shared by every local extractor.
type Extractor func(lib *patterns.Library, text ingestion.ResumeText) Finding

// Local returns the six local extractors in report order.
func Local() []Extractor {
	return []Extractor{Keywords, ActionVerbs, Sections, Contact, Achievements, Formatting}
}

// NewFinding builds a Finding with the library's maximum for category and a clamped score.
// Nil slices become empty so findings always serialize as arrays.
func NewFinding(lib *patterns.Library, category string, score int, details, hints []string) Finding {
	max, _ := lib.MaxScore(category)
	if details == nil {
		details = []string{}
	}
	return Finding{
		Category: category,
		Score:    Clamp(score, max),
		Max:      max,
		Details:  details,
		Hints:    hints,
	}
}

// Clamp bounds score to [0, max].
func Clamp(score, max int) int {
	if max < 0 {
		max = 0
	}
	if score < 0 {
		return 0
	}
	if score > max {
		return max
	}
	return score
}

// orderedSet deduplicates case-insensitively while keeping first-seen order and spelling.
type orderedSet struct {
	seen  map[string]bool
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(key, display string) bool {
	if s.seen[key] {
		return false
	}
	s.seen[key] = true
	s.items = append(s.items, display)
	return true
}

func capped(items []string, n int) []string {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}
