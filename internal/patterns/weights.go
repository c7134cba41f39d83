package patterns

import "maps"

// Scored categories, in report order.
const (
	CategoryKeywords     = "Keywords"
	CategoryActionVerbs  = "Action Verbs"
	CategorySections     = "Sections"
	CategoryContact      = "Contact Information"
	CategoryAchievements = "Quantifiable Achievements"
	CategoryFormatting   = "Formatting"
	CategoryJobMatch     = "Job Match"
)

// Categories returns every scored category in report order. Job Match is last.
func Categories() []string {
	return []string{
		CategoryKeywords,
		CategoryActionVerbs,
		CategorySections,
		CategoryContact,
		CategoryAchievements,
		CategoryFormatting,
		CategoryJobMatch,
	}
}

// FormattingLimits are the layout thresholds the Formatting extractor deducts against.
type FormattingLimits struct {
	MinWords            int `json:"min_words"`
	MaxWords            int `json:"max_words"`
	MaxDecorativeGlyphs int `json:"max_decorative_glyphs"`
	MinHeaderLines      int `json:"min_header_lines"`
}

// The six local categories sum to 100; Job Match is added on top when a job description
// is supplied.
var defaultWeights = map[string]int{
	CategoryKeywords:     15,
	CategoryActionVerbs:  15,
	CategorySections:     20,
	CategoryContact:      15,
	CategoryAchievements: 20,
	CategoryFormatting:   15,
	CategoryJobMatch:     20,
}

var defaultFormatting = FormattingLimits{
	MinWords:            150,
	MaxWords:            1200,
	MaxDecorativeGlyphs: 10,
	MinHeaderLines:      3,
}

// MaxScore returns the maximum for a category and whether the category is known.
func (l *Library) MaxScore(category string) (int, bool) {
	max, ok := l.weights[category]
	return max, ok
}

// Weights returns a copy of the category maxima.
func (l *Library) Weights() map[string]int {
	return maps.Clone(l.weights)
}

// Formatting returns the formatting thresholds.
func (l *Library) Formatting() FormattingLimits {
	return l.formatting
}
