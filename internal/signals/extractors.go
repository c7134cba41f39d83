package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/patterns"
)

const achievementEvidenceCap = 10

var locationKeywords = []string{"city", "location", "address", "based in", "located"}

// ActionVerbs counts library verbs, conjugations included. Score is min(2 × matched, max).
func ActionVerbs(lib *patterns.Library, text ingestion.ResumeText) Finding {
	var matched []string
	normalized := text.Normalized()
	for i, verb := range lib.ActionVerbs() {
		if lib.VerbPattern(i).MatchString(normalized) {
			matched = append(matched, verb)
		}
	}

	details := []string{fmt.Sprintf("Found %d action verbs", len(matched))}
	details = append(details, capped(matched, keywordDetailLimit)...)

	f := NewFinding(lib, CategoryActionVerbs, 2*len(matched), details, nil)
	if f.Ratio() < 0.8 {
		f.Hints = []string{"Start bullet points with strong action verbs such as led, built or delivered"}
	}
	return f
}

// CheckSections reports which canonical sections have at least one synonym present.
func CheckSections(lib *patterns.Library, text ingestion.ResumeText) (found, missing []string) {
	found, missing = []string{}, []string{}
	lower := text.Lower()
	for _, section := range lib.Sections() {
		present := false
		for _, syn := range section.Synonyms {
			if strings.Contains(lower, syn) {
				present = true
				break
			}
		}
		if present {
			found = append(found, section.Name)
		} else {
			missing = append(missing, section.Name)
		}
	}
	return found, missing
}

// Sections scores section coverage as round(max × found / total).
func Sections(lib *patterns.Library, text ingestion.ResumeText) Finding {
	found, missing := CheckSections(lib, text)
	total := len(found) + len(missing)

	max, _ := lib.MaxScore(CategorySections)
	score := 0
	if total > 0 {
		score = int(math.Round(float64(max) * float64(len(found)) / float64(total)))
	}

	details := make([]string, 0, len(found))
	for _, name := range found {
		details = append(details, "Found section: "+name)
	}

	f := NewFinding(lib, CategorySections, score, details, nil)
	if len(missing) > 0 {
		f.Hints = []string{"Add missing sections: " + strings.Join(missing, ", ")}
	}
	return f
}

// contactCheck is one independent contact test.
type contactCheck struct {
	points int
	found  string
	hint   string
	test   func(lib *patterns.Library, text ingestion.ResumeText) bool
}

var contactChecks = []contactCheck{
	{
		points: 5,
		found:  "Email address found",
		hint:   "Add a professional email address",
		test: func(lib *patterns.Library, text ingestion.ResumeText) bool {
			return lib.Regex.Email.MatchString(text.Original())
		},
	},
	{
		points: 5,
		found:  "Phone number found",
		hint:   "Add a phone number",
		test: func(lib *patterns.Library, text ingestion.ResumeText) bool {
			return lib.Regex.Phone.MatchString(text.Original())
		},
	},
	{
		points: 3,
		found:  "LinkedIn profile found",
		hint:   "Add your LinkedIn profile URL",
		test: func(_ *patterns.Library, text ingestion.ResumeText) bool {
			return strings.Contains(text.Lower(), "linkedin")
		},
	},
	{
		points: 2,
		found:  "Location found",
		hint:   "Add your city and state",
		test: func(lib *patterns.Library, text ingestion.ResumeText) bool {
			lower := text.Lower()
			for _, kw := range locationKeywords {
				if strings.Contains(lower, kw) {
					return true
				}
			}
			return lib.Regex.CityState.MatchString(text.Original())
		},
	},
}

// Contact sums independent checks: email 5, phone 5, LinkedIn 3, location 2.
func Contact(lib *patterns.Library, text ingestion.ResumeText) Finding {
	score := 0
	var details, hints []string
	for _, check := range contactChecks {
		if check.test(lib, text) {
			score += check.points
			details = append(details, check.found)
		} else {
			hints = append(hints, check.hint)
		}
	}
	return NewFinding(lib, CategoryContact, score, details, hints)
}

// FindMetrics returns the deduplicated metric phrases in the original text, in battery order.
func FindMetrics(lib *patterns.Library, text ingestion.ResumeText) []string {
	set := newOrderedSet()
	for _, re := range lib.Regex.Metrics {
		for _, m := range re.FindAllString(text.Original(), -1) {
			m = strings.TrimSpace(m)
			set.add(m, m)
		}
	}
	return set.items
}

// Achievements scores quantified results as min(5 × unique metrics, max).
func Achievements(lib *patterns.Library, text ingestion.ResumeText) Finding {
	metrics := FindMetrics(lib, text)
	f := NewFinding(lib, CategoryAchievements, 5*len(metrics), capped(metrics, achievementEvidenceCap), nil)
	if f.Ratio() < 0.8 {
		f.Hints = []string{"Quantify your achievements with numbers, percentages or dollar amounts"}
	}
	return f
}

// Formatting deducts from the category maximum for ATS-hostile layout, against the
// library's thresholds. Empty text scores 0.
func Formatting(lib *patterns.Library, text ingestion.ResumeText) Finding {
	words := text.WordCount()
	if words == 0 {
		return NewFinding(lib, CategoryFormatting, 0, []string{"No content to evaluate"},
			[]string{"Provide resume text to evaluate formatting"})
	}

	limits := lib.Formatting()
	score, _ := lib.MaxScore(CategoryFormatting)
	details := []string{fmt.Sprintf("Word count: %d", words)}
	var hints []string

	if lib.Regex.BoxDrawing.MatchString(text.Original()) {
		score -= 5
		hints = append(hints, "Remove tables and box-drawing characters; most ATS parsers cannot read them")
	}
	if glyphs := len(lib.Regex.DecorativeGlyph.FindAllStringIndex(text.Original(), -1)); glyphs > limits.MaxDecorativeGlyphs {
		score -= 3
		hints = append(hints, fmt.Sprintf("Reduce decorative symbols (%d found)", glyphs))
	}
	switch {
	case words < limits.MinWords:
		score -= 10
		hints = append(hints, fmt.Sprintf("Expand your resume; %d words is too brief", words))
	case words > limits.MaxWords:
		score -= 5
		hints = append(hints, fmt.Sprintf("Condense your resume; %d words is too long", words))
	}
	headers := len(lib.Regex.HeaderLine.FindAllStringIndex(text.Normalized(), -1))
	details = append(details, fmt.Sprintf("Section headers: %d", headers))
	if headers < limits.MinHeaderLines {
		score -= 2
		hints = append(hints, "Use clear uppercase section headers such as EXPERIENCE and EDUCATION")
	}

	if len(hints) == 0 {
		details = append(details, "Clean, ATS-friendly formatting")
	}
	return NewFinding(lib, CategoryFormatting, score, details, hints)
}
