package signals

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/patterns"
)

const keywordDetailLimit = 10

// Keywords scores industry keywords and capitalized ad-hoc terms. Score is min(count, max).
func Keywords(lib *patterns.Library, text ingestion.ResumeText) Finding {
	found := FindKeywords(lib, text)

	details := []string{fmt.Sprintf("Found %d keywords", len(found))}
	details = append(details, capped(found, keywordDetailLimit)...)

	f := NewFinding(lib, CategoryKeywords, len(found), details, nil)
	if f.Ratio() < 0.8 {
		f.Hints = []string{"Add more industry-specific keywords and the technologies you use"}
	}
	return f
}

// FindKeywords returns the deduplicated keywords in text: library terms first (in table
// order, lowercase), then capitalized tokens from the original text in order of appearance.
func FindKeywords(lib *patterns.Library, text ingestion.ResumeText) []string {
	set := newOrderedSet()
	lower := text.Lower()
	for _, category := range lib.Industries() {
		for _, term := range category.Terms {
			if strings.Contains(lower, term) {
				set.add(term, term)
			}
		}
	}

	for _, token := range lib.Regex.Capitalized.FindAllString(text.Original(), -1) {
		if len(token) <= 2 || lib.IsCapitalizedStopword(token) {
			continue
		}
		set.add(strings.ToLower(token), token)
	}
	return set.items
}

// MissingIndustryKeywords returns the terms of the best-covered industry table that the
// text lacks. Ties go to the table declared first.
func MissingIndustryKeywords(lib *patterns.Library, text ingestion.ResumeText) []string {
	lower := text.Lower()
	industries := lib.Industries()
	if len(industries) == 0 {
		return []string{}
	}

	best, bestHits := 0, -1
	for i, category := range industries {
		hits := 0
		for _, term := range category.Terms {
			if strings.Contains(lower, term) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}

	missing := []string{}
	for _, term := range industries[best].Terms {
		if !strings.Contains(lower, term) {
			missing = append(missing, term)
		}
	}
	return missing
}

// JobMatchResult is the Job Match finding with the keyword lists behind it.
type JobMatchResult struct {
	Finding Finding
	Matched []string
	Missing []string
}

// JobMatch scores how many of the job description's keywords appear in the resume.
// Score is round(max × matched / jobKeywords), 0 when the description yields no keywords.
func JobMatch(lib *patterns.Library, resume, jobDescription ingestion.ResumeText) JobMatchResult {
	wanted := FindKeywords(lib, jobDescription)
	lower := resume.Lower()

	matched, missing := []string{}, []string{}
	for _, kw := range wanted {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
		} else {
			missing = append(missing, kw)
		}
	}

	max, _ := lib.MaxScore(CategoryJobMatch)
	score := 0
	if len(wanted) > 0 {
		score = int(math.Round(float64(max) * float64(len(matched)) / float64(len(wanted))))
	}

	details := []string{fmt.Sprintf("Matched %d of %d job keywords", len(matched), len(wanted))}
	details = append(details, capped(matched, keywordDetailLimit)...)

	f := NewFinding(lib, CategoryJobMatch, score, details, nil)
	if len(missing) > 0 && f.Ratio() < 0.8 {
		f.Hints = []string{"Tailor your resume to the job description; missing: " +
			strings.Join(capped(missing, 5), ", ")}
	}
	return JobMatchResult{Finding: f, Matched: matched, Missing: missing}
}
