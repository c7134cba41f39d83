package parsing

import (
	"slices"
	"strings"
	"unicode"

	"github.com/jonathan/resume-analyzer/internal/patterns"
)

var nameRejectWords = []string{"resume", "résumé", "curriculum", "vitae"}

// parseName accepts the first early line that looks like a person's name and is not a
// section header.
func parseName(in *input, out *StructuredResume) {
	for _, line := range nonEmptyLines(in.text.Lines(), nameScanLines) {
		if isNameLine(line) && !isHeader(in.lib, line) {
			out.FullName = line
			return
		}
	}
}

func isHeader(lib *patterns.Library, line string) bool {
	line = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ":")))
	for _, kind := range patterns.BlockKinds() {
		if slices.Contains(lib.Headers(kind), line) {
			return true
		}
	}
	return false
}

func isNameLine(line string) bool {
	n := len([]rune(line))
	if n < 3 || n > 50 {
		return false
	}
	if strings.ContainsAny(line, "@+") || strings.IndexFunc(line, unicode.IsDigit) >= 0 {
		return false
	}
	lower := strings.ToLower(line)
	for _, w := range nameRejectWords {
		if strings.Contains(lower, w) {
			return false
		}
	}

	tokens := strings.Fields(line)
	if len(tokens) < 1 || len(tokens) > 4 {
		return false
	}
	for _, tok := range tokens {
		if !isNameToken(tok) {
			return false
		}
	}
	return true
}

// isNameToken allows letters plus the punctuation found in names and initials.
func isNameToken(tok string) bool {
	letters := 0
	for _, r := range tok {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == '.' || r == '-' || r == '\'':
		default:
			return false
		}
	}
	return letters > 0
}

func parseEmail(in *input, out *StructuredResume) {
	out.Email = in.re.Email.FindString(in.text.Original())
}

func parsePhone(in *input, out *StructuredResume) {
	out.Phone = firstMatch(in, phoneRules(in.re))
}

// phoneRules follows the shape order of PhoneShapes. Every shape must carry 10 to 15 digits.
func phoneRules(re *patterns.Regexes) []rule {
	rules := make([]rule, 0, len(re.PhoneShapes))
	for _, shape := range re.PhoneShapes {
		rules = append(rules, rule{pattern: shape, extract: plausiblePhone})
	}
	return rules
}

func plausiblePhone(m []string) (string, bool) {
	v := strings.TrimSpace(m[0])
	digits := 0
	for _, r := range v {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return v, digits >= 10 && digits <= 15
}

func parseLinkedIn(in *input, out *StructuredResume) {
	m := in.re.LinkedIn.FindStringSubmatch(in.text.Original())
	if m == nil {
		return
	}
	handle := m[1]
	if handle == "" {
		handle = m[2]
	}
	if handle != "" {
		out.LinkedIn = "linkedin.com/in/" + handle
	}
}

func parseLocation(in *input, out *StructuredResume) {
	out.Location = firstMatch(in, locationRules(in))
}

// locationRules: explicit label, then state adjacency, then a generic "City, Country"
// pair. The adjacency rules only look at the document head, where a candidate's own
// location sits; employer locations further down are ignored. A generic pair naming a
// month or a technology term is a date or a skill list, not a place.
func locationRules(in *input) []rule {
	re := in.re
	pair := func(m []string) (string, bool) {
		return strings.TrimSpace(m[1]) + ", " + strings.TrimSpace(m[2]), true
	}
	tech := in.lib.TechnologyTerms()
	place := func(m []string) (string, bool) {
		second := strings.Fields(m[2])
		if re.MonthName.MatchString(second[0]) {
			return "", false
		}
		if slices.Contains(tech, strings.ToLower(m[1])) || slices.Contains(tech, strings.ToLower(m[2])) {
			return "", false
		}
		return pair(m)
	}
	return []rule{
		{pattern: re.LocationLabel, extract: func(m []string) (string, bool) {
			v := strings.TrimSpace(m[1])
			return v, v != ""
		}},
		{pattern: re.LocationState, head: true, extract: pair},
		{pattern: re.LocationGeneric, head: true, extract: place},
	}
}

// parseJobTitle prefers a qualified role phrase, looking in the head before the body.
func parseJobTitle(in *input, out *StructuredResume) {
	out.JobTitle = firstMatch(in, []rule{
		{pattern: in.re.JobTitleQualified, head: true, extract: wholeMatch},
		{pattern: in.re.JobTitleQualified, extract: wholeMatch},
		{pattern: in.re.JobTitleBare, head: true, extract: wholeMatch},
		{pattern: in.re.JobTitleBare, extract: wholeMatch},
	})
}
