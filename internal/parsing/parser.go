package parsing

import (
	"regexp"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/patterns"
)

// Limits applied by the passes.
const (
	nameScanLines   = 10
	headScanLines   = 15
	summaryMaxChars = 500
	maxSkills       = 20
	minSkillLen     = 2
	maxSkillLen     = 40
	maxFallbackRole = 3
	maxAchievements = 10
	minAchievement  = 10
	maxAchievement  = 200
	maxProjects     = 10
	schoolWindow    = 100
)

// input is what every pass reads.
type input struct {
	lib  *patterns.Library
	re   *patterns.Regexes
	text ingestion.ResumeText
	// head is the first non-empty lines, where contact details usually live.
	head string
}

// pass fills one part of the resume.
type pass struct {
	name string
	run  func(in *input, out *StructuredResume)
}

// passes run in this order. Each is independent of the others' results.
var passes = []pass{
	{"name", parseName},
	{"email", parseEmail},
	{"phone", parsePhone},
	{"linkedin", parseLinkedIn},
	{"location", parseLocation},
	{"job_title", parseJobTitle},
	{"summary", parseSummary},
	{"skills", parseSkills},
	{"experience", parseExperience},
	{"education", parseEducation},
	{"achievements", parseAchievements},
	{"projects", parseProjects},
}

// PassNames returns the pass order.
func PassNames() []string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.name
	}
	return names
}

// Parse runs every pass over text. It never fails: text with no recognizable structure
// produces a resume of empty fields.
func Parse(lib *patterns.Library, text ingestion.ResumeText) *StructuredResume {
	out := Empty(SourceHeuristic)
	if text.IsEmpty() {
		return out
	}

	in := &input{
		lib:  lib,
		re:   lib.Regex,
		text: text,
		head: strings.Join(nonEmptyLines(text.Lines(), headScanLines), "\n"),
	}
	for _, p := range passes {
		p.run(in, out)
	}
	return out
}

// rule pairs a pattern with an extractor over its submatches. The extractor may reject a
// match, in which case the next rule is tried.
type rule struct {
	pattern *regexp.Regexp
	// head restricts the rule to the first lines of the document.
	head    bool
	extract func(m []string) (string, bool)
}

// firstMatch evaluates rules in priority order and returns the first accepted value.
func firstMatch(in *input, rules []rule) string {
	for _, r := range rules {
		text := in.text.Original()
		if r.head {
			text = in.head
		}
		for _, m := range r.pattern.FindAllStringSubmatch(text, -1) {
			if value, ok := r.extract(m); ok {
				return value
			}
		}
	}
	return ""
}

// wholeMatch accepts the full match, trimmed.
func wholeMatch(m []string) (string, bool) {
	v := strings.TrimSpace(m[0])
	return v, v != ""
}

// block returns the body of the first section of kind that has content.
func block(in *input, kind patterns.BlockKind) string {
	for _, re := range in.lib.BlockPatterns(kind) {
		m := re.FindStringSubmatch(in.text.Normalized())
		if m == nil {
			continue
		}
		if body := strings.TrimSpace(m[1]); body != "" {
			return body
		}
	}
	return ""
}

func nonEmptyLines(lines []string, limit int) []string {
	out := make([]string, 0, limit)
	for _, line := range lines {
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}

// stripBullet removes a leading bullet marker.
func stripBullet(re *patterns.Regexes, line string) string {
	return strings.TrimSpace(re.Bullet.ReplaceAllString(line, ""))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
