package parsing

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-analyzer/internal/patterns"
)

var (
	// dateSplit cuts "Month Year - End" after the first year so "October" is never split on "to".
	dateSplit = regexp.MustCompile(`^(.+?\d{4})[ \t]*(?:-|–|—|to)[ \t]*(.+)$`)
	// companyLead is the separator that marks the text after a role as the employer.
	companyLead = regexp.MustCompile(`^[ \t]*(?:,|\||@|–|—|-|at\b)[ \t]*`)
	fieldAfter  = regexp.MustCompile(`^[ \t]*,?[ \t]*(?i:in|of)[ \t]+([A-Za-z&][A-Za-z& ]*[A-Za-z])`)
	titleSplit  = regexp.MustCompile(`[ \t]+[-–—][ \t]+|:[ \t]+`)
)

func parseSummary(in *input, out *StructuredResume) {
	body := block(in, patterns.BlockSummary)
	if body == "" {
		return
	}
	out.Summary = truncateRunes(strings.Join(strings.Fields(body), " "), summaryMaxChars)
}

func parseSkills(in *input, out *StructuredResume) {
	body := block(in, patterns.BlockSkills)
	if body == "" {
		return
	}

	seen := make(map[string]bool)
	for _, candidate := range in.re.SkillSplit.Split(body, -1) {
		skill := NormalizeSkillName(stripBullet(in.re, candidate))
		n := len([]rune(skill))
		if n < minSkillLen || n > maxSkillLen || in.lib.IsSkillStopword(skill) {
			continue
		}
		key := strings.ToLower(skill)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Skills = append(out.Skills, skill)
		if len(out.Skills) == maxSkills {
			return
		}
	}
}

// parseExperience pairs role phrases with adjacent date ranges. Without any dated
// match it falls back to bare role nouns, tagged low confidence and left undated.
func parseExperience(in *input, out *StructuredResume) {
	body := block(in, patterns.BlockExperience)
	if body == "" {
		return
	}

	if entries := datedExperiences(in, body); len(entries) > 0 {
		out.Experiences = entries
		return
	}
	out.Experiences = roleOnlyExperiences(in, body)
}

func datedExperiences(in *input, body string) []Experience {
	matches := in.re.DatedRole.FindAllStringSubmatchIndex(body, -1)
	entries := make([]Experience, 0, len(matches))
	for i, m := range matches {
		between, _, _ := strings.Cut(body[m[3]:m[6]], "\n")
		exp := Experience{
			Position:   strings.TrimSpace(body[m[2]:m[3]]),
			Company:    companyFrom(between),
			Confidence: ConfidenceHigh,
		}
		if d := dateSplit.FindStringSubmatch(strings.TrimSpace(body[m[6]:m[7]])); d != nil {
			exp.StartDate = strings.TrimSpace(d[1])
			exp.EndDate = strings.TrimSpace(d[2])
		}

		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		exp.Description = bulletLines(in.re, body[m[1]:end])
		entries = append(entries, exp)
	}
	return entries
}

// companyFrom accepts the text between a role and its dates as a company only when it
// is introduced by a separator and looks like a name.
func companyFrom(between string) string {
	loc := companyLead.FindStringIndex(between)
	if loc == nil {
		return ""
	}
	company := strings.TrimSpace(between[loc[1]:])
	company = strings.TrimRight(company, " ,|-–—(")
	if company == "" || len(company) > 60 || strings.IndexFunc(company, unicode.IsDigit) >= 0 {
		return ""
	}
	if first := []rune(company)[0]; !unicode.IsUpper(first) {
		return ""
	}
	return company
}

// bulletLines joins the bullet items of text, markers removed.
func bulletLines(re *patterns.Regexes, text string) string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if !re.Bullet.MatchString(line) {
			continue
		}
		if item := stripBullet(re, line); item != "" {
			items = append(items, item)
		}
	}
	return strings.Join(items, "\n")
}

func roleOnlyExperiences(in *input, body string) []Experience {
	entries := []Experience{}
	seen := make(map[string]bool)
	for _, line := range strings.Split(body, "\n") {
		role := in.re.JobTitleQualified.FindString(line)
		if role == "" {
			role = in.re.JobTitleBare.FindString(line)
		}
		key := strings.ToLower(role)
		if role == "" || seen[key] {
			continue
		}
		seen[key] = true
		entries = append(entries, Experience{Position: role, Confidence: ConfidenceLow})
		if len(entries) == maxFallbackRole {
			break
		}
	}
	return entries
}

// parseEducation finds degrees in the education block, each with the year range that
// follows it and a school (see schoolFor). A grade attaches to the first entry only.
func parseEducation(in *input, out *StructuredResume) {
	body := block(in, patterns.BlockEducation)
	if body == "" {
		return
	}

	degrees := in.re.Degree.FindAllStringIndex(body, -1)
	schools := in.re.School.FindAllStringIndex(body, -1)
	claimed := make([]bool, len(schools))
	for i, loc := range degrees {
		edu := Education{Degree: strings.TrimSpace(body[loc[0]:loc[1]])}
		if idx := strings.LastIndex(edu.Degree, " in "); idx > 0 {
			edu.Field = strings.TrimSpace(edu.Degree[idx+4:])
			edu.Degree = strings.TrimSpace(edu.Degree[:idx])
		} else if m := fieldAfter.FindStringSubmatch(body[loc[1]:]); m != nil {
			edu.Field = strings.TrimSpace(m[1])
		}

		windowEnd := min(len(body), loc[1]+schoolWindow)
		if i+1 < len(degrees) {
			windowEnd = min(windowEnd, degrees[i+1][0])
		}
		window := body[loc[1]:windowEnd]
		if m := in.re.YearRange.FindStringSubmatch(window); m != nil {
			edu.StartDate, edu.EndDate = m[1], m[2]
		} else if year := in.re.Year.FindString(window); year != "" {
			edu.EndDate = year
		}

		if j := schoolFor(body, schools, claimed, loc); j >= 0 {
			claimed[j] = true
			edu.School = strings.TrimSpace(body[schools[j][0]:schools[j][1]])
		}
		out.Educations = append(out.Educations, edu)
	}

	if len(out.Educations) == 0 {
		return
	}
	if m := in.re.Grade.FindStringSubmatch(body); m != nil {
		if m[1] != "" {
			out.Educations[0].Grade = m[1]
		} else {
			out.Educations[0].Grade = m[2] + "%"
		}
	}
}

// schoolFor returns the index of the unclaimed school for a degree, or -1. In order it
// prefers the first school after the degree on its line, the last one before it on its
// line, and finally the closest within schoolWindow characters.
func schoolFor(body string, schools [][]int, claimed []bool, degree []int) int {
	lineStart := strings.LastIndexByte(body[:degree[0]], '\n') + 1
	lineEnd := len(body)
	if n := strings.IndexByte(body[degree[1]:], '\n'); n >= 0 {
		lineEnd = degree[1] + n
	}

	for j, s := range schools {
		if !claimed[j] && s[0] >= degree[1] && s[0] < lineEnd {
			return j
		}
	}
	for j := len(schools) - 1; j >= 0; j-- {
		s := schools[j]
		if !claimed[j] && s[1] <= degree[0] && s[0] >= lineStart {
			return j
		}
	}

	best, bestDist := -1, schoolWindow+1
	for j, s := range schools {
		if claimed[j] {
			continue
		}
		var dist int
		switch {
		case s[0] >= degree[1]:
			dist = s[0] - degree[1]
		case s[1] <= degree[0]:
			dist = degree[0] - s[1]
		}
		if dist < bestDist {
			best, bestDist = j, dist
		}
	}
	return best
}

func parseAchievements(in *input, out *StructuredResume) {
	body := block(in, patterns.BlockAchievements)
	if body == "" {
		return
	}

	for _, item := range splitItems(in.re, body) {
		n := len([]rune(item))
		if n < minAchievement || n > maxAchievement {
			continue
		}
		a := Achievement{Title: item}
		if parts := titleSplit.Split(item, 2); len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			a.Title, a.Description = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		}
		out.Achievements = append(out.Achievements, a)
		if len(out.Achievements) == maxAchievements {
			return
		}
	}
}

// splitItems splits on newlines and inline bullet glyphs.
func splitItems(re *patterns.Regexes, body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		for _, part := range strings.FieldsFunc(line, func(r rune) bool {
			return r == '•' || r == '▪' || r == '●' || r == '◦' || r == '➢' || r == '➤' || r == '►'
		}) {
			if item := stripBullet(re, part); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}

// parseProjects treats each blank-line separated chunk as a project: the first line names
// it and the rest describes it. A plain line after bullet lines also starts a new project.
func parseProjects(in *input, out *StructuredResume) {
	body := block(in, patterns.BlockProjects)
	if body == "" {
		return
	}

	for _, chunk := range projectChunks(in.re, body) {
		if p, ok := buildProject(in, chunk); ok {
			out.Projects = append(out.Projects, p)
			if len(out.Projects) == maxProjects {
				return
			}
		}
	}
}

func projectChunks(re *patterns.Regexes, body string) [][]string {
	var chunks [][]string
	for _, raw := range re.ChunkBreak.Split(body, -1) {
		var current []string
		sawBullet := false
		for _, line := range strings.Split(raw, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			isBullet := re.Bullet.MatchString(line)
			if !isBullet && sawBullet && len(current) > 0 && !re.TechLabel.MatchString(line) {
				chunks = append(chunks, current)
				current, sawBullet = nil, false
			}
			sawBullet = sawBullet || isBullet
			current = append(current, line)
		}
		if len(current) > 0 {
			chunks = append(chunks, current)
		}
	}
	return chunks
}

func buildProject(in *input, lines []string) (Project, bool) {
	p := Project{Name: stripBullet(in.re, lines[0]), Technologies: []string{}}
	var desc []string
	if parts := titleSplit.Split(p.Name, 2); len(parts) == 2 && parts[0] != "" {
		p.Name = strings.TrimSpace(parts[0])
		desc = append(desc, strings.TrimSpace(parts[1]))
	}
	if p.Name == "" {
		return Project{}, false
	}

	for _, line := range lines[1:] {
		if m := in.re.TechLabel.FindStringSubmatch(line); m != nil {
			p.Technologies = append(p.Technologies, splitTechnologies(in, m[1])...)
			continue
		}
		if item := stripBullet(in.re, line); item != "" {
			desc = append(desc, item)
		}
	}
	p.Description = strings.Join(desc, "\n")
	return p, true
}

func splitTechnologies(in *input, list string) []string {
	var out []string
	for _, part := range strings.FieldsFunc(list, func(r rune) bool { return r == ',' || r == '|' || r == ';' }) {
		if tech := NormalizeSkillName(part); tech != "" && !in.lib.IsSkillStopword(tech) {
			out = append(out, tech)
		}
	}
	return out
}
