package patterns

import (
	"regexp"
	"strings"
)

// month matches an English month name or its abbreviation.
const month = `(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?`

// rangeSep matches the separator inside a date range.
const rangeSep = `[ \t]*(?:-|–|—|to)[ \t]*`

const (
	seniority = `(?:senior|sr\.?|junior|jr\.?|lead|principal|staff|chief|head|associate|assistant)`
	domain    = `(?:software|backend|back-end|frontend|front-end|full[- ]stack|data|product|project|program|marketing|sales|financial|business|research|devops|cloud|mobile|web|qa|ux|ui|machine learning|operations|account|hr|content|graphic|systems|network|security|registered|clinical)`
	roleNoun  = `(?:engineer|developer|manager|analyst|designer|consultant|scientist|architect|director|intern|specialist|coordinator|administrator|accountant|nurse|officer|executive|representative|programmer|technician)`
)

// Regexes is the compiled regex battery shared by extractors and the parser.
type Regexes struct {
	Email *regexp.Regexp
	// Phone is the permissive phone pattern used by the contact extractor.
	Phone *regexp.Regexp
	// PhoneShapes are tried in order by the parser; first match wins.
	PhoneShapes []*regexp.Regexp
	LinkedIn    *regexp.Regexp

	// Metrics is the quantifiable-achievement battery, run against original text.
	Metrics []*regexp.Regexp

	Capitalized     *regexp.Regexp
	CityState       *regexp.Regexp
	BoxDrawing      *regexp.Regexp
	DecorativeGlyph *regexp.Regexp
	HeaderLine      *regexp.Regexp

	// Location patterns in priority order: labeled, state adjacency, generic city/country.
	LocationLabel   *regexp.Regexp
	LocationState   *regexp.Regexp
	LocationGeneric *regexp.Regexp
	// MonthName matches a whole token that is a month name or abbreviation.
	MonthName *regexp.Regexp

	// JobTitle patterns in priority order: qualified role phrase, then bare role noun.
	JobTitleQualified *regexp.Regexp
	JobTitleBare      *regexp.Regexp

	Degree      *regexp.Regexp
	YearRange   *regexp.Regexp
	Year        *regexp.Regexp
	School      *regexp.Regexp
	Grade       *regexp.Regexp
	DateRange   *regexp.Regexp
	DatedRole   *regexp.Regexp
	Bullet      *regexp.Regexp
	SkillSplit  *regexp.Regexp
	ChunkBreak  *regexp.Regexp
	TechLabel   *regexp.Regexp
	WordPattern *regexp.Regexp
}

func compileRegexes() *Regexes {
	dateRange := `(?i:` + month + `[ \t]+\d{4}` + rangeSep + `(?:` + month + `[ \t]+\d{4}|present|current|now))`
	role := `(?i:(?:` + seniority + `[ \t]+)?(?:` + domain + `[ \t]+)?` + roleNoun + `)`

	return &Regexes{
		Email: regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		Phone: regexp.MustCompile(`(?:\+?\d{1,3}[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`),
		PhoneShapes: []*regexp.Regexp{
			regexp.MustCompile(`\+\d{1,3}[ .-]?\(?\d{1,4}\)?(?:[ .-]?\d{2,4}){2,4}`),
			regexp.MustCompile(`\b\d{10}\b`),
			regexp.MustCompile(`\(\d{3}\)[ ]?\d{3}[ .-]?\d{4}`),
			regexp.MustCompile(`\b\d{3}[-.]\d{3}[-.]\d{4}\b`),
			regexp.MustCompile(`\+?\d[\d ().-]{7,}\d`),
		},
		LinkedIn: regexp.MustCompile(`(?i)linkedin\.com/in/([A-Za-z0-9_-]+)|linkedin[ \t]*:[ \t]*(?:https?://)?(?:www\.)?(?:linkedin\.com/in/)?([A-Za-z0-9_-]+)`),

		Metrics: []*regexp.Regexp{
			regexp.MustCompile(`\d+(?:\.\d+)?[ ]?%`),
			regexp.MustCompile(`[$€£][ ]?\d[\d,]*(?:\.\d+)?(?:[ ]?(?:[kKmMbB]\b|million|billion|thousand))?`),
			regexp.MustCompile(`(?i)\b\d+\+?[ ]*(?:years?|months?)\b`),
			regexp.MustCompile(`(?i)\bteam[ ]+of[ ]+\d+\b`),
			regexp.MustCompile(`(?i)\b\d+\+?[ ]+(?:projects?|clients?|customers?|users?|people|members|engineers|employees|stores|accounts)\b`),
			regexp.MustCompile(`(?i)\b(?:increased|decreased|reduced|improved|grew|boosted|cut|saved|raised)[ ]+(?:[A-Za-z-]+[ ]+){0,3}by[ ]+\d+(?:\.\d+)?%?`),
			regexp.MustCompile(`(?i)\btop[ ]+\d+%?`),
			regexp.MustCompile(`\b\d+(?:\.\d+)?x\b`),
		},

		Capitalized:     regexp.MustCompile(`\b[A-Z][a-zA-Z]*(?:\.[a-zA-Z]+)?\b`),
		CityState:       regexp.MustCompile(`[A-Z][a-z]+,\s*[A-Z]{2}`),
		BoxDrawing:      regexp.MustCompile(`[\x{2500}-\x{259F}]`),
		DecorativeGlyph: regexp.MustCompile(`[★☆✦✧✩✪✯❖●○◆◇■□▪▫►▶➢➤✓✔•]`),
		HeaderLine:      regexp.MustCompile(`(?m)^[ \t]*[A-Z][A-Z &/]{2,}[ \t]*:?[ \t]*$`),

		LocationLabel:   regexp.MustCompile(`(?im)^[ \t]*(?:location|address|city)[ \t]*:[ \t]*([^\n]+?)[ \t]*$`),
		LocationState:   regexp.MustCompile(`\b([A-Z][a-zA-Z]+(?:[ \t][A-Z][a-zA-Z]+)?),[ \t]*(` + strings.Join(usStates, "|") + `)\b`),
		LocationGeneric: regexp.MustCompile(`\b([A-Z][a-z]+(?:[ \t][A-Z][a-z]+)?),[ \t]*([A-Z][a-z]{2,}(?:[ \t][A-Z][a-z]+)?)\b`),
		MonthName:       regexp.MustCompile(`(?i)^(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?$`),

		JobTitleQualified: regexp.MustCompile(`(?i)\b(?:` + seniority + `[ \t]+` + domain + `[ \t]+` + roleNoun +
			`|` + domain + `[ \t]+` + roleNoun + `|` + seniority + `[ \t]+` + roleNoun + `)\b`),
		JobTitleBare: regexp.MustCompile(`(?i)\b` + roleNoun + `\b`),

		Degree: regexp.MustCompile(`\b(?:` +
			`(?i:bachelor|master)(?:'s|s)?\b(?:[ \t]+(?i:of|in)[ \t]+[A-Z][A-Za-z]*(?:[ \t]+(?:[A-Z][A-Za-z]*|in|of|and|&))*)?` +
			`|(?i:doctor(?:ate)?[ \t]+of[ \t]+philosophy)` +
			`|(?i:associate)(?:'s)?[ \t]+(?i:degree)` +
			`|Ph\.?[ ]?D\.?` +
			`|B\.?[ ]?Tech\b|M\.?[ ]?Tech\b|B\.?[ ]?Sc\b|M\.?[ ]?Sc\b` +
			`|B\.S\.|BS\b|M\.S\.|MS\b|B\.A\.|BA\b|M\.A\.|MA\b|MBA\b|B\.E\.|M\.E\.` +
			`)`),
		YearRange: regexp.MustCompile(`((?:19|20)\d{2})` + rangeSep + `((?:19|20)\d{2}|(?i:present|current))`),
		Year:      regexp.MustCompile(`\b(?:19|20)\d{2}\b`),
		School:    regexp.MustCompile(`(?:[A-Z][A-Za-z.&'-]*[ \t]+)*(?:College|University|Institute|School|Academy)(?:[ \t]+of[ \t]+[A-Z][A-Za-z]*(?:[ \t]+(?:and[ \t]+)?[A-Z][A-Za-z]*)*)?`),
		Grade:     regexp.MustCompile(`(?i)\b(?:c?gpa)[ \t]*[:\-]?[ \t]*(\d+(?:\.\d+)?(?:[ ]*/[ ]*\d+(?:\.\d+)?)?)|\b(\d{2}(?:\.\d+)?)[ ]?%`),
		DateRange: regexp.MustCompile(dateRange),
		DatedRole: regexp.MustCompile(`\b(` + role + `)\b([^\n]{0,80}?)\n?[^\n]{0,80}?(` + dateRange + `)`),
		Bullet:    regexp.MustCompile(`^[ \t]*(?:[-*•·▪●◦➢➤►]+)[ \t]*`),

		SkillSplit:  regexp.MustCompile(`[,•·▪●◦|;:\n]`),
		ChunkBreak:  regexp.MustCompile(`\n[ \t]*\n`),
		TechLabel:   regexp.MustCompile(`(?im)^[ \t]*(?:technologies|tech stack|tools|built with|stack)[ \t]*:[ \t]*([^\n]+)$`),
		WordPattern: regexp.MustCompile(`\S+`),
	}
}
