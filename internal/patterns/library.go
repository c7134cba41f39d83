// Package patterns holds the static tables every extractor and the structured parser read:
// industry keywords, action verbs, section synonyms, category weights, formatting
// thresholds, and the compiled regex battery.
//
// A Library is built once and never mutated. Accessors hand out copies, so changing a
// keyword list means building a new Library (see Load), never editing one in place.
package patterns

import (
	"maps"
	"regexp"
	"slices"
	"strings"
	"sync"
)

// Category is a named industry keyword table.
type Category struct {
	Name  string   `json:"name"`
	Terms []string `json:"terms"`
}

// Section is a canonical resume section and the lowercase substrings that indicate it.
type Section struct {
	Name     string   `json:"name"`
	Synonyms []string `json:"synonyms"`
}

// BlockKind names a header-delimited region of resume text.
type BlockKind string

// Block kinds understood by the structured parser.
const (
	BlockSummary        BlockKind = "summary"
	BlockSkills         BlockKind = "skills"
	BlockExperience     BlockKind = "experience"
	BlockEducation      BlockKind = "education"
	BlockAchievements   BlockKind = "achievements"
	BlockProjects       BlockKind = "projects"
	BlockCertifications BlockKind = "certifications"
	BlockOther          BlockKind = "other"
)

// BlockKinds returns every block kind in header-scan order.
func BlockKinds() []BlockKind {
	return []BlockKind{
		BlockSummary, BlockSkills, BlockExperience, BlockEducation,
		BlockAchievements, BlockProjects, BlockCertifications, BlockOther,
	}
}

// Library is the immutable pattern library.
type Library struct {
	industries []Category
	verbs      []string
	sections   []Section
	headers    map[BlockKind][]string

	capStop   map[string]bool
	skillStop map[string]bool

	weights    map[string]int
	formatting FormattingLimits

	verbRes  []*regexp.Regexp
	blockRes map[BlockKind][]*regexp.Regexp

	// Regex is the compiled regex battery. Compiled regexps are safe for concurrent use.
	Regex *Regexes
}

var (
	defaultOnce sync.Once
	defaultLib  *Library
)

// Default returns the built-in library. It is compiled on first use and shared.
func Default() *Library {
	defaultOnce.Do(func() {
		defaultLib = build(defaultTables())
	})
	return defaultLib
}

// tables is the raw material of a Library before compilation.
type tables struct {
	industries []Category
	verbs      []string
	sections   []Section
	capStop    []string
	skillStop  []string
	weights    map[string]int
	formatting FormattingLimits
}

func defaultTables() tables {
	return tables{
		industries: defaultIndustries,
		verbs:      defaultActionVerbs,
		sections:   defaultSections,
		capStop:    defaultCapitalizedStopwords,
		skillStop:  defaultSkillStopwords,
		weights:    defaultWeights,
		formatting: defaultFormatting,
	}
}

func build(t tables) *Library {
	lib := &Library{
		industries: cloneCategories(t.industries),
		verbs:      slices.Clone(t.verbs),
		sections:   cloneSections(t.sections),
		headers:    make(map[BlockKind][]string, len(defaultHeaders)),
		capStop:    toSet(t.capStop),
		skillStop:  toSet(t.skillStop),
		weights:    maps.Clone(t.weights),
		formatting: t.formatting,
		blockRes:   make(map[BlockKind][]*regexp.Regexp, len(defaultHeaders)),
		Regex:      compileRegexes(),
	}

	for _, verb := range lib.verbs {
		lib.verbRes = append(lib.verbRes,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(verb)+`(?:ed|ing|s)?\b`))
	}

	var all []string
	for kind, synonyms := range defaultHeaders {
		lib.headers[kind] = slices.Clone(synonyms)
		all = append(all, synonyms...)
	}
	// Longest first so alternation prefers "work experience" over "experience".
	slices.SortFunc(all, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	terminator := headerAlternation(all)
	for kind, synonyms := range defaultHeaders {
		for _, syn := range synonyms {
			lib.blockRes[kind] = append(lib.blockRes[kind], compileBlock(syn, terminator))
		}
	}

	return lib
}

// Industries returns a copy of the industry keyword tables in declaration order.
func (l *Library) Industries() []Category {
	return cloneCategories(l.industries)
}

// ActionVerbs returns a copy of the action verb list.
func (l *Library) ActionVerbs() []string {
	return slices.Clone(l.verbs)
}

// VerbPattern returns the compiled conjugation-tolerant pattern for ActionVerbs()[i].
func (l *Library) VerbPattern(i int) *regexp.Regexp {
	return l.verbRes[i]
}

// Sections returns a copy of the section synonym table.
func (l *Library) Sections() []Section {
	return cloneSections(l.sections)
}

// Headers returns the header synonyms for a block kind.
func (l *Library) Headers(kind BlockKind) []string {
	return slices.Clone(l.headers[kind])
}

// BlockPatterns returns the header-anchored capture patterns for a block kind, one per
// synonym, in priority order. Group 1 of each captures the block body.
func (l *Library) BlockPatterns(kind BlockKind) []*regexp.Regexp {
	return slices.Clone(l.blockRes[kind])
}

// IsCapitalizedStopword reports whether a capitalized token is a common function word.
func (l *Library) IsCapitalizedStopword(token string) bool {
	return l.capStop[strings.ToLower(token)]
}

// IsSkillStopword reports whether a split skill candidate should be discarded.
func (l *Library) IsSkillStopword(candidate string) bool {
	return l.skillStop[strings.ToLower(candidate)]
}

// TechnologyTerms returns the terms of the "technology" table, if present.
func (l *Library) TechnologyTerms() []string {
	for _, c := range l.industries {
		if c.Name == "technology" {
			return slices.Clone(c.Terms)
		}
	}
	return nil
}

func compileBlock(synonym, terminator string) *regexp.Regexp {
	const lead = `[ \t]*(?:[#*•\-]+[ \t]*)?`
	expr := `(?ims)^` + lead + regexp.QuoteMeta(synonym) + `[ \t]*(?::[ \t]*|$\n?)` +
		`(.*?)` +
		`(?:\n` + lead + `(?:` + terminator + `)[ \t]*(?::|$)|\z)`
	return regexp.MustCompile(expr)
}

func headerAlternation(headers []string) string {
	quoted := make([]string, 0, len(headers))
	seen := make(map[string]bool, len(headers))
	for _, h := range headers {
		if seen[h] {
			continue
		}
		seen[h] = true
		quoted = append(quoted, regexp.QuoteMeta(h))
	}
	return strings.Join(quoted, "|")
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[strings.ToLower(strings.TrimSpace(w))] = true
	}
	return set
}

func cloneCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, c := range in {
		out[i] = Category{Name: c.Name, Terms: slices.Clone(c.Terms)}
	}
	return out
}

func cloneSections(in []Section) []Section {
	out := make([]Section, len(in))
	for i, s := range in {
		out[i] = Section{Name: s.Name, Synonyms: slices.Clone(s.Synonyms)}
	}
	return out
}
