package patterns

import (
	"encoding/json"
	"maps"
	"os"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/schemas"
)

// fileFormat is the on-disk override format. Omitted tables keep their built-in values.
type fileFormat struct {
	IndustryKeywords     []Category `json:"industry_keywords,omitempty"`
	ActionVerbs          []string   `json:"action_verbs,omitempty"`
	Sections             []Section  `json:"sections,omitempty"`
	CapitalizedStopwords []string   `json:"capitalized_stopwords,omitempty"`
	SkillStopwords       []string   `json:"skill_stopwords,omitempty"`
	// Weights and Formatting merge key by key over the built-in values.
	Weights    map[string]int  `json:"weights,omitempty"`
	Formatting *fileFormatting `json:"formatting,omitempty"`
}

type fileFormatting struct {
	MinWords            *int `json:"min_words,omitempty"`
	MaxWords            *int `json:"max_words,omitempty"`
	MaxDecorativeGlyphs *int `json:"max_decorative_glyphs,omitempty"`
	MinHeaderLines      *int `json:"min_header_lines,omitempty"`
}

func (f *fileFormatting) apply(limits FormattingLimits) FormattingLimits {
	if f == nil {
		return limits
	}
	for _, field := range []struct {
		src *int
		dst *int
	}{
		{f.MinWords, &limits.MinWords},
		{f.MaxWords, &limits.MaxWords},
		{f.MaxDecorativeGlyphs, &limits.MaxDecorativeGlyphs},
		{f.MinHeaderLines, &limits.MinHeaderLines},
	} {
		if field.src != nil {
			*field.dst = *field.src
		}
	}
	return limits
}

// Load builds a Library from a JSON override file. An empty path returns Default().
// The file is validated against the embedded pattern_library schema before use.
func Load(path string) (*Library, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Message: "failed to read file", Cause: err}
	}
	return FromJSON(path, data)
}

// FromJSON builds a Library from override JSON. name is used only in error messages.
func FromJSON(name string, data []byte) (*Library, error) {
	if err := schemas.Validate(schemas.PatternLibrary, data); err != nil {
		return nil, &LoadError{Path: name, Message: "does not match schema", Cause: err}
	}

	var f fileFormat
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, &LoadError{Path: name, Message: "failed to parse JSON", Cause: err}
	}

	t := defaultTables()
	if len(f.IndustryKeywords) > 0 {
		t.industries = lowerCategories(f.IndustryKeywords)
	}
	if len(f.ActionVerbs) > 0 {
		t.verbs = f.ActionVerbs
	}
	if len(f.Sections) > 0 {
		t.sections = lowerSections(f.Sections)
	}
	if len(f.CapitalizedStopwords) > 0 {
		t.capStop = f.CapitalizedStopwords
	}
	if len(f.SkillStopwords) > 0 {
		t.skillStop = f.SkillStopwords
	}
	if len(f.Weights) > 0 {
		t.weights = maps.Clone(t.weights)
		maps.Copy(t.weights, f.Weights)
	}
	t.formatting = f.Formatting.apply(t.formatting)
	if t.formatting.MinWords >= t.formatting.MaxWords {
		return nil, &LoadError{Path: name, Message: "formatting.min_words must be below formatting.max_words"}
	}

	return build(t), nil
}

func lowerCategories(in []Category) []Category {
	out := make([]Category, len(in))
	for i, c := range in {
		terms := make([]string, 0, len(c.Terms))
		for _, t := range c.Terms {
			terms = append(terms, strings.ToLower(strings.TrimSpace(t)))
		}
		out[i] = Category{Name: c.Name, Terms: terms}
	}
	return out
}

func lowerSections(in []Section) []Section {
	out := make([]Section, len(in))
	for i, s := range in {
		syns := make([]string, 0, len(s.Synonyms))
		for _, syn := range s.Synonyms {
			syns = append(syns, strings.ToLower(strings.TrimSpace(syn)))
		}
		out[i] = Section{Name: s.Name, Synonyms: syns}
	}
	return out
}
