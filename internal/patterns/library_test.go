package patterns

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Tables(t *testing.T) {
	lib := Default()

	assert.Len(t, lib.Industries(), 5)
	assert.GreaterOrEqual(t, len(lib.ActionVerbs()), 35)
	assert.Len(t, lib.Sections(), 5)
	assert.NotEmpty(t, lib.TechnologyTerms())

	for _, c := range lib.Industries() {
		for _, term := range c.Terms {
			assert.Equal(t, term, strings.ToLower(strings.TrimSpace(term)), "industry term %q should be lowercase", term)
		}
	}
}

func TestDefault_Shared(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	lib := Default()

	verbs := lib.ActionVerbs()
	verbs[0] = "mutated"
	assert.NotEqual(t, "mutated", lib.ActionVerbs()[0])

	industries := lib.Industries()
	industries[0].Terms[0] = "mutated"
	assert.NotEqual(t, "mutated", lib.Industries()[0].Terms[0])

	sections := lib.Sections()
	sections[0].Synonyms = nil
	assert.NotEmpty(t, lib.Sections()[0].Synonyms)
}

func TestVerbPattern_Conjugations(t *testing.T) {
	lib := Default()
	idx := -1
	for i, v := range lib.ActionVerbs() {
		if v == "led" {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)

	re := lib.VerbPattern(idx)
	assert.True(t, re.MatchString("Led a team of five"))
	assert.False(t, re.MatchString("Ledger reconciliation"))
}

func TestStopwords(t *testing.T) {
	lib := Default()
	assert.True(t, lib.IsCapitalizedStopword("The"))
	assert.False(t, lib.IsCapitalizedStopword("Kubernetes"))
	assert.True(t, lib.IsSkillStopword("AND"))
	assert.False(t, lib.IsSkillStopword("Go"))
}

func TestBlockPatterns_CaptureUntilNextHeader(t *testing.T) {
	lib := Default()
	text := "Jordan Lee\n\nSUMMARY\nBackend engineer with ten years of experience.\n\nSKILLS\nGo, Python\n"

	var body string
	for _, re := range lib.BlockPatterns(BlockSummary) {
		if m := re.FindStringSubmatch(text); m != nil {
			body = m[1]
			break
		}
	}
	assert.Equal(t, "Backend engineer with ten years of experience.", strings.TrimSpace(body))
}

func TestBlockPatterns_InlineHeader(t *testing.T) {
	lib := Default()
	text := "Skills: Go, Docker, Kubernetes\nEducation\nBS Computer Science"

	var body string
	for _, re := range lib.BlockPatterns(BlockSkills) {
		if m := re.FindStringSubmatch(text); m != nil {
			body = m[1]
			break
		}
	}
	assert.Equal(t, "Go, Docker, Kubernetes", strings.TrimSpace(body))
}

func TestRegexes(t *testing.T) {
	re := Default().Regex

	tests := []struct {
		name    string
		pattern func() bool
	}{
		{"email", func() bool { return re.Email.MatchString("jane.doe@example.com") }},
		{"parenthesized phone", func() bool { return re.Phone.MatchString("(415) 555-0199") }},
		{"dotted phone", func() bool { return re.Phone.MatchString("415.555.0199") }},
		{"country code phone", func() bool { return re.Phone.MatchString("+1 415-555-0199") }},
		{"percentage", func() bool { return re.Metrics[0].MatchString("grew 25%") }},
		{"currency", func() bool { return re.Metrics[1].MatchString("saved $1.2M") }},
		{"duration", func() bool { return re.Metrics[2].MatchString("5 years") }},
		{"city state", func() bool { return re.CityState.MatchString("Austin, TX") }},
		{"box drawing", func() bool { return re.BoxDrawing.MatchString("│ table │") }},
		{"date range", func() bool { return re.DateRange.MatchString("Jan 2020 - Present") }},
		{"year range", func() bool { return re.YearRange.MatchString("2014 – 2018") }},
		{"degree", func() bool { return re.Degree.MatchString("Bachelor of Science in Computer Science") }},
		{"abbreviated degree", func() bool { return re.Degree.MatchString("B.Tech in Electronics") }},
		{"school", func() bool { return re.School.MatchString("Stanford University") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pattern())
		})
	}
}

func TestDegree_DoesNotMatchInsideWords(t *testing.T) {
	re := Default().Regex.Degree
	assert.False(t, re.MatchString("BASIC programming"))
	assert.False(t, re.MatchString("Mastering Kubernetes"))
}

func TestLoad_EmptyPathReturnsDefault(t *testing.T) {
	lib, err := Load("")
	require.NoError(t, err)
	assert.Same(t, Default(), lib)
}

func TestLoad_OverrideFile(t *testing.T) {
	content := `{
		"industry_keywords": [{"name": "logistics", "terms": ["Supply Chain", "freight"]}],
		"action_verbs": ["shipped"]
	}`
	path := filepath.Join(t.TempDir(), "patterns.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	lib, err := Load(path)
	require.NoError(t, err)

	industries := lib.Industries()
	require.Len(t, industries, 1)
	assert.Equal(t, []string{"supply chain", "freight"}, industries[0].Terms)
	assert.Equal(t, []string{"shipped"}, lib.ActionVerbs())
	// Omitted tables keep built-in values
	assert.Len(t, lib.Sections(), 5)
	// The default library is untouched
	assert.Len(t, Default().Industries(), 5)
}

func TestDefault_Weights(t *testing.T) {
	lib := Default()

	local := 0
	for _, category := range Categories() {
		max, ok := lib.MaxScore(category)
		require.True(t, ok, category)
		assert.Positive(t, max, category)
		if category != CategoryJobMatch {
			local += max
		}
	}
	assert.Equal(t, 100, local)

	_, ok := lib.MaxScore("Spelling")
	assert.False(t, ok)

	assert.Equal(t, FormattingLimits{MinWords: 150, MaxWords: 1200, MaxDecorativeGlyphs: 10, MinHeaderLines: 3}, lib.Formatting())

	weights := lib.Weights()
	weights[CategoryKeywords] = 0
	max, _ := lib.MaxScore(CategoryKeywords)
	assert.Equal(t, 15, max)
}

func TestFromJSON_WeightsAndFormatting(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		keywords   int
		formatting int
		limits     FormattingLimits
	}{
		{
			name:       "weights merge over defaults",
			body:       `{"weights": {"Keywords": 30}}`,
			keywords:   30,
			formatting: 15,
			limits:     FormattingLimits{MinWords: 150, MaxWords: 1200, MaxDecorativeGlyphs: 10, MinHeaderLines: 3},
		},
		{
			name:       "partial formatting limits",
			body:       `{"weights": {"Formatting": 5}, "formatting": {"min_words": 50, "max_decorative_glyphs": 0}}`,
			keywords:   15,
			formatting: 5,
			limits:     FormattingLimits{MinWords: 50, MaxWords: 1200, MaxDecorativeGlyphs: 0, MinHeaderLines: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lib, err := FromJSON("override", []byte(tt.body))
			require.NoError(t, err)

			max, _ := lib.MaxScore(CategoryKeywords)
			assert.Equal(t, tt.keywords, max)
			max, _ = lib.MaxScore(CategoryFormatting)
			assert.Equal(t, tt.formatting, max)
			assert.Equal(t, tt.limits, lib.Formatting())
		})
	}

	max, _ := Default().MaxScore(CategoryKeywords)
	assert.Equal(t, 15, max, "the default library is untouched")
}

func TestFromJSON_RejectsBadWeights(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"zero weight", `{"weights": {"Keywords": 0}}`, "does not match schema"},
		{"unknown category", `{"weights": {"Spelling": 10}}`, "does not match schema"},
		{"fractional weight", `{"weights": {"Sections": 2.5}}`, "does not match schema"},
		{"inverted word limits", `{"formatting": {"min_words": 900, "max_words": 300}}`, "min_words must be below"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON("override", []byte(tt.body))
			require.Error(t, err)
			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestHeaders_EveryBlockKind(t *testing.T) {
	lib := Default()
	for _, kind := range BlockKinds() {
		assert.NotEmpty(t, lib.Headers(kind), kind)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load("/nonexistent/patterns.json")
		require.Error(t, err)
		var loadErr *LoadError
		assert.True(t, errors.As(err, &loadErr))
		assert.Contains(t, err.Error(), "failed to read file")
	})

	t.Run("schema violation", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"sections": [{"name": "Skills"}]}`), 0644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match schema")
	})
}
