package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		key       string
		wantErr   string
		wantMatch string
	}{
		{"analyze prompt", "oracle.json", "analyze-resume", "", "{{.Categories}}"},
		{"job prompt", "oracle.json", "analyze-resume-job", "", "{{.JobDescription}}"},
		{"parse prompt", "oracle.json", "parse-resume", "", "exactly as written"},
		{"missing file", "nonexistent.json", "x", "failed to read prompt file", ""},
		{"missing key", "oracle.json", "nonexistent-key", "not found", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ClearCache()
			prompt, err := Get(tt.file, tt.key)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, prompt, tt.wantMatch)
		})
	}
}

func TestMustGet(t *testing.T) {
	ClearCache()
	assert.Panics(t, func() { MustGet("nonexistent.json", "x") })
	assert.NotPanics(t, func() { assert.NotEmpty(t, MustGet("oracle.json", "parse-resume")) })
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		expected string
	}{
		{"substitutes", "Score {{.Categories}} for {{.Name}}", map[string]string{"Categories": "Keywords", "Name": "Jordan"}, "Score Keywords for Jordan"},
		{"no placeholders", "plain", map[string]string{"Key": "v"}, "plain"},
		{"unknown left in place", "Hello {{.Name}}", nil, "Hello {{.Name}}"},
		{"values are not re-expanded", "{{.A}}", map[string]string{"A": "{{.B}}", "B": "x"}, "{{.B}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.template, tt.data))
		})
	}
}

func TestList(t *testing.T) {
	ClearCache()
	keys, err := List("oracle.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"analyze-resume", "analyze-resume-job", "parse-resume"}, keys)
}

func TestCaching(t *testing.T) {
	ClearCache()
	first, err := Get("oracle.json", "parse-resume")
	require.NoError(t, err)
	second, err := Get("oracle.json", "parse-resume")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
