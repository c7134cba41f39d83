// Package ingestion turns raw resume input into normalized text.
//
// ResumeText is the only input type the analysis and parsing pipelines accept. It keeps
// the original string for case-sensitive extraction next to a normalized copy and a
// lowercase copy of the normalized text.
package ingestion

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	spaceRun      = regexp.MustCompile(`[ \t\f\v\x{00A0}\x{2000}-\x{200B}\x{3000}]+`)
	blankLineRun  = regexp.MustCompile(`\n{3,}`)
	controlCharRe = regexp.MustCompile(`[\x00-\x08\x0B\x0E-\x1F\x7F]`)
)

// ResumeText is immutable once created; all accessors return values.
type ResumeText struct {
	original   string
	normalized string
	lower      string
	lines      []string
	words      int
}

// NewResumeText normalizes raw input. Invalid UTF-8 and control characters are dropped
// from every derived copy, so binary garbage yields a (possibly empty) usable value.
func NewResumeText(raw string) ResumeText {
	original := strings.ToValidUTF8(raw, "")
	normalized := CleanText(original)

	var lines []string
	if normalized != "" {
		lines = strings.Split(normalized, "\n")
	}

	return ResumeText{
		original:   original,
		normalized: normalized,
		lower:      strings.ToLower(normalized),
		lines:      lines,
		words:      len(strings.Fields(normalized)),
	}
}

// Original returns the input with only invalid UTF-8 removed.
func (t ResumeText) Original() string { return t.original }

// Normalized returns the cleaned text: unified line endings, collapsed whitespace.
func (t ResumeText) Normalized() string { return t.normalized }

// Lower returns the lowercase form of Normalized, for case-insensitive matching.
func (t ResumeText) Lower() string { return t.lower }

// Lines returns a copy of the normalized lines, blank lines included.
func (t ResumeText) Lines() []string {
	out := make([]string, len(t.lines))
	copy(out, t.lines)
	return out
}

// WordCount returns the number of whitespace-separated tokens.
func (t ResumeText) WordCount() int { return t.words }

// IsEmpty reports whether normalization left no content.
func (t ResumeText) IsEmpty() bool { return t.normalized == "" }

// CleanText normalizes text content while preserving line structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	// 1. Normalize line endings (CRLF → LF)
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u2028", "\n")

	// 2. Drop control characters other than newline and tab
	content = controlCharRe.ReplaceAllString(content, "")

	// 3. Clean each line
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}
	result := strings.Join(lines, "\n")

	// 4. Remove excessive blank lines (max 1 consecutive)
	result = blankLineRun.ReplaceAllString(result, "\n\n")

	return strings.TrimSpace(result)
}

// cleanLine collapses horizontal whitespace and trims the line.
func cleanLine(line string) string {
	line = spaceRun.ReplaceAllString(line, " ")
	return strings.TrimFunc(line, unicode.IsSpace)
}
