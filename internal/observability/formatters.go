// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/resume-analyzer/internal/engine"
	"github.com/jonathan/resume-analyzer/internal/ingestion"
	"github.com/jonathan/resume-analyzer/internal/parsing"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a category score bar
	barWidth = 15
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintAnalysis outputs the overall score, a bar per category, and the advice lists.
func (p *Printer) PrintAnalysis(report engine.Report) {
	if report.Result == nil {
		return
	}
	res := report.Result

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Overall score: %d/100\n", res.OverallScore))
	sb.WriteString(sourceLine(string(report.Source), string(report.FallbackReason)))
	sb.WriteString("\n")

	for _, f := range res.Findings {
		filled := 0
		if f.Max > 0 {
			filled = f.Score * barWidth / f.Max
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		sb.WriteString(fmt.Sprintf("%-26s %s %2d/%d\n", truncate(f.Category, 26), bar, f.Score, f.Max))
	}

	writeList(&sb, "Strengths", res.Strengths)
	writeList(&sb, "Suggestions", res.Suggestions)
	if len(res.MatchedKeywords) > 0 {
		sb.WriteString("\nMatched: " + joinLimited(res.MatchedKeywords, maxItemsToShow*2) + "\n")
	}
	if len(res.MissingKeywords) > 0 {
		sb.WriteString("Missing: " + joinLimited(res.MissingKeywords, maxItemsToShow*2) + "\n")
	}

	p.printBox("RESUME ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintParse outputs a summary of the structured resume.
func (p *Printer) PrintParse(report engine.ParseReport) {
	r := report.Resume
	if r == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(sourceLine(string(report.Source), string(report.FallbackReason)))
	sb.WriteString("\n")
	for _, field := range []struct{ label, value string }{
		{"Name", r.FullName},
		{"Email", r.Email},
		{"Phone", r.Phone},
		{"LinkedIn", r.LinkedIn},
		{"Location", r.Location},
		{"Title", r.JobTitle},
	} {
		if field.value != "" {
			sb.WriteString(fmt.Sprintf("%-9s %s\n", field.label+":", field.value))
		}
	}
	if len(r.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", joinLimited(r.Skills, maxItemsToShow*2)))
	}

	if len(r.Experiences) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(r.Experiences), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString("  • " + experienceLine(r.Experiences[i]) + "\n")
		}
		if len(r.Experiences) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(r.Experiences)-maxItemsToShow))
		}
	}

	if len(r.Educations) > 0 {
		sb.WriteString("\nEducation:\n")
		for _, edu := range r.Educations {
			line := edu.Degree
			if edu.Field != "" {
				line += " in " + edu.Field
			}
			if edu.School != "" {
				line += ", " + edu.School
			}
			sb.WriteString("  • " + line + "\n")
		}
	}

	sb.WriteString(fmt.Sprintf("\nAchievements: %d  Projects: %d", len(r.Achievements), len(r.Projects)))
	p.printBox("STRUCTURED RESUME", sb.String())
}

// PrintMetadata outputs what was extracted from a source document.
func (p *Printer) PrintMetadata(meta *ingestion.Metadata) {
	if meta == nil {
		return
	}
	content := fmt.Sprintf("Source: %s\nFormat: %s\nChars:  %d\nWords:  %d\nHash:   %s",
		meta.Source, meta.Format, meta.Chars, meta.Words, meta.Hash[:min(len(meta.Hash), 16)])
	p.printBox("DOCUMENT", content)
}

func experienceLine(exp parsing.Experience) string {
	line := exp.Position
	if exp.Company != "" {
		line += " @ " + exp.Company
	}
	if exp.StartDate != "" {
		line += fmt.Sprintf(" (%s - %s)", exp.StartDate, exp.EndDate)
	}
	if exp.Confidence == parsing.ConfidenceLow {
		line += " [low confidence]"
	}
	return line
}

func sourceLine(source, reason string) string {
	if reason == "" {
		return fmt.Sprintf("Source: %s\n", source)
	}
	return fmt.Sprintf("Source: %s (oracle fallback: %s)\n", source, reason)
}

func writeList(sb *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	sb.WriteString("\n" + title + ":\n")
	for _, item := range items {
		sb.WriteString("  • " + item + "\n")
	}
}

func joinLimited(items []string, limit int) string {
	if len(items) <= limit {
		return strings.Join(items, ", ")
	}
	return fmt.Sprintf("%s, +%d more", strings.Join(items[:limit], ", "), len(items)-limit)
}
