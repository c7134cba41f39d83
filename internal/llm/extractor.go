package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model to return.
type ExtractionSchema struct {
	Name        string
	Description string
	Fields      []SchemaField
}

// SchemaField is one key of the requested object.
type SchemaField struct {
	Name        string
	Type        string // JSON shape hint shown to the model, e.g. `["string"]`
	Description string
	Required    bool
}

// BuildExtractionPrompt renders schema followed by the input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\nReturn ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		fmt.Fprintf(&sb, "  %q: %s", field.Name, typeHint)
		if field.Required {
			sb.WriteString(" (required)")
		}
		if field.Description != "" {
			fmt.Fprintf(&sb, " // %s", field.Description)
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Use only information present in the text. Leave a field empty rather than guess.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation.\n\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")
	return sb.String()
}

// ResumeFieldsSchema requests a structured resume.
func ResumeFieldsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name:        "StructuredResume",
		Description: "You are a resume parser. Decompose the resume into contact details and sections.",
		Fields: []SchemaField{
			{Name: "full_name", Required: true},
			{Name: "email"},
			{Name: "phone"},
			{Name: "linkedin", Description: "as linkedin.com/in/<handle>"},
			{Name: "location", Description: "City, Region"},
			{Name: "job_title", Description: "current or target role"},
			{Name: "summary"},
			{Name: "skills", Type: `["string"]`},
			{
				Name:        "experiences",
				Type:        `[{"position": "string", "company": "string", "start_date": "string", "end_date": "string", "description": "string"}]`,
				Description: "most recent first, dates as written",
			},
			{
				Name: "educations",
				Type: `[{"degree": "string", "school": "string", "field": "string", "start_date": "string", "end_date": "string", "grade": "string"}]`,
			},
			{Name: "achievements", Type: `[{"title": "string", "description": "string"}]`},
			{Name: "projects", Type: `[{"name": "string", "description": "string", "technologies": ["string"]}]`},
		},
	}
}

// AnalysisSchema requests a scored analysis over the given categories.
func AnalysisSchema(categories []string) ExtractionSchema {
	return ExtractionSchema{
		Name: "AnalysisResult",
		Description: "You are an applicant tracking system reviewer. Score the resume in each category: " +
			strings.Join(categories, ", ") + ".",
		Fields: []SchemaField{
			{Name: "overall_score", Type: "integer 0-100", Required: true},
			{
				Name:        "findings",
				Type:        `[{"category": "string", "score": 0, "max_score": 0, "details": ["string"], "hints": ["string"]}]`,
				Description: "one entry per category, using the category names exactly",
				Required:    true,
			},
			{Name: "matched_keywords", Type: `["string"]`},
			{Name: "missing_keywords", Type: `["string"]`},
			{Name: "suggestions", Type: `["string"]`},
			{Name: "strengths", Type: `["string"]`},
		},
	}
}
