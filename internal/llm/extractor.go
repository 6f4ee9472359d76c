package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model for.
type ExtractionSchema struct {
	Name        string
	Description string // task preamble placed before the output shape
	Fields      []SchemaField
}

// SchemaField is one top-level key of the expected output.
type SchemaField struct {
	Name        string
	Type        string // shape hint, e.g. `"string"` or `[{"id": "string"}]`
	Description string
	Required    bool
}

// BuildExtractionPrompt renders schema and the input text into one prompt.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		fmt.Fprintf(&sb, "  %q: %s%s", field.Name, typeHint, requiredHint)
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
	sb.WriteString("- Use only information present in the input. Leave unknown fields as empty strings or empty arrays.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ResumeDocumentSchema is the structured resume shape every intake path
// asks for. description is the path-specific task preamble.
func ResumeDocumentSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "ResumeDocument",
		Description: description,
		Fields: []SchemaField{
			{
				Name:     "personalDetails",
				Type:     `{"fullName": "string", "email": "string", "phone": "string", "location": "string", "linkedinUrl": "string", "websiteUrl": "string", "summary": "string"}`,
				Required: true,
			},
			{
				Name:        "experience",
				Type:        `[{"id": "string", "jobTitle": "string", "company": "string", "location": "string", "startDate": "YYYY-MM", "endDate": "YYYY-MM", "current": false, "description": "string"}]`,
				Description: "most recent first; description holds newline-separated bullets",
				Required:    true,
			},
			{
				Name:     "education",
				Type:     `[{"id": "string", "school": "string", "degree": "string", "fieldOfStudy": "string", "startDate": "YYYY-MM", "endDate": "YYYY-MM", "current": false}]`,
				Required: true,
			},
			{
				Name:     "skills",
				Type:     `[{"id": "string", "name": "string"}]`,
				Required: true,
			},
			{
				Name: "links",
				Type: `[{"id": "string", "label": "string", "url": "string"}]`,
			},
			{
				Name:        "customSections",
				Type:        `[{"id": "string", "title": "string", "items": [{"id": "string", "title": "string", "description": "string"}]}]`,
				Description: "projects, certifications, awards and anything else",
			},
		},
	}
}

// ReviewSchema is the critique shape returned by resume review.
func ReviewSchema(description string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "ResumeReview",
		Description: description,
		Fields: []SchemaField{
			{Name: "overallScore", Type: "integer", Description: "0 to 100", Required: true},
			{Name: "summaryRating", Type: `"string"`, Description: "one short sentence", Required: true},
			{Name: "strengths", Type: `["string"]`, Required: true},
			{Name: "weakAreas", Type: `["string"]`, Required: true},
			{Name: "quickTips", Type: `["string"]`, Required: true},
		},
	}
}
