package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

var scoreJSON bool

var scoreCmd = &cobra.Command{
	Use:   "score <resume.json>",
	Short: "Validate a resume document and print its completeness score",
	Args:  cobra.ExactArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().BoolVar(&scoreJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(scoreCmd)
}

type scoreReport struct {
	CompletenessScore int               `json:"completenessScore"`
	Validation        validation.Result `json:"validation"`
}

func runScore(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}

	data := resume.Normalize(doc)
	report := scoreReport{
		CompletenessScore: validation.CalculateCompletenessScore(resume.ScoringView(doc)),
		Validation:        validation.ValidateResumeData(data),
	}

	out := cmd.OutOrStdout()
	if scoreJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printReport(out, report)
	return nil
}

func printReport(out io.Writer, report scoreReport) {
	fmt.Fprintln(out, titleStyle.Render("Resume Report"))
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Completeness:"), valueStyle.Render(fmt.Sprintf("%d/100", report.CompletenessScore)))

	status := successStyle.Render("valid")
	if !report.Validation.IsValid {
		status = errorStyle.Render("has errors")
	}
	fmt.Fprintf(out, "%s %s\n", labelStyle.Render("Status:"), status)

	for _, e := range report.Validation.Errors {
		fmt.Fprintf(out, "  %s %s\n", errorStyle.Render("✗"), e)
	}
	for _, w := range report.Validation.Warnings {
		fmt.Fprintf(out, "  %s %s\n", warningStyle.Render("!"), w)
	}
}

// readDocument loads a JSON resume document. A session export wrapping the
// document in "structuredData" is accepted too.
func readDocument(path string) (types.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}

	var doc types.Document
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resume JSON: %w", err)
	}
	if inner, ok := doc["structuredData"].(map[string]any); ok {
		return types.Document(inner), nil
	}
	if doc == nil {
		doc = types.Document{}
	}
	return doc, nil
}
