package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/export"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

var (
	renderFormat   string
	renderOutput   string
	renderTemplate string
)

var renderCmd = &cobra.Command{
	Use:   "render <resume.json>",
	Short: "Render a resume document to HTML, PDF or DOCX",
	Args:  cobra.ExactArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderFormat, "format", "f", "html", "Output format: html, pdf or docx")
	renderCmd.Flags().StringVarP(&renderOutput, "out", "o", "", "Path to output file (required)")
	renderCmd.Flags().StringVarP(&renderTemplate, "template", "t", "", "Template id overriding the document's presentation")

	if err := renderCmd.MarkFlagRequired("out"); err != nil {
		panic(fmt.Sprintf("failed to mark out flag as required: %v", err))
	}

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	doc, err := readDocument(args[0])
	if err != nil {
		return err
	}
	if renderTemplate != "" {
		doc = withTemplate(doc, renderTemplate)
	}

	var out []byte
	switch renderFormat {
	case "html":
		html, err := rendering.RenderDocument(doc, nil)
		if err != nil {
			return fmt.Errorf("failed to render html: %w", err)
		}
		out = []byte(html)
	case "docx":
		out, err = export.NewExporter(nil, 1).DOCX(doc)
		if err != nil {
			return err
		}
	case "pdf":
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		exporter := export.NewExporter(export.NewChromeRenderer(cfg.ChromePath, cfg.PDFTimeout), 1)
		out, err = exporter.PDF(cmd.Context(), args[0], doc)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format %q (want html, pdf or docx)", renderFormat)
	}

	if err := os.WriteFile(renderOutput, out, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successStyle.Render("✓ Wrote"), renderOutput)
	return nil
}

func withTemplate(doc types.Document, templateID string) types.Document {
	doc = doc.Clone()
	presentation := doc.Object("presentation")
	if presentation == nil {
		presentation = map[string]any{}
	}
	presentation["templateId"] = templateID
	doc["presentation"] = presentation
	return doc
}
