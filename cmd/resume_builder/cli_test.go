package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const janeResume = `{
  "personalDetails": {"fullName": "Jane Doe", "email": "jane@example.com"},
  "presentation": {"templateId": "classic"}
}`

// execute runs the root command in-process and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

// resetFlags restores defaults so required-flag checks see a fresh run.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeResume(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestScoreCommand(t *testing.T) {
	out, err := execute(t, "score", writeResume(t, janeResume))
	require.NoError(t, err)
	assert.Contains(t, out, "Completeness:")
	assert.Contains(t, out, "16/100")
	assert.Contains(t, out, "No experience entries added")
}

func TestScoreCommand_JSON(t *testing.T) {
	out, err := execute(t, "score", "--json", writeResume(t, `{"structuredData": {}}`))
	require.NoError(t, err)

	var report scoreReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, 0, report.CompletenessScore)
	assert.False(t, report.Validation.IsValid)
	assert.Contains(t, report.Validation.Errors, "Personal details are missing")
}

func TestScoreCommand_Errors(t *testing.T) {
	_, err := execute(t, "score", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read resume file")

	_, err = execute(t, "score", writeResume(t, "{not json"))
	assert.ErrorContains(t, err, "failed to unmarshal resume JSON")

	_, err = execute(t, "score")
	assert.Error(t, err)
}

func TestRenderCommand_HTML(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "resume.html")
	_, err := execute(t, "render", writeResume(t, janeResume), "--out", outPath, "--template", "minimal")
	require.NoError(t, err)

	html, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Jane Doe")
	assert.Contains(t, string(html), `class="page minimal"`)
}

func TestRenderCommand_DOCX(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "resume.docx")
	_, err := execute(t, "render", writeResume(t, janeResume), "-f", "docx", "-o", outPath)
	require.NoError(t, err)

	content, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(content, []byte("PK")))
}

func TestRenderCommand_Errors(t *testing.T) {
	_, err := execute(t, "render", writeResume(t, janeResume), "-f", "rtf", "-o", filepath.Join(t.TempDir(), "x"))
	assert.ErrorContains(t, err, `unsupported format "rtf"`)

	_, err = execute(t, "render", writeResume(t, janeResume))
	assert.ErrorContains(t, err, "out")
}

func TestWithTemplate_DoesNotMutateInput(t *testing.T) {
	doc := map[string]any{"presentation": map[string]any{"templateId": "classic"}}
	got := withTemplate(doc, "compact")
	assert.Equal(t, "compact", got.Object("presentation")["templateId"])
	assert.Equal(t, "classic", doc["presentation"].(map[string]any)["templateId"])
}
