package resume

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestApplyItem(t *testing.T) {
	e := NewEditor(nil)

	id, err := e.ApplyItem(ItemEdit{Op: OpAdd, Section: SectionEducation, Item: json.RawMessage(`{"school":"MIT","degree":"BSc"}`)})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	_, err = e.ApplyItem(ItemEdit{Op: OpUpdate, Section: SectionEducation, ID: id, Item: json.RawMessage(`{"school":"MIT","degree":"MSc"}`)})
	require.NoError(t, err)
	got := e.Snapshot().Education
	require.Len(t, got, 1)
	assert.Equal(t, types.EducationItem{ID: id, School: "MIT", Degree: "MSc"}, got[0])

	_, err = e.ApplyItem(ItemEdit{Op: OpRemove, Section: SectionEducation, ID: id})
	require.NoError(t, err)
	assert.Empty(t, e.Snapshot().Education)
}

func TestApplyItem_Errors(t *testing.T) {
	e := NewEditor(nil)

	_, err := e.ApplyItem(ItemEdit{Op: OpAdd, Section: "hobbies"})
	var section *UnknownSectionError
	assert.ErrorAs(t, err, &section)

	_, err = e.ApplyItem(ItemEdit{Op: OpUpdate, Section: SectionLinks, ID: "x", Item: json.RawMessage(`{}`)})
	var notFound *ItemNotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = e.ApplyItem(ItemEdit{Op: OpAdd, Section: SectionSkills, Item: json.RawMessage(`"Go"`)})
	assert.ErrorContains(t, err, "failed to decode skills item")

	assert.ErrorAs(t, e.Reorder(SectionSkills, 0, 0), &section)
}

func TestEditDocument(t *testing.T) {
	doc := types.Document{
		"personalDetails": map[string]any{"fullName": "Jane"},
		"projects":        []any{map[string]any{"title": "Compiler"}},
		"targetRole":      "Lead",
	}

	out, err := EditDocument(doc, func(e *Editor) error {
		e.UpdateSummary("Builds things.")
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "Lead", out["targetRole"])
	assert.Nil(t, out["projects"], "folded sections are written as custom sections")
	data := Normalize(out)
	assert.Equal(t, "Builds things.", data.PersonalDetails.Summary)
	require.Len(t, data.CustomSections, 1)
	assert.Equal(t, "Projects", data.CustomSections[0].Title)

	_, has := doc["customSections"]
	assert.False(t, has, "input document is not modified")
}

func TestEditDocument_ErrorStopsWrite(t *testing.T) {
	out, err := EditDocument(types.Document{}, func(e *Editor) error {
		return e.RemoveExperience("missing")
	})
	assert.Nil(t, out)
	var notFound *ItemNotFoundError
	assert.ErrorAs(t, err, &notFound)
}
