package resume

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/jonathan/resume-builder/internal/types"
)

// Section names accepted by item edits.
const (
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionLinks          = "links"
	SectionCustomSections = "customSections"
)

// ItemOp is the kind of change an ItemEdit makes.
type ItemOp string

const (
	OpAdd    ItemOp = "add"
	OpUpdate ItemOp = "update"
	OpRemove ItemOp = "remove"
)

// ItemEdit is one change to a list section. Item carries the JSON body of
// the new or replacement entry and is ignored for removals.
type ItemEdit struct {
	Op      ItemOp
	Section string
	ID      string
	Item    json.RawMessage
}

// UnknownSectionError is returned for a section name the editor does not
// manage, or one that does not support the requested change.
type UnknownSectionError struct {
	Section string
}

func (e *UnknownSectionError) Error() string {
	return fmt.Sprintf("unknown section: %s", e.Section)
}

// ApplyItem performs edit and returns the id of the affected entry.
func (e *Editor) ApplyItem(edit ItemEdit) (string, error) {
	switch edit.Section {
	case SectionExperience:
		return applyItem(edit, e.AddExperience, e.UpdateExperience, e.RemoveExperience)
	case SectionEducation:
		return applyItem(edit, e.AddEducation, e.UpdateEducation, e.RemoveEducation)
	case SectionSkills:
		return applyItem(edit, e.AddSkill, e.UpdateSkill, e.RemoveSkill)
	case SectionLinks:
		return applyItem(edit, e.AddLink, e.UpdateLink, e.RemoveLink)
	case SectionCustomSections:
		return applyItem(edit, e.AddCustomSection, e.UpdateCustomSection, e.RemoveCustomSection)
	}
	return "", &UnknownSectionError{Section: edit.Section}
}

// Reorder moves an entry of an ordered section.
func (e *Editor) Reorder(section string, from, to int) error {
	switch section {
	case SectionExperience:
		return e.ReorderExperience(from, to)
	case SectionEducation:
		return e.ReorderEducation(from, to)
	}
	return &UnknownSectionError{Section: section}
}

func applyItem[T any](edit ItemEdit, add func(T) string, update func(string, T) error, remove func(string) error) (string, error) {
	if edit.Op == OpRemove {
		return edit.ID, remove(edit.ID)
	}

	var item T
	if len(edit.Item) > 0 {
		if err := json.Unmarshal(edit.Item, &item); err != nil {
			return "", fmt.Errorf("failed to decode %s item: %w", edit.Section, err)
		}
	}
	switch edit.Op {
	case OpAdd:
		return add(item), nil
	case OpUpdate:
		return edit.ID, update(edit.ID, item)
	}
	return "", fmt.Errorf("unsupported item operation: %q", edit.Op)
}

// consumedKeys are the top-level keys Normalize reads. EditDocument drops
// them from the stored document before writing the canonical form back.
var consumedKeys = slices.Concat(
	personalKeys,
	experienceKeys,
	[]string{"summary", "education", "skills", "links", "customSections", "presentation", "review"},
	foldedKeys(),
)

func foldedKeys() []string {
	keys := make([]string, 0, len(folded))
	for _, f := range folded {
		keys = append(keys, f.key)
	}
	return keys
}

// EditDocument runs fn against an editor opened on doc and returns the
// edited document in canonical form. Top-level keys the typed model does
// not know are carried over unchanged.
func EditDocument(doc types.Document, fn func(*Editor) error) (types.Document, error) {
	ed := NewEditor(Normalize(doc))
	if err := fn(ed); err != nil {
		return nil, err
	}

	snap := ed.Snapshot()
	out, err := ToDocument(&snap)
	if err != nil {
		return nil, err
	}
	for k, v := range doc {
		if _, set := out[k]; set || slices.Contains(consumedKeys, k) {
			continue
		}
		out[k] = v
	}
	return out, nil
}
