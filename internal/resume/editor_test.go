package resume

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestEditor_ExperienceLifecycle(t *testing.T) {
	e := NewEditor(nil)

	a := e.AddExperience(types.ExperienceItem{JobTitle: "A"})
	b := e.AddExperience(types.ExperienceItem{ID: "fixed", JobTitle: "B"})
	c := e.AddExperience(types.ExperienceItem{JobTitle: "C"})
	assert.NotEmpty(t, a)
	assert.Equal(t, "fixed", b)

	require.NoError(t, e.UpdateExperience(b, types.ExperienceItem{JobTitle: "B2"}))
	require.NoError(t, e.ReorderExperience(2, 0))

	snap := e.Snapshot()
	require.Len(t, snap.Experience, 3)
	assert.Equal(t, []string{c, a, b}, []string{snap.Experience[0].ID, snap.Experience[1].ID, snap.Experience[2].ID})
	assert.Equal(t, "B2", snap.Experience[2].JobTitle)

	require.NoError(t, e.RemoveExperience(a))
	assert.Len(t, e.Snapshot().Experience, 2)

	var nf *ItemNotFoundError
	assert.ErrorAs(t, e.RemoveExperience("missing"), &nf)
	var ie *IndexError
	assert.ErrorAs(t, e.ReorderExperience(0, 5), &ie)
}

func TestEditor_SnapshotsAreNotMutatedLater(t *testing.T) {
	e := NewEditor(&types.ResumeData{
		PersonalDetails: &types.PersonalDetails{FullName: "Jane"},
		Skills:          []types.SkillItem{{ID: "s1", Name: "Go"}},
		Education:       []types.EducationItem{{ID: "d1", Degree: "BSc"}, {ID: "d2", Degree: "MSc"}},
	})

	before := e.Snapshot()

	require.NoError(t, e.UpdateSkill("s1", types.SkillItem{Name: "Rust"}))
	e.AddSkill(types.SkillItem{Name: "SQL"})
	require.NoError(t, e.ReorderEducation(0, 1))
	e.UpdateSummary("New summary")

	assert.Equal(t, "Go", before.Skills[0].Name)
	assert.Len(t, before.Skills, 1)
	assert.Equal(t, "d1", before.Education[0].ID)
	assert.Empty(t, before.PersonalDetails.Summary)

	after := e.Snapshot()
	assert.Equal(t, "Rust", after.Skills[0].Name)
	assert.Equal(t, "s1", after.Skills[0].ID)
	assert.Equal(t, "d2", after.Education[0].ID)
	assert.Equal(t, "New summary", after.PersonalDetails.Summary)
	assert.Equal(t, "Jane", after.PersonalDetails.FullName)
}

func TestEditor_LinksAndSections(t *testing.T) {
	e := NewEditor(nil)

	link := e.AddLink(types.LinkItem{Label: "GitHub", URL: "https://github.com/x"})
	require.NoError(t, e.UpdateLink(link, types.LinkItem{Label: "Site", URL: "https://x.dev"}))

	section := e.AddCustomSection(types.CustomSection{Title: "Awards"})
	require.NoError(t, e.UpdateCustomSection(section, types.CustomSection{
		Title: "Honors",
		Items: []types.CustomItem{{ID: "i1", Title: "Dean's list"}},
	}))

	snap := e.Snapshot()
	assert.Equal(t, "Site", snap.Links[0].Label)
	assert.Equal(t, link, snap.Links[0].ID)
	assert.Equal(t, "Honors", snap.CustomSections[0].Title)

	require.NoError(t, e.RemoveLink(link))
	require.NoError(t, e.RemoveCustomSection(section))
	assert.Empty(t, e.Snapshot().Links)
	assert.Empty(t, e.Snapshot().CustomSections)

	assert.Error(t, e.UpdateLink("nope", types.LinkItem{}))
	assert.Error(t, e.RemoveSkill("nope"))
	assert.Error(t, e.UpdateEducation("nope", types.EducationItem{}))
}

func TestEditor_Subscribe(t *testing.T) {
	e := NewEditor(nil)

	var seen []int
	unsubscribe := e.Subscribe(func(d types.ResumeData) {
		seen = append(seen, len(d.Skills))
	})

	e.AddSkill(types.SkillItem{Name: "Go"})
	e.AddSkill(types.SkillItem{Name: "SQL"})
	unsubscribe()
	e.AddSkill(types.SkillItem{Name: "Rust"})

	assert.Equal(t, []int{1, 2}, seen)
}

func TestEditor_FailedMutationDoesNotNotify(t *testing.T) {
	e := NewEditor(nil)
	calls := 0
	e.Subscribe(func(types.ResumeData) { calls++ })

	assert.Error(t, e.RemoveEducation("missing"))
	assert.Zero(t, calls)
}

func TestEditor_UpdatePersonal(t *testing.T) {
	e := NewEditor(nil)
	e.UpdatePersonal(types.PersonalDetails{FullName: "Jane", Email: "jane@x.com"})

	snap := e.Snapshot()
	require.NotNil(t, snap.PersonalDetails)
	assert.Equal(t, "jane@x.com", snap.PersonalDetails.Email)
}
