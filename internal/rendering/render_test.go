package rendering

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func sampleData() *types.ResumeData {
	return &types.ResumeData{
		PersonalDetails: &types.PersonalDetails{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Phone:    "+1 555 123 4567",
			Location: "Berlin",
			Summary:  "Backend engineer.",
		},
		Experience: []types.ExperienceItem{
			{ID: "exp-1", JobTitle: "Staff Engineer", Company: "Acme", StartDate: "2021-01", Current: true,
				Description: "- Led the billing rewrite\n\n• Cut costs by 30%"},
			{ID: "exp-2", JobTitle: "Engineer", Company: "Initech", StartDate: "2018-03", EndDate: "2020-12"},
		},
		Education: []types.EducationItem{
			{ID: "edu-1", School: "TU Berlin", Degree: "MSc", FieldOfStudy: "Computer Science", StartDate: "2016", EndDate: "2018"},
		},
		Skills: []types.SkillItem{{ID: "s1", Name: "Go"}, {ID: "s2", Name: "PostgreSQL"}},
		Links:  []types.LinkItem{{ID: "l1", Label: "GitHub", URL: "https://github.com/jane"}},
		CustomSections: []types.CustomSection{
			{ID: "projects", Title: "Projects", Items: []types.CustomItem{{ID: "p1", Title: "resumectl", Description: "CLI tool"}}},
		},
	}
}

func TestResolveTemplate(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"minimal", "minimal"},
		{"twoColumn", "twoColumn"},
		{"classic", "classic"},
		{"compact", "minimal"},
		{"executive", "classic"},
		{"", "minimal"},
		{"fancy", "minimal"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTemplate(tt.id))
		})
	}
}

func TestResolvePresentation(t *testing.T) {
	assert.Equal(t, types.DefaultPresentation(), ResolvePresentation(nil))
	assert.Equal(t, types.DefaultPresentation(), ResolvePresentation(&types.Presentation{}))

	got := ResolvePresentation(&types.Presentation{
		TemplateID:       "executive",
		PrimaryColor:     "#1a2b3c",
		AccentColor:      "red; background: url(x)",
		FontScale:        "xl",
		Density:          "compact",
		ShowProfilePhoto: true,
	})
	assert.Equal(t, "executive", got.TemplateID)
	assert.Equal(t, "#1a2b3c", got.PrimaryColor)
	assert.Equal(t, types.DefaultAccentColor, got.AccentColor)
	assert.Equal(t, types.DefaultFontScale, got.FontScale)
	assert.Equal(t, "compact", got.Density)
	assert.True(t, got.ShowProfilePhoto)
}

func TestRender_AllStrategies(t *testing.T) {
	for _, id := range []string{"minimal", "twoColumn", "classic", "compact", "executive"} {
		t.Run(id, func(t *testing.T) {
			p := types.DefaultPresentation()
			p.TemplateID = id
			out, err := Render(sampleData(), p)
			require.NoError(t, err)

			assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
			assert.Contains(t, out, "Jane Doe")
			assert.Contains(t, out, "Staff Engineer")
			assert.Contains(t, out, "<li>Led the billing rewrite</li>")
			assert.Contains(t, out, "<li>Cut costs by 30%</li>")
			assert.Contains(t, out, "2021-01 - Present")
			assert.Contains(t, out, "MSc, Computer Science")
			assert.Contains(t, out, "PostgreSQL")
			assert.Contains(t, out, `href="https://github.com/jane"`)
			assert.Contains(t, out, "resumectl")
		})
	}
}

func TestRender_AliasesMatchTheirStrategy(t *testing.T) {
	render := func(id string) string {
		p := types.DefaultPresentation()
		p.TemplateID = id
		out, err := Render(sampleData(), p)
		require.NoError(t, err)
		return out
	}
	assert.Equal(t, render("minimal"), render("compact"))
	assert.Equal(t, render("classic"), render("executive"))
	assert.Equal(t, render("minimal"), render("does-not-exist"))
	assert.NotEqual(t, render("minimal"), render("classic"))
	assert.NotEqual(t, render("minimal"), render("twoColumn"))
}

func TestRender_Deterministic(t *testing.T) {
	p := types.Presentation{TemplateID: "twoColumn", PrimaryColor: "#112233", AccentColor: "#445566", FontScale: "lg", Density: "comfortable"}
	first, err := Render(sampleData(), p)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Render(sampleData(), p)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRender_PresentationControlsStyle(t *testing.T) {
	p := types.Presentation{TemplateID: "minimal", PrimaryColor: "#112233", AccentColor: "#445566", FontScale: "lg", Density: "compact", ShowProfilePhoto: true}
	out, err := Render(sampleData(), p)
	require.NoError(t, err)
	assert.Contains(t, out, "#112233")
	assert.Contains(t, out, "#445566")
	assert.Contains(t, out, "font-size: 17px")
	assert.Contains(t, out, "gap: 8px")
	assert.Contains(t, out, `class="photo"`)

	p.ShowProfilePhoto = false
	out, err = Render(sampleData(), p)
	require.NoError(t, err)
	assert.NotContains(t, out, `class="photo"`)
}

func TestRender_EscapesContent(t *testing.T) {
	data := sampleData()
	data.PersonalDetails.FullName = `<script>alert("x")</script>`
	data.Links = []types.LinkItem{{ID: "l1", Label: "bad", URL: "javascript:alert(1)"}}

	out, err := Render(data, types.DefaultPresentation())
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "javascript:alert")
}

func TestRender_EmptySectionsOmitted(t *testing.T) {
	out, err := Render(&types.ResumeData{PersonalDetails: &types.PersonalDetails{FullName: "Solo"}}, types.DefaultPresentation())
	require.NoError(t, err)
	assert.Contains(t, out, "Solo")
	assert.NotContains(t, out, "Experience")
	assert.NotContains(t, out, "Education")
	assert.NotContains(t, out, "Skills")

	_, err = Render(nil, types.DefaultPresentation())
	require.NoError(t, err)
}

func TestRenderDocument_OverrideWins(t *testing.T) {
	doc := types.Document{
		"personalDetails": map[string]any{"fullName": "Jane Doe"},
		"presentation":    map[string]any{"templateId": "classic", "primaryColor": "#abcdef"},
	}
	stored, err := RenderDocument(doc, nil)
	require.NoError(t, err)
	assert.Contains(t, stored, `class="page classic"`)
	assert.Contains(t, stored, "#abcdef")

	id := "twoColumn"
	overridden, err := RenderDocument(doc, &types.PresentationPatch{TemplateID: &id})
	require.NoError(t, err)
	assert.Contains(t, overridden, `class="page two-column"`)
	assert.Contains(t, overridden, "#abcdef")
}

func TestSplitBulletsAndDates(t *testing.T) {
	assert.Equal(t, []string{"One", "Two", "Three"}, SplitBullets("- One\n * Two\n\n• Three\n"))
	assert.Nil(t, SplitBullets("  \n"))

	assert.Equal(t, "2020 - 2021", DateRange("2020", "2021", false))
	assert.Equal(t, "2020 - Present", DateRange("2020", "2021", true))
	assert.Equal(t, "2020", DateRange("2020", "", false))
	assert.Equal(t, "2021", DateRange("", "2021", false))
	assert.Equal(t, "", DateRange("", "", false))
}
