package rendering

import (
	"html/template"
	"strings"

	"github.com/jonathan/resume-builder/internal/types"
)

// view is the data handed to every template.
type view struct {
	Name       string
	Contact    []string
	Location   string
	Summary    string
	Experience []experienceView
	Education  []educationView
	Skills     []string
	Links      []types.LinkItem
	Sections   []types.CustomSection
	Style      style
}

type experienceView struct {
	Title    string
	Company  string
	Location string
	Dates    string
	Bullets  []string
}

type educationView struct {
	School  string
	Degree  string
	Dates   string
	Details string
}

// style carries presentation values already validated for CSS use.
type style struct {
	PrimaryColor template.CSS
	AccentColor  template.CSS
	BasePx       int
	HeadingPx    int
	SmallPx      int
	GapPx        int
	ShowPhoto    bool
}

func buildView(data *types.ResumeData, p types.Presentation) view {
	v := view{
		Summary: data.SummaryText(),
		Skills:  data.SkillNames(),
		Style:   newStyle(p),
	}
	if pd := data.PersonalDetails; pd != nil {
		v.Name = pd.FullName
		v.Location = pd.Location
		v.Contact = ContactParts(*pd)
	}

	for _, e := range data.Experience {
		v.Experience = append(v.Experience, experienceView{
			Title:    e.JobTitle,
			Company:  e.Company,
			Location: e.Location,
			Dates:    DateRange(e.StartDate, e.EndDate, e.Current),
			Bullets:  SplitBullets(e.Description),
		})
	}
	for _, e := range data.Education {
		v.Education = append(v.Education, educationView{
			School:  e.School,
			Degree:  DegreeLine(e),
			Dates:   DateRange(e.StartDate, e.EndDate, e.Current),
			Details: e.Description,
		})
	}
	for _, l := range data.Links {
		if l.URL != "" {
			v.Links = append(v.Links, l)
		}
	}
	for _, s := range data.CustomSections {
		if s.Title != "" || len(s.Items) > 0 {
			v.Sections = append(v.Sections, s)
		}
	}
	return v
}

func newStyle(p types.Presentation) style {
	fs, ok := fontScales[p.FontScale]
	if !ok {
		fs = fontScales[types.DefaultFontScale]
	}
	gap, ok := densities[p.Density]
	if !ok {
		gap = densities[types.DefaultDensity]
	}
	// Colors are hex-validated by ResolvePresentation.
	return style{
		PrimaryColor: template.CSS(p.PrimaryColor),
		AccentColor:  template.CSS(p.AccentColor),
		BasePx:       fs.BasePx,
		HeadingPx:    fs.HeadingPx,
		SmallPx:      fs.SmallPx,
		GapPx:        gap,
		ShowPhoto:    p.ShowProfilePhoto,
	}
}

// SplitBullets turns a description into display lines, dropping blank lines
// and leading bullet markers.
func SplitBullets(description string) []string {
	var out []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "-•*·"))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// DateRange formats a start/end pair. Current positions end in "Present".
func DateRange(start, end string, current bool) string {
	start, end = strings.TrimSpace(start), strings.TrimSpace(end)
	if current {
		end = "Present"
	}
	switch {
	case start == "" && end == "":
		return ""
	case start == "":
		return end
	case end == "":
		return start
	}
	return start + " - " + end
}

// ContactParts lists the non-empty contact fields in display order.
func ContactParts(pd types.PersonalDetails) []string {
	return nonEmpty(pd.Email, pd.Phone, pd.Location, pd.LinkedInURL, pd.WebsiteURL)
}

// DegreeLine joins a degree and its field of study.
func DegreeLine(e types.EducationItem) string {
	return joinNonEmpty(", ", e.Degree, e.FieldOfStudy)
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, s := range values {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values...), sep)
}
