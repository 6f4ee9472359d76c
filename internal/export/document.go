// Package export produces downloadable PDF and DOCX renditions of a resume.
package export

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/types"
)

// SectionKind identifies a block of the export layout.
type SectionKind string

// Section kinds in document order.
const (
	KindHeader     SectionKind = "header"
	KindSummary    SectionKind = "summary"
	KindExperience SectionKind = "experience"
	KindEducation  SectionKind = "education"
	KindSkills     SectionKind = "skills"
	KindCustom     SectionKind = "custom"
)

// DefaultName is the header title used when the resume has no name.
const DefaultName = "Your Name"

// Document is the format-independent export layout.
type Document struct {
	Sections []Section
}

// Section is one titled block. The header section has no title.
type Section struct {
	Kind    SectionKind
	Title   string
	Entries []Entry
}

// Entry is one item of a section: a position, a degree or a paragraph.
type Entry struct {
	Heading    string
	Subheading string
	Dates      string
	Lines      []string
}

// BuildDocument lays out data in export order: header, summary,
// experience, education, skills, then custom sections. Empty sections are
// omitted and list order is preserved.
func BuildDocument(data *types.ResumeData) Document {
	var doc Document
	if data == nil {
		return doc
	}

	if pd := data.PersonalDetails; pd != nil {
		name := strings.TrimSpace(pd.FullName)
		if name == "" {
			name = DefaultName
		}
		header := Entry{Heading: name}
		if contact := rendering.ContactParts(*pd); len(contact) > 0 {
			header.Lines = []string{strings.Join(contact, " | ")}
		}
		doc.Sections = append(doc.Sections, Section{Kind: KindHeader, Entries: []Entry{header}})
	}

	if summary := strings.TrimSpace(data.SummaryText()); summary != "" {
		doc.Sections = append(doc.Sections, Section{
			Kind:    KindSummary,
			Title:   "Summary",
			Entries: []Entry{{Lines: []string{summary}}},
		})
	}

	if len(data.Experience) > 0 {
		s := Section{Kind: KindExperience, Title: "Experience"}
		for _, e := range data.Experience {
			s.Entries = append(s.Entries, Entry{
				Heading:    e.JobTitle,
				Subheading: joinNonEmpty(", ", e.Company, e.Location),
				Dates:      rendering.DateRange(e.StartDate, e.EndDate, e.Current),
				Lines:      rendering.SplitBullets(e.Description),
			})
		}
		doc.Sections = append(doc.Sections, s)
	}

	if len(data.Education) > 0 {
		s := Section{Kind: KindEducation, Title: "Education"}
		for _, e := range data.Education {
			entry := Entry{
				Heading:    e.School,
				Subheading: rendering.DegreeLine(e),
				Dates:      rendering.DateRange(e.StartDate, e.EndDate, e.Current),
			}
			if d := strings.TrimSpace(e.Description); d != "" {
				entry.Lines = []string{d}
			}
			s.Entries = append(s.Entries, entry)
		}
		doc.Sections = append(doc.Sections, s)
	}

	if names := data.SkillNames(); len(names) > 0 {
		doc.Sections = append(doc.Sections, Section{
			Kind:    KindSkills,
			Title:   "Skills",
			Entries: []Entry{{Lines: []string{strings.Join(names, ", ")}}},
		})
	}

	for _, cs := range data.CustomSections {
		if len(cs.Items) == 0 {
			continue
		}
		s := Section{Kind: KindCustom, Title: cs.Title}
		for _, item := range cs.Items {
			entry := Entry{Heading: item.Title}
			if d := strings.TrimSpace(item.Description); d != "" {
				entry.Lines = []string{d}
			}
			s.Entries = append(s.Entries, entry)
		}
		doc.Sections = append(doc.Sections, s)
	}

	return doc
}

func joinNonEmpty(sep string, values ...string) string {
	var parts []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
