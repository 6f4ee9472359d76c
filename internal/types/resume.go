// Package types provides type definitions for structured data used throughout the resume-builder system.
package types

import "time"

// ResumeData is the normalized, typed view of a session's structured data.
// All list fields are non-nil after normalization.
type ResumeData struct {
	PersonalDetails *PersonalDetails `json:"personalDetails,omitempty"`
	Summary         string           `json:"summary,omitempty"`
	Experience      []ExperienceItem `json:"experience"`
	Education       []EducationItem  `json:"education"`
	Skills          []SkillItem      `json:"skills"`
	Links           []LinkItem       `json:"links"`
	CustomSections  []CustomSection  `json:"customSections"`
	Presentation    *Presentation    `json:"presentation,omitempty"`
	Review          *Review          `json:"review,omitempty"`
}

// PersonalDetails holds the header block of a resume.
type PersonalDetails struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	Location    string `json:"location,omitempty"`
	LinkedInURL string `json:"linkedinUrl,omitempty"`
	WebsiteURL  string `json:"websiteUrl,omitempty"`
	Summary     string `json:"summary,omitempty"`
}

// ExperienceItem is one position in the work history.
type ExperienceItem struct {
	ID          string `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate,omitempty"`
	Current     bool   `json:"current,omitempty"`
	Description string `json:"description"`
}

// EducationItem is one degree or program.
type EducationItem struct {
	ID           string `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy,omitempty"`
	StartDate    string `json:"startDate,omitempty"`
	EndDate      string `json:"endDate,omitempty"`
	Current      bool   `json:"current,omitempty"`
	Description  string `json:"description,omitempty"`
}

// SkillItem is a single skill. Duplicate names are allowed.
type SkillItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// LinkItem is a labeled external link.
type LinkItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// CustomSection is a free-form titled section.
type CustomSection struct {
	ID    string       `json:"id"`
	Title string       `json:"title"`
	Items []CustomItem `json:"items"`
}

// CustomItem is one entry inside a CustomSection.
type CustomItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Review is the AI-generated critique stored under structuredData.review.
type Review struct {
	OverallScore  int       `json:"overallScore"`
	SummaryRating string    `json:"summaryRating"`
	Strengths     []string  `json:"strengths"`
	WeakAreas     []string  `json:"weakAreas"`
	QuickTips     []string  `json:"quickTips"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FullName returns the candidate's name, or an empty string when
// personal details are absent.
func (r *ResumeData) FullName() string {
	if r == nil || r.PersonalDetails == nil {
		return ""
	}
	return r.PersonalDetails.FullName
}

// SummaryText returns the personal summary, falling back to the top-level
// summary field.
func (r *ResumeData) SummaryText() string {
	if r == nil {
		return ""
	}
	if r.PersonalDetails != nil && r.PersonalDetails.Summary != "" {
		return r.PersonalDetails.Summary
	}
	return r.Summary
}

// SkillNames returns the skill names in stored order, skipping blanks.
func (r *ResumeData) SkillNames() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Skills))
	for _, s := range r.Skills {
		if s.Name != "" {
			names = append(names, s.Name)
		}
	}
	return names
}
