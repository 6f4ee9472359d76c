// Package validation provides advisory checks and completeness scoring for resume data.
// Nothing here mutates its input, and no failure here blocks persistence.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/resume-builder/internal/types"
)

// Result is the outcome of a validation pass.
type Result struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func newResult(errs, warnings []string) Result {
	if errs == nil {
		errs = []string{}
	}
	if warnings == nil {
		warnings = []string{}
	}
	return Result{IsValid: len(errs) == 0, Errors: errs, Warnings: warnings}
}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-+()]+$`)
	validate     = validator.New()
)

// minPhoneDigits is the fewest digits a phone number may carry without a warning.
const minPhoneDigits = 10

// ValidatePersonalDetails checks the header block.
func ValidatePersonalDetails(pd types.PersonalDetails) Result {
	var errs, warnings []string

	if blank(pd.FullName) {
		errs = append(errs, "Full name is required")
	}

	if blank(pd.Email) {
		errs = append(errs, "Email is required")
	} else if !emailPattern.MatchString(pd.Email) {
		errs = append(errs, "Email format is invalid")
	}

	if pd.Phone != "" && (!phonePattern.MatchString(pd.Phone) || countDigits(pd.Phone) < minPhoneDigits) {
		warnings = append(warnings, "Phone number format may be invalid")
	}

	if pd.LinkedInURL != "" && !isValidURL(pd.LinkedInURL) {
		warnings = append(warnings, "LinkedIn URL format is invalid")
	}

	if pd.WebsiteURL != "" && !isValidURL(pd.WebsiteURL) {
		warnings = append(warnings, "Website URL format is invalid")
	}

	return newResult(errs, warnings)
}

// ValidateExperience checks one experience entry.
func ValidateExperience(entry types.ExperienceItem) Result {
	var errs, warnings []string

	if blank(entry.JobTitle) {
		errs = append(errs, "Job title is required")
	}
	if blank(entry.Company) {
		errs = append(errs, "Company name is required")
	}
	if blank(entry.StartDate) {
		errs = append(errs, "Start date is required")
	}
	if blank(entry.EndDate) && !entry.Current {
		warnings = append(warnings, "End date is missing")
	}
	if startsAfterEnd(entry.StartDate, entry.EndDate) {
		errs = append(errs, "Start date cannot be after end date")
	}
	if blank(entry.Description) {
		warnings = append(warnings, "Description is empty")
	}

	return newResult(errs, warnings)
}

// ValidateEducation checks one education entry.
func ValidateEducation(entry types.EducationItem) Result {
	var errs, warnings []string

	if blank(entry.Degree) {
		errs = append(errs, "Degree is required")
	}
	if blank(entry.School) {
		errs = append(errs, "School name is required")
	}
	if blank(entry.StartDate) {
		warnings = append(warnings, "Start date is missing")
	}
	if blank(entry.EndDate) && !entry.Current {
		warnings = append(warnings, "End date is missing")
	}
	if startsAfterEnd(entry.StartDate, entry.EndDate) {
		errs = append(errs, "Start date cannot be after end date")
	}

	return newResult(errs, warnings)
}

// ValidateResumeData aggregates every per-entry check across the document.
// Entry messages carry a 1-based "Experience N: " or "Education N: " prefix.
func ValidateResumeData(data *types.ResumeData) Result {
	var errs, warnings []string
	if data == nil {
		data = &types.ResumeData{}
	}

	if data.PersonalDetails != nil {
		r := ValidatePersonalDetails(*data.PersonalDetails)
		errs = append(errs, r.Errors...)
		warnings = append(warnings, r.Warnings...)
	} else {
		errs = append(errs, "Personal details are missing")
	}

	if len(data.Experience) > 0 {
		for i, exp := range data.Experience {
			r := ValidateExperience(exp)
			errs = append(errs, prefixed(fmt.Sprintf("Experience %d: ", i+1), r.Errors)...)
			warnings = append(warnings, prefixed(fmt.Sprintf("Experience %d: ", i+1), r.Warnings)...)
		}
	} else {
		warnings = append(warnings, "No experience entries added")
	}

	if len(data.Education) > 0 {
		for i, edu := range data.Education {
			r := ValidateEducation(edu)
			errs = append(errs, prefixed(fmt.Sprintf("Education %d: ", i+1), r.Errors)...)
			warnings = append(warnings, prefixed(fmt.Sprintf("Education %d: ", i+1), r.Warnings)...)
		}
	} else {
		warnings = append(warnings, "No education entries added")
	}

	if len(data.Skills) == 0 {
		warnings = append(warnings, "No skills added")
	}

	return newResult(errs, warnings)
}

// isValidURL accepts absolute URLs that carry both a scheme and a host.
func isValidURL(raw string) bool {
	if err := validate.Var(raw, "url"); err != nil {
		return false
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

func prefixed(prefix string, msgs []string) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = prefix + m
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
