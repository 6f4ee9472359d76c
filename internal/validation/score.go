package validation

import (
	"math"
	"unicode/utf16"

	"github.com/jonathan/resume-builder/internal/types"
)

// Section caps for the completeness score.
const (
	personalWeight   = 30
	experienceWeight = 30
	educationWeight  = 20
	skillsWeight     = 15
)

// descriptionMinLength is the length, in UTF-16 code units, a description
// must exceed to score.
const descriptionMinLength = 50

// CalculateCompletenessScore returns a 0..100 score from which fields are
// populated. It is pure: the same data always yields the same score.
// Callers pass resume.ScoringView output so that presence means a
// non-empty stored value, whitespace included.
func CalculateCompletenessScore(data *types.ResumeData) int {
	if data == nil {
		return 0
	}
	score := 0.0

	if pd := data.PersonalDetails; pd != nil {
		personal := 0.0
		if pd.FullName != "" {
			personal += 8
		}
		if pd.Email != "" {
			personal += 8
		}
		if pd.Phone != "" {
			personal += 5
		}
		if pd.Location != "" {
			personal += 4
		}
		if pd.Summary != "" {
			personal += 5
		}
		score += math.Min(personal, personalWeight)
	}

	if n := len(data.Experience); n > 0 {
		total := 0.0
		for _, exp := range data.Experience {
			if exp.JobTitle != "" {
				total += 3
			}
			if exp.Company != "" {
				total += 3
			}
			if exp.StartDate != "" {
				total += 2
			}
			if utf16Len(exp.Description) > descriptionMinLength {
				total += 2
			}
		}
		score += math.Min(total/float64(n)*3, experienceWeight)
	}

	if n := len(data.Education); n > 0 {
		total := 0.0
		for _, edu := range data.Education {
			if edu.Degree != "" {
				total += 5
			}
			if edu.School != "" {
				total += 5
			}
		}
		score += math.Min(total/float64(n)*2, educationWeight)
	}

	if n := len(data.Skills); n > 0 {
		score += math.Min(float64(n*2), skillsWeight)
	}

	rounded := int(math.Floor(math.Min(score, 100) + 0.5))
	return max(0, min(rounded, 100))
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
