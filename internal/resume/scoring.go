package resume

import (
	"github.com/jonathan/resume-builder/internal/types"
)

// ScoringView builds the typed view the completeness score reads. Scored
// text fields keep their stored value untrimmed, so a whitespace-only name
// still counts as present and description length includes padding.
func ScoringView(doc types.Document) *types.ResumeData {
	data := Normalize(doc)
	if doc == nil {
		return data
	}

	if pd := firstObject(doc, personalKeys...); pd != nil && data.PersonalDetails != nil {
		out := data.PersonalDetails
		out.FullName = rawString(pd, fullNameKeys...)
		out.Email = rawString(pd, "email")
		out.Phone = rawString(pd, "phone", "phoneNumber")
		out.Location = rawString(pd, locationKeys...)
		out.Summary = rawString(pd, "summary")
		if out.Summary == "" {
			out.Summary = rawString(doc, "summary")
		}
	}

	for i, obj := range objects(firstValue(doc, experienceKeys...)) {
		if i >= len(data.Experience) {
			break
		}
		exp := &data.Experience[i]
		exp.JobTitle = rawString(obj, jobTitleKeys...)
		exp.Company = rawString(obj, companyKeys...)
		exp.StartDate = rawString(obj, startKeys...)
		if s, ok := obj["description"].(string); ok && s != "" {
			exp.Description = s
		}
	}

	for i, obj := range objects(doc["education"]) {
		if i >= len(data.Education) {
			break
		}
		edu := &data.Education[i]
		edu.School = rawString(obj, schoolKeys...)
		edu.Degree = rawString(obj, "degree", "qualification")
	}

	return data
}

// rawString returns the first non-empty string among keys as stored.
// Non-string scalars fall back to their formatted value.
func rawString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok {
			if s != "" {
				return s
			}
			continue
		}
		if s := scalar(obj[k]); s != "" {
			return s
		}
	}
	return ""
}
