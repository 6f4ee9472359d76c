package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-builder/internal/types"
	"github.com/jonathan/resume-builder/internal/validation"
)

func TestScoringView_KeepsStoredWhitespace(t *testing.T) {
	doc := types.Document{
		"personalDetails": map[string]any{"fullName": "   ", "email": "jane@example.com"},
		"experience": []any{map[string]any{
			"jobTitle":    "Engineer",
			"description": strings.Repeat("é", 30) + strings.Repeat(" ", 25),
		}},
	}

	view := ScoringView(doc)
	assert.Equal(t, "   ", view.PersonalDetails.FullName)
	assert.Equal(t, 55, len([]rune(view.Experience[0].Description)))

	normalized := Normalize(doc)
	assert.Empty(t, normalized.PersonalDetails.FullName, "rendering view stays trimmed")
}

func TestScoringView_CompletenessScore(t *testing.T) {
	tests := []struct {
		name string
		doc  types.Document
		want int
	}{
		{
			name: "whitespace name counts as present",
			doc: types.Document{
				"personalDetails": map[string]any{"fullName": "   ", "email": "jane@example.com"},
			},
			want: 16,
		},
		{
			name: "padded description passes the length check",
			doc: types.Document{
				"experience": []any{map[string]any{
					"jobTitle":    "Engineer",
					"company":     "Acme",
					"startDate":   "2020-01",
					"description": strings.Repeat("é", 30) + strings.Repeat(" ", 25),
				}},
			},
			want: 30,
		},
		{
			name: "aliases still score",
			doc: types.Document{
				"personalInfo": map[string]any{"name": "Jane"},
				"workExperience": []any{map[string]any{
					"position": "Engineer",
					"employer": "Acme",
				}},
			},
			want: 26,
		},
		{
			name: "empty strings do not score",
			doc: types.Document{
				"personalDetails": map[string]any{"fullName": "", "email": ""},
			},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validation.CalculateCompletenessScore(ScoringView(tt.doc)))
		})
	}
}

func TestScoringView_Nil(t *testing.T) {
	assert.Equal(t, 0, validation.CalculateCompletenessScore(ScoringView(nil)))
}
