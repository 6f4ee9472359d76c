package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

func storedResume(t *testing.T, env *testEnv, id string) (*types.Session, *types.ResumeData) {
	t.Helper()
	sess, err := env.sessions.Get(t.Context(), id)
	require.NoError(t, err)
	return sess, resume.Normalize(sess.StructuredData)
}

func TestAddItem(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t, sampleDocument())

	w := env.do(t, http.MethodPost, "/session/items", map[string]any{
		"sessionId": sess.ID.String(),
		"section":   "skills",
		"item":      map[string]any{"name": "Go", "level": "expert"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[ItemResponse](t, w)
	require.NotEmpty(t, resp.ItemID)
	assert.Equal(t, 2, resp.Session.Version)

	stored, data := storedResume(t, env, sess.ID.String())
	assert.Equal(t, 2, stored.Version)
	require.Len(t, data.Skills, 1)
	assert.Equal(t, types.SkillItem{ID: resp.ItemID, Name: "Go", Level: "expert"}, data.Skills[0])
	assert.Equal(t, "Jane Doe", data.PersonalDetails.FullName)
	assert.Equal(t, "#123456", data.Presentation.PrimaryColor)
}

func TestUpdateItem(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t, sampleDocument())

	w := env.do(t, http.MethodPut, "/session/items", map[string]any{
		"sessionId": sess.ID.String(),
		"section":   "experience",
		"itemId":    "exp-1",
		"item":      map[string]any{"jobTitle": "Staff Engineer", "company": "Acme", "startDate": "2021-01"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "exp-1", decode[ItemResponse](t, w).ItemID)

	_, data := storedResume(t, env, sess.ID.String())
	require.Len(t, data.Experience, 1)
	assert.Equal(t, "exp-1", data.Experience[0].ID)
	assert.Equal(t, "Staff Engineer", data.Experience[0].JobTitle)
}

func TestRemoveItem(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t, sampleDocument())

	w := env.do(t, http.MethodDelete, "/session/items", map[string]any{
		"sessionId": sess.ID.String(),
		"section":   "experience",
		"itemId":    "exp-1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, data := storedResume(t, env, sess.ID.String())
	assert.Empty(t, data.Experience)
}

func TestItemEdit_KeepsUnknownKeys(t *testing.T) {
	env := newTestEnv(t)
	doc := sampleDocument()
	doc["targetRole"] = "Platform lead"
	sess := env.createSession(t, doc)

	w := env.do(t, http.MethodPost, "/session/items", map[string]any{
		"sessionId": sess.ID.String(),
		"section":   "links",
		"item":      map[string]any{"label": "GitHub", "url": "https://github.com/jane"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	stored, data := storedResume(t, env, sess.ID.String())
	assert.Equal(t, "Platform lead", stored.StructuredData["targetRole"])
	require.Len(t, data.Links, 1)
	assert.Equal(t, "GitHub", data.Links[0].Label)
}

func TestItemEdit_Errors(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t, sampleDocument())
	id := sess.ID.String()

	tests := []struct {
		name    string
		method  string
		body    map[string]any
		status  int
		code    string
		message string
	}{
		{
			name:   "unknown section",
			method: http.MethodPost,
			body:   map[string]any{"sessionId": id, "section": "hobbies", "item": map[string]any{}},
			status: http.StatusBadRequest, code: apperr.CodeValidation,
			message: "Section must be one of experience, education, skills, links, customSections",
		},
		{
			name:   "update without item id",
			method: http.MethodPut,
			body:   map[string]any{"sessionId": id, "section": "skills", "item": map[string]any{"name": "Go"}},
			status: http.StatusBadRequest, code: apperr.CodeValidation, message: "itemId is required",
		},
		{
			name:   "add without item",
			method: http.MethodPost,
			body:   map[string]any{"sessionId": id, "section": "skills"},
			status: http.StatusBadRequest, code: apperr.CodeValidation, message: "item is required",
		},
		{
			name:   "unknown item",
			method: http.MethodDelete,
			body:   map[string]any{"sessionId": id, "section": "experience", "itemId": "nope"},
			status: http.StatusBadRequest, code: apperr.CodeValidation, message: "experience item not found: nope",
		},
		{
			name:   "item of the wrong shape",
			method: http.MethodPost,
			body:   map[string]any{"sessionId": id, "section": "skills", "item": []any{"Go"}},
			status: http.StatusBadRequest, code: apperr.CodeValidation, message: "Invalid item",
		},
		{
			name:   "unknown session",
			method: http.MethodPost,
			body:   map[string]any{"sessionId": uuid.NewString(), "section": "skills", "item": map[string]any{"name": "Go"}},
			status: http.StatusNotFound, code: apperr.CodeSession,
		},
		{
			name:   "stale version",
			method: http.MethodPost,
			body:   map[string]any{"sessionId": id, "section": "skills", "item": map[string]any{"name": "Go"}, "expectedVersion": 7},
			status: http.StatusConflict, code: apperr.CodeConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertError(t, env.do(t, tt.method, "/session/items", tt.body), tt.status, tt.code, tt.message)
		})
	}

	stored, _ := storedResume(t, env, id)
	assert.Equal(t, 1, stored.Version, "failed edits do not write")
}

func TestReorderItems(t *testing.T) {
	env := newTestEnv(t)
	doc := sampleDocument()
	doc["experience"] = []any{
		map[string]any{"id": "a", "jobTitle": "First"},
		map[string]any{"id": "b", "jobTitle": "Second"},
	}
	sess := env.createSession(t, doc)

	w := env.do(t, http.MethodPost, "/session/items/reorder", map[string]any{
		"sessionId": sess.ID.String(), "section": "experience", "from": 0, "to": 1, "expectedVersion": 1,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, data := storedResume(t, env, sess.ID.String())
	require.Len(t, data.Experience, 2)
	assert.Equal(t, "b", data.Experience[0].ID)
	assert.Equal(t, "a", data.Experience[1].ID)

	assertError(t, env.do(t, http.MethodPost, "/session/items/reorder", map[string]any{
		"sessionId": sess.ID.String(), "section": "experience", "from": 5, "to": 0,
	}), http.StatusBadRequest, apperr.CodeValidation, "experience index 5 out of range [0,2)")

	assertError(t, env.do(t, http.MethodPost, "/session/items/reorder", map[string]any{
		"sessionId": sess.ID.String(), "section": "skills", "from": 0, "to": 0,
	}), http.StatusBadRequest, apperr.CodeValidation, "")
}

func TestUpdateSummary(t *testing.T) {
	env := newTestEnv(t)
	sess := env.createSession(t, sampleDocument())

	w := env.do(t, http.MethodPut, "/session/summary", map[string]any{
		"sessionId": sess.ID.String(), "summary": "Backend engineer focused on reliability.",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	_, data := storedResume(t, env, sess.ID.String())
	assert.Equal(t, "Backend engineer focused on reliability.", data.PersonalDetails.Summary)
	assert.Equal(t, "jane@example.com", data.PersonalDetails.Email)

	assertError(t, env.do(t, http.MethodPut, "/session/summary", map[string]any{"summary": "x"}),
		http.StatusBadRequest, apperr.CodeValidation, "Missing sessionId")
}
