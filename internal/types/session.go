package types

import (
	"time"

	"github.com/google/uuid"
)

// Mode identifies the intake path that created a session.
type Mode string

// Supported intake modes.
const (
	ModeManual   Mode = "manual"
	ModeUpload   Mode = "upload"
	ModePrompt   Mode = "prompt"
	ModeLinkedIn Mode = "linkedin"
	ModeChatbot  Mode = "chatbot"
)

// Valid reports whether m is one of the supported modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeManual, ModeUpload, ModePrompt, ModeLinkedIn, ModeChatbot:
		return true
	}
	return false
}

// Document is a loosely typed JSON object as stored in a session.
type Document map[string]any

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	return cloneValue(map[string]any(d)).(map[string]any)
}

// Object returns the nested object stored under key, or nil when the key is
// missing or holds a non-object value.
func (d Document) Object(key string) map[string]any {
	if d == nil {
		return nil
	}
	obj, _ := d[key].(map[string]any)
	return obj
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case Document:
		return cloneValue(map[string]any(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return val
	}
}

// Session is one resume-building attempt. RawData is written once at
// creation; StructuredData changes on every edit and bumps Version.
type Session struct {
	ID             uuid.UUID `json:"id"`
	Mode           Mode      `json:"mode"`
	RawData        Document  `json:"rawData"`
	StructuredData Document  `json:"structuredData"`
	Version        int       `json:"version"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}
