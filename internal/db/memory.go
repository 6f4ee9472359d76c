package db

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/types"
)

// MemoryStore keeps sessions in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*types.Session
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[uuid.UUID]*types.Session)}
}

// Migrate is a no-op.
func (m *MemoryStore) Migrate(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() {}

// CreateSession stores a copy of s.
func (m *MemoryStore) CreateSession(_ context.Context, s *types.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; exists {
		return fmt.Errorf("failed to create session: duplicate id %s", s.ID)
	}
	m.sessions[s.ID] = copySession(s)
	return nil
}

// GetSession returns a copy of the stored session.
func (m *MemoryStore) GetSession(_ context.Context, id uuid.UUID) (*types.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	return copySession(s), nil
}

// UpdateStructuredData replaces structured data under the store lock.
func (m *MemoryStore) UpdateStructuredData(_ context.Context, id uuid.UUID, doc types.Document, expectedVersion int, updatedAt time.Time) (*types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	if expectedVersion != 0 && s.Version != expectedVersion {
		return nil, ErrVersionConflict
	}
	if doc == nil {
		doc = types.Document{}
	}
	s.StructuredData = doc.Clone()
	s.Version++
	s.UpdatedAt = updatedAt
	return copySession(s), nil
}

func copySession(s *types.Session) *types.Session {
	out := *s
	out.RawData = s.RawData.Clone()
	out.StructuredData = s.StructuredData.Clone()
	if out.RawData == nil {
		out.RawData = types.Document{}
	}
	if out.StructuredData == nil {
		out.StructuredData = types.Document{}
	}
	return &out
}
