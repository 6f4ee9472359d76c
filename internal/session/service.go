// Package session owns the lifecycle of resume sessions: creation, lookup,
// whole-document replacement, section edits and the presentation and review
// patches.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/resume-builder/internal/apperr"
	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/resume"
	"github.com/jonathan/resume-builder/internal/types"
)

// maxPatchAttempts bounds read-merge-write retries when another writer
// bumps the version between our read and our write.
const maxPatchAttempts = 3

// Store is the persistence the service needs.
type Store interface {
	CreateSession(ctx context.Context, s *types.Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error)
	UpdateStructuredData(ctx context.Context, id uuid.UUID, doc types.Document, expectedVersion int, updatedAt time.Time) (*types.Session, error)
}

// Service implements the session operations on top of a Store.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a session service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// Create stores a new session. Nil documents are stored as {}.
func (s *Service) Create(ctx context.Context, mode types.Mode, rawData, initial types.Document) (*types.Session, error) {
	if !mode.Valid() {
		return nil, apperr.Validation("Mode must be one of manual, upload, prompt, linkedin, chatbot")
	}
	if rawData == nil {
		rawData = types.Document{}
	}
	if initial == nil {
		initial = types.Document{}
	}

	now := s.timestamp()
	sess := &types.Session{
		ID:             uuid.New(),
		Mode:           mode,
		RawData:        rawData,
		StructuredData: initial,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	log.Printf("[session] created %s (mode=%s)", sess.ID, mode)
	return sess, nil
}

// Get returns the session with the given id. Unparseable ids are reported
// as missing.
func (s *Service) Get(ctx context.Context, id string) (*types.Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.SessionNotFound(id)
	}
	sess, err := s.store.GetSession(ctx, parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess == nil {
		return nil, apperr.SessionNotFound(id)
	}
	return sess, nil
}

// ReplaceStructuredData overwrites the whole structured document. An
// expectedVersion of 0 means last write wins.
func (s *Service) ReplaceStructuredData(ctx context.Context, id string, doc types.Document, expectedVersion int) (*types.Session, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, apperr.SessionNotFound(id)
	}
	if doc == nil {
		doc = types.Document{}
	}

	updated, err := s.store.UpdateStructuredData(ctx, parsed, doc, expectedVersion, s.timestamp())
	if errors.Is(err, db.ErrVersionConflict) {
		return nil, s.conflict(ctx, parsed, expectedVersion)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if updated == nil {
		return nil, apperr.SessionNotFound(id)
	}
	return updated, nil
}

// PatchPresentation merges the set keys of patch into
// structuredData.presentation. Other keys keep their stored values.
func (s *Service) PatchPresentation(ctx context.Context, id string, patch *types.PresentationPatch) (*types.Session, error) {
	fields := patch.Fields()
	return s.patch(ctx, id, 0, func(doc types.Document, _ time.Time) (types.Document, error) {
		current, _ := doc["presentation"].(map[string]any)
		merged := make(map[string]any, len(current)+len(fields))
		for k, v := range current {
			merged[k] = v
		}
		for k, v := range fields {
			merged[k] = v
		}
		doc["presentation"] = merged
		return doc, nil
	})
}

// PatchReview replaces structuredData.review. The review's createdAt is set
// to the same instant written to updatedAt.
func (s *Service) PatchReview(ctx context.Context, id string, review types.Review) (*types.Session, error) {
	return s.patch(ctx, id, 0, func(doc types.Document, now time.Time) (types.Document, error) {
		review.CreatedAt = now
		doc["review"] = reviewObject(review)
		return doc, nil
	})
}

// Edit opens the stored document in a resume.Editor, runs fn and writes
// the canonical result back. A positive expectedVersion must match the
// stored version; otherwise concurrent writes are retried like patches.
// Editor errors are reported as validation failures.
func (s *Service) Edit(ctx context.Context, id string, expectedVersion int, fn func(*resume.Editor) error) (*types.Session, error) {
	return s.patch(ctx, id, expectedVersion, func(doc types.Document, _ time.Time) (types.Document, error) {
		edited, err := resume.EditDocument(doc, fn)
		if err != nil {
			return nil, editError(err)
		}
		return edited, nil
	})
}

func editError(err error) error {
	var (
		notFound *resume.ItemNotFoundError
		index    *resume.IndexError
		section  *resume.UnknownSectionError
	)
	switch {
	case errors.As(err, &notFound), errors.As(err, &index), errors.As(err, &section):
		return &apperr.ValidationError{Message: err.Error(), Cause: err}
	}
	return &apperr.ValidationError{Message: "Invalid item", Cause: err}
}

// patch runs a read-merge-write cycle with a version check, retrying when a
// concurrent write lands first. A positive expected pins the version the
// caller read and disables the retry.
func (s *Service) patch(ctx context.Context, id string, expected int, merge func(doc types.Document, now time.Time) (types.Document, error)) (*types.Session, error) {
	var lastConflict error
	for attempt := 1; attempt <= maxPatchAttempts; attempt++ {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if expected > 0 && current.Version != expected {
			return nil, &apperr.ConflictError{SessionID: current.ID.String(), ExpectedVersion: expected, ActualVersion: current.Version}
		}

		now := s.timestamp()
		doc := current.StructuredData.Clone()
		if doc == nil {
			doc = types.Document{}
		}
		doc, err = merge(doc, now)
		if err != nil {
			return nil, err
		}

		updated, err := s.store.UpdateStructuredData(ctx, current.ID, doc, current.Version, now)
		if errors.Is(err, db.ErrVersionConflict) {
			lastConflict = s.conflict(ctx, current.ID, current.Version)
			if expected > 0 {
				return nil, lastConflict
			}
			log.Printf("[session] concurrent write on %s, retrying patch (attempt %d/%d)", id, attempt, maxPatchAttempts)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}
		if updated == nil {
			return nil, apperr.SessionNotFound(id)
		}
		return updated, nil
	}
	return nil, lastConflict
}

func (s *Service) conflict(ctx context.Context, id uuid.UUID, expected int) error {
	ce := &apperr.ConflictError{SessionID: id.String(), ExpectedVersion: expected}
	if latest, err := s.store.GetSession(ctx, id); err == nil && latest != nil {
		ce.ActualVersion = latest.Version
	}
	return ce
}

// IsReviewStale reports whether the stored review predates the last write.
// A session without a review is never stale; a review without a timestamp
// always is.
func IsReviewStale(sess *types.Session) bool {
	if sess == nil {
		return false
	}
	raw, ok := sess.StructuredData["review"].(map[string]any)
	if !ok {
		return false
	}
	review := resume.ParseReview(raw)
	if review == nil || review.CreatedAt.IsZero() {
		return true
	}
	return review.CreatedAt.Before(sess.UpdatedAt)
}

func reviewObject(r types.Review) map[string]any {
	return map[string]any{
		"overallScore":  r.OverallScore,
		"summaryRating": r.SummaryRating,
		"strengths":     stringsToAny(r.Strengths),
		"weakAreas":     stringsToAny(r.WeakAreas),
		"quickTips":     stringsToAny(r.QuickTips),
		"createdAt":     r.CreatedAt.Format(time.RFC3339Nano),
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, 0, len(in))
	for _, s := range in {
		out = append(out, s)
	}
	return out
}
