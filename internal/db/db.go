// Package db provides session persistence on PostgreSQL, SQLite, or memory.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-builder/internal/types"
)

// ErrVersionConflict is returned when a conditional update finds a
// different version than the caller expected.
var ErrVersionConflict = errors.New("session version conflict")

// Store is implemented by every session backend.
type Store interface {
	CreateSession(ctx context.Context, s *types.Session) error
	// GetSession returns (nil, nil) when no session has the id.
	GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error)
	// UpdateStructuredData replaces structured data and bumps the version.
	// expectedVersion 0 skips the version check. Returns (nil, nil) when the
	// session does not exist and ErrVersionConflict on a version mismatch.
	UpdateStructuredData(ctx context.Context, id uuid.UUID, doc types.Document, expectedVersion int, updatedAt time.Time) (*types.Session, error)
	Migrate(ctx context.Context) error
	Close()
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the sessions table if it does not exist.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range postgresSchema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// CreateSession inserts a new session record.
func (db *DB) CreateSession(ctx context.Context, s *types.Session) error {
	raw, structured, err := encodeDocuments(s)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO resume_sessions (id, mode, raw_data, structured_data, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, string(s.Mode), raw, structured, s.Version, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID
func (db *DB) GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, mode, raw_data, structured_data, version, created_at, updated_at
		 FROM resume_sessions WHERE id = $1`,
		id,
	)
	s, err := scanPostgresSession(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// UpdateStructuredData replaces a session's structured data.
func (db *DB) UpdateStructuredData(ctx context.Context, id uuid.UUID, doc types.Document, expectedVersion int, updatedAt time.Time) (*types.Session, error) {
	structured, err := encodeDocument(doc)
	if err != nil {
		return nil, err
	}

	row := db.pool.QueryRow(ctx,
		`UPDATE resume_sessions
		 SET structured_data = $2, version = version + 1, updated_at = $4
		 WHERE id = $1 AND ($3::int = 0 OR version = $3)
		 RETURNING id, mode, raw_data, structured_data, version, created_at, updated_at`,
		id, structured, expectedVersion, updatedAt,
	)
	s, err := scanPostgresSession(row)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	// No row updated: either the session is gone or the version moved.
	existing, err := db.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}
	return nil, ErrVersionConflict
}

func scanPostgresSession(row pgx.Row) (*types.Session, error) {
	var (
		s                     types.Session
		mode                  string
		rawBytes, structBytes []byte
	)
	if err := row.Scan(&s.ID, &mode, &rawBytes, &structBytes, &s.Version, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Mode = types.Mode(mode)
	if err := decodeDocuments(&s, rawBytes, structBytes); err != nil {
		return nil, err
	}
	return &s, nil
}

func encodeDocument(doc types.Document) ([]byte, error) {
	if doc == nil {
		doc = types.Document{}
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return b, nil
}

func encodeDocuments(s *types.Session) (raw, structured []byte, err error) {
	if raw, err = encodeDocument(s.RawData); err != nil {
		return nil, nil, err
	}
	if structured, err = encodeDocument(s.StructuredData); err != nil {
		return nil, nil, err
	}
	return raw, structured, nil
}

func decodeDocuments(s *types.Session, raw, structured []byte) error {
	s.RawData = types.Document{}
	s.StructuredData = types.Document{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.RawData); err != nil {
			return fmt.Errorf("failed to decode raw data: %w", err)
		}
	}
	if len(structured) > 0 {
		if err := json.Unmarshal(structured, &s.StructuredData); err != nil {
			return fmt.Errorf("failed to decode structured data: %w", err)
		}
	}
	if s.RawData == nil {
		s.RawData = types.Document{}
	}
	if s.StructuredData == nil {
		s.StructuredData = types.Document{}
	}
	return nil
}
