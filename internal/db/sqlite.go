package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jonathan/resume-builder/internal/types"
)

// SQLiteDB stores sessions in a local SQLite file.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and verifies it.
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1) // SQLite: single writer

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return &SQLiteDB{db: conn}, nil
}

// Close closes the database handle.
func (s *SQLiteDB) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Migrate creates the sessions table if it does not exist.
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	for i, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}

// CreateSession inserts a new session record.
func (s *SQLiteDB) CreateSession(ctx context.Context, sess *types.Session) error {
	raw, structured, err := encodeDocuments(sess)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO resume_sessions (id, mode, raw_data, structured_data, version, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sess.ID.String(), string(sess.Mode), string(raw), string(structured), sess.Version,
		formatTime(sess.CreatedAt), formatTime(sess.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID
func (s *SQLiteDB) GetSession(ctx context.Context, id uuid.UUID) (*types.Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, mode, raw_data, structured_data, version, created_at, updated_at
		 FROM resume_sessions WHERE id = ?`,
		id.String(),
	)
	sess, err := scanSQLiteSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// UpdateStructuredData replaces a session's structured data.
func (s *SQLiteDB) UpdateStructuredData(ctx context.Context, id uuid.UUID, doc types.Document, expectedVersion int, updatedAt time.Time) (*types.Session, error) {
	structured, err := encodeDocument(doc)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE resume_sessions
		 SET structured_data = ?, version = version + 1, updated_at = ?
		 WHERE id = ? AND (? = 0 OR version = ?)
		 RETURNING id, mode, raw_data, structured_data, version, created_at, updated_at`,
		string(structured), formatTime(updatedAt), id.String(), expectedVersion, expectedVersion,
	)
	sess, err := scanSQLiteSession(row)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}

	// No row updated: either the session is gone or the version moved.
	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM resume_sessions WHERE id = ?`, id.String()).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	return nil, ErrVersionConflict
}

func scanSQLiteSession(row *sql.Row) (*types.Session, error) {
	var (
		sess                 types.Session
		id, mode             string
		raw, structured      string
		createdAt, updatedAt string
	)
	if err := row.Scan(&id, &mode, &raw, &structured, &sess.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	sess.ID = parsed
	sess.Mode = types.Mode(mode)
	if sess.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at: %w", err)
	}
	if sess.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("invalid updated_at: %w", err)
	}
	if err := decodeDocuments(&sess, []byte(raw), []byte(structured)); err != nil {
		return nil, err
	}
	return &sess, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
