package db

import (
	"context"
	"fmt"
	"strings"
)

// Open returns the store selected by the URL scheme:
//
//	postgres://, postgresql://  PostgreSQL via pgx
//	sqlite://<path>, file:<path> SQLite
//	memory://                   in-process map (data is lost on exit)
func Open(ctx context.Context, databaseURL string) (Store, error) {
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		return Connect(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(databaseURL, "sqlite://"))
	case strings.HasPrefix(databaseURL, "file:"):
		return OpenSQLite(ctx, databaseURL)
	case strings.HasPrefix(databaseURL, "memory://"):
		return NewMemoryStore(), nil
	case databaseURL == "":
		return nil, fmt.Errorf("database URL is required")
	default:
		return nil, fmt.Errorf("unsupported database URL scheme: %s", databaseURL)
	}
}
