package db

// postgresSchema is applied in order by DB.Migrate. Every statement is idempotent.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS resume_sessions (
		id              UUID PRIMARY KEY,
		mode            TEXT NOT NULL CHECK (mode IN ('manual', 'upload', 'prompt', 'linkedin', 'chatbot')),
		raw_data        JSONB NOT NULL DEFAULT '{}'::jsonb,
		structured_data JSONB NOT NULL DEFAULT '{}'::jsonb,
		version         INTEGER NOT NULL DEFAULT 1,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_sessions_updated_at ON resume_sessions (updated_at DESC)`,
}

// sqliteSchema mirrors postgresSchema with SQLite column types.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS resume_sessions (
		id              TEXT PRIMARY KEY,
		mode            TEXT NOT NULL CHECK (mode IN ('manual', 'upload', 'prompt', 'linkedin', 'chatbot')),
		raw_data        TEXT NOT NULL DEFAULT '{}',
		structured_data TEXT NOT NULL DEFAULT '{}',
		version         INTEGER NOT NULL DEFAULT 1,
		created_at      TEXT NOT NULL,
		updated_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_sessions_updated_at ON resume_sessions (updated_at DESC)`,
}
