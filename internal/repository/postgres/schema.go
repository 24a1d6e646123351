package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the four core tables if they do not exist.
// Foreign keys cascade row deletion top-down (users -> folders/documents,
// documents -> versions, folders -> child folders); blob cleanup stays
// with the document service because the database cannot reach the disk.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	stmts := []string{
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				username VARCHAR(255) UNIQUE NOT NULL,
				password_hash TEXT NOT NULL,
				email VARCHAR(255) NOT NULL DEFAULT '',
				is_admin BOOLEAN NOT NULL DEFAULT FALSE,
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				last_login TIMESTAMPTZ
			)`, tables.Users),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				owner_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				parent_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				created TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Folders, tables.Users, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				owner_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				name VARCHAR(255) NOT NULL,
				public_token VARCHAR(128) UNIQUE NOT NULL,
				current_seq INTEGER NOT NULL,
				current_path TEXT NOT NULL,
				folder_id UUID REFERENCES %s(id) ON DELETE CASCADE,
				relative_path TEXT NOT NULL DEFAULT '',
				downloads BIGINT NOT NULL DEFAULT 0,
				available BOOLEAN NOT NULL DEFAULT TRUE,
				created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				last_update TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`, tables.Documents, tables.Users, tables.Folders),
		fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id UUID PRIMARY KEY,
				document_id UUID NOT NULL REFERENCES %s(id) ON DELETE CASCADE,
				seq INTEGER NOT NULL,
				label VARCHAR(32) NOT NULL,
				file_path TEXT NOT NULL,
				created TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				UNIQUE (document_id, seq)
			)`, tables.Versions, tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_owner ON %s(owner_id)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_token ON %s(public_token)`,
			tables.Documents, tables.Documents),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_owner ON %s(owner_id)`,
			tables.Folders, tables.Folders),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_document ON %s(document_id)`,
			tables.Versions, tables.Versions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_created ON %s(created)`,
			tables.Versions, tables.Versions),
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
