package migration

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v4/pgxpool"
)

// RunMigrations executes all necessary database migrations on startup
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	slog.Info("Starting database migrations")

	for _, m := range Migrations() {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			slog.Error("Migration failed", "name", m.Name, "error", err)
			return err
		}
		slog.Info("Migration completed", "name", m.Name)
	}

	slog.Info("All migrations completed successfully")
	return nil
}

// Migration represents a database migration
type Migration struct {
	Name string
	SQL  string
}

// Migrations returns the schema changes in the order they are applied. Each
// statement is idempotent.
func Migrations() []Migration {
	return []Migration{
		{
			Name: "create_resume_sessions",
			SQL: `
		CREATE TABLE IF NOT EXISTS resume_sessions (
			id UUID PRIMARY KEY,
			resume_context TEXT NOT NULL DEFAULT '',
			context_tokens INTEGER NOT NULL DEFAULT 0,
			latex_content TEXT NOT NULL DEFAULT '',
			resume_last_updated BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`,
		},
		{
			Name: "add_context_file_name_to_resume_sessions",
			SQL: `
		ALTER TABLE resume_sessions
		ADD COLUMN IF NOT EXISTS context_file_name TEXT NOT NULL DEFAULT '';
	`,
		},
		{
			Name: "index_resume_sessions_updated_at",
			SQL: `
		CREATE INDEX IF NOT EXISTS resume_sessions_updated_at_idx ON resume_sessions (updated_at);
	`,
		},
	}
}
