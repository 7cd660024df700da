package db

import (
	"context"
	"database/sql"
	"fmt"
)

// MigrateUp creates the submissions table and its ordering index.
// Every statement is idempotent.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	statements := []struct {
		name string
		sql  string
	}{
		{
			name: "create contact_form_submissions",
			sql: `
CREATE TABLE IF NOT EXISTS contact_form_submissions (
    id              UUID PRIMARY KEY,
    name            TEXT NOT NULL,
    email           TEXT NOT NULL,
    message         TEXT NOT NULL,
    submission_date TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		},
		{
			// viewer lists newest first
			name: "create idx_contact_form_submissions_date",
			sql:  `CREATE INDEX IF NOT EXISTS idx_contact_form_submissions_date ON contact_form_submissions(submission_date DESC)`,
		},
	}

	for _, st := range statements {
		if _, err := db.ExecContext(ctx, st.sql); err != nil {
			return fmt.Errorf("migrate: %s: %w", st.name, err)
		}
	}
	return nil
}
