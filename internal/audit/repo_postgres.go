package audit

import (
	"context"
	"database/sql"
	"errors"
)

// PostgresRepo appends events to automation_audit_events.
//
// NOTE: assumes the table exists:
//
//	CREATE TABLE automation_audit_events (
//	  id UUID PRIMARY KEY, lead_id TEXT, type TEXT NOT NULL, task_id TEXT,
//	  actor_user_id TEXT, message TEXT, metadata JSONB, created_at TIMESTAMPTZ NOT NULL
//	);
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo { return &PostgresRepo{db: db} }

func (r *PostgresRepo) Append(ctx context.Context, e Event) error {
	if r.db == nil {
		return errors.New("audit: db is nil")
	}
	const q = `
INSERT INTO automation_audit_events (
  id, lead_id, type, task_id, actor_user_id, message, metadata, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,NULLIF($7,'')::jsonb,$8
)
`
	_, err := r.db.ExecContext(ctx, q,
		e.ID,
		e.LeadID,
		e.Type,
		e.TaskID,
		e.ActorUserID,
		e.Message,
		e.Metadata,
		e.CreatedAt,
	)
	return err
}
