package taskstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"practice-automation/internal/tasks"
	"practice-automation/pkg/utils"
)

// PostgresStore writes tasks to follow_up_tasks and their assignees to
// follow_up_task_assignees in one transaction.
//
// NOTE: assumes the tables exist:
//
//	CREATE TABLE follow_up_tasks (
//	  id UUID PRIMARY KEY, list_id TEXT NOT NULL, name TEXT NOT NULL, description TEXT,
//	  priority TEXT NOT NULL, status TEXT NOT NULL, due_at TIMESTAMPTZ,
//	  metadata JSONB NOT NULL, tags TEXT[], created_at TIMESTAMPTZ NOT NULL
//	);
//	CREATE TABLE follow_up_task_assignees (
//	  task_id UUID REFERENCES follow_up_tasks(id), assignee_id TEXT NOT NULL,
//	  PRIMARY KEY (task_id, assignee_id)
//	);
type PostgresStore struct {
	db      *sql.DB
	urlBase string
	now     func() time.Time
}

func NewPostgresStore(db *sql.DB, urlBase string) *PostgresStore {
	return &PostgresStore{db: db, urlBase: urlBase, now: time.Now}
}

func (s *PostgresStore) CreateTask(ctx context.Context, t tasks.Task) (tasks.Ref, error) {
	if s.db == nil {
		return tasks.Ref{}, errors.New("taskstore: db is nil")
	}
	if err := validate(t); err != nil {
		return tasks.Ref{}, err
	}
	meta, err := json.Marshal(t.Metadata)
	if err != nil {
		return tasks.Ref{}, err
	}

	id := uuid.NewString()
	err = utils.WithTx(ctx, s.db, nil, func(ctx context.Context, tx *sql.Tx) error {
		if err := insertTask(ctx, tx, id, t, meta, s.now().UTC()); err != nil {
			return err
		}
		for _, a := range t.Assignees {
			if err := insertAssignee(ctx, tx, id, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return tasks.Ref{}, err
	}
	return tasks.Ref{ID: id, URL: URLFor(s.urlBase, id)}, nil
}

func insertTask(ctx context.Context, tx *sql.Tx, id string, t tasks.Task, meta []byte, now time.Time) error {
	const q = `
INSERT INTO follow_up_tasks (
  id, list_id, name, description, priority, status, due_at, metadata, tags, created_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9,$10
)
`
	var due any
	if t.DueAt != nil {
		due = t.DueAt.UTC()
	}
	_, err := tx.ExecContext(ctx, q,
		id,
		t.ListID,
		t.Name,
		t.Description,
		string(t.Priority),
		string(t.Status),
		due,
		string(meta),
		t.Tags,
		now,
	)
	return err
}

func insertAssignee(ctx context.Context, tx *sql.Tx, taskID, assignee string) error {
	const q = `
INSERT INTO follow_up_task_assignees (task_id, assignee_id)
VALUES ($1,$2)
ON CONFLICT DO NOTHING
`
	_, err := tx.ExecContext(ctx, q, taskID, assignee)
	return err
}
