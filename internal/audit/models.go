package audit

import "time"

// Event is an immutable, append-only record of one orchestration outcome.
//
// Invariants:
// - Events are never updated or deleted.
// - lead_id is required except on batch_completed events.
// - Audit is best-effort; callers must not block lead processing on audit failures.
//
// Storage (Postgres): table automation_audit_events, INSERT-only.
type Event struct {
	ID     string    `json:"id" db:"id"`
	LeadID string    `json:"lead_id" db:"lead_id"`
	Type   EventType `json:"type" db:"type"`

	// TaskID is set once the task store accepted the task.
	TaskID string `json:"task_id,omitempty" db:"task_id"`

	// ActorUserID is set for events triggered through the admin API.
	ActorUserID string `json:"actor_user_id,omitempty" db:"actor_user_id"`

	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeTaskCreated         EventType = "task_created"
	EventTypeNotifyFailed        EventType = "notify_failed"
	EventTypeOrchestrationFailed EventType = "orchestration_failed"
	EventTypeBatchCompleted      EventType = "batch_completed"
)
