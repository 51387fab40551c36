package tasks

import "time"

// Task is follow-up work derived from a ready lead.
//
// Invariant: Priority and DueAt depend on the lead tier only.
// Tasks are never mutated after creation; ownership passes to the task store.
type Task struct {
	ListID      string   `json:"list_id" db:"list_id"`
	Name        string   `json:"name" db:"name"`
	Description string   `json:"description" db:"description"`
	Priority    Priority `json:"priority" db:"priority"`
	Status      Status   `json:"status" db:"status"`
	Assignees   []string `json:"assignees" db:"assignees"`

	// DueAt is nil for tiers without an SLA.
	DueAt *time.Time `json:"due_at,omitempty" db:"due_at"`

	Metadata Metadata `json:"metadata" db:"metadata"`
	Tags     []string `json:"tags,omitempty" db:"tags"`
}

// Metadata mirrors lead fields as custom fields on the task.
type Metadata struct {
	Source      string `json:"source,omitempty"`
	Tier        string `json:"tier"`
	Temperature string `json:"temperature,omitempty"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
	Condition   string `json:"condition,omitempty"`
	LastContact string `json:"last_contact,omitempty"`
}

type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

type Status string

const (
	StatusOpen Status = "open"
)

// Ref identifies a task once the store accepted it.
type Ref struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}
