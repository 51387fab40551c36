package orchestrator

import (
	"context"

	"practice-automation/internal/leads"
	"practice-automation/internal/tasks"
)

// Collaborator contracts. The orchestrator depends only on these; concrete
// transports live in internal/directory, internal/taskstore and internal/notify.

// DestinationResolver maps a tier to the list/queue that receives its tasks.
// An empty id or an error both mean "not configured".
type DestinationResolver interface {
	DestinationForTier(ctx context.Context, tier leads.Tier) (string, error)
}

// TeamResolver returns the handling team. Empty lists are valid.
type TeamResolver interface {
	Assignees(ctx context.Context) ([]string, error)
	Mentions(ctx context.Context) ([]string, error)
}

// ChannelResolver returns the notification channel; empty means skip notifying.
type ChannelResolver interface {
	NotificationChannel(ctx context.Context) (string, error)
}

// TaskStore creates tasks in the external tracker.
type TaskStore interface {
	CreateTask(ctx context.Context, t tasks.Task) (tasks.Ref, error)
}

// Messenger posts the "task created" notification.
type Messenger interface {
	NotifyTaskCreated(ctx context.Context, l leads.Lead, ref tasks.Ref, mentions []string, channelID string) error
}

// AuditLogger records outcomes. Failures are ignored by the orchestrator.
type AuditLogger interface {
	RecordOutcome(ctx context.Context, l leads.Lead, o Outcome) error
}
