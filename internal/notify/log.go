package notify

import (
	"context"

	"practice-automation/internal/leads"
	"practice-automation/internal/tasks"
	"practice-automation/pkg/logger"
)

// LogMessenger writes the message to the context logger instead of a chat
// service. It is selected when no webhook URL is configured and for dry runs.
type LogMessenger struct{}

func (LogMessenger) NotifyTaskCreated(ctx context.Context, l leads.Lead, ref tasks.Ref, mentions []string, channelID string) error {
	logger.From(ctx).Info("task notification",
		"channel", channelID,
		"lead_id", l.ID,
		"task_id", ref.ID,
		"text", FormatMessage(l, ref, mentions),
	)
	return nil
}
