package orchestrator

import (
	"context"
	"encoding/json"

	"practice-automation/internal/audit"
	"practice-automation/internal/leads"
)

// AuditAdapter bridges the orchestrator's audit hook to the shared audit.Service.
type AuditAdapter struct {
	Audit *audit.Service
}

func (a AuditAdapter) RecordOutcome(ctx context.Context, l leads.Lead, o Outcome) error {
	if a.Audit == nil {
		return nil
	}

	meta, _ := json.Marshal(map[string]any{
		"tier":           int(l.Tier),
		"state":          o.State,
		"success":        o.Success,
		"slack_notified": o.SlackNotified,
	})

	return a.Audit.Append(ctx, audit.Event{
		LeadID:   l.ID,
		Type:     eventTypeFor(o),
		TaskID:   o.TaskID,
		Message:  messageFor(o),
		Metadata: string(meta),
	})
}

func eventTypeFor(o Outcome) audit.EventType {
	switch {
	case o.Success && o.TaskCreated:
		return audit.EventTypeTaskCreated
	case o.Partial():
		return audit.EventTypeNotifyFailed
	default:
		return audit.EventTypeOrchestrationFailed
	}
}

func messageFor(o Outcome) string {
	if o.Error != "" {
		return o.Error
	}
	if o.SlackNotified {
		return "task created and team notified"
	}
	return "task created"
}
