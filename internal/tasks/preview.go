package tasks

import (
	"time"

	"practice-automation/internal/leads"
)

// Preview is what the engine would do with a lead, without side effects.
type Preview struct {
	LeadID      string            `json:"lead_id"`
	Tier        leads.Tier        `json:"tier"`
	Temperature leads.Temperature `json:"temperature"`
	Ready       bool              `json:"ready"`
	TaskName    string            `json:"task_name"`
	Priority    Priority          `json:"priority"`
	DueAt       *time.Time        `json:"due_at,omitempty"`
}

// Preview classifies l and derives the task fields it would get. DueAt is
// only set for leads that pass the readiness gate.
func (b *Builder) Preview(l leads.Lead) Preview {
	l = l.Classify()
	p := Preview{
		LeadID:      l.ID,
		Tier:        l.Tier,
		Temperature: l.Temperature,
		Ready:       leads.IsReady(l),
		TaskName:    Name(l),
		Priority:    PriorityForTier(l.Tier),
	}
	if p.Ready {
		p.DueAt = DueAt(l.Tier, b.now())
	}
	return p
}
