package tasks

import (
	"testing"
	"time"

	"practice-automation/internal/leads"
)

func TestPreview_ReadyLeadGetsDueDate(t *testing.T) {
	now := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	b := fixedBuilder(now)

	p := b.Preview(leads.Lead{ID: "a", FirstName: "Sarah", Phone: "555", Email: "s@example.com", EmailsClicked: 1})
	if p.LeadID != "a" || p.Tier != leads.TierContact || !p.Ready || p.Priority != PriorityNormal {
		t.Fatalf("unexpected preview: %+v", p)
	}
	if p.DueAt == nil || !p.DueAt.Equal(*DueAt(leads.TierContact, now)) {
		t.Fatalf("expected due date from builder clock, got %v", p.DueAt)
	}
	if p.TaskName == "" {
		t.Fatalf("expected task name")
	}
}

func TestPreview_NotReadyHasNoDueDate(t *testing.T) {
	b := fixedBuilder(time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC))

	p := b.Preview(leads.Lead{ID: "b", SocialHandle: "@pat", Stage: leads.StageEngaged})
	if p.Tier != leads.TierSocialOnly || p.Ready || p.DueAt != nil || p.Priority != PriorityLow {
		t.Fatalf("unexpected preview: %+v", p)
	}
}
