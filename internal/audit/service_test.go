package audit

import (
	"context"
	"testing"
)

func TestService_AppendRequiresLeadAndType(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	if err := svc.Append(context.Background(), Event{Type: EventTypeTaskCreated}); err == nil {
		t.Fatalf("expected error without lead_id")
	}
	if err := svc.Append(context.Background(), Event{LeadID: "l1"}); err == nil {
		t.Fatalf("expected error without type")
	}
}

func TestService_StampsIDAndTime(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)

	if err := svc.Append(context.Background(), Event{LeadID: "l1", Type: EventTypeTaskCreated, TaskID: "t1"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := svc.LogBatch(context.Background(), "u1", "3 leads processed", "{}"); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	evs := repo.Events()
	if len(evs) != 2 {
		t.Fatalf("expected 2 events, got %d", len(evs))
	}
	if evs[0].ID == "" || evs[0].CreatedAt.IsZero() {
		t.Fatalf("expected id and created_at stamped: %+v", evs[0])
	}
	if evs[1].Type != EventTypeBatchCompleted || evs[1].ActorUserID != "u1" {
		t.Fatalf("unexpected batch event: %+v", evs[1])
	}
}

func TestService_RequiresRepository(t *testing.T) {
	if err := NewService(nil).Append(context.Background(), Event{LeadID: "l", Type: EventTypeTaskCreated}); err == nil {
		t.Fatalf("expected error without repository")
	}
}
