package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"practice-automation/internal/audit"
	"practice-automation/internal/leads"
	"practice-automation/internal/tasks"
	"practice-automation/pkg/logger"
)

type stubDestinations struct {
	byTier map[leads.Tier]string
	err    error
	calls  int
}

func (s *stubDestinations) DestinationForTier(ctx context.Context, tier leads.Tier) (string, error) {
	s.calls++
	return s.byTier[tier], s.err
}

type stubTeam struct {
	assignees []string
	mentions  []string
	err       error
}

func (s stubTeam) Assignees(ctx context.Context) ([]string, error) { return s.assignees, s.err }
func (s stubTeam) Mentions(ctx context.Context) ([]string, error) { return s.mentions, s.err }

type stubChannel struct {
	id  string
	err error
}

func (s stubChannel) NotificationChannel(ctx context.Context) (string, error) { return s.id, s.err }

type stubStore struct {
	created []tasks.Task
	failFor map[string]error
}

func (s *stubStore) CreateTask(ctx context.Context, t tasks.Task) (tasks.Ref, error) {
	if err := s.failFor[t.Name]; err != nil {
		return tasks.Ref{}, err
	}
	s.created = append(s.created, t)
	id := "task-" + string(rune('0'+len(s.created)))
	return tasks.Ref{ID: id, URL: "https://tasks.example.com/" + id}, nil
}

type sentNotification struct {
	lead     leads.Lead
	ref      tasks.Ref
	mentions []string
	channel  string
}

type stubMessenger struct {
	sent []sentNotification
	err  error
}

func (s *stubMessenger) NotifyTaskCreated(ctx context.Context, l leads.Lead, ref tasks.Ref, mentions []string, channelID string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sentNotification{lead: l, ref: ref, mentions: mentions, channel: channelID})
	return nil
}

type fixture struct {
	dest      *stubDestinations
	store     *stubStore
	messenger *stubMessenger
	audit     *audit.MemoryRepo
	now       time.Time
	o         *Orchestrator
}

func newFixture() *fixture {
	f := &fixture{
		dest: &stubDestinations{byTier: map[leads.Tier]string{
			leads.TierPriority:   "list-urgent",
			leads.TierQualified:  "list-high",
			leads.TierContact:    "list-normal",
			leads.TierSocialOnly: "list-low",
		}},
		store:     &stubStore{},
		messenger: &stubMessenger{},
		audit:     audit.NewMemoryRepo(),
		now:       time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
	}
	b := tasks.NewBuilder(time.UTC, "")
	b.Now = func() time.Time { return f.now }

	f.o = New(Deps{
		Destinations: f.dest,
		Team:         stubTeam{assignees: []string{"101"}, mentions: []string{"U1", "U2"}},
		Channels:     stubChannel{id: "C-front-desk"},
		Store:        f.store,
		Messenger:    f.messenger,
		Builder:      b,
		Audit:        AuditAdapter{Audit: audit.NewService(f.audit)},
	})
	return f
}

func TestProcess_Tier4ActionReadyCreatesAndNotifies(t *testing.T) {
	f := newFixture()
	lead := leads.Lead{ID: "l1", Tier: leads.TierPriority, Stage: leads.StageActionReady, FirstName: "Sarah", LastName: "Johnson", Condition: "Severe back pain"}

	out := f.o.Process(context.Background(), lead)
	if !out.Success || !out.TaskCreated || !out.SlackNotified {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.State != StateNotified || out.LeadID != "l1" || out.TaskID == "" || out.TaskURL == "" {
		t.Fatalf("unexpected outcome fields: %+v", out)
	}

	if len(f.store.created) != 1 {
		t.Fatalf("expected one task, got %d", len(f.store.created))
	}
	task := f.store.created[0]
	if task.Priority != tasks.PriorityUrgent || task.ListID != "list-urgent" {
		t.Fatalf("unexpected task: %+v", task)
	}
	if task.DueAt == nil || !task.DueAt.Equal(f.now.Add(2*time.Hour)) {
		t.Fatalf("expected due now+2h, got %v", task.DueAt)
	}
	if len(task.Assignees) != 1 || task.Assignees[0] != "101" {
		t.Fatalf("expected assignee 101, got %v", task.Assignees)
	}

	if len(f.messenger.sent) != 1 {
		t.Fatalf("expected one notification")
	}
	n := f.messenger.sent[0]
	if n.channel != "C-front-desk" || len(n.mentions) != 2 || n.ref.ID != out.TaskID {
		t.Fatalf("unexpected notification: %+v", n)
	}

	evs := f.audit.Events()
	if len(evs) != 1 || evs[0].Type != audit.EventTypeTaskCreated || evs[0].TaskID != out.TaskID {
		t.Fatalf("unexpected audit events: %+v", evs)
	}
}

func TestProcess_NotReadyIsSuccessfulNoop(t *testing.T) {
	f := newFixture()
	lead := leads.Lead{ID: "l2", Tier: leads.TierContact, Stage: leads.StageEngaged, EmailsOpened: 1}

	out := f.o.Process(context.Background(), lead)
	if !out.Success || out.TaskCreated || out.Error != "lead not yet at action stage" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.State != StateNotReady {
		t.Fatalf("expected not_ready, got %q", out.State)
	}
	if f.dest.calls != 0 || len(f.store.created) != 0 || len(f.messenger.sent) != 0 {
		t.Fatalf("expected no external calls")
	}
	if len(f.audit.Events()) != 0 {
		t.Fatalf("expected no audit for gate miss")
	}
}

func TestProcess_MissingDestinationFails(t *testing.T) {
	f := newFixture()
	f.dest.byTier = map[leads.Tier]string{}
	lead := leads.Lead{ID: "l3", Tier: leads.TierPriority, Stage: leads.StageEngaged}

	out := f.o.Process(context.Background(), lead)
	if out.Success || out.TaskCreated {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Error != "no destination configured for tier 4" || out.State != StateFailed {
		t.Fatalf("unexpected error/state: %q %q", out.Error, out.State)
	}
	if len(f.store.created) != 0 {
		t.Fatalf("expected task store untouched")
	}
}

func TestProcess_DestinationLookupErrorIsConfigError(t *testing.T) {
	f := newFixture()
	f.dest.err = errors.New("directory unavailable")
	out := f.o.Process(context.Background(), leads.Lead{ID: "l", Tier: leads.TierSocialOnly, Stage: leads.StageActionReady})
	if out.Success || out.Error != "no destination configured for tier 1: directory unavailable" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestProcess_StoreErrorFails(t *testing.T) {
	f := newFixture()
	lead := leads.Lead{ID: "l4", Tier: leads.TierContact, EmailsClicked: 1, Email: "x@example.com"}
	f.store.failFor = map[string]error{tasks.Name(lead): errors.New("401 unauthorized")}

	out := f.o.Process(context.Background(), lead)
	if out.Success || out.TaskCreated || out.State != StateFailed {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Error != "task store: 401 unauthorized" {
		t.Fatalf("unexpected error %q", out.Error)
	}
	if len(f.messenger.sent) != 0 {
		t.Fatalf("expected no notification after store failure")
	}
	evs := f.audit.Events()
	if len(evs) != 1 || evs[0].Type != audit.EventTypeOrchestrationFailed {
		t.Fatalf("unexpected audit events: %+v", evs)
	}
}

func TestProcess_NoChannelSkipsNotification(t *testing.T) {
	f := newFixture()
	f.o.Channels = stubChannel{}
	out := f.o.Process(context.Background(), leads.Lead{ID: "l5", Tier: leads.TierQualified, EmailsOpened: 2, EmailsClicked: 1})

	if !out.Success || !out.TaskCreated || out.SlackNotified {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.State != StateNotifySkipped || out.TaskID == "" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(f.messenger.sent) != 0 {
		t.Fatalf("expected no notification")
	}
}

func TestProcess_NotifyFailureKeepsTaskReference(t *testing.T) {
	f := newFixture()
	f.messenger.err = errors.New("channel_not_found")

	out := f.o.Process(context.Background(), leads.Lead{ID: "l6", Tier: leads.TierPriority, Stage: leads.StageEngaged})
	if out.Success || out.SlackNotified {
		t.Fatalf("expected failed notification: %+v", out)
	}
	if !out.TaskCreated || out.TaskID == "" || !out.Partial() {
		t.Fatalf("expected created task to be reported: %+v", out)
	}
	if out.State != StateNotifyFailed || out.Error == "" {
		t.Fatalf("unexpected state/error: %+v", out)
	}
	evs := f.audit.Events()
	if len(evs) != 1 || evs[0].Type != audit.EventTypeNotifyFailed {
		t.Fatalf("unexpected audit events: %+v", evs)
	}
}

func TestProcess_EmptyTeamTolerated(t *testing.T) {
	f := newFixture()
	f.o.Team = stubTeam{err: errors.New("lookup failed")}

	out := f.o.Process(context.Background(), leads.Lead{ID: "l7", Tier: leads.TierPriority, Stage: leads.StageEngaged})
	if !out.Success || !out.SlackNotified {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(f.store.created[0].Assignees) != 0 {
		t.Fatalf("expected unassigned task")
	}
	if len(f.messenger.sent[0].mentions) != 0 {
		t.Fatalf("expected no mentions")
	}
}

func TestProcess_MissingStoreIsConfigError(t *testing.T) {
	f := newFixture()
	f.o.Store = nil
	out := f.o.Process(context.Background(), leads.Lead{ID: "l8", Tier: leads.TierPriority, Stage: leads.StageEngaged})
	if out.Success || out.TaskCreated || out.State != StateFailed {
		t.Fatalf("unexpected outcome: %+v", out)
	}
}

func TestIsValidTransition(t *testing.T) {
	if !IsValidTransition(StateStart, StateGateChecked) {
		t.Fatalf("expected start -> gate_checked")
	}
	if IsValidTransition(StateStart, StateTaskCreated) {
		t.Fatalf("expected start -> task_created to be illegal")
	}
	if !IsValidTransition(StateTaskBuilt, StateFailed) {
		t.Fatalf("expected failure from non-terminal state")
	}
	if IsValidTransition(StateNotified, StateFailed) {
		t.Fatalf("expected terminal states to stay terminal")
	}
}

func TestRun_IllegalTransitionFailsOutcome(t *testing.T) {
	r := &run{lead: leads.Lead{ID: "l9"}, state: StateStart, log: logger.From(context.Background())}

	r.advance(StateTaskCreated)
	if r.broken == nil || r.state != StateStart {
		t.Fatalf("expected illegal move to be rejected, state %q", r.state)
	}
	r.advance(StateGateChecked)
	if r.state != StateStart {
		t.Fatalf("expected no further moves after an illegal one, got %q", r.state)
	}

	out := r.finish(Outcome{Success: true, TaskCreated: true, TaskID: "task-1"})
	if out.Success || out.State != StateFailed || out.LeadID != "l9" {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if out.Error != "orchestrator: illegal transition start -> task_created" {
		t.Fatalf("unexpected error %q", out.Error)
	}
	if !out.TaskCreated || out.TaskID != "task-1" {
		t.Fatalf("expected task reference kept: %+v", out)
	}
}
