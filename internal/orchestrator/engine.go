package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"practice-automation/internal/leads"
	"practice-automation/internal/tasks"
	"practice-automation/pkg/logger"
)

// Orchestrator turns a classified lead into a follow-up task and a team notification.
//
// Sequence:
//  1. Readiness gate (not ready -> successful no-op)
//  2. Destination list for the tier (missing -> ConfigError)
//  3. Assignees (empty tolerated)
//  4. Build task
//  5. Create task (failure -> StoreError, no retry)
//  6. Notification channel (empty -> skip)
//  7. Mentions (empty tolerated)
//  8. Notify (failure -> partial outcome, task reference kept)
//
// Process never returns an error; every failure becomes an Outcome.
// The orchestrator holds no per-lead state, so one instance can serve many callers.
type Orchestrator struct {
	Destinations DestinationResolver
	Team         TeamResolver
	Channels     ChannelResolver
	Store        TaskStore
	Messenger    Messenger
	Builder      *tasks.Builder

	// Audit is optional.
	Audit AuditLogger
}

// Deps groups the collaborators passed to New.
type Deps struct {
	Destinations DestinationResolver
	Team         TeamResolver
	Channels     ChannelResolver
	Store        TaskStore
	Messenger    Messenger
	Builder      *tasks.Builder
	Audit        AuditLogger
}

func New(d Deps) *Orchestrator {
	b := d.Builder
	if b == nil {
		b = tasks.NewBuilder(nil, "")
	}
	return &Orchestrator{
		Destinations: d.Destinations,
		Team:         d.Team,
		Channels:     d.Channels,
		Store:        d.Store,
		Messenger:    d.Messenger,
		Builder:      b,
		Audit:        d.Audit,
	}
}

// Process runs the orchestration for one lead. The lead's tier is trusted as given.
func (o *Orchestrator) Process(ctx context.Context, l leads.Lead) Outcome {
	r := &run{lead: l, state: StateStart, log: logger.From(ctx).With("lead_id", l.ID, "tier", int(l.Tier))}

	r.advance(StateGateChecked)
	if !leads.IsReady(l) {
		r.log.Debug("lead not ready for task creation", "stage", l.Stage, "opens", l.EmailsOpened, "clicks", l.EmailsClicked)
		r.advance(StateNotReady)
		return r.finish(Outcome{Success: true, Error: ErrNotReady.Error()})
	}

	if o.Destinations == nil {
		return o.fail(ctx, r, &ConfigError{Msg: "destination resolver not configured"})
	}
	listID, err := o.Destinations.DestinationForTier(ctx, l.Tier)
	if err != nil || listID == "" {
		return o.fail(ctx, r, &ConfigError{Msg: fmt.Sprintf("no destination configured for tier %d", l.Tier), Cause: err})
	}
	r.advance(StateListResolved)

	assignees := o.teamIDs(ctx, r, "assignees")
	if len(assignees) == 0 {
		r.log.Warn("no assignees configured; task will be unassigned")
	}

	task := o.builder().Build(l, listID, assignees)
	r.advance(StateTaskBuilt)

	if o.Store == nil {
		return o.fail(ctx, r, &ConfigError{Msg: "task store not configured"})
	}
	ref, err := o.Store.CreateTask(ctx, task)
	if err != nil {
		r.log.Error("task create failed", "list_id", listID, "err", err)
		return o.fail(ctx, r, &StoreError{Cause: err})
	}
	r.advance(StateTaskCreated)
	r.log = r.log.With("task_id", ref.ID)

	created := Outcome{TaskCreated: true, TaskID: ref.ID, TaskURL: ref.URL}

	channelID := o.channel(ctx, r)
	if channelID == "" || o.Messenger == nil {
		r.log.Info("notification skipped; no channel configured")
		r.advance(StateNotifySkipped)
		created.Success = true
		return o.record(ctx, r, created)
	}

	mentions := o.teamIDs(ctx, r, "mentions")
	if len(mentions) == 0 {
		r.log.Warn("no mentions configured; notifying without mentions")
	}

	if err := o.Messenger.NotifyTaskCreated(ctx, l, ref, mentions, channelID); err != nil {
		merr := &MessagingError{TaskID: ref.ID, Cause: err}
		r.log.Error("notification failed after task creation", "channel", channelID, "err", err)
		r.advance(StateNotifyFailed)
		created.Error = merr.Error()
		return o.record(ctx, r, created)
	}

	r.advance(StateNotified)
	created.Success = true
	created.SlackNotified = true
	return o.record(ctx, r, created)
}

func (o *Orchestrator) builder() *tasks.Builder {
	if o.Builder == nil {
		return tasks.NewBuilder(nil, "")
	}
	return o.Builder
}

// teamIDs resolves assignees or mentions; lookup errors degrade to an empty list.
func (o *Orchestrator) teamIDs(ctx context.Context, r *run, kind string) []string {
	if o.Team == nil {
		return nil
	}
	var (
		ids []string
		err error
	)
	if kind == "mentions" {
		ids, err = o.Team.Mentions(ctx)
	} else {
		ids, err = o.Team.Assignees(ctx)
	}
	if err != nil {
		r.log.Warn("team lookup failed", "kind", kind, "err", err)
		return nil
	}
	return ids
}

func (o *Orchestrator) channel(ctx context.Context, r *run) string {
	if o.Channels == nil {
		return ""
	}
	id, err := o.Channels.NotificationChannel(ctx)
	if err != nil {
		r.log.Warn("notification channel lookup failed", "err", err)
		return ""
	}
	return id
}

func (o *Orchestrator) fail(ctx context.Context, r *run, err error) Outcome {
	r.advance(StateFailed)
	return o.record(ctx, r, Outcome{Error: err.Error()})
}

func (o *Orchestrator) record(ctx context.Context, r *run, out Outcome) Outcome {
	out = r.finish(out)
	if o.Audit != nil {
		if err := o.Audit.RecordOutcome(ctx, r.lead, out); err != nil {
			r.log.Warn("audit record failed", "err", err)
		}
	}
	return out
}

type run struct {
	lead   leads.Lead
	state  State
	broken error
	log    *slog.Logger
}

func (r *run) advance(to State) {
	if r.broken != nil {
		return
	}
	if !IsValidTransition(r.state, to) {
		r.broken = fmt.Errorf("orchestrator: illegal transition %s -> %s", r.state, to)
		r.log.Error("illegal state transition", "from", r.state, "to", to)
		return
	}
	r.state = to
}

func (r *run) finish(out Outcome) Outcome {
	out.LeadID = r.lead.ID
	if r.broken != nil {
		return Outcome{LeadID: r.lead.ID, Error: r.broken.Error(), State: StateFailed,
			TaskCreated: out.TaskCreated, TaskID: out.TaskID, TaskURL: out.TaskURL}
	}
	out.State = r.state
	return out
}
