package orchestrator

// Outcome is the structured, non-throwing result of one orchestration run.
//
// TaskCreated stays true (with TaskID/TaskURL) when the notification fails
// after the task was created; Success is false in that case and State is
// StateNotifyFailed.
type Outcome struct {
	LeadID string `json:"lead_id"`

	Success       bool   `json:"success"`
	TaskCreated   bool   `json:"task_created"`
	TaskID        string `json:"task_id,omitempty"`
	TaskURL       string `json:"task_url,omitempty"`
	SlackNotified bool   `json:"slack_notified"`
	Error         string `json:"error,omitempty"`

	State State `json:"state"`
}

// Partial reports a created task whose notification failed.
func (o Outcome) Partial() bool { return !o.Success && o.TaskCreated }

// State is a step of a single orchestration run.
type State string

const (
	StateStart         State = "start"
	StateGateChecked   State = "gate_checked"
	StateNotReady      State = "not_ready"
	StateListResolved  State = "list_resolved"
	StateTaskBuilt     State = "task_built"
	StateTaskCreated   State = "task_created"
	StateNotifySkipped State = "notify_skipped"
	StateNotified      State = "notified"
	StateNotifyFailed  State = "notify_failed"
	StateFailed        State = "failed"
)

// validTransitions lists the legal moves. StateFailed is reachable from every
// non-terminal state and is handled separately.
var validTransitions = map[State]map[State]bool{
	StateStart:        {StateGateChecked: true},
	StateGateChecked:  {StateNotReady: true, StateListResolved: true},
	StateListResolved: {StateTaskBuilt: true},
	StateTaskBuilt:    {StateTaskCreated: true},
	StateTaskCreated:  {StateNotifySkipped: true, StateNotified: true, StateNotifyFailed: true},
}

// IsTerminal reports whether no further transition is possible.
func (s State) IsTerminal() bool {
	switch s {
	case StateNotReady, StateNotifySkipped, StateNotified, StateNotifyFailed, StateFailed:
		return true
	default:
		return false
	}
}

// IsValidTransition checks if a state transition is legal.
func IsValidTransition(from, to State) bool {
	if to == StateFailed {
		return !from.IsTerminal()
	}
	targets, ok := validTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}
