// Package reporting aggregates orchestration outcomes for operators.
package reporting

import (
	"practice-automation/internal/orchestrator"
)

// BatchSummary counts how a batch of leads ended.
//
// Every outcome lands in exactly one of NotReady, Completed, Partial or
// Failed. TasksCreated counts Completed plus Partial.
type BatchSummary struct {
	Total        int `json:"total"`
	TasksCreated int `json:"tasks_created"`
	Notified     int `json:"notified"`
	NotReady     int `json:"not_ready"`
	Completed    int `json:"completed"`
	Partial      int `json:"partial"`
	Failed       int `json:"failed"`

	ByState map[orchestrator.State]int `json:"by_state"`

	// FailedLeadIDs lists leads that need operator attention (failed or partial).
	FailedLeadIDs []string `json:"failed_lead_ids,omitempty"`
}

func Summarize(outcomes []orchestrator.Outcome) BatchSummary {
	s := BatchSummary{Total: len(outcomes), ByState: map[orchestrator.State]int{}}
	for _, o := range outcomes {
		if o.State != "" {
			s.ByState[o.State]++
		}
		if o.TaskCreated {
			s.TasksCreated++
		}
		if o.SlackNotified {
			s.Notified++
		}

		switch {
		case o.State == orchestrator.StateNotReady:
			s.NotReady++
		case o.Success:
			s.Completed++
		case o.Partial():
			s.Partial++
			s.FailedLeadIDs = append(s.FailedLeadIDs, o.LeadID)
		default:
			s.Failed++
			s.FailedLeadIDs = append(s.FailedLeadIDs, o.LeadID)
		}
	}
	return s
}

// AllSucceeded reports whether no lead failed, fully or partially.
func (s BatchSummary) AllSucceeded() bool { return s.Failed == 0 && s.Partial == 0 }
