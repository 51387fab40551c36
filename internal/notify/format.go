// Package notify posts "task created" messages to the team's chat channel.
package notify

import (
	"fmt"
	"strings"

	"practice-automation/internal/leads"
	"practice-automation/internal/tasks"
)

var priorityPrefix = map[tasks.Priority]string{
	tasks.PriorityUrgent: ":rotating_light: *URGENT*",
	tasks.PriorityHigh:   ":fire: *High priority*",
	tasks.PriorityNormal: ":clipboard: *New follow-up*",
	tasks.PriorityLow:    ":memo: *Low priority*",
}

// FormatMessage renders the chat text for a newly created task.
//
//	:rotating_light: *URGENT* follow-up for Sarah Johnson (Tier 4)
//	Condition: Severe back pain
//	Task: <https://tasks.example.com/t/abc|open task>
//	<@U1> <@U2>
func FormatMessage(l leads.Lead, ref tasks.Ref, mentions []string) string {
	p := tasks.PriorityForTier(l.Tier)
	prefix := priorityPrefix[p]
	if prefix == "" {
		prefix = priorityPrefix[tasks.PriorityNormal]
	}

	lines := []string{fmt.Sprintf("%s follow-up for %s (Tier %d)", prefix, l.DisplayName(), l.Tier)}
	if c := strings.TrimSpace(l.ConditionText()); c != "" {
		lines = append(lines, "Condition: "+c)
	}
	if l.Phone != "" {
		lines = append(lines, "Phone: "+l.Phone)
	}
	switch {
	case ref.URL != "":
		lines = append(lines, fmt.Sprintf("Task: <%s|open task>", ref.URL))
	case ref.ID != "":
		lines = append(lines, "Task ID: "+ref.ID)
	}
	if m := formatMentions(mentions); m != "" {
		lines = append(lines, m)
	}
	return strings.Join(lines, "\n")
}

func formatMentions(ids []string) string {
	var parts []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			parts = append(parts, "<@"+id+">")
		}
	}
	return strings.Join(parts, " ")
}
