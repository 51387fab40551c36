package tasks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"practice-automation/internal/leads"
)

const (
	// dueHour is the end-of-day cutoff used for same/next-day SLAs.
	dueHour = 17
	// sameDayCutoffHour: tier 3 leads seen before 15:00 are due the same day.
	sameDayCutoffHour = 15

	urgentSLA = 2 * time.Hour

	lastContactLayout = "1/2/2006"
)

// Builder derives tasks from ready leads.
//
// Determinism: due dates use Now and Location, both injectable for tests.
type Builder struct {
	Now      func() time.Time
	Location *time.Location

	// CRMRecordURL is the base URL of CRM contact records; empty omits the link.
	CRMRecordURL string
}

func NewBuilder(loc *time.Location, crmRecordURL string) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{Now: time.Now, Location: loc, CRMRecordURL: crmRecordURL}
}

// Build produces the task for a lead. It does not check readiness.
func (b *Builder) Build(l leads.Lead, listID string, assignees []string) Task {
	now := b.now()

	t := Task{
		ListID:      listID,
		Name:        Name(l),
		Description: b.Description(l),
		Priority:    PriorityForTier(l.Tier),
		Status:      StatusOpen,
		Assignees:   append([]string{}, assignees...),
		DueAt:       DueAt(l.Tier, now),
		Metadata: Metadata{
			Source:      string(l.Source),
			Tier:        strconv.Itoa(int(l.Tier)),
			Temperature: string(l.Temperature),
			Phone:       l.Phone,
			Email:       l.Email,
			Condition:   l.ConditionText(),
		},
	}
	if l.LastEngagementAt != nil {
		t.Metadata.LastContact = l.LastEngagementAt.UTC().Format(time.RFC3339)
	}
	if len(l.Tags) > 0 {
		t.Tags = append([]string(nil), l.Tags...)
	}
	return t
}

// Name is "Follow up with {display name} (Tier {tier})".
func Name(l leads.Lead) string {
	return fmt.Sprintf("Follow up with %s (Tier %d)", l.DisplayName(), l.Tier)
}

// Description lists the lead's known data, one section per line, in a fixed order.
func (b *Builder) Description(l leads.Lead) string {
	var lines []string
	add := func(label, v string) {
		if v = strings.TrimSpace(v); v != "" {
			lines = append(lines, label+": "+v)
		}
	}

	add("Phone", l.Phone)
	add("Email", l.Email)
	add("Social", l.SocialHandle)
	add("Condition", l.ConditionText())
	add("Source", string(l.Source))
	if l.EmailsOpened != 0 || l.EmailsClicked != 0 {
		lines = append(lines, fmt.Sprintf("Engagement: %d opens, %d clicks", l.EmailsOpened, l.EmailsClicked))
	}
	if l.LastEngagementAt != nil {
		add("Last contact", l.LastEngagementAt.In(b.location()).Format(lastContactLayout))
	}
	add("Notes", l.Notes)
	if id := strings.TrimSpace(l.CRMRecordID); id != "" && b.CRMRecordURL != "" {
		add("CRM record", strings.TrimRight(b.CRMRecordURL, "/")+"/"+id)
	}
	return strings.Join(lines, "\n")
}

// PriorityForTier maps 4->urgent, 3->high, 2->normal, 1->low; anything else is normal.
func PriorityForTier(t leads.Tier) Priority {
	switch t {
	case leads.TierPriority:
		return PriorityUrgent
	case leads.TierQualified:
		return PriorityHigh
	case leads.TierContact:
		return PriorityNormal
	case leads.TierSocialOnly:
		return PriorityLow
	default:
		return PriorityNormal
	}
}

// DueAt computes the SLA deadline in now's location. Unlisted tiers get no due date.
func DueAt(t leads.Tier, now time.Time) *time.Time {
	var due time.Time
	switch t {
	case leads.TierPriority:
		due = now.Add(urgentSLA)
	case leads.TierQualified:
		if now.Hour() < sameDayCutoffHour {
			due = atHour(now, 0)
		} else {
			due = atHour(now, 1)
		}
	case leads.TierContact:
		due = atHour(now, 1)
	case leads.TierSocialOnly:
		due = atHour(now, 2)
	default:
		return nil
	}
	return &due
}

// atHour returns dueHour:00 on the calendar day `days` after now.
func atHour(now time.Time, days int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+days, dueHour, 0, 0, 0, now.Location())
}

func (b *Builder) now() time.Time {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	return now().In(b.location())
}

func (b *Builder) location() *time.Location {
	if b.Location == nil {
		return time.UTC
	}
	return b.Location
}
