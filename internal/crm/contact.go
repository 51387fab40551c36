// Package crm ingests contact-change events pushed by the CRM.
package crm

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"practice-automation/internal/leads"
)

var ErrNoContactID = errors.New("crm: contact_id is required")

// ContactEvent is the subset of the CRM contact payload the automation reads.
// Parsing stays here; classification and orchestration happen downstream.
type ContactEvent struct {
	ContactID         string     `json:"contact_id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Phone             string     `json:"phone"`
	Email             string     `json:"email"`
	SocialHandle      string     `json:"social_handle"`
	Source            string     `json:"source"`
	Stage             string     `json:"stage"`
	Condition         string     `json:"condition"`
	DetailedCondition string     `json:"detailed_condition"`
	Pregnant          *bool      `json:"pregnant"`
	BirthDate         *leads.Date `json:"birth_date"`
	EmailsOpened      int        `json:"emails_opened"`
	EmailsClicked     int        `json:"emails_clicked"`
	SMSReplied        bool       `json:"sms_replied"`
	LastEngagementAt  *time.Time `json:"last_engagement_at"`
	CreatedAt         *time.Time `json:"created_at"`
	Notes             string     `json:"notes"`
	Tags              []string   `json:"tags"`
}

// ParseContactEvent decodes one event. Unknown fields are ignored.
func ParseContactEvent(r io.Reader) (ContactEvent, error) {
	var ev ContactEvent
	if err := json.NewDecoder(io.LimitReader(r, 1<<20)).Decode(&ev); err != nil {
		return ContactEvent{}, fmt.Errorf("crm: decode contact: %w", err)
	}
	ev.ContactID = strings.TrimSpace(ev.ContactID)
	if ev.ContactID == "" {
		return ContactEvent{}, ErrNoContactID
	}
	if ev.EmailsOpened < 0 {
		ev.EmailsOpened = 0
	}
	if ev.EmailsClicked < 0 {
		ev.EmailsClicked = 0
	}
	return ev, nil
}

// ToLead maps the event onto a classified Lead. receivedAt stamps UpdatedAt
// and fills CreatedAt when the CRM did not send one.
func (ev ContactEvent) ToLead(receivedAt time.Time) leads.Lead {
	l := leads.Lead{
		ID:                ev.ContactID,
		FirstName:         strings.TrimSpace(ev.FirstName),
		LastName:          strings.TrimSpace(ev.LastName),
		Phone:             strings.TrimSpace(ev.Phone),
		Email:             strings.TrimSpace(ev.Email),
		SocialHandle:      strings.TrimSpace(ev.SocialHandle),
		Source:            leads.ParseSource(ev.Source),
		Stage:             leads.ParseStage(ev.Stage),
		Condition:         ev.Condition,
		DetailedCondition: ev.DetailedCondition,
		Pregnant:          ev.Pregnant,
		BirthDate:         ev.BirthDate,
		EmailsOpened:      ev.EmailsOpened,
		EmailsClicked:     ev.EmailsClicked,
		SMSReplied:        ev.SMSReplied,
		LastEngagementAt:  ev.LastEngagementAt,
		CreatedAt:         receivedAt,
		UpdatedAt:         receivedAt,
		Notes:             ev.Notes,
		Tags:              ev.Tags,
		CRMRecordID:       ev.ContactID,
	}
	if ev.CreatedAt != nil {
		l.CreatedAt = *ev.CreatedAt
	}
	return l.Classify()
}
