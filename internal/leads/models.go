package leads

import (
	"strings"
	"time"
)

// Lead is a prospective patient at some point in their contact lifecycle.
//
// Invariant: Tier and Temperature are derived fields. They are never set by
// hand; Classify recomputes both from the source fields.
//
// NOTE: Lead records originate in the CRM. This service never deletes them.
type Lead struct {
	ID string `json:"id"`

	FirstName    string `json:"first_name,omitempty"`
	LastName     string `json:"last_name,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Email        string `json:"email,omitempty"`
	SocialHandle string `json:"social_handle,omitempty"`

	Tier        Tier        `json:"tier"`
	Source      Source      `json:"source,omitempty"`
	Temperature Temperature `json:"temperature,omitempty"`
	Stage       Stage       `json:"stage,omitempty"`

	Condition         string `json:"condition,omitempty"`
	DetailedCondition string `json:"detailed_condition,omitempty"`

	// Pregnant is nil when the intake form never asked; only an explicit
	// answer counts towards tier 4.
	Pregnant  *bool `json:"pregnant,omitempty"`
	BirthDate *Date `json:"birth_date,omitempty"`

	EmailsOpened  int  `json:"emails_opened"`
	EmailsClicked int  `json:"emails_clicked"`
	SMSReplied    bool `json:"sms_replied"`

	LastEngagementAt *time.Time `json:"last_engagement_at,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ConvertedAt *time.Time `json:"converted_at,omitempty"`

	Notes string   `json:"notes,omitempty"`
	Tags  []string `json:"tags,omitempty"`

	// CRMRecordID links back to the originating CRM contact.
	CRMRecordID string `json:"crm_record_id,omitempty"`
}

// Tier is the 1-4 data completeness classification. Higher is better data.
type Tier int

const (
	TierSocialOnly Tier = 1
	TierContact    Tier = 2
	TierQualified  Tier = 3
	TierPriority   Tier = 4
)

func (t Tier) Valid() bool { return t >= TierSocialOnly && t <= TierPriority }

type Source string

const (
	SourceFacebook  Source = "facebook"
	SourceInstagram Source = "instagram"
	SourceGoogle    Source = "google"
	SourceWebsite   Source = "website"
	SourceReferral  Source = "referral"
	SourceWalkIn    Source = "walk_in"
	SourceOther     Source = "other"
)

type Temperature string

const (
	TemperatureHot  Temperature = "hot"
	TemperatureWarm Temperature = "warm"
	TemperatureCold Temperature = "cold"
)

// Stage is the lead's lifecycle position:
// new -> contacted -> engaged -> action_ready -> scheduled -> converted, or lost.
type Stage string

const (
	StageNew         Stage = "new"
	StageContacted   Stage = "contacted"
	StageEngaged     Stage = "engaged"
	StageActionReady Stage = "action_ready"
	StageScheduled   Stage = "scheduled"
	StageConverted   Stage = "converted"
	StageLost        Stage = "lost"
)

// ParseStage accepts both "action_ready" and "action-ready" spellings used by CRM exports.
func ParseStage(s string) Stage {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	switch Stage(s) {
	case StageNew, StageContacted, StageEngaged, StageActionReady, StageScheduled, StageConverted, StageLost:
		return Stage(s)
	default:
		return StageNew
	}
}

// UnmarshalText normalizes stage spellings when decoding JSON payloads.
func (s *Stage) UnmarshalText(b []byte) error {
	*s = ParseStage(string(b))
	return nil
}

// ParseSource maps free-form CRM source labels onto the known acquisition channels.
func ParseSource(s string) Source {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "":
		return ""
	case strings.Contains(s, "facebook") || s == "fb":
		return SourceFacebook
	case strings.Contains(s, "instagram") || s == "ig":
		return SourceInstagram
	case strings.Contains(s, "google"):
		return SourceGoogle
	case strings.Contains(s, "web") || strings.Contains(s, "form"):
		return SourceWebsite
	case strings.Contains(s, "referral"):
		return SourceReferral
	case strings.Contains(s, "walk"):
		return SourceWalkIn
	default:
		return SourceOther
	}
}

// FullName is first and last name joined, or empty when both are missing.
func (l Lead) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(l.FirstName) + " " + strings.TrimSpace(l.LastName))
}

// DisplayName picks the first non-empty of full name, email, phone, social handle.
func (l Lead) DisplayName() string {
	for _, v := range []string{l.FullName(), l.Email, l.Phone, l.SocialHandle} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return "Unknown Lead"
}

// ConditionText prefers the detailed condition over the general one.
func (l Lead) ConditionText() string {
	if d := strings.TrimSpace(l.DetailedCondition); d != "" {
		return d
	}
	return strings.TrimSpace(l.Condition)
}

// Classify returns a copy with Tier and Temperature recomputed from source fields.
func (l Lead) Classify() Lead {
	out := l
	out.Tier = ClassifyTier(l)
	out.Temperature = DeriveTemperature(l)
	if l.Tags != nil {
		out.Tags = append([]string(nil), l.Tags...)
	}
	return out
}
