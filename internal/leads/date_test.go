package leads

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLead_DecodesDateOnlyBirthDate(t *testing.T) {
	body := `{
		"id": "l1",
		"first_name": "Sarah",
		"last_name": "Johnson",
		"phone": "+1555",
		"email": "s@example.com",
		"detailed_condition": "Sciatica, 3 weeks",
		"birth_date": "1990-04-02"
	}`
	var l Lead
	if err := json.Unmarshal([]byte(body), &l); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if l.BirthDate == nil || !l.BirthDate.Equal(time.Date(1990, 4, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected birth date: %v", l.BirthDate)
	}
	if got := l.Classify().Tier; got != TierPriority {
		t.Fatalf("expected tier 4, got %d", got)
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1990-04-02", "1990-04-02"},
		{"1990-04-02T23:30:00-05:00", "1990-04-02"},
		{" 1985-12-31 ", "1985-12-31"},
		{"", ""},
	}
	for _, tc := range cases {
		d, err := ParseDate(tc.in)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.in, err)
		}
		if d.String() != tc.want {
			t.Fatalf("ParseDate(%q) = %q, want %q", tc.in, d.String(), tc.want)
		}
	}
	if _, err := ParseDate("04/02/1990"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestDate_EmptyAndNullDoNotCountTowardsTier4(t *testing.T) {
	for _, raw := range []string{`""`, `null`} {
		var l Lead
		body := `{"first_name":"A","last_name":"B","phone":"1","email":"a@b.c","condition":"x","detailed_condition":"y","birth_date":` + raw + `}`
		if err := json.Unmarshal([]byte(body), &l); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		if got := ClassifyTier(l); got != TierQualified {
			t.Fatalf("birth_date %s: expected tier 3, got %d", raw, got)
		}
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	d := NewDate(1990, time.April, 2)
	b, err := json.Marshal(struct {
		BirthDate *Date `json:"birth_date"`
	}{&d})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `{"birth_date":"1990-04-02"}` {
		t.Fatalf("unexpected json %s", b)
	}
}
