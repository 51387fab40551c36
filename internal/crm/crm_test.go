package crm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"practice-automation/internal/leads"
	"practice-automation/internal/orchestrator"
)

type stubProcessor struct {
	got []leads.Lead
	out orchestrator.Outcome
}

func (s *stubProcessor) Process(ctx context.Context, l leads.Lead) orchestrator.Outcome {
	s.got = append(s.got, l)
	out := s.out
	out.LeadID = l.ID
	return out
}

const contactJSON = `{
  "contact_id": "c-42",
  "first_name": " Sarah ",
  "last_name": "Johnson",
  "phone": "+15551234567",
  "email": "sarah@example.com",
  "source": "Facebook",
  "stage": "action-ready",
  "condition": "Severe back pain",
  "emails_opened": 2,
  "emails_clicked": 1,
  "tags": ["spring-promo"]
}`

func TestParseContactEvent_ToLead(t *testing.T) {
	ev, err := ParseContactEvent(strings.NewReader(contactJSON))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	now := time.Unix(1700000000, 0).UTC()
	l := ev.ToLead(now)

	if l.ID != "c-42" || l.CRMRecordID != "c-42" || l.FirstName != "Sarah" {
		t.Fatalf("unexpected identity: %+v", l)
	}
	if l.Stage != leads.StageActionReady || l.Source != leads.SourceFacebook {
		t.Fatalf("unexpected stage/source: %q %q", l.Stage, l.Source)
	}
	if l.Tier != leads.ClassifyTier(l) {
		t.Fatalf("expected classified tier, got %d", l.Tier)
	}
	if l.Temperature != leads.TemperatureWarm {
		t.Fatalf("expected warm, got %q", l.Temperature)
	}
	if !l.CreatedAt.Equal(now) || !l.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps from receivedAt")
	}
}

func TestParseContactEvent_Errors(t *testing.T) {
	if _, err := ParseContactEvent(strings.NewReader(`{"first_name":"x"}`)); !errors.Is(err, ErrNoContactID) {
		t.Fatalf("expected ErrNoContactID, got %v", err)
	}
	if _, err := ParseContactEvent(strings.NewReader(`{`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestMemoryLocker(t *testing.T) {
	l := NewMemoryLocker()
	release, err := l.Lock(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if _, err := l.Lock(context.Background(), "c1"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	release()
	release()
	if _, err := l.Lock(context.Background(), "c1"); err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
}

func TestRedisLocker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	l := NewRedisLocker(rdb, time.Minute)

	release, err := l.Lock(context.Background(), "c1")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !mr.Exists("automation:lead-lock:c1") {
		t.Fatalf("expected lock key in redis")
	}
	if _, err := l.Lock(context.Background(), "c1"); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if _, err := l.Lock(context.Background(), "c2"); err != nil {
		t.Fatalf("expected other leads to lock independently, got %v", err)
	}

	release()
	if mr.Exists("automation:lead-lock:c1") {
		t.Fatalf("expected lock key removed on release")
	}
	if _, err := l.Lock(context.Background(), "c1"); err != nil {
		t.Fatalf("expected lock after release, got %v", err)
	}
}

func newRouter(h WebhookHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/webhooks/crm/contact", h.HandleContact)
	return r
}

func post(r *gin.Engine, body, secret string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/crm/contact", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set(HeaderWebhookSecret, secret)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandleContact_ProcessesLead(t *testing.T) {
	p := &stubProcessor{out: orchestrator.Outcome{Success: true, TaskCreated: true, TaskID: "t1", State: orchestrator.StateNotified}}
	r := newRouter(WebhookHandler{Secret: "s3cret", Processor: p, Locker: NewMemoryLocker(), Now: func() time.Time { return time.Unix(1700000000, 0) }})

	w := post(r, contactJSON, "s3cret")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var out orchestrator.Outcome
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.LeadID != "c-42" || out.TaskID != "t1" || !out.Success {
		t.Fatalf("unexpected outcome: %+v", out)
	}
	if len(p.got) != 1 || p.got[0].Stage != leads.StageActionReady {
		t.Fatalf("unexpected processed leads: %+v", p.got)
	}
}

const priorityContactJSON = `{
  "contact_id": "c-77",
  "first_name": "Maria",
  "last_name": "Lopez",
  "phone": "+15559876543",
  "email": "maria@example.com",
  "condition": "Back pain",
  "detailed_condition": "Lower back pain after a fall, 2 weeks",
  "birth_date": "1990-04-02",
  "stage": "engaged"
}`

func TestHandleContact_DateOnlyBirthDateIsTier4(t *testing.T) {
	p := &stubProcessor{out: orchestrator.Outcome{Success: true, State: orchestrator.StateNotified}}
	r := newRouter(WebhookHandler{Processor: p, Locker: NewMemoryLocker(), Now: func() time.Time { return time.Unix(1700000000, 0) }})

	w := post(r, priorityContactJSON, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(p.got) != 1 {
		t.Fatalf("expected one processed lead, got %d", len(p.got))
	}
	l := p.got[0]
	if l.Tier != leads.TierPriority {
		t.Fatalf("expected tier 4, got %d", l.Tier)
	}
	if l.BirthDate == nil || l.BirthDate.String() != "1990-04-02" {
		t.Fatalf("unexpected birth date: %v", l.BirthDate)
	}
}

func TestHandleContact_RejectsBadSecret(t *testing.T) {
	p := &stubProcessor{}
	r := newRouter(WebhookHandler{Secret: "s3cret", Processor: p})

	if w := post(r, contactJSON, "wrong"); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := post(r, contactJSON, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without header, got %d", w.Code)
	}
	if len(p.got) != 0 {
		t.Fatalf("expected no processing")
	}
}

func TestHandleContact_BadPayload(t *testing.T) {
	r := newRouter(WebhookHandler{Processor: &stubProcessor{}})
	if w := post(r, `{"first_name":"x"}`, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandleContact_LockedLeadIsConflict(t *testing.T) {
	locker := NewMemoryLocker()
	if _, err := locker.Lock(context.Background(), "c-42"); err != nil {
		t.Fatalf("lock: %v", err)
	}
	p := &stubProcessor{}
	r := newRouter(WebhookHandler{Processor: p, Locker: locker})

	if w := post(r, contactJSON, ""); w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
	if len(p.got) != 0 {
		t.Fatalf("expected no processing while locked")
	}
}

func TestHandleContact_ReleasesLock(t *testing.T) {
	locker := NewMemoryLocker()
	r := newRouter(WebhookHandler{Processor: &stubProcessor{}, Locker: locker})

	for i := 0; i < 2; i++ {
		if w := post(r, contactJSON, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}
