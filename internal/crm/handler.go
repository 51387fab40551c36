package crm

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"practice-automation/internal/orchestrator"
	"practice-automation/pkg/logger"
)

const HeaderWebhookSecret = "X-Webhook-Secret"

// WebhookHandler turns a CRM contact event into an orchestration run.
//
// The handler answers 200 with the Outcome whenever orchestration ran,
// including failed outcomes; transport errors are reserved for bad input,
// bad secrets and lock contention.
type WebhookHandler struct {
	// Secret, when non-empty, must match the X-Webhook-Secret header.
	Secret string

	Processor orchestrator.Processor
	Locker    Locker
	Now       func() time.Time
}

func (h WebhookHandler) HandleContact(c *gin.Context) {
	log := logger.FromGin(c)

	if h.Now == nil {
		h.Now = time.Now
	}
	if h.Processor == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "orchestrator not configured"})
		return
	}
	if h.Secret != "" && subtle.ConstantTimeCompare([]byte(c.GetHeader(HeaderWebhookSecret)), []byte(h.Secret)) != 1 {
		log.Warn("crm webhook rejected: bad secret")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook secret"})
		return
	}

	ev, err := ParseContactEvent(c.Request.Body)
	if err != nil {
		log.Warn("crm webhook parse failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lead := ev.ToLead(h.Now().UTC())
	log = log.With("lead_id", lead.ID)

	if h.Locker != nil {
		release, err := h.Locker.Lock(c.Request.Context(), lead.ID)
		if errors.Is(err, ErrLocked) {
			log.Info("crm webhook skipped: lead locked")
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": ErrLocked.Error()})
			return
		}
		if err != nil {
			log.Error("lead lock failed", "err", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "lock unavailable"})
			return
		}
		defer release()
	}

	ctx := logger.With(c.Request.Context(), log)
	out := h.Processor.Process(ctx, lead)
	log.Info("crm contact processed", "tier", int(lead.Tier), "state", out.State, "success", out.Success)
	c.JSON(http.StatusOK, out)
}
