package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"practice-automation/internal/audit"
	"practice-automation/internal/auth"
	"practice-automation/internal/leads"
	"practice-automation/internal/orchestrator"
	"practice-automation/internal/rbac"
	"practice-automation/internal/reporting"
	"practice-automation/internal/tasks"
	"practice-automation/pkg/logger"
)

// MaxBatchLeads bounds one synchronous batch request.
const MaxBatchLeads = 500

// BatchRunner is the slice of orchestrator.BatchRunner the handlers need.
type BatchRunner interface {
	Run(ctx context.Context, in []leads.Lead) []orchestrator.Outcome
}

// Handlers groups the admin API handlers. Keep these thin: parse input,
// call internal packages, return JSON.
type Handlers struct {
	Auth    *auth.Manager
	Batch   BatchRunner
	Builder *tasks.Builder
	Audit   *audit.Service
	Now     func() time.Time
}

func (h Handlers) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// --- Auth ---

type tokenRequest struct {
	APIKey string `json:"api_key"`
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// IssueToken exchanges the admin API key for an access token.
func (h Handlers) IssueToken(c *gin.Context) {
	if h.Auth == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.UserID == "" || req.Role == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "user_id and role required"})
		return
	}
	if !rbac.IsKnownRole(req.Role) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}
	if !rbac.IsExchangeable(req.Role) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "role cannot be requested with an api key"})
		return
	}
	tok, err := h.Auth.Exchange(h.now(), req.APIKey, req.UserID, req.Role)
	if err != nil {
		logger.FromGin(c).Warn("token exchange rejected", "user_id", req.UserID, "err", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, tok)
}

// --- Leads ---

type leadsRequest struct {
	Leads []leads.Lead `json:"leads"`
}

// ClassifyLeads previews classification for each lead.
func (h Handlers) ClassifyLeads(c *gin.Context) {
	in, ok := bindLeads(c)
	if !ok {
		return
	}
	b := h.Builder
	if b == nil {
		b = tasks.NewBuilder(nil, "")
	}
	out := make([]tasks.Preview, 0, len(in))
	for _, l := range in {
		out = append(out, b.Preview(l))
	}
	c.JSON(http.StatusOK, gin.H{"leads": out})
}

// RunBatch classifies and orchestrates leads in order, then records a batch audit event.
// RBAC: owner or coordinator.
func (h Handlers) RunBatch(c *gin.Context) {
	if h.Batch == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "batch runner not configured"})
		return
	}
	in, ok := bindLeads(c)
	if !ok {
		return
	}
	for i := range in {
		in[i] = in[i].Classify()
	}

	ctx := c.Request.Context()
	outcomes := h.Batch.Run(ctx, in)
	summary := reporting.Summarize(outcomes)

	if h.Audit != nil {
		actor, _ := auth.UserID(ctx)
		meta, _ := json.Marshal(summary)
		msg := fmt.Sprintf("batch of %d leads: %d tasks created, %d failed", summary.Total, summary.TasksCreated, summary.Failed+summary.Partial)
		if err := h.Audit.LogBatch(ctx, actor, msg, string(meta)); err != nil {
			logger.FromGin(c).Warn("batch audit failed", "err", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes, "summary": summary})
}

func bindLeads(c *gin.Context) ([]leads.Lead, bool) {
	var req leadsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return nil, false
	}
	if len(req.Leads) == 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "leads required"})
		return nil, false
	}
	if len(req.Leads) > MaxBatchLeads {
		c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": fmt.Sprintf("at most %d leads per request", MaxBatchLeads)})
		return nil, false
	}
	return req.Leads, true
}
