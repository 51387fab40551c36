package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"practice-automation/internal/audit"
	"practice-automation/internal/auth"
	"practice-automation/internal/crm"
	"practice-automation/internal/httpapi"
	"practice-automation/internal/orchestrator"
	"practice-automation/internal/rbac"
	"practice-automation/internal/tasks"
)

type routeDeps struct {
	Auth      *auth.Manager
	Processor orchestrator.Processor
	Batch     httpapi.BatchRunner
	Builder   *tasks.Builder
	Audit     *audit.Service
	Locker    crm.Locker
	CRMSecret string
}

// registerRoutes wires HTTP routes to handlers. No business logic here.
func registerRoutes(r *gin.Engine, d routeDeps) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	hook := crm.WebhookHandler{Secret: d.CRMSecret, Processor: d.Processor, Locker: d.Locker}
	r.POST("/webhooks/crm/contact", hook.HandleContact)

	h := httpapi.Handlers{Auth: d.Auth, Batch: d.Batch, Builder: d.Builder, Audit: d.Audit}

	v1 := r.Group("/v1")
	v1.POST("/auth/token", h.IssueToken)

	api := v1.Group("")
	api.Use(auth.RequireAccessToken(d.Auth))
	{
		api.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(http.StatusOK, gin.H{"user_id": uid, "role": role})
		})

		leadsGroup := api.Group("/leads")
		leadsGroup.POST("/classify", h.ClassifyLeads)
		leadsGroup.POST("/batch", rbac.RequireAnyRole(rbac.RoleOwner, rbac.RoleCoordinator), h.RunBatch)
	}
}
