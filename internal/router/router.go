package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/comptrack/backend/api/handler"
)

type Handlers struct {
	Auth         *apiHandler.AuthHandler
	Milestone    *apiHandler.MilestoneHandler
	Compliance   *apiHandler.ComplianceHandler
	Notification *apiHandler.NotificationHandler
	Health       *apiHandler.HealthHandler
}

// New wires the route table. Read-only dashboard views stay open; every
// mutating route goes through the auth middleware.
func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/v1/auth/login", handlers.Auth.Login)

	// Dashboard views
	r.GET("/api/v1/milestones", handlers.Milestone.List)
	r.GET("/api/v1/compliance", handlers.Compliance.Report)

	// Admin-gated mutations
	r.POST("/api/v1/milestones", authMiddleware(handlers.Milestone.Create))
	r.PUT("/api/v1/milestones/{id}/status", authMiddleware(handlers.Milestone.UpdateStatus))
	r.POST("/api/v1/milestones/import", authMiddleware(handlers.Milestone.Import))
	r.POST("/api/v1/notifications/escalate", authMiddleware(handlers.Notification.Escalate))
	r.POST("/api/v1/notifications/remind", authMiddleware(handlers.Notification.Remind))
	r.PUT("/api/v1/session/phone", authMiddleware(handlers.Auth.SetPhone))

	return r
}
