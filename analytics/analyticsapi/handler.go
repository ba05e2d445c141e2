package analyticsapi

import (
	"github.com/Abraxas-365/hrportal/analytics/analyticssrv"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *analyticssrv.AnalyticsService
}

func NewHandlers(service *analyticssrv.AnalyticsService) *Handlers {
	return &Handlers{service: service}
}

// Overview GET /api/analytics/overview
func (h *Handlers) Overview(c *fiber.Ctx) error {
	overview, err := h.service.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(overview)
}

// SkillGapReport GET /api/analytics/jobs/:id/skill-gap
func (h *Handlers) SkillGapReport(c *fiber.Ctx) error {
	report, err := h.service.SkillGapReport(c.Context(), kernel.JobID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/analytics", authMiddleware.Authenticate(), authMiddleware.RequireScope(auth.ScopeReportsView))

	api.Get("/overview", handlers.Overview)
	api.Get("/jobs/:id/skill-gap", handlers.SkillGapReport)
}
