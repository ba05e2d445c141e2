package candidateapi

import (
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/candidate/candidatesrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for candidate operations
type Handlers struct {
	service *candidatesrv.CandidateService
}

func NewHandlers(service *candidatesrv.CandidateService) *Handlers {
	return &Handlers{service: service}
}

// ListCandidates searches candidates by name or email
// GET /api/candidates?q=
func (h *Handlers) ListCandidates(c *fiber.Ctx) error {
	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}
	resp, err := h.service.ListCandidates(c.Context(), c.Query("q"), pagination)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetCandidate returns a candidate with their application history
// GET /api/candidates/:id
func (h *Handlers) GetCandidate(c *fiber.Ctx) error {
	resp, err := h.service.GetCandidateWithApplications(c.Context(), kernel.CandidateID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListApplications returns only the application history
// GET /api/candidates/:id/applications
func (h *Handlers) ListApplications(c *fiber.Ctx) error {
	id := kernel.CandidateID(c.Params("id"))
	if _, err := h.service.GetCandidate(c.Context(), id); err != nil {
		return err
	}
	apps, err := h.service.ListApplicationsOfCandidate(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"candidate_id": id, "applications": apps})
}

// ArchiveCandidate hides a candidate from future applications
// POST /api/candidates/:id/archive
func (h *Handlers) ArchiveCandidate(c *fiber.Ctx) error {
	cand, err := h.service.ArchiveCandidate(c.Context(), kernel.CandidateID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(cand)
}

// RegisterRoutes registers all candidate routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/candidates", authMiddleware.Authenticate())

	api.Get("/", authMiddleware.RequireScope(auth.ScopeCandidatesRead), handlers.ListCandidates)
	api.Get("/:id", authMiddleware.RequireScope(auth.ScopeCandidatesRead), handlers.GetCandidate)
	api.Get("/:id/applications", authMiddleware.RequireScope(auth.ScopeCandidatesRead), handlers.ListApplications)
	api.Post("/:id/archive", authMiddleware.RequireScope(auth.ScopeCandidatesAll), handlers.ArchiveCandidate)
}
