package jobapi

import (
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/Abraxas-365/hrportal/recruitment/job/jobsrv"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for job operations
type Handlers struct {
	service *jobsrv.JobService
}

func NewHandlers(service *jobsrv.JobService) *Handlers {
	return &Handlers{service: service}
}

// CreateJob creates a new draft job posting
// POST /api/jobs
func (h *Handlers) CreateJob(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req job.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidJob().WithDetail("parse_error", err.Error())
	}

	newJob, err := h.service.CreateJob(c.Context(), authContext, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(newJob.ToResponse())
}

// GetJob retrieves a job by ID
// GET /api/jobs/:id
func (h *Handlers) GetJob(c *fiber.Ctx) error {
	j, err := h.service.GetJob(c.Context(), kernel.JobID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(j.ToResponse())
}

// ListJobs lists jobs, optionally filtered by status, department and title
// GET /api/jobs?status=&department=&q=
func (h *Handlers) ListJobs(c *fiber.Ctx) error {
	filter := job.ListJobsFilter{
		Status:     job.JobStatus(c.Query("status")),
		Department: c.Query("department"),
		Query:      c.Query("q"),
	}
	resp, err := h.service.ListJobs(c.Context(), filter, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListPublishedJobs lists jobs open for applications
// GET /api/jobs/published
func (h *Handlers) ListPublishedJobs(c *fiber.Ctx) error {
	resp, err := h.service.ListPublishedJobs(c.Context(), parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// UpdateJob applies a partial update
// PUT /api/jobs/:id
func (h *Handlers) UpdateJob(c *fiber.Ctx) error {
	var req job.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return job.ErrInvalidJob().WithDetail("parse_error", err.Error())
	}

	j, err := h.service.UpdateJob(c.Context(), kernel.JobID(c.Params("id")), req)
	if err != nil {
		return err
	}
	return c.JSON(j.ToResponse())
}

// PublishJob opens the job for applications
// POST /api/jobs/:id/publish
func (h *Handlers) PublishJob(c *fiber.Ctx) error {
	j, err := h.service.PublishJob(c.Context(), kernel.JobID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(j.ToResponse())
}

func (h *Handlers) CloseJob(c *fiber.Ctx) error {
	j, err := h.service.CloseJob(c.Context(), kernel.JobID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(j.ToResponse())
}

func (h *Handlers) ArchiveJob(c *fiber.Ctx) error {
	j, err := h.service.ArchiveJob(c.Context(), kernel.JobID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(j.ToResponse())
}

func (h *Handlers) UnarchiveJob(c *fiber.Ctx) error {
	j, err := h.service.UnarchiveJob(c.Context(), kernel.JobID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(j.ToResponse())
}

// DeleteJob deletes a job without applications
// DELETE /api/jobs/:id
func (h *Handlers) DeleteJob(c *fiber.Ctx) error {
	if err := h.service.DeleteJob(c.Context(), kernel.JobID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetJobStats returns application counters for a job
// GET /api/jobs/:id/stats
func (h *Handlers) GetJobStats(c *fiber.Ctx) error {
	stats, err := h.service.GetJobStats(c.Context(), kernel.JobID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(stats)
}

// ============================================================================
// Helper Functions
// ============================================================================

// parsePaginationOptions extracts pagination options from query parameters
func parsePaginationOptions(c *fiber.Ctx) kernel.PaginationOptions {
	return kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}.Normalize()
}

// RegisterRoutes registers all job routes
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/jobs", authMiddleware.Authenticate())

	api.Get("/", authMiddleware.RequireScope(auth.ScopeJobsRead), handlers.ListJobs)
	api.Get("/published", authMiddleware.RequireScope(auth.ScopeJobsRead), handlers.ListPublishedJobs)
	api.Get("/:id", authMiddleware.RequireScope(auth.ScopeJobsRead), handlers.GetJob)
	api.Get("/:id/stats", authMiddleware.RequireScope(auth.ScopeJobsRead), handlers.GetJobStats)

	api.Post("/", authMiddleware.RequireScope(auth.ScopeJobsWrite), handlers.CreateJob)
	api.Put("/:id", authMiddleware.RequireScope(auth.ScopeJobsWrite), handlers.UpdateJob)

	api.Post("/:id/publish", authMiddleware.RequireScope(auth.ScopeJobsPublish), handlers.PublishJob)
	api.Post("/:id/close", authMiddleware.RequireScope(auth.ScopeJobsPublish), handlers.CloseJob)
	api.Post("/:id/archive", authMiddleware.RequireScope(auth.ScopeJobsWrite), handlers.ArchiveJob)
	api.Post("/:id/unarchive", authMiddleware.RequireScope(auth.ScopeJobsWrite), handlers.UnarchiveJob)

	api.Delete("/:id", authMiddleware.RequireScope(auth.ScopeJobsDelete), handlers.DeleteJob)
}
