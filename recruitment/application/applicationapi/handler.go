package applicationapi

import (
	"io"
	"strconv"
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/application"
	"github.com/Abraxas-365/hrportal/recruitment/application/applicationsrv"
	"github.com/Abraxas-365/hrportal/recruitment/candidate"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/gofiber/fiber/v2"
)

// Handlers provides HTTP handlers for application operations
type Handlers struct {
	service *applicationsrv.ApplicationService
}

func NewHandlers(service *applicationsrv.ApplicationService) *Handlers {
	return &Handlers{service: service}
}

// Apply receives the public apply form with the resume upload
// POST /api/public/jobs/:jobId/apply (multipart: email, first_name, last_name, phone, file)
func (h *Handlers) Apply(c *fiber.Ctx) error {
	// Applicants are anonymous unless they carry a candidate token.
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		authContext = auth.AuthContext{Role: auth.RoleCandidate}
	}

	var info candidate.ApplicantInfo
	if err := c.BodyParser(&info); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	file, err := c.FormFile("file")
	if err != nil {
		return application.ErrInvalidRequest().WithDetail("file_error", err.Error())
	}
	fileContent, err := file.Open()
	if err != nil {
		return application.ErrInvalidRequest().WithDetail("file_open_error", err.Error())
	}
	defer fileContent.Close()

	data, err := io.ReadAll(fileContent)
	if err != nil {
		return application.ErrInvalidRequest().WithDetail("file_read_error", err.Error())
	}

	app, err := h.service.Apply(c.Context(), authContext, application.ApplyRequest{
		JobID:     kernel.JobID(c.Params("jobId")),
		Applicant: info,
		Resume: resume.Document{
			Data:        data,
			FileName:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
		},
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(app.ToApplyResponse())
}

// ListApplications lists applications for HR review
// GET /api/applications?job_id=&candidate_id=&status=&min_match=&max_match=&q=&sort=
func (h *Handlers) ListApplications(c *fiber.Ctx) error {
	filter := application.ListFilter{
		JobID:       kernel.JobID(c.Query("job_id")),
		CandidateID: kernel.CandidateID(c.Query("candidate_id")),
		Status:      application.ApplicationStatus(c.Query("status")),
		Search:      c.Query("q"),
		Sort:        application.SortOrder(c.Query("sort")),
	}
	var err error
	if filter.MinMatch, err = queryFloat(c, "min_match"); err != nil {
		return err
	}
	if filter.MaxMatch, err = queryFloat(c, "max_match"); err != nil {
		return err
	}

	resp, err := h.service.ListApplications(c.Context(), filter, parsePaginationOptions(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetApplication retrieves an application with its parsed resume
// GET /api/applications/:id
func (h *Handlers) GetApplication(c *fiber.Ctx) error {
	app, err := h.service.GetApplication(c.Context(), kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(app)
}

// GetSkillGap compares the resume with the job requirements
// GET /api/applications/:id/skill-gap
func (h *Handlers) GetSkillGap(c *fiber.Ctx) error {
	gap, err := h.service.GetSkillGap(c.Context(), kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(gap)
}

// UpdateStatus moves an application to another status
// PUT /api/applications/:id/status
func (h *Handlers) UpdateStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req application.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	app, err := h.service.UpdateStatus(c.Context(), authContext, kernel.ApplicationID(c.Params("id")), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(app)
}

// BulkUpdateStatus moves several applications at once
// POST /api/applications/bulk/status
func (h *Handlers) BulkUpdateStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req application.BulkUpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	resp, err := h.service.BulkUpdateStatus(c.Context(), authContext, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AddNote attaches an HR note
// POST /api/applications/:id/notes
func (h *Handlers) AddNote(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req application.AddNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return application.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	note, err := h.service.AddNote(c.Context(), authContext, kernel.ApplicationID(c.Params("id")), req.Body)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// Rescore recomputes the persisted match percentage
// POST /api/applications/:id/rescore
func (h *Handlers) Rescore(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	result, err := h.service.Rescore(c.Context(), authContext, kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(result)
}

// RequeueParse queues a failed resume for another parse
// POST /api/applications/:id/reparse
func (h *Handlers) RequeueParse(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	app, err := h.service.RequeueParse(c.Context(), authContext, kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(app)
}

// DownloadResume streams the original upload
// GET /api/applications/:id/resume
func (h *Handlers) DownloadResume(c *fiber.Ctx) error {
	stream, filename, err := h.service.DownloadResume(c.Context(), kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	c.Attachment(filename)
	return c.SendStream(stream)
}

// DeleteApplication removes an application and its resume
// DELETE /api/applications/:id
func (h *Handlers) DeleteApplication(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	if err := h.service.Delete(c.Context(), authContext, kernel.ApplicationID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
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

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, application.ErrInvalidFilter().WithDetail(key, raw)
	}
	return &v, nil
}

// RegisterRoutes registers the public apply route and the HR review routes.
// applyLimiter guards the unauthenticated upload endpoint.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware, applyLimiter fiber.Handler) {
	app.Post("/api/public/jobs/:jobId/apply", applyLimiter, handlers.Apply)

	api := app.Group("/api/applications", authMiddleware.Authenticate())

	api.Get("/", authMiddleware.RequireScope(auth.ScopeApplicationsRead), handlers.ListApplications)
	api.Get("/:id", authMiddleware.RequireScope(auth.ScopeApplicationsRead), handlers.GetApplication)
	api.Get("/:id/skill-gap", authMiddleware.RequireScope(auth.ScopeApplicationsRead), handlers.GetSkillGap)
	api.Get("/:id/resume", authMiddleware.RequireScope(auth.ScopeApplicationsRead), handlers.DownloadResume)

	api.Post("/bulk/status", authMiddleware.RequireScope(auth.ScopeApplicationsReview), handlers.BulkUpdateStatus)
	api.Put("/:id/status", authMiddleware.RequireScope(auth.ScopeApplicationsReview), handlers.UpdateStatus)
	api.Post("/:id/notes", authMiddleware.RequireScope(auth.ScopeApplicationsReview), handlers.AddNote)
	api.Post("/:id/rescore", authMiddleware.RequireScope(auth.ScopeApplicationsReview), handlers.Rescore)
	api.Post("/:id/reparse", authMiddleware.RequireScope(auth.ScopeApplicationsReview), handlers.RequeueParse)

	api.Delete("/:id", authMiddleware.RequireScope(auth.ScopeApplicationsDelete), handlers.DeleteApplication)
}
