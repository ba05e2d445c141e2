package resumeapi

import (
	"io"
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/job/jobsrv"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/Abraxas-365/hrportal/recruitment/resume/resumesrv"
	"github.com/gofiber/fiber/v2"
)

type ResumeHandlers struct {
	service        *resumesrv.Service
	jobs           *jobsrv.JobService
	maxUploadBytes int64
}

func NewResumeHandlers(service *resumesrv.Service, jobs *jobsrv.JobService, maxUploadBytes int64) *ResumeHandlers {
	return &ResumeHandlers{
		service:        service,
		jobs:           jobs,
		maxUploadBytes: maxUploadBytes,
	}
}

func (h *ResumeHandlers) RegisterRoutes(app *fiber.App, authMiddleware *auth.UnifiedAuthMiddleware) {
	resumes := app.Group("/api/resumes", authMiddleware.Authenticate(), authMiddleware.RequireScope(auth.ScopeApplicationsRead))

	resumes.Post("/preview", h.Preview)    // parse now, score, store nothing
	resumes.Get("/queue", h.GetQueueStats) // parse queue sizes
}

// Preview parses an uploaded resume synchronously and scores it against a job
// or an ad-hoc skill list.
// POST /api/resumes/preview (multipart: file, job_id | required_skills)
func (h *ResumeHandlers) Preview(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return resume.ErrInvalidRequest().WithDetail("file_error", err.Error())
	}
	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return resume.ErrFileTooLarge().
			WithDetail("size_bytes", file.Size).
			WithDetail("max_bytes", h.maxUploadBytes)
	}

	requiredSkills := c.FormValue("required_skills")
	if jobID := strings.TrimSpace(c.FormValue("job_id")); jobID != "" {
		j, err := h.jobs.GetJob(c.Context(), kernel.JobID(jobID))
		if err != nil {
			return err
		}
		requiredSkills = j.RequiredSkills
	}

	uploaded, err := file.Open()
	if err != nil {
		return resume.ErrInvalidRequest().WithDetail("file_open_error", err.Error())
	}
	defer uploaded.Close()

	data, err := io.ReadAll(uploaded)
	if err != nil {
		return resume.ErrInvalidRequest().WithDetail("file_read_error", err.Error())
	}

	preview, err := h.service.Preview(c.Context(), resume.Document{
		Data:        data,
		FileName:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	}, h.maxUploadBytes, requiredSkills)
	if err != nil {
		return err
	}
	return c.JSON(preview)
}

// GetQueueStats GET /api/resumes/queue
func (h *ResumeHandlers) GetQueueStats(c *fiber.Ctx) error {
	stats, err := h.service.QueueStats(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
