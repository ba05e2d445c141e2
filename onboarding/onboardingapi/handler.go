package onboardingapi

import (
	"github.com/Abraxas-365/hrportal/onboarding"
	"github.com/Abraxas-365/hrportal/onboarding/onboardingsrv"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *onboardingsrv.OnboardingService
}

func NewHandlers(service *onboardingsrv.OnboardingService) *Handlers {
	return &Handlers{service: service}
}

// ListTasks lists onboarding tasks across hires
// GET /api/onboarding/tasks?status=&overdue=true
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	filter := onboarding.ListTasksFilter{
		Status:      onboarding.TaskStatus(c.Query("status")),
		OverdueOnly: c.QueryBool("overdue", false),
	}
	pagination := kernel.PaginationOptions{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", kernel.DefaultPageSize),
	}.Normalize()

	resp, err := h.service.ListAllTasks(c.Context(), filter, pagination)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// ListApplicationTasks returns the checklist of one hire
// GET /api/onboarding/applications/:id/tasks
func (h *Handlers) ListApplicationTasks(c *fiber.Ctx) error {
	tasks, err := h.service.ListTasks(c.Context(), kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"tasks": tasks})
}

// GetProgress GET /api/onboarding/applications/:id/progress
func (h *Handlers) GetProgress(c *fiber.Ctx) error {
	p, err := h.service.Progress(c.Context(), kernel.ApplicationID(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(p)
}

type updateTaskStatusRequest struct {
	Status onboarding.TaskStatus `json:"status"`
}

// UpdateTaskStatus PUT /api/onboarding/tasks/:id/status
func (h *Handlers) UpdateTaskStatus(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req updateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return onboarding.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	task, err := h.service.UpdateTaskStatus(c.Context(), authContext, kernel.TaskID(c.Params("id")), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(task)
}

func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware) {
	api := app.Group("/api/onboarding", authMiddleware.Authenticate())

	api.Get("/tasks", authMiddleware.RequireScope(auth.ScopeOnboardingRead), handlers.ListTasks)
	api.Put("/tasks/:id/status", authMiddleware.RequireScope(auth.ScopeOnboardingWrite), handlers.UpdateTaskStatus)
	api.Get("/applications/:id/tasks", authMiddleware.RequireScope(auth.ScopeOnboardingRead), handlers.ListApplicationTasks)
	api.Get("/applications/:id/progress", authMiddleware.RequireScope(auth.ScopeOnboardingRead), handlers.GetProgress)
}
