package chatbotapi

import (
	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/Abraxas-365/hrportal/chatbot/chatbotsrv"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	service *chatbotsrv.ChatbotService
}

func NewHandlers(service *chatbotsrv.ChatbotService) *Handlers {
	return &Handlers{service: service}
}

// Ask POST /api/chatbot/ask
func (h *Handlers) Ask(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req chatbot.AskRequest
	if err := c.BodyParser(&req); err != nil {
		return chatbot.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	reply, err := h.service.Answer(c.Context(), authContext, req.Question)
	if err != nil {
		return err
	}
	return c.JSON(reply)
}

// ListFAQs GET /api/chatbot/faqs
func (h *Handlers) ListFAQs(c *fiber.Ctx) error {
	faqs, err := h.service.ListFAQs(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"faqs": faqs})
}

// AddFAQ POST /api/chatbot/faqs
func (h *Handlers) AddFAQ(c *fiber.Ctx) error {
	authContext, ok := auth.GetAuthContext(c)
	if !ok {
		return auth.ErrUnauthenticated()
	}

	var req chatbot.AddFAQRequest
	if err := c.BodyParser(&req); err != nil {
		return chatbot.ErrInvalidRequest().WithDetail("parse_error", err.Error())
	}

	faq, err := h.service.AddFAQ(c.Context(), authContext, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(faq)
}

// DeleteFAQ DELETE /api/chatbot/faqs/:id
func (h *Handlers) DeleteFAQ(c *fiber.Ctx) error {
	if err := h.service.DeleteFAQ(c.Context(), kernel.FAQID(c.Params("id"))); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterRoutes mounts the chatbot. askLimiter throttles questions per client.
func RegisterRoutes(app *fiber.App, handlers *Handlers, authMiddleware *auth.UnifiedAuthMiddleware, askLimiter fiber.Handler) {
	api := app.Group("/api/chatbot", authMiddleware.Authenticate())

	api.Post("/ask", authMiddleware.RequireScope(auth.ScopeChatbotAsk), askLimiter, handlers.Ask)

	faqs := api.Group("/faqs", authMiddleware.RequireScope(auth.ScopeChatbotManage))
	faqs.Get("/", handlers.ListFAQs)
	faqs.Post("/", handlers.AddFAQ)
	faqs.Delete("/:id", handlers.DeleteFAQ)
}
