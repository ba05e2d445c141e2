package chatbotapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/Abraxas-365/hrportal/chatbot/chatbotsrv"
	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/pkg/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emptyFAQs struct{}

func (emptyFAQs) Create(context.Context, *chatbot.FAQ) error { return nil }
func (emptyFAQs) Nearest(context.Context, kernel.Embedding, int) ([]chatbot.FAQMatch, error) {
	return nil, nil
}
func (emptyFAQs) List(context.Context) ([]chatbot.FAQ, error) { return []chatbot.FAQ{}, nil }
func (emptyFAQs) Delete(_ context.Context, id kernel.FAQID) error {
	return chatbot.ErrFAQNotFound().WithDetail("faq_id", id.String())
}

func newApp(t *testing.T, burst int) (*fiber.App, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService("test-secret", "hrportal", time.Hour)
	svc := chatbotsrv.NewChatbotService(emptyFAQs{}, nil, nil, config.ChatbotConfig{
		FallbackMessage: "Ask HR.",
		Rules:           []config.ChatRule{{Keywords: []string{"vacation"}, Answer: "30 days."}},
	})
	limiter := ratelimit.NewLimiterManager(0.001, burst, time.Minute)
	t.Cleanup(limiter.Close)

	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler(nil)})
	RegisterRoutes(app, NewHandlers(svc), auth.NewUnifiedAuthMiddleware(tokens, nil), limiter.Middleware())
	return app, tokens
}

func do(t *testing.T, app *fiber.App, tokens *auth.TokenService, role kernel.Role, method, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		token, err := tokens.GenerateAccessToken(kernel.UserID("user-"+string(role)), role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestAsk(t *testing.T) {
	app, tokens := newApp(t, 5)

	assert.Equal(t, http.StatusUnauthorized, do(t, app, tokens, "", http.MethodPost, "/api/chatbot/ask", `{"question":"vacation?"}`).StatusCode)

	resp := do(t, app, tokens, auth.RoleEmployee, http.MethodPost, "/api/chatbot/ask", `{"question":"How much vacation?"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reply chatbot.Reply
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reply))
	assert.Equal(t, chatbot.SourceRule, reply.Source)
	assert.Equal(t, "30 days.", reply.Text)

	resp = do(t, app, tokens, auth.RoleEmployee, http.MethodPost, "/api/chatbot/ask", `{"question":"  "}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAskIsRateLimited(t *testing.T) {
	app, tokens := newApp(t, 1)

	first := do(t, app, tokens, auth.RoleCandidate, http.MethodPost, "/api/chatbot/ask", `{"question":"office?"}`)
	assert.Equal(t, http.StatusOK, first.StatusCode)
	second := do(t, app, tokens, auth.RoleCandidate, http.MethodPost, "/api/chatbot/ask", `{"question":"office?"}`)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}

func TestFAQRoutesRequireManageScope(t *testing.T) {
	app, tokens := newApp(t, 5)

	assert.Equal(t, http.StatusForbidden, do(t, app, tokens, auth.RoleEmployee, http.MethodGet, "/api/chatbot/faqs", "").StatusCode)
	assert.Equal(t, http.StatusOK, do(t, app, tokens, auth.RoleHR, http.MethodGet, "/api/chatbot/faqs", "").StatusCode)
	assert.Equal(t, http.StatusNotFound, do(t, app, tokens, auth.RoleHR, http.MethodDelete, "/api/chatbot/faqs/missing", "").StatusCode)

	// no embedder configured
	resp := do(t, app, tokens, auth.RoleHR, http.MethodPost, "/api/chatbot/faqs", `{"question":"q","answer":"a"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
