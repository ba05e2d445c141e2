package auth

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasScope(t *testing.T) {
	assert.True(t, HasScope(RoleAdmin, ScopeReportsView))
	assert.True(t, HasScope(RoleHR, ScopeApplicationsReview)) // applications:*
	assert.False(t, HasScope(RoleCandidate, ScopeApplicationsRead))
	assert.True(t, HasScope(RoleCandidate, ScopeApplicationsApply))
	assert.False(t, HasScope("intern", ScopeJobsRead))
}

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("secret", "hrportal", time.Hour)

	token, err := svc.GenerateAccessToken("user-1", RoleHR)
	require.NoError(t, err)

	ac, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, AuthContext{UserID: "user-1", Role: RoleHR}, ac)
}

func TestTokenRejectsUnknownRoleAndExpiry(t *testing.T) {
	svc := NewTokenService("secret", "hrportal", time.Minute)

	_, err := svc.GenerateAccessToken("user-1", "intern")
	assert.True(t, errx.IsCode(err, CodeUnknownRole))

	token, err := svc.GenerateAccessToken("user-1", RoleEmployee)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.ValidateAccessToken(token)
	assert.True(t, errx.IsCode(err, CodeInvalidToken))

	other := NewTokenService("other-secret", "hrportal", time.Hour)
	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func newTestApp(m *UnifiedAuthMiddleware, scope string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*errx.Error); ok {
				return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Get("/x", m.Authenticate(), m.RequireScope(scope), func(c *fiber.Ctx) error {
		ac, _ := GetAuthContext(c)
		return c.SendString(string(ac.Role) + ":" + ac.UserID.String())
	})
	return app
}

func TestMiddlewareBearer(t *testing.T) {
	tokens := NewTokenService("secret", "hrportal", time.Hour)
	app := newTestApp(NewUnifiedAuthMiddleware(tokens, nil), ScopeApplicationsRead)

	req := httptest.NewRequest("GET", "/x", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)

	token, _ := tokens.GenerateAccessToken("hr-1", RoleHR)
	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	token, _ = tokens.GenerateAccessToken("cand-1", RoleCandidate)
	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 403, resp.StatusCode)
}

func TestMiddlewareAPIKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	m := NewUnifiedAuthMiddleware(NewTokenService("secret", "hrportal", time.Hour),
		map[string]string{"dashboard": string(hash)})
	app := newTestApp(m, ScopeApplicationsRead)

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-API-Key", "dashboard.s3cret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	req = httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-API-Key", "dashboard.wrong")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestAuthContextHelpers(t *testing.T) {
	ac := AuthContext{UserID: kernel.UserID("m-1"), Role: RoleManager}
	assert.True(t, ac.IsStaff())
	assert.False(t, AuthContext{Role: RoleEmployee}.IsStaff())
}
