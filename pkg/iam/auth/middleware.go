package auth

import (
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const apiKeyHeader = "X-API-Key"

// UnifiedAuthMiddleware accepts either a bearer JWT or an API key of the form
// "<client>.<secret>" whose bcrypt hash is configured per client.
type UnifiedAuthMiddleware struct {
	tokens       *TokenService
	apiKeyHashes map[string]string
}

func NewUnifiedAuthMiddleware(tokens *TokenService, apiKeyHashes map[string]string) *UnifiedAuthMiddleware {
	return &UnifiedAuthMiddleware{tokens: tokens, apiKeyHashes: apiKeyHashes}
}

// Authenticate resolves the caller and stores its AuthContext.
func (m *UnifiedAuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if key := c.Get(apiKeyHeader); key != "" {
			ac, err := m.authenticateAPIKey(key)
			if err != nil {
				return err
			}
			SetAuthContext(c, ac)
			return c.Next()
		}

		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return ErrUnauthenticated()
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return ErrInvalidToken().WithDetail("reason", "expected Bearer token")
		}

		ac, err := m.tokens.ValidateAccessToken(token)
		if err != nil {
			return err
		}
		SetAuthContext(c, ac)
		return c.Next()
	}
}

func (m *UnifiedAuthMiddleware) authenticateAPIKey(key string) (AuthContext, error) {
	client, secret, ok := strings.Cut(key, ".")
	if !ok || client == "" || secret == "" {
		return AuthContext{}, ErrInvalidAPIKey()
	}
	hash, found := m.apiKeyHashes[client]
	if !found {
		return AuthContext{}, ErrInvalidAPIKey()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)); err != nil {
		return AuthContext{}, ErrInvalidAPIKey()
	}
	return AuthContext{UserID: kernel.UserID("apikey:" + client), Role: RoleService}, nil
}

// RequireScope rejects callers whose role lacks scope.
func (m *UnifiedAuthMiddleware) RequireScope(scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := GetAuthContext(c)
		if !ok {
			return ErrUnauthenticated()
		}
		if !ac.HasScope(scope) {
			return ErrForbidden().WithDetail("required_scope", scope).WithDetail("role", ac.Role)
		}
		return c.Next()
	}
}

// RequireRole rejects callers outside roles.
func (m *UnifiedAuthMiddleware) RequireRole(roles ...kernel.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := GetAuthContext(c)
		if !ok {
			return ErrUnauthenticated()
		}
		if !ac.HasRole(roles...) {
			return ErrForbidden().WithDetail("role", ac.Role)
		}
		return c.Next()
	}
}

// HashAPIKeySecret produces the bcrypt hash stored in configuration.
func HashAPIKeySecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
