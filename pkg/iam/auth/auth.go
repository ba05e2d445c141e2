// Package auth resolves who is calling. Handlers receive an explicit
// AuthContext instead of reading session globals.
package auth

import (
	"net/http"
	"slices"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext identifies the caller of an operation.
type AuthContext struct {
	UserID kernel.UserID `json:"user_id"`
	Role   kernel.Role   `json:"role"`
}

func (a AuthContext) HasScope(scope string) bool { return HasScope(a.Role, scope) }

func (a AuthContext) HasRole(roles ...kernel.Role) bool {
	return slices.Contains(roles, a.Role)
}

// IsStaff reports whether the caller reviews applications.
func (a AuthContext) IsStaff() bool {
	return a.HasRole(RoleAdmin, RoleHR, RoleManager)
}

var ErrRegistry = errx.NewRegistry("AUTH")

var (
	CodeUnauthenticated = ErrRegistry.Register("UNAUTHENTICATED", errx.TypeAuthorization, http.StatusUnauthorized, "Authentication required")
	CodeInvalidToken    = ErrRegistry.Register("INVALID_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid or expired token")
	CodeInvalidAPIKey   = ErrRegistry.Register("INVALID_API_KEY", errx.TypeAuthorization, http.StatusUnauthorized, "Invalid API key")
	CodeForbidden       = ErrRegistry.Register("FORBIDDEN", errx.TypeAuthorization, http.StatusForbidden, "Insufficient permissions")
	CodeUnknownRole     = ErrRegistry.Register("UNKNOWN_ROLE", errx.TypeValidation, http.StatusBadRequest, "Unknown role")
	CodeTokenGeneration = ErrRegistry.Register("TOKEN_GENERATION", errx.TypeInternal, http.StatusInternalServerError, "Failed to generate token")
)

func ErrUnauthenticated() *errx.Error { return ErrRegistry.New(CodeUnauthenticated) }
func ErrInvalidToken() *errx.Error    { return ErrRegistry.New(CodeInvalidToken) }
func ErrInvalidAPIKey() *errx.Error   { return ErrRegistry.New(CodeInvalidAPIKey) }
func ErrForbidden() *errx.Error       { return ErrRegistry.New(CodeForbidden) }
func ErrUnknownRole() *errx.Error     { return ErrRegistry.New(CodeUnknownRole) }

// SetAuthContext stores ac on the request.
func SetAuthContext(c *fiber.Ctx, ac AuthContext) {
	c.Locals(authContextKey, ac)
	c.Locals("user_id", ac.UserID.String())
}

// GetAuthContext returns the caller stored by the middleware.
func GetAuthContext(c *fiber.Ctx) (AuthContext, bool) {
	ac, ok := c.Locals(authContextKey).(AuthContext)
	return ac, ok
}
