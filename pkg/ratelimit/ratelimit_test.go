package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowRespectsBurst(t *testing.T) {
	m := NewLimiterManager(0.0001, 2, 0)
	defer m.Close()

	assert.True(t, m.Allow("a"))
	assert.True(t, m.Allow("a"))
	assert.False(t, m.Allow("a"))
	assert.True(t, m.Allow("b"))
}

func TestEvictIdle(t *testing.T) {
	m := NewLimiterManager(1, 1, time.Minute)
	defer m.Close()

	m.Allow("a")
	require.Equal(t, 1, m.Size())
	m.evictIdle(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, m.Size())
}

func TestMiddlewareReturns429(t *testing.T) {
	m := NewLimiterManager(0.0001, 1, 0)
	defer m.Close()

	app := fiber.New()
	app.Get("/chat", m.Middleware(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, err := app.Test(httptest.NewRequest("GET", "/chat", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/chat", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
