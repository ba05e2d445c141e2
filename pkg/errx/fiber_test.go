package errx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiberErrorHandler(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("MISSING", TypeNotFound, 404, "thing not found")

	var internal []error
	app := fiber.New(fiber.Config{ErrorHandler: FiberErrorHandler(func(_ *fiber.Ctx, err error) {
		internal = append(internal, err)
	})})
	app.Get("/domain", func(c *fiber.Ctx) error {
		return fmt.Errorf("lookup: %w", reg.New(code).WithDetail("id", "7"))
	})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("db down") })

	resp, err := app.Test(httptest.NewRequest("GET", "/domain", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	var body map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "TEST.MISSING", body["error"]["code"])
	assert.Empty(t, internal)

	resp, err = app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
	assert.Len(t, internal, 1)

	resp, err = app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
}
