package errx

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryNew(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("MISSING", TypeNotFound, http.StatusNotFound, "thing not found")

	err := reg.New(code).WithDetail("id", "42")

	assert.Equal(t, "TEST.MISSING", err.Code)
	assert.Equal(t, TypeNotFound, err.Type)
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus)
	assert.Equal(t, "42", err.Details["id"])
	assert.True(t, IsCode(err, code))
	assert.True(t, IsType(err, TypeNotFound))
}

func TestRegistryUnknownCode(t *testing.T) {
	err := NewRegistry("TEST").New("TEST.NOPE")
	assert.Equal(t, TypeInternal, err.Type)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPStatus)
}

func TestWrapKeepsDomainClassification(t *testing.T) {
	reg := NewRegistry("TEST")
	code := reg.Register("CONFLICT", TypeConflict, http.StatusConflict, "duplicate")

	wrapped := Wrap(fmt.Errorf("repo: %w", reg.New(code)), "failed to save", TypeInternal)

	require.NotNil(t, wrapped)
	assert.Equal(t, code, wrapped.Code)
	assert.Equal(t, http.StatusConflict, wrapped.HTTPStatus)
}

func TestWrapPlainError(t *testing.T) {
	cause := errors.New("connection refused")
	wrapped := Wrap(cause, "failed to query", TypeInternal)

	assert.Equal(t, TypeInternal, wrapped.Type)
	assert.ErrorIs(t, wrapped, cause)
	assert.Nil(t, Wrap(nil, "noop", TypeInternal))
}

func TestToHTTPResponse(t *testing.T) {
	body := New("bad input", TypeValidation).WithDetail("field", "page").ToHTTPResponse()
	inner := body["error"].(map[string]any)
	assert.Equal(t, "bad input", inner["message"])
	assert.Equal(t, map[string]any{"field": "page"}, inner["details"])
}
