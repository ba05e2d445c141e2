package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error independently of the context that raised it.
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeExternal      Type = "EXTERNAL"
	TypeInternal      Type = "INTERNAL"
)

// defaultStatus maps a type to the HTTP status used when none was registered.
func (t Type) defaultStatus() int {
	switch t {
	case TypeValidation:
		return http.StatusBadRequest
	case TypeNotFound:
		return http.StatusNotFound
	case TypeConflict:
		return http.StatusConflict
	case TypeBusiness:
		return http.StatusUnprocessableEntity
	case TypeAuthorization:
		return http.StatusForbidden
	case TypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is the error value returned across service boundaries.
type Error struct {
	Code       string         `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// WithDetail returns the same error with an extra detail attached.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *Error) WithDetails(details map[string]any) *Error {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// WithCause attaches the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// ToHTTPResponse renders the error body sent to API clients.
func (e *Error) ToHTTPResponse() map[string]any {
	body := map[string]any{
		"error": map[string]any{
			"code":    e.Code,
			"type":    e.Type,
			"message": e.Message,
		},
	}
	if len(e.Details) > 0 {
		body["error"].(map[string]any)["details"] = e.Details
	}
	return body
}

// New builds an unregistered error. Prefer a Registry for domain errors.
func New(message string, t Type) *Error {
	return &Error{
		Code:       string(t),
		Type:       t,
		Message:    message,
		HTTPStatus: t.defaultStatus(),
	}
}

// Wrap decorates err with a message and type. An *Error passed in keeps its
// code and status so the original classification reaches the client.
func Wrap(err error, message string, t Type) *Error {
	if err == nil {
		return nil
	}
	var inner *Error
	if errors.As(err, &inner) {
		return &Error{
			Code:       inner.Code,
			Type:       inner.Type,
			Message:    message + ": " + inner.Message,
			HTTPStatus: inner.HTTPStatus,
			Details:    inner.Details,
			Cause:      err,
		}
	}
	e := New(message, t)
	e.Cause = err
	return e
}

// IsCode reports whether err is an *Error carrying code.
func IsCode(err error, code string) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsType reports whether err is an *Error of type t.
func IsType(err error, t Type) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

type definition struct {
	typ     Type
	status  int
	message string
}

// Registry holds the error codes of one bounded context, all prefixed the same way.
type Registry struct {
	prefix string
	mu     sync.RWMutex
	defs   map[string]definition
}

func NewRegistry(prefix string) *Registry {
	return &Registry{prefix: prefix, defs: make(map[string]definition)}
}

// Register declares a code and returns its fully qualified form.
func (r *Registry) Register(code string, t Type, httpStatus int, message string) string {
	full := r.prefix + "." + code
	r.mu.Lock()
	r.defs[full] = definition{typ: t, status: httpStatus, message: message}
	r.mu.Unlock()
	return full
}

// New instantiates a registered code. Unknown codes become internal errors.
func (r *Registry) New(code string) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Code:       code,
		Type:       def.typ,
		Message:    def.message,
		HTTPStatus: def.status,
	}
}

func (r *Registry) NewWithCause(code string, err error) *Error {
	return r.New(code).WithCause(err)
}
