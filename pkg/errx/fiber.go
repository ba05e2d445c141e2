package errx

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler renders *Error values with their registered status and
// anything else as an opaque 500. onInternal, when set, sees the raw error.
func FiberErrorHandler(onInternal func(c *fiber.Ctx, err error)) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"error": fiber.Map{
					"code":    "HTTP_" + strconv.Itoa(fe.Code),
					"type":    string(typeForStatus(fe.Code)),
					"message": fe.Message,
				},
			})
		}

		var e *Error
		if errors.As(err, &e) {
			if e.HTTPStatus >= http.StatusInternalServerError && onInternal != nil {
				onInternal(c, err)
			}
			return c.Status(e.HTTPStatus).JSON(e.ToHTTPResponse())
		}

		if onInternal != nil {
			onInternal(c, err)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": fiber.Map{
				"code":    "INTERNAL_ERROR",
				"type":    string(TypeInternal),
				"message": "An unexpected error occurred",
			},
		})
	}
}

func typeForStatus(status int) Type {
	switch {
	case status == http.StatusNotFound:
		return TypeNotFound
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return TypeAuthorization
	case status == http.StatusConflict:
		return TypeConflict
	case status >= 400 && status < 500:
		return TypeValidation
	default:
		return TypeInternal
	}
}
