package onboarding

import (
	"net/http"

	"github.com/Abraxas-365/hrportal/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("ONBOARDING")

var (
	CodeTaskNotFound      = ErrRegistry.Register("TASK_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Onboarding task not found")
	CodeInvalidTaskStatus = ErrRegistry.Register("INVALID_TASK_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid onboarding task status")
	CodeInvalidRequest    = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")
)

func ErrTaskNotFound() *errx.Error      { return ErrRegistry.New(CodeTaskNotFound) }
func ErrInvalidTaskStatus() *errx.Error { return ErrRegistry.New(CodeInvalidTaskStatus) }
func ErrInvalidRequest() *errx.Error    { return ErrRegistry.New(CodeInvalidRequest) }
