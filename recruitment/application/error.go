package application

import (
	"net/http"

	"github.com/Abraxas-365/hrportal/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("APPLICATION")

// Error codes
var (
	CodeApplicationNotFound      = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Application not found")
	CodeApplicationAlreadyExists = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Candidate has already applied to this job")
	CodeInvalidStatus            = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid application status")
	CodeInvalidFilter            = ErrRegistry.Register("INVALID_FILTER", errx.TypeValidation, http.StatusBadRequest, "Invalid application filter")
	CodeEmptyNote                = ErrRegistry.Register("EMPTY_NOTE", errx.TypeValidation, http.StatusBadRequest, "Note body is required")
	CodeNotParsed                = ErrRegistry.Register("NOT_PARSED", errx.TypeBusiness, http.StatusConflict, "Resume has not been parsed")
	CodeNoApplicationIDs         = ErrRegistry.Register("NO_IDS", errx.TypeValidation, http.StatusBadRequest, "At least one application id is required")
	CodeResumeUnavailable        = ErrRegistry.Register("RESUME_UNAVAILABLE", errx.TypeNotFound, http.StatusNotFound, "Resume file is not available")
	CodeInvalidRequest           = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")
	CodeParseNotFailed           = ErrRegistry.Register("PARSE_NOT_FAILED", errx.TypeConflict, http.StatusConflict, "Only a failed parse can be requeued")
)

func ErrApplicationNotFound() *errx.Error      { return ErrRegistry.New(CodeApplicationNotFound) }
func ErrApplicationAlreadyExists() *errx.Error { return ErrRegistry.New(CodeApplicationAlreadyExists) }
func ErrInvalidStatus() *errx.Error            { return ErrRegistry.New(CodeInvalidStatus) }
func ErrInvalidFilter() *errx.Error            { return ErrRegistry.New(CodeInvalidFilter) }
func ErrEmptyNote() *errx.Error                { return ErrRegistry.New(CodeEmptyNote) }
func ErrNotParsed() *errx.Error                { return ErrRegistry.New(CodeNotParsed) }
func ErrNoApplicationIDs() *errx.Error         { return ErrRegistry.New(CodeNoApplicationIDs) }
func ErrResumeUnavailable() *errx.Error        { return ErrRegistry.New(CodeResumeUnavailable) }
func ErrInvalidRequest() *errx.Error           { return ErrRegistry.New(CodeInvalidRequest) }
func ErrParseNotFailed() *errx.Error           { return ErrRegistry.New(CodeParseNotFailed) }
