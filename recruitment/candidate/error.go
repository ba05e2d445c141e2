package candidate

import (
	"net/http"

	"github.com/Abraxas-365/hrportal/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CANDIDATE")

// Error codes
var (
	CodeCandidateNotFound        = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidate not found")
	CodeEmailAlreadyExists       = ErrRegistry.Register("EMAIL_ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Email already registered")
	CodeCandidateArchived        = ErrRegistry.Register("ARCHIVED", errx.TypeBusiness, http.StatusForbidden, "Candidate is archived")
	CodeCandidateNotArchived     = ErrRegistry.Register("NOT_ARCHIVED", errx.TypeBusiness, http.StatusBadRequest, "Candidate is not archived")
	CodeCandidateAlreadyArchived = ErrRegistry.Register("ALREADY_ARCHIVED", errx.TypeBusiness, http.StatusConflict, "Candidate is already archived")
	CodeInvalidEmail             = ErrRegistry.Register("INVALID_EMAIL", errx.TypeValidation, http.StatusBadRequest, "Invalid email format")
)

func ErrCandidateNotFound() *errx.Error        { return ErrRegistry.New(CodeCandidateNotFound) }
func ErrEmailAlreadyExists() *errx.Error       { return ErrRegistry.New(CodeEmailAlreadyExists) }
func ErrCandidateArchived() *errx.Error        { return ErrRegistry.New(CodeCandidateArchived) }
func ErrCandidateNotArchived() *errx.Error     { return ErrRegistry.New(CodeCandidateNotArchived) }
func ErrCandidateAlreadyArchived() *errx.Error { return ErrRegistry.New(CodeCandidateAlreadyArchived) }
func ErrInvalidEmail() *errx.Error             { return ErrRegistry.New(CodeInvalidEmail) }
