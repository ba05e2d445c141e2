package job

import (
	"net/http"

	"github.com/Abraxas-365/hrportal/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("JOB")

// Error codes
var (
	CodeJobNotFound         = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeJobAlreadyExists    = ErrRegistry.Register("ALREADY_EXISTS", errx.TypeConflict, http.StatusConflict, "Job already exists")
	CodeInvalidJob          = ErrRegistry.Register("INVALID", errx.TypeValidation, http.StatusBadRequest, "Invalid job data")
	CodeJobArchived         = ErrRegistry.Register("ARCHIVED", errx.TypeBusiness, http.StatusForbidden, "Job is archived")
	CodeJobNotArchived      = ErrRegistry.Register("NOT_ARCHIVED", errx.TypeBusiness, http.StatusBadRequest, "Job is not archived")
	CodeJobAlreadyArchived  = ErrRegistry.Register("ALREADY_ARCHIVED", errx.TypeBusiness, http.StatusConflict, "Job is already archived")
	CodeJobHasApplications  = ErrRegistry.Register("HAS_APPLICATIONS", errx.TypeBusiness, http.StatusConflict, "Cannot delete job with applications")
	CodeCannotPublish       = ErrRegistry.Register("CANNOT_PUBLISH", errx.TypeBusiness, http.StatusBadRequest, "Job cannot be published in current state")
	CodeCannotClose         = ErrRegistry.Register("CANNOT_CLOSE", errx.TypeBusiness, http.StatusBadRequest, "Only published jobs can be closed")
	CodeNotAcceptingApplies = ErrRegistry.Register("NOT_ACCEPTING_APPLICATIONS", errx.TypeBusiness, http.StatusConflict, "Job is not accepting applications")
)

func ErrJobNotFound() *errx.Error         { return ErrRegistry.New(CodeJobNotFound) }
func ErrJobAlreadyExists() *errx.Error    { return ErrRegistry.New(CodeJobAlreadyExists) }
func ErrInvalidJob() *errx.Error          { return ErrRegistry.New(CodeInvalidJob) }
func ErrJobArchived() *errx.Error         { return ErrRegistry.New(CodeJobArchived) }
func ErrJobNotArchived() *errx.Error      { return ErrRegistry.New(CodeJobNotArchived) }
func ErrJobAlreadyArchived() *errx.Error  { return ErrRegistry.New(CodeJobAlreadyArchived) }
func ErrJobHasApplications() *errx.Error  { return ErrRegistry.New(CodeJobHasApplications) }
func ErrCannotPublish() *errx.Error       { return ErrRegistry.New(CodeCannotPublish) }
func ErrCannotClose() *errx.Error         { return ErrRegistry.New(CodeCannotClose) }
func ErrNotAcceptingApplies() *errx.Error { return ErrRegistry.New(CodeNotAcceptingApplies) }
