package resume

import (
	"net/http"

	"github.com/Abraxas-365/hrportal/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("RESUME")

// Error codes - Parsing
var (
	CodeUnsupportedFileType = ErrRegistry.Register("UNSUPPORTED_FILE_TYPE", errx.TypeValidation, http.StatusBadRequest, "Unsupported resume file type")
	CodeFileTooLarge        = ErrRegistry.Register("FILE_TOO_LARGE", errx.TypeValidation, http.StatusBadRequest, "Resume file exceeds the maximum size")
	CodeFileReadFailed      = ErrRegistry.Register("FILE_READ_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to read resume file")
	CodeParseFailed         = ErrRegistry.Register("PARSE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Failed to parse resume")
	CodeParserRejected      = ErrRegistry.Register("PARSER_REJECTED", errx.TypeExternal, http.StatusBadGateway, "Resume parser rejected the document")
	CodeParserUnavailable   = ErrRegistry.Register("PARSER_UNAVAILABLE", errx.TypeExternal, http.StatusServiceUnavailable, "Resume parser is temporarily unavailable")
	CodeParserTimeout       = ErrRegistry.Register("PARSER_TIMEOUT", errx.TypeExternal, http.StatusGatewayTimeout, "Resume parser timed out")
	CodeInvalidRequest      = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")
)

// Error codes - Queue
var (
	CodeQueueEnqueueFailed = ErrRegistry.Register("QUEUE_ENQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to enqueue parse job")
	CodeQueueDequeueFailed = ErrRegistry.Register("QUEUE_DEQUEUE_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to dequeue parse job")
	CodeJobRetryFailed     = ErrRegistry.Register("JOB_RETRY_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Failed to schedule parse retry")
	CodeJobMaxRetries      = ErrRegistry.Register("JOB_MAX_RETRIES", errx.TypeInternal, http.StatusInternalServerError, "Parse job exceeded maximum retry attempts")
)

func ErrUnsupportedFileType() *errx.Error { return ErrRegistry.New(CodeUnsupportedFileType) }
func ErrFileTooLarge() *errx.Error        { return ErrRegistry.New(CodeFileTooLarge) }
func ErrFileReadFailed() *errx.Error      { return ErrRegistry.New(CodeFileReadFailed) }
func ErrParseFailed() *errx.Error         { return ErrRegistry.New(CodeParseFailed) }
func ErrParserRejected() *errx.Error      { return ErrRegistry.New(CodeParserRejected) }
func ErrParserUnavailable() *errx.Error   { return ErrRegistry.New(CodeParserUnavailable) }
func ErrParserTimeout() *errx.Error       { return ErrRegistry.New(CodeParserTimeout) }
func ErrQueueEnqueueFailed() *errx.Error  { return ErrRegistry.New(CodeQueueEnqueueFailed) }
func ErrQueueDequeueFailed() *errx.Error  { return ErrRegistry.New(CodeQueueDequeueFailed) }
func ErrJobRetryFailed() *errx.Error      { return ErrRegistry.New(CodeJobRetryFailed) }
func ErrJobMaxRetries() *errx.Error       { return ErrRegistry.New(CodeJobMaxRetries) }
func ErrInvalidRequest() *errx.Error      { return ErrRegistry.New(CodeInvalidRequest) }
