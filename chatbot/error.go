package chatbot

import (
	"net/http"

	"github.com/Abraxas-365/hrportal/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CHATBOT")

var (
	CodeEmptyQuestion    = ErrRegistry.Register("EMPTY_QUESTION", errx.TypeValidation, http.StatusBadRequest, "Question is required")
	CodeQuestionTooLong  = ErrRegistry.Register("QUESTION_TOO_LONG", errx.TypeValidation, http.StatusBadRequest, "Question is too long")
	CodeInvalidFAQ       = ErrRegistry.Register("INVALID_FAQ", errx.TypeValidation, http.StatusBadRequest, "FAQ question and answer are required")
	CodeFAQNotFound      = ErrRegistry.Register("FAQ_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "FAQ entry not found")
	CodeEmbeddingsOff    = ErrRegistry.Register("EMBEDDINGS_DISABLED", errx.TypeBusiness, http.StatusServiceUnavailable, "FAQ embeddings are not configured")
	CodeProviderFailed   = ErrRegistry.Register("PROVIDER_FAILED", errx.TypeExternal, http.StatusBadGateway, "Chat provider failed")
	CodeInvalidRequest   = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid request")
)

func ErrEmptyQuestion() *errx.Error   { return ErrRegistry.New(CodeEmptyQuestion) }
func ErrQuestionTooLong() *errx.Error { return ErrRegistry.New(CodeQuestionTooLong) }
func ErrInvalidFAQ() *errx.Error      { return ErrRegistry.New(CodeInvalidFAQ) }
func ErrFAQNotFound() *errx.Error     { return ErrRegistry.New(CodeFAQNotFound) }
func ErrEmbeddingsOff() *errx.Error   { return ErrRegistry.New(CodeEmbeddingsOff) }
func ErrProviderFailed() *errx.Error  { return ErrRegistry.New(CodeProviderFailed) }
func ErrInvalidRequest() *errx.Error  { return ErrRegistry.New(CodeInvalidRequest) }
