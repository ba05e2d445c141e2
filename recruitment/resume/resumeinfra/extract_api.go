package resumeinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/metrics"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/sony/gobreaker/v2"
)

const extractBackend = "extract_api"

// ExtractAPIClient sends resume files to the hosted extraction service.
type ExtractAPIClient struct {
	baseURL    string
	apiKey     string
	templateID string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*resume.ParsedResume]
}

// extractResponse is the vendor envelope.
type extractResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func NewExtractAPIClient(cfg config.ExtractAPIConfig) *ExtractAPIClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	c := &ExtractAPIClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		templateID: cfg.TemplateID,
		httpClient: &http.Client{Timeout: timeout},
	}

	if cfg.Breaker.Enabled {
		cb := cfg.Breaker
		c.breaker = gobreaker.NewCircuitBreaker[*resume.ParsedResume](gobreaker.Settings{
			Name:        "resume-extract-api",
			MaxRequests: cb.MaxRequests,
			Interval:    cb.Interval,
			Timeout:     cb.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= cb.MinRequests && failureRatio >= cb.FailureThreshold
			},
			// Rejections say nothing about vendor health.
			IsSuccessful: func(err error) bool {
				return err == nil || errx.IsCode(err, resume.CodeParserRejected)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logx.Warn("circuit breaker state changed",
					logx.String("name", name),
					logx.String("from", from.String()),
					logx.String("to", to.String()))
			},
		})
	}
	return c
}

func (c *ExtractAPIClient) Name() string { return extractBackend }

func (c *ExtractAPIClient) Parse(ctx context.Context, doc resume.Document) (*resume.ParsedResume, error) {
	start := time.Now()
	parsed, err := c.execute(ctx, doc)

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ParserLatency.WithLabelValues(extractBackend, status).Observe(time.Since(start).Seconds())
	return parsed, err
}

func (c *ExtractAPIClient) execute(ctx context.Context, doc resume.Document) (*resume.ParsedResume, error) {
	if c.breaker == nil {
		return c.call(ctx, doc)
	}
	parsed, err := c.breaker.Execute(func() (*resume.ParsedResume, error) {
		return c.call(ctx, doc)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, resume.ErrParserUnavailable().WithCause(err).WithDetail("backend", extractBackend)
	}
	return parsed, err
}

func (c *ExtractAPIClient) call(ctx context.Context, doc resume.Document) (*resume.ParsedResume, error) {
	body, contentType, err := c.buildForm(doc)
	if err != nil {
		return nil, errx.Wrap(err, "failed to build extraction request", errx.TypeInternal)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", body)
	if err != nil {
		return nil, errx.Wrap(err, "failed to build extraction request", errx.TypeInternal)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, resume.ErrParserTimeout().WithCause(err).WithDetail("file_name", doc.FileName)
		}
		return nil, resume.ErrParseFailed().WithCause(err).WithDetail("file_name", doc.FileName)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, resume.ErrParseFailed().WithCause(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode).
			WithDetail("status", resp.StatusCode).
			WithDetail("body", logx.Truncate(string(raw), 300))
	}

	var envelope extractResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, resume.ErrParseFailed().WithCause(err).WithDetail("body", logx.Truncate(string(raw), 300))
	}
	if !envelope.Success {
		return nil, resume.ErrParserRejected().WithDetail("reason", envelope.Error)
	}

	return resume.DecodeParsedResume(envelope.Data), nil
}

// statusError classifies a non-2xx vendor response. Only client errors about
// the document itself are rejections; throttling and request timeouts retry.
func statusError(status int) *errx.Error {
	switch {
	case status == http.StatusTooManyRequests:
		return resume.ErrParserUnavailable()
	case status == http.StatusRequestTimeout:
		return resume.ErrParserTimeout()
	case status >= 400 && status < 500:
		return resume.ErrParserRejected()
	default:
		return resume.ErrParseFailed()
	}
}

func (c *ExtractAPIClient) buildForm(doc resume.Document) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if c.templateID != "" {
		if err := w.WriteField("template_id", c.templateID); err != nil {
			return nil, "", err
		}
	}

	name := doc.FileName
	if name == "" {
		name = "resume"
	}
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(doc.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
