package resume

import (
	"path"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/google/uuid"
)

type ParseStatus string

const (
	ParseStatusQueued     ParseStatus = "queued"
	ParseStatusProcessing ParseStatus = "processing"
	ParseStatusParsed     ParseStatus = "parsed"
	ParseStatusFailed     ParseStatus = "failed"
)

// DefaultMaxAttempts bounds parser retries per uploaded file.
const DefaultMaxAttempts = 3

// ParseJob is the queue payload asking a worker to parse one uploaded resume.
type ParseJob struct {
	ID            kernel.ParseJobID    `json:"id"`
	ApplicationID kernel.ApplicationID `json:"application_id"`
	FilePath      string               `json:"file_path"`
	FileName      string               `json:"file_name"`
	ContentType   string               `json:"content_type"`
	AttemptCount  int                  `json:"attempt_count"`
	MaxAttempts   int                  `json:"max_attempts"`
	LastError     string               `json:"last_error,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	NextRetryAt   *time.Time           `json:"next_retry_at,omitempty"`
}

// NewParseJob builds the first attempt of a parse job.
func NewParseJob(appID kernel.ApplicationID, filePath, fileName, contentType string, maxAttempts int) *ParseJob {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &ParseJob{
		ID:            kernel.NewParseJobID(uuid.NewString()),
		ApplicationID: appID,
		FilePath:      filePath,
		FileName:      fileName,
		ContentType:   contentType,
		MaxAttempts:   maxAttempts,
		CreatedAt:     time.Now(),
	}
}

func (j *ParseJob) CanRetry() bool {
	return j.AttemptCount < j.MaxAttempts
}

// RetryDelay is the exponential backoff before attempt+1: 2^attempt minutes.
func RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	return time.Duration(1<<uint(attempt)) * time.Minute
}

// QueueStats reports the parse queue sizes.
type QueueStats struct {
	Ready   int64 `json:"ready"`
	Delayed int64 `json:"delayed"`
}

// ============================================================================
// Documents
// ============================================================================

type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeJPEG FileType = "jpeg"
	FileTypePNG  FileType = "png"
	FileTypeDOCX FileType = "docx"
)

// Document is an uploaded resume file handed to a Parser.
type Document struct {
	Data        []byte
	FileName    string
	ContentType string
}

// Type infers the file type from the content type, then the extension.
func (d Document) Type() (FileType, bool) {
	switch strings.ToLower(strings.TrimSpace(strings.Split(d.ContentType, ";")[0])) {
	case "application/pdf":
		return FileTypePDF, true
	case "image/jpeg", "image/jpg":
		return FileTypeJPEG, true
	case "image/png":
		return FileTypePNG, true
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document":
		return FileTypeDOCX, true
	}
	switch strings.ToLower(path.Ext(d.FileName)) {
	case ".pdf":
		return FileTypePDF, true
	case ".jpg", ".jpeg":
		return FileTypeJPEG, true
	case ".png":
		return FileTypePNG, true
	case ".docx":
		return FileTypeDOCX, true
	}
	return "", false
}

// Validate checks an upload against the size cap and the allowed file types.
// An empty allowed list accepts every known type.
func (d Document) Validate(maxBytes int64, allowed []string) (FileType, error) {
	if len(d.Data) == 0 {
		return "", ErrFileReadFailed().WithDetail("reason", "empty file")
	}
	if maxBytes > 0 && int64(len(d.Data)) > maxBytes {
		return "", ErrFileTooLarge().
			WithDetail("size_bytes", len(d.Data)).
			WithDetail("max_bytes", maxBytes)
	}
	ft, ok := d.Type()
	if !ok {
		return "", ErrUnsupportedFileType().
			WithDetail("file_name", d.FileName).
			WithDetail("content_type", d.ContentType)
	}
	if len(allowed) == 0 {
		return ft, nil
	}
	for _, a := range allowed {
		if strings.EqualFold(a, string(ft)) {
			return ft, nil
		}
	}
	return "", ErrUnsupportedFileType().
		WithDetail("file_type", string(ft)).
		WithDetail("allowed", allowed)
}
