package resumesrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/fsx"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/metrics"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
)

// ResultHandler receives the outcome of a parse job. The application service
// implements it.
type ResultHandler interface {
	MarkParseProcessing(ctx context.Context, id kernel.ApplicationID) error
	ProcessParsedResume(ctx context.Context, id kernel.ApplicationID, parsed *resume.ParsedResume) error
	MarkParseFailed(ctx context.Context, id kernel.ApplicationID, reason string) error
}

// Service runs parse jobs taken from the queue.
type Service struct {
	parser  resume.Parser
	files   fsx.FileReader
	queue   resume.JobQueue
	results ResultHandler
	now     func() time.Time
}

func NewService(parser resume.Parser, files fsx.FileReader, queue resume.JobQueue, results ResultHandler) *Service {
	return &Service{
		parser:  parser,
		files:   files,
		queue:   queue,
		results: results,
		now:     time.Now,
	}
}

// ============================================================================
// Queue processing
// ============================================================================

// ProcessJob parses one uploaded resume and hands the result over. Transient
// failures are rescheduled with exponential backoff until the job runs out of
// attempts; after that, or on a permanent failure, the application is marked
// failed.
func (s *Service) ProcessJob(ctx context.Context, job *resume.ParseJob) error {
	logx.Info("processing parse job",
		logx.String("job_id", string(job.ID)),
		logx.String("application_id", job.ApplicationID.String()),
		logx.Int("attempt", job.AttemptCount+1),
		logx.Int("max_attempts", job.MaxAttempts))

	if err := s.results.MarkParseProcessing(ctx, job.ApplicationID); err != nil {
		if errx.IsType(err, errx.TypeNotFound) {
			s.drop(job)
			return nil
		}
		logx.Warn("failed to mark parse as processing",
			logx.String("application_id", job.ApplicationID.String()), logx.Err(err))
	}

	parsed, err := s.parse(ctx, job)
	if err != nil {
		return s.handleJobError(ctx, job, err)
	}

	if err := s.results.ProcessParsedResume(ctx, job.ApplicationID, parsed); err != nil {
		// The application may have been deleted while the job was running.
		if errx.IsType(err, errx.TypeNotFound) {
			s.drop(job)
			return nil
		}
		return s.handleJobError(ctx, job, err)
	}

	metrics.ParseJobs.WithLabelValues("parsed").Inc()
	return nil
}

func (s *Service) drop(job *resume.ParseJob) {
	logx.Warn("dropping parse job of missing application",
		logx.String("job_id", string(job.ID)),
		logx.String("application_id", job.ApplicationID.String()))
	metrics.ParseJobs.WithLabelValues("dropped").Inc()
}

func (s *Service) parse(ctx context.Context, job *resume.ParseJob) (*resume.ParsedResume, error) {
	data, err := s.files.ReadFile(ctx, job.FilePath)
	if err != nil {
		return nil, resume.ErrRegistry.NewWithCause(resume.CodeFileReadFailed, err).
			WithDetail("file_path", job.FilePath)
	}
	doc := resume.Document{Data: data, FileName: job.FileName, ContentType: job.ContentType}
	if _, err := doc.Validate(0, nil); err != nil {
		return nil, err
	}
	return s.parser.Parse(ctx, doc)
}

// isPermanent reports failures that another attempt cannot fix.
func isPermanent(err error) bool {
	return errx.IsType(err, errx.TypeValidation) || errx.IsCode(err, resume.CodeParserRejected)
}

func (s *Service) handleJobError(ctx context.Context, job *resume.ParseJob, cause error) error {
	job.AttemptCount++
	job.LastError = cause.Error()

	if !isPermanent(cause) && job.CanRetry() {
		delay := resume.RetryDelay(job.AttemptCount)
		next := s.now().Add(delay)
		job.NextRetryAt = &next

		if err := s.queue.EnqueueDelayed(ctx, job, delay); err != nil {
			logx.Error("failed to schedule parse retry",
				logx.String("job_id", string(job.ID)), logx.Err(err))
			s.fail(ctx, job, "retry could not be scheduled: "+cause.Error())
			return resume.ErrRegistry.NewWithCause(resume.CodeJobRetryFailed, err).
				WithDetail("job_id", string(job.ID))
		}

		metrics.ParseJobs.WithLabelValues("retried").Inc()
		logx.Warn("parse job failed, will retry",
			logx.String("job_id", string(job.ID)),
			logx.Int("attempt", job.AttemptCount),
			logx.Int("max_attempts", job.MaxAttempts),
			logx.String("next_retry_at", next.Format(time.RFC3339)),
			logx.Err(cause))
		return cause
	}

	s.fail(ctx, job, cause.Error())
	if isPermanent(cause) {
		return cause
	}
	return resume.ErrRegistry.NewWithCause(resume.CodeJobMaxRetries, cause).
		WithDetail("job_id", string(job.ID)).
		WithDetail("attempts", job.AttemptCount)
}

func (s *Service) fail(ctx context.Context, job *resume.ParseJob, reason string) {
	metrics.ParseJobs.WithLabelValues("failed").Inc()
	if err := s.results.MarkParseFailed(ctx, job.ApplicationID, reason); err != nil {
		logx.Error("failed to record parse failure",
			logx.String("application_id", job.ApplicationID.String()), logx.Err(err))
	}
}

// QueueStats reports the queue sizes and refreshes the depth gauges.
func (s *Service) QueueStats(ctx context.Context) (resume.QueueStats, error) {
	stats, err := s.queue.Stats(ctx)
	if err != nil {
		return resume.QueueStats{}, errx.Wrap(err, "failed to read queue stats", errx.TypeInternal)
	}
	metrics.QueueDepth.WithLabelValues("ready").Set(float64(stats.Ready))
	metrics.QueueDepth.WithLabelValues("delayed").Set(float64(stats.Delayed))
	return stats, nil
}

// ============================================================================
// Preview
// ============================================================================

// Preview is a synchronous parse scored against a skill list, nothing stored.
type Preview struct {
	Parser     string                  `json:"parser"`
	Resume     *resume.ParsedResume    `json:"resume"`
	Match      matching.Result         `json:"match"`
	Experience resume.ExperienceSignal `json:"experience"`
}

func (s *Service) Preview(ctx context.Context, doc resume.Document, maxBytes int64, requiredSkillsCsv string) (*Preview, error) {
	if _, err := doc.Validate(maxBytes, nil); err != nil {
		return nil, err
	}
	parsed, err := s.parser.Parse(ctx, doc)
	if err != nil {
		return nil, err
	}
	return &Preview{
		Parser:     s.parser.Name(),
		Resume:     parsed,
		Match:      matching.ComputeMatch(requiredSkillsCsv, parsed.NormalizedSkills()),
		Experience: parsed.ExperienceSignal(s.now()),
	}, nil
}
