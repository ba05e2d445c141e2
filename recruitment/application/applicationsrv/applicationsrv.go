package applicationsrv

import (
	"context"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/onboarding"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/fsx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/metrics"
	"github.com/Abraxas-365/hrportal/recruitment/application"
	"github.com/Abraxas-365/hrportal/recruitment/candidate"
	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
)

// CandidateDirectory is the slice of the candidate service used while applying.
type CandidateDirectory interface {
	FindOrCreateByEmail(ctx context.Context, info candidate.ApplicantInfo) (*candidate.Candidate, bool, error)
	UpsertFromResume(ctx context.Context, id kernel.CandidateID, pi resume.PersonalInfo) (*candidate.Candidate, error)
	GetCandidate(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error)
}

// OnboardingSeeder creates the onboarding checklist of a new hire.
type OnboardingSeeder interface {
	SeedForHire(ctx context.Context, hire onboarding.Hire) ([]onboarding.Task, error)
}

type Options struct {
	MaxUploadBytes   int64
	AllowedTypes     []string
	MaxParseAttempts int
}

// ApplicationService provides business operations for applications
type ApplicationService struct {
	applicationRepo application.Repository
	jobRepo         job.Repository
	candidates      CandidateDirectory
	fileSystem      fsx.FileSystem
	queue           resume.JobQueue
	onboarding      OnboardingSeeder
	opts            Options
	now             func() time.Time
}

func NewApplicationService(
	applicationRepo application.Repository,
	jobRepo job.Repository,
	candidates CandidateDirectory,
	fileSystem fsx.FileSystem,
	queue resume.JobQueue,
	seeder OnboardingSeeder,
	opts Options,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		jobRepo:         jobRepo,
		candidates:      candidates,
		fileSystem:      fileSystem,
		queue:           queue,
		onboarding:      seeder,
		opts:            opts,
		now:             time.Now,
	}
}

// ============================================================================
// Intake
// ============================================================================

// Apply stores the resume, creates a pending application and queues its parse job.
func (s *ApplicationService) Apply(ctx context.Context, ac auth.AuthContext, req application.ApplyRequest) (*application.Application, error) {
	if _, err := req.Resume.Validate(s.opts.MaxUploadBytes, s.opts.AllowedTypes); err != nil {
		return nil, err
	}

	jobEntity, err := s.jobRepo.GetByID(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if !jobEntity.AcceptsApplications() {
		return nil, job.ErrNotAcceptingApplies().
			WithDetail("job_id", req.JobID.String()).
			WithDetail("status", string(jobEntity.Status))
	}

	cand, _, err := s.candidates.FindOrCreateByEmail(ctx, req.Applicant)
	if err != nil {
		return nil, err
	}
	if !cand.CanApplyToJob() {
		return nil, candidate.ErrCandidateArchived().WithDetail("candidate_id", cand.ID.String())
	}

	exists, err := s.applicationRepo.ExistsByJobAndCandidate(ctx, req.JobID, cand.ID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to check duplicate application", errx.TypeInternal)
	}
	if exists {
		return nil, application.ErrApplicationAlreadyExists().
			WithDetail("job_id", req.JobID.String()).
			WithDetail("candidate_id", cand.ID.String())
	}

	app := application.NewApplication(cand.ID, req.JobID, sanitizeFileName(req.Resume.FileName))
	app.ResumeKey = s.fileSystem.Join("resumes", app.ID.String(), app.ResumeFilename)

	if err := s.fileSystem.WriteFile(ctx, app.ResumeKey, req.Resume.Data); err != nil {
		return nil, errx.Wrap(err, "failed to store resume", errx.TypeInternal)
	}

	if err := s.applicationRepo.Create(ctx, app); err != nil {
		if delErr := s.fileSystem.DeleteFile(ctx, app.ResumeKey); delErr != nil {
			logx.Warn("failed to remove orphaned resume",
				logx.String("key", app.ResumeKey), logx.Err(delErr))
		}
		return nil, errx.Wrap(err, "failed to create application", errx.TypeInternal)
	}

	parseJob := resume.NewParseJob(app.ID, app.ResumeKey, app.ResumeFilename, req.Resume.ContentType, s.opts.MaxParseAttempts)
	if err := s.queue.Enqueue(ctx, parseJob); err != nil {
		logx.Error("failed to enqueue parse job",
			logx.String("application_id", app.ID.String()), logx.Err(err))
		// The submission stands; HR can requeue the parse later.
		outcome := application.Failed("could not queue resume for parsing")
		if saveErr := s.applicationRepo.SaveParseOutcome(ctx, app.ID, outcome); saveErr != nil {
			logx.Error("failed to mark application parse as failed",
				logx.String("application_id", app.ID.String()), logx.Err(saveErr))
		}
		app.RecordOutcome(outcome)
		return app, nil
	}

	logx.Info("application submitted",
		logx.String("application_id", app.ID.String()),
		logx.String("job_id", app.JobID.String()),
		logx.String("candidate_id", cand.ID.String()),
		logx.String("submitted_by", string(ac.Role)),
		logx.String("parse_job_id", parseJob.ID.String()))

	return app, nil
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	base = strings.Trim(unsafeFileChars.ReplaceAllString(base, "_"), "._")
	if base == "" {
		return "resume"
	}
	return base
}

// ============================================================================
// Parse results
// ============================================================================

// ProcessParsedResume scores a parsed resume against its job and persists
// both. It is safe to call again for the same application.
func (s *ApplicationService) ProcessParsedResume(ctx context.Context, id kernel.ApplicationID, parsed *resume.ParsedResume) error {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	jobEntity, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return err
	}

	outcome, result := application.Succeeded(parsed, jobEntity.RequiredSkills)
	if err := s.applicationRepo.SaveParseOutcome(ctx, id, outcome); err != nil {
		return errx.Wrap(err, "failed to save parse result", errx.TypeInternal)
	}
	recordMatch("parse", result)

	if parsed != nil {
		if _, err := s.candidates.UpsertFromResume(ctx, app.CandidateID, parsed.PersonalInfo); err != nil {
			logx.Warn("failed to fill candidate profile from resume",
				logx.String("candidate_id", app.CandidateID.String()), logx.Err(err))
		}
	}

	logx.Info("resume scored",
		logx.String("application_id", id.String()),
		logx.Float64("match_percentage", result.MatchPercentage),
		logx.Int("matched", result.MatchedCount),
		logx.Int("required", result.RequiredCount))
	return nil
}

// MarkParseFailed records a parse that gave up. The match percentage is 0.
func (s *ApplicationService) MarkParseFailed(ctx context.Context, id kernel.ApplicationID, reason string) error {
	if err := s.applicationRepo.SaveParseOutcome(ctx, id, application.Failed(reason)); err != nil {
		return errx.Wrap(err, "failed to mark parse as failed", errx.TypeInternal)
	}
	logx.Warn("resume parse failed",
		logx.String("application_id", id.String()),
		logx.String("reason", logx.Truncate(reason, 200)))
	return nil
}

// MarkParseProcessing flags the application while a worker holds its job.
func (s *ApplicationService) MarkParseProcessing(ctx context.Context, id kernel.ApplicationID) error {
	return s.applicationRepo.SaveParseOutcome(ctx, id, application.Processing())
}

// RequeueParse queues a new parse job for an application whose parse failed.
func (s *ApplicationService) RequeueParse(ctx context.Context, ac auth.AuthContext, id kernel.ApplicationID) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.ParseStatus != resume.ParseStatusFailed {
		return nil, application.ErrParseNotFailed().
			WithDetail("application_id", id.String()).
			WithDetail("parse_status", string(app.ParseStatus))
	}

	parseJob := resume.NewParseJob(app.ID, app.ResumeKey, app.ResumeFilename, "", s.opts.MaxParseAttempts)
	if err := s.queue.Enqueue(ctx, parseJob); err != nil {
		return nil, resume.ErrQueueEnqueueFailed().WithCause(err).
			WithDetail("application_id", id.String())
	}
	outcome := application.Queued()
	if err := s.applicationRepo.SaveParseOutcome(ctx, id, outcome); err != nil {
		return nil, errx.Wrap(err, "failed to save parse status", errx.TypeInternal)
	}
	app.RecordOutcome(outcome)

	logx.Info("resume parse requeued",
		logx.String("application_id", id.String()),
		logx.String("by", ac.UserID.String()),
		logx.String("parse_job_id", parseJob.ID.String()))
	return app, nil
}

// Rescore recomputes the match against the job's current requirements.
func (s *ApplicationService) Rescore(ctx context.Context, ac auth.AuthContext, id kernel.ApplicationID) (*matching.Result, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !app.IsParsed() {
		return nil, application.ErrNotParsed().
			WithDetail("application_id", id.String()).
			WithDetail("parse_status", string(app.ParseStatus))
	}
	jobEntity, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	outcome, result := application.Succeeded(app.ParsedResume, jobEntity.RequiredSkills)
	if err := s.applicationRepo.SaveParseOutcome(ctx, id, outcome); err != nil {
		return nil, errx.Wrap(err, "failed to save rescored match", errx.TypeInternal)
	}
	recordMatch("rescore", result)

	logx.Info("application rescored",
		logx.String("application_id", id.String()),
		logx.String("by", ac.UserID.String()),
		logx.Float64("previous", app.MatchPercentage),
		logx.Float64("current", result.MatchPercentage))
	return &result, nil
}

func recordMatch(trigger string, result matching.Result) {
	metrics.MatchesComputed.WithLabelValues(trigger).Inc()
	metrics.MatchPercentage.Observe(result.MatchPercentage)
}

// ============================================================================
// Review
// ============================================================================

func (s *ApplicationService) GetApplication(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	return s.applicationRepo.GetByID(ctx, id)
}

// GetSkillGap compares the stored resume with the job's requirements. It is
// computed on every call and never cached.
func (s *ApplicationService) GetSkillGap(ctx context.Context, id kernel.ApplicationID) (*application.SkillGapResponse, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	jobEntity, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	resp := application.NewSkillGapResponse(app, app.SkillGap(jobEntity.RequiredSkills), s.now())
	return &resp, nil
}

func (s *ApplicationService) ListApplications(ctx context.Context, filter application.ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[application.ListItem], error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	page, err := s.applicationRepo.List(ctx, filter, pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list applications", errx.TypeInternal)
	}
	return page, nil
}

// UpdateStatus moves an application to any known status. Reaching hired
// seeds the onboarding checklist.
func (s *ApplicationService) UpdateStatus(ctx context.Context, ac auth.AuthContext, id kernel.ApplicationID, status application.ApplicationStatus) (*application.Application, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := app.Status
	if err := app.ChangeStatus(status); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.UpdateStatus(ctx, id, status); err != nil {
		return nil, errx.Wrap(err, "failed to update application status", errx.TypeInternal)
	}

	logx.Info("application status changed",
		logx.String("application_id", id.String()),
		logx.String("from", string(previous)),
		logx.String("to", string(status)),
		logx.String("by", ac.UserID.String()))

	if app.IsHired() {
		if err := s.seedOnboarding(ctx, app); err != nil {
			return nil, err
		}
	}
	return app, nil
}

func (s *ApplicationService) seedOnboarding(ctx context.Context, app *application.Application) error {
	if s.onboarding == nil {
		return nil
	}
	cand, err := s.candidates.GetCandidate(ctx, app.CandidateID)
	if err != nil {
		return err
	}
	jobEntity, err := s.jobRepo.GetByID(ctx, app.JobID)
	if err != nil {
		return err
	}

	tasks, err := s.onboarding.SeedForHire(ctx, onboarding.Hire{
		ApplicationID: app.ID,
		CandidateID:   app.CandidateID,
		EmployeeName:  cand.FullName(),
		JobTitle:      jobEntity.Title,
		HiredAt:       s.now(),
	})
	if err != nil {
		return errx.Wrap(err, "failed to seed onboarding tasks", errx.TypeInternal).
			WithDetail("application_id", app.ID.String())
	}
	logx.Info("onboarding seeded",
		logx.String("application_id", app.ID.String()),
		logx.Int("tasks", len(tasks)))
	return nil
}

// BulkUpdateStatus applies UpdateStatus to every id and reports per-id failures.
func (s *ApplicationService) BulkUpdateStatus(ctx context.Context, ac auth.AuthContext, req application.BulkUpdateStatusRequest) (*application.BulkOperationResponse, error) {
	if len(req.ApplicationIDs) == 0 {
		return nil, application.ErrNoApplicationIDs()
	}
	if !req.Status.IsValid() {
		return nil, application.ErrInvalidStatus().WithDetail("status", string(req.Status))
	}

	resp := &application.BulkOperationResponse{
		Succeeded: make([]kernel.ApplicationID, 0, len(req.ApplicationIDs)),
		Failed:    make(map[kernel.ApplicationID]string),
	}
	for _, id := range req.ApplicationIDs {
		if _, err := s.UpdateStatus(ctx, ac, id, req.Status); err != nil {
			resp.Failed[id] = err.Error()
			continue
		}
		resp.Succeeded = append(resp.Succeeded, id)
	}
	return resp, nil
}

func (s *ApplicationService) AddNote(ctx context.Context, ac auth.AuthContext, id kernel.ApplicationID, body string) (*application.Note, error) {
	note := application.NewNote(ac.UserID, body)
	if note.Body == "" {
		return nil, application.ErrEmptyNote()
	}
	if _, err := s.applicationRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if err := s.applicationRepo.AppendNote(ctx, id, note); err != nil {
		return nil, errx.Wrap(err, "failed to add note", errx.TypeInternal)
	}
	return &note, nil
}

// Delete removes the application and, best effort, its resume file.
func (s *ApplicationService) Delete(ctx context.Context, ac auth.AuthContext, id kernel.ApplicationID) error {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.applicationRepo.Delete(ctx, id); err != nil {
		return errx.Wrap(err, "failed to delete application", errx.TypeInternal)
	}
	if app.ResumeKey != "" {
		if err := s.fileSystem.DeleteFile(ctx, app.ResumeKey); err != nil {
			logx.Warn("failed to delete resume file",
				logx.String("key", app.ResumeKey), logx.Err(err))
		}
	}
	logx.Info("application deleted",
		logx.String("application_id", id.String()),
		logx.String("by", ac.UserID.String()))
	return nil
}

// DownloadResume streams the stored resume file.
func (s *ApplicationService) DownloadResume(ctx context.Context, id kernel.ApplicationID) (io.ReadCloser, string, error) {
	app, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if app.ResumeKey == "" {
		return nil, "", application.ErrResumeUnavailable().WithDetail("application_id", id.String())
	}
	rc, err := s.fileSystem.ReadFileStream(ctx, app.ResumeKey)
	if err != nil {
		return nil, "", application.ErrResumeUnavailable().WithCause(err).WithDetail("application_id", id.String())
	}
	return rc, app.ResumeFilename, nil
}
