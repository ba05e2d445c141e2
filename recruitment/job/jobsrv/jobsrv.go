package jobsrv

import (
	"context"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/google/uuid"
)

// JobService provides business operations for jobs
type JobService struct {
	jobRepo job.Repository
}

func NewJobService(jobRepo job.Repository) *JobService {
	return &JobService{jobRepo: jobRepo}
}

// CreateJob creates a draft job posting
func (s *JobService) CreateJob(ctx context.Context, ac auth.AuthContext, req job.CreateJobRequest) (*job.Job, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, job.ErrInvalidJob().WithDetail("title", "required")
	}
	level := req.ExperienceLevel
	if level == "" {
		level = job.LevelMid
	}
	if !level.IsValid() {
		return nil, job.ErrInvalidJob().WithDetail("experience_level", level)
	}

	now := time.Now()
	newJob := &job.Job{
		ID:              kernel.NewJobID(uuid.NewString()),
		Title:           title,
		Department:      strings.TrimSpace(req.Department),
		Description:     req.Description,
		RequiredSkills:  strings.TrimSpace(req.RequiredSkills),
		ExperienceLevel: level,
		Status:          job.JobStatusDraft,
		CreatedBy:       ac.UserID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.jobRepo.Create(ctx, newJob); err != nil {
		return nil, errx.Wrap(err, "failed to create job", errx.TypeInternal)
	}

	logx.Info("job created",
		logx.String("job_id", newJob.ID.String()),
		logx.Int("required_skills", len(newJob.RequiredSkillList())))
	return newJob, nil
}

// GetJob retrieves a job by ID
func (s *JobService) GetJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (s *JobService) ListJobs(ctx context.Context, filter job.ListJobsFilter, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, job.ErrInvalidJob().WithDetail("status", filter.Status)
	}
	page, err := s.jobRepo.List(ctx, filter, pagination.Normalize())
	if err != nil {
		return nil, errx.Wrap(err, "failed to list jobs", errx.TypeInternal)
	}
	resp := kernel.MapPaginated(*page, func(j job.Job) job.JobResponse { return j.ToResponse() })
	return &resp, nil
}

// ListPublishedJobs is the candidate-facing listing.
func (s *JobService) ListPublishedJobs(ctx context.Context, pagination kernel.PaginationOptions) (*job.PaginatedJobsResponse, error) {
	return s.ListJobs(ctx, job.ListJobsFilter{Status: job.JobStatusPublished}, pagination)
}

func (s *JobService) UpdateJob(ctx context.Context, jobID kernel.JobID, req job.UpdateJobRequest) (*job.Job, error) {
	return s.mutate(ctx, jobID, func(j *job.Job) error { return j.ApplyUpdate(req) })
}

func (s *JobService) PublishJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, jobID, (*job.Job).Publish)
}

func (s *JobService) CloseJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, jobID, (*job.Job).Close)
}

func (s *JobService) ArchiveJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, jobID, (*job.Job).Archive)
}

func (s *JobService) UnarchiveJob(ctx context.Context, jobID kernel.JobID) (*job.Job, error) {
	return s.mutate(ctx, jobID, (*job.Job).Unarchive)
}

func (s *JobService) mutate(ctx context.Context, jobID kernel.JobID, fn func(*job.Job) error) (*job.Job, error) {
	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := fn(j); err != nil {
		return nil, err
	}
	if err := s.jobRepo.Update(ctx, j); err != nil {
		return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
	}
	return j, nil
}

// DeleteJob removes a job that never received applications.
func (s *JobService) DeleteJob(ctx context.Context, jobID kernel.JobID) error {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		return err
	}

	count, err := s.jobRepo.CountApplications(ctx, jobID)
	if err != nil {
		return errx.Wrap(err, "failed to count applications", errx.TypeInternal)
	}
	if count > 0 {
		return job.ErrJobHasApplications().
			WithDetail("job_id", jobID.String()).
			WithDetail("applications", count)
	}

	if err := s.jobRepo.Delete(ctx, jobID); err != nil {
		return errx.Wrap(err, "failed to delete job", errx.TypeInternal)
	}
	return nil
}

func (s *JobService) GetJobStats(ctx context.Context, jobID kernel.JobID) (*job.JobStatsResponse, error) {
	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	count, err := s.jobRepo.CountApplications(ctx, jobID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to count applications", errx.TypeInternal)
	}
	return &job.JobStatsResponse{
		JobID:             j.ID,
		Title:             j.Title,
		Status:            j.Status,
		TotalApplications: count,
	}, nil
}
