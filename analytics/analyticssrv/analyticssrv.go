package analyticssrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hrportal/analytics"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/job"
)

type AnalyticsService struct {
	repo    analytics.Repository
	jobRepo job.Repository
	now     func() time.Time
}

func NewAnalyticsService(repo analytics.Repository, jobRepo job.Repository) *AnalyticsService {
	return &AnalyticsService{repo: repo, jobRepo: jobRepo, now: time.Now}
}

func (s *AnalyticsService) Overview(ctx context.Context) (*analytics.Overview, error) {
	statusCounts, err := s.repo.StatusCounts(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to count applications by status", errx.TypeInternal)
	}
	perJob, err := s.repo.ApplicationsPerJob(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to count applications per job", errx.TypeInternal)
	}
	percentages, err := s.repo.MatchPercentages(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load match percentages", errx.TypeInternal)
	}
	now := s.now()
	hires, err := s.repo.HiresSince(ctx, now.Add(-analytics.HireWindow))
	if err != nil {
		return nil, errx.Wrap(err, "failed to count hires", errx.TypeInternal)
	}

	total := 0
	for _, n := range statusCounts {
		total += n
	}
	buckets, avg := analytics.Distribute(percentages)

	return &analytics.Overview{
		TotalApplications:  total,
		StatusCounts:       statusCounts,
		ApplicationsPerJob: perJob,
		AverageMatch:       avg,
		MatchDistribution:  buckets,
		HiresLast30Days:    hires,
		GeneratedAt:        now,
	}, nil
}

// SkillGapReport ranks the job's required skills by how often applicants lack them.
func (s *AnalyticsService) SkillGapReport(ctx context.Context, jobID kernel.JobID) (*analytics.SkillGapReport, error) {
	j, err := s.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	resumes, err := s.repo.ParsedResumesForJob(ctx, jobID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load parsed resumes", errx.TypeInternal)
	}

	missing, required := analytics.BuildSkillGapReport(j.RequiredSkills, resumes)
	return &analytics.SkillGapReport{
		JobID:                j.ID,
		JobTitle:             j.Title,
		RequiredSkills:       required,
		ApplicationsAnalyzed: len(resumes),
		MissingSkills:        missing,
	}, nil
}
