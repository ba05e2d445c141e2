package jobsrv

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepo struct {
	mu   sync.Mutex
	jobs map[kernel.JobID]job.Job
	apps map[kernel.JobID]int64
}

func newMemRepo() *memRepo {
	return &memRepo{jobs: map[kernel.JobID]job.Job{}, apps: map[kernel.JobID]int64{}}
}

func (r *memRepo) Create(_ context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[j.ID] = *j
	return nil
}

func (r *memRepo) Update(_ context.Context, j *job.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[j.ID]; !ok {
		return job.ErrJobNotFound()
	}
	r.jobs[j.ID] = *j
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id kernel.JobID) (*job.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	return &j, nil
}

func (r *memRepo) Delete(_ context.Context, id kernel.JobID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.jobs, id)
	return nil
}

func (r *memRepo) List(_ context.Context, f job.ListJobsFilter, p kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []job.Job
	for _, j := range r.jobs {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.Query != "" && !strings.Contains(strings.ToLower(j.Title), strings.ToLower(f.Query)) {
			continue
		}
		out = append(out, j)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Title < out[b].Title })
	page := kernel.NewPaginated(out, p.Page, p.PageSize, len(out))
	return &page, nil
}

func (r *memRepo) CountApplications(_ context.Context, id kernel.JobID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apps[id], nil
}

var hr = auth.AuthContext{UserID: "hr-1", Role: auth.RoleHR}

func TestCreateJobDefaultsAndValidation(t *testing.T) {
	svc := NewJobService(newMemRepo())
	ctx := context.Background()

	j, err := svc.CreateJob(ctx, hr, job.CreateJobRequest{Title: " Data Engineer ", RequiredSkills: "Python, SQL"})
	require.NoError(t, err)
	assert.Equal(t, "Data Engineer", j.Title)
	assert.Equal(t, job.JobStatusDraft, j.Status)
	assert.Equal(t, job.LevelMid, j.ExperienceLevel)
	assert.Equal(t, kernel.UserID("hr-1"), j.CreatedBy)

	_, err = svc.CreateJob(ctx, hr, job.CreateJobRequest{Title: ""})
	assert.True(t, errx.IsCode(err, job.CodeInvalidJob))

	_, err = svc.CreateJob(ctx, hr, job.CreateJobRequest{Title: "X", ExperienceLevel: "wizard"})
	assert.True(t, errx.IsCode(err, job.CodeInvalidJob))
}

func TestPublishAndListPublished(t *testing.T) {
	svc := NewJobService(newMemRepo())
	ctx := context.Background()

	a, _ := svc.CreateJob(ctx, hr, job.CreateJobRequest{Title: "A"})
	_, _ = svc.CreateJob(ctx, hr, job.CreateJobRequest{Title: "B"})

	_, err := svc.PublishJob(ctx, a.ID)
	require.NoError(t, err)

	page, err := svc.ListPublishedJobs(ctx, kernel.PaginationOptions{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "A", page.Items[0].Title)
	assert.Equal(t, 1, page.Page.Number)

	_, err = svc.ListJobs(ctx, job.ListJobsFilter{Status: "OPEN"}, kernel.PaginationOptions{})
	assert.True(t, errx.IsCode(err, job.CodeInvalidJob))

	_, err = svc.PublishJob(ctx, "missing")
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))
}

func TestDeleteJobWithApplications(t *testing.T) {
	repo := newMemRepo()
	svc := NewJobService(repo)
	ctx := context.Background()

	j, _ := svc.CreateJob(ctx, hr, job.CreateJobRequest{Title: "A"})
	repo.apps[j.ID] = 2

	err := svc.DeleteJob(ctx, j.ID)
	assert.True(t, errx.IsCode(err, job.CodeJobHasApplications))

	stats, err := svc.GetJobStats(ctx, j.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalApplications)

	repo.apps[j.ID] = 0
	require.NoError(t, svc.DeleteJob(ctx, j.ID))
	_, err = svc.GetJob(ctx, j.ID)
	assert.True(t, errx.IsCode(err, job.CodeJobNotFound))
}
