package applicationsrv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/onboarding"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/fsx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/application"
	"github.com/Abraxas-365/hrportal/recruitment/candidate"
	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/Abraxas-365/hrportal/recruitment/resume/resumeinfra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Fakes
// ============================================================================

type memAppRepo struct {
	mu   sync.Mutex
	apps map[kernel.ApplicationID]application.Application
	// saves counts SaveParseOutcome calls.
	saves int
}

func newMemAppRepo() *memAppRepo {
	return &memAppRepo{apps: map[kernel.ApplicationID]application.Application{}}
}

func (r *memAppRepo) Create(_ context.Context, a *application.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.apps[a.ID] = *a
	return nil
}

func (r *memAppRepo) GetByID(_ context.Context, id kernel.ApplicationID) (*application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return nil, application.ErrApplicationNotFound()
	}
	return &a, nil
}

func (r *memAppRepo) ExistsByJobAndCandidate(_ context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.apps {
		if a.JobID == jobID && a.CandidateID == candidateID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memAppRepo) List(_ context.Context, f application.ListFilter, p kernel.PaginationOptions) (*kernel.Paginated[application.ListItem], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var items []application.ListItem
	for _, a := range r.apps {
		if f.JobID != "" && a.JobID != f.JobID {
			continue
		}
		items = append(items, application.ListItem{Application: a})
	}
	page := kernel.NewPaginated(items, p.Page, p.PageSize, len(items))
	return &page, nil
}

func (r *memAppRepo) SaveParseOutcome(_ context.Context, id kernel.ApplicationID, o application.ParsedOutcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return application.ErrApplicationNotFound()
	}
	a.RecordOutcome(o)
	r.apps[id] = a
	r.saves++
	return nil
}

func (r *memAppRepo) UpdateStatus(_ context.Context, id kernel.ApplicationID, status application.ApplicationStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok {
		return application.ErrApplicationNotFound()
	}
	a.Status = status
	r.apps[id] = a
	return nil
}

func (r *memAppRepo) AppendNote(_ context.Context, id kernel.ApplicationID, note application.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := r.apps[id]
	a.Notes = append(a.Notes, note)
	r.apps[id] = a
	return nil
}

func (r *memAppRepo) Delete(_ context.Context, id kernel.ApplicationID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.apps, id)
	return nil
}

type memJobRepo struct {
	jobs map[kernel.JobID]*job.Job
}

func (r *memJobRepo) Create(_ context.Context, j *job.Job) error { r.jobs[j.ID] = j; return nil }
func (r *memJobRepo) Update(_ context.Context, j *job.Job) error { r.jobs[j.ID] = j; return nil }
func (r *memJobRepo) Delete(_ context.Context, id kernel.JobID) error {
	delete(r.jobs, id)
	return nil
}

func (r *memJobRepo) GetByID(_ context.Context, id kernel.JobID) (*job.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, job.ErrJobNotFound()
	}
	cp := *j
	return &cp, nil
}

func (r *memJobRepo) List(context.Context, job.ListJobsFilter, kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	return nil, errors.New("not implemented")
}

func (r *memJobRepo) CountApplications(context.Context, kernel.JobID) (int64, error) {
	return 0, nil
}

type fakeCandidates struct {
	byEmail  map[string]*candidate.Candidate
	upserted []resume.PersonalInfo
}

func (f *fakeCandidates) FindOrCreateByEmail(_ context.Context, info candidate.ApplicantInfo) (*candidate.Candidate, bool, error) {
	email := kernel.Email(info.Email).Normalized()
	if !email.IsValid() {
		return nil, false, candidate.ErrInvalidEmail()
	}
	if c, ok := f.byEmail[string(email)]; ok {
		return c, false, nil
	}
	c := &candidate.Candidate{
		ID:        kernel.NewCandidateID("cand-" + string(email)),
		Email:     email,
		FirstName: kernel.FirstName(info.FirstName),
		LastName:  kernel.LastName(info.LastName),
		Status:    candidate.CandidateStatusActive,
	}
	f.byEmail[string(email)] = c
	return c, true, nil
}

func (f *fakeCandidates) UpsertFromResume(_ context.Context, id kernel.CandidateID, pi resume.PersonalInfo) (*candidate.Candidate, error) {
	f.upserted = append(f.upserted, pi)
	return f.GetCandidate(context.Background(), id)
}

func (f *fakeCandidates) GetCandidate(_ context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	for _, c := range f.byEmail {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, candidate.ErrCandidateNotFound()
}

type fakeSeeder struct {
	hires []onboarding.Hire
}

func (f *fakeSeeder) SeedForHire(_ context.Context, hire onboarding.Hire) ([]onboarding.Task, error) {
	f.hires = append(f.hires, hire)
	return []onboarding.Task{{ApplicationID: hire.ApplicationID, Title: "Sign contract"}}, nil
}

type failingQueue struct{ *resumeinfra.MemoryQueue }

func (failingQueue) Enqueue(context.Context, *resume.ParseJob) error {
	return errors.New("redis down")
}

// ============================================================================
// Harness
// ============================================================================

type harness struct {
	svc        *ApplicationService
	apps       *memAppRepo
	jobs       *memJobRepo
	candidates *fakeCandidates
	files      *fsx.MemoryFileSystem
	queue      *resumeinfra.MemoryQueue
	seeder     *fakeSeeder
}

var hr = auth.AuthContext{UserID: "hr-1", Role: auth.RoleHR}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		apps:       newMemAppRepo(),
		jobs:       &memJobRepo{jobs: map[kernel.JobID]*job.Job{}},
		candidates: &fakeCandidates{byEmail: map[string]*candidate.Candidate{}},
		files:      fsx.NewMemoryFileSystem(),
		queue:      resumeinfra.NewMemoryQueue(),
		seeder:     &fakeSeeder{},
	}
	h.jobs.jobs["job-1"] = &job.Job{
		ID:             "job-1",
		Title:          "Backend Engineer",
		RequiredSkills: "Go, SQL, Docker, Kubernetes",
		Status:         job.JobStatusPublished,
	}
	h.jobs.jobs["job-draft"] = &job.Job{ID: "job-draft", Title: "Draft", Status: job.JobStatusDraft}
	h.svc = NewApplicationService(h.apps, h.jobs, h.candidates, h.files, h.queue, h.seeder, Options{
		MaxUploadBytes:   1024,
		AllowedTypes:     []string{"pdf", "png", "jpeg"},
		MaxParseAttempts: 3,
	})
	h.svc.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return h
}

func applyRequest(jobID kernel.JobID, email string) application.ApplyRequest {
	return application.ApplyRequest{
		JobID:     jobID,
		Applicant: candidate.ApplicantInfo{Email: email, FirstName: "Ana", LastName: "Diaz"},
		Resume: resume.Document{
			Data:        []byte("%PDF-1.4 resume"),
			FileName:    "My CV (final).pdf",
			ContentType: "application/pdf",
		},
	}
}

func (h *harness) apply(t *testing.T) *application.Application {
	t.Helper()
	app, err := h.svc.Apply(context.Background(), auth.AuthContext{Role: auth.RoleCandidate}, applyRequest("job-1", "ana@example.com"))
	require.NoError(t, err)
	return app
}

// ============================================================================
// Tests
// ============================================================================

func TestApplyStoresFileAndQueuesParseJob(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	app := h.apply(t)

	assert.Equal(t, application.ApplicationStatusPending, app.Status)
	assert.Equal(t, resume.ParseStatusQueued, app.ParseStatus)
	assert.Equal(t, "My_CV_final_.pdf", app.ResumeFilename)

	data, err := h.files.ReadFile(ctx, app.ResumeKey)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 resume", string(data))

	queued, err := h.queue.Dequeue(ctx, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, queued)
	assert.Equal(t, app.ID, queued.ApplicationID)
	assert.Equal(t, app.ResumeKey, queued.FilePath)
	assert.Equal(t, 3, queued.MaxAttempts)
}

func TestApplyRejections(t *testing.T) {
	tests := []struct {
		name string
		req  func() application.ApplyRequest
		code string
	}{
		{
			name: "unsupported file",
			req: func() application.ApplyRequest {
				r := applyRequest("job-1", "ana@example.com")
				r.Resume.FileName, r.Resume.ContentType = "cv.exe", "application/octet-stream"
				return r
			},
			code: resume.CodeUnsupportedFileType,
		},
		{
			name: "file too large",
			req: func() application.ApplyRequest {
				r := applyRequest("job-1", "ana@example.com")
				r.Resume.Data = make([]byte, 2048)
				return r
			},
			code: resume.CodeFileTooLarge,
		},
		{
			name: "job not published",
			req:  func() application.ApplyRequest { return applyRequest("job-draft", "ana@example.com") },
			code: job.CodeNotAcceptingApplies,
		},
		{
			name: "unknown job",
			req:  func() application.ApplyRequest { return applyRequest("nope", "ana@example.com") },
			code: job.CodeJobNotFound,
		},
		{
			name: "invalid email",
			req:  func() application.ApplyRequest { return applyRequest("job-1", "not-an-email") },
			code: candidate.CodeInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.svc.Apply(context.Background(), auth.AuthContext{}, tt.req())
			require.Error(t, err)
			assert.True(t, errx.IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestApplyTwiceToSameJobConflicts(t *testing.T) {
	h := newHarness(t)
	h.apply(t)

	_, err := h.svc.Apply(context.Background(), auth.AuthContext{}, applyRequest("job-1", "ANA@example.com "))
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, application.CodeApplicationAlreadyExists))
}

func TestApplySucceedsAndMarksParseFailedWhenQueueIsDown(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	h.svc.queue = failingQueue{h.queue}

	app, err := h.svc.Apply(ctx, auth.AuthContext{}, applyRequest("job-1", "ana@example.com"))
	require.NoError(t, err)
	assert.Equal(t, resume.ParseStatusFailed, app.ParseStatus)

	stored, err := h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ParseStatusFailed, stored.ParseStatus)
	_, err = h.files.ReadFile(ctx, app.ResumeKey)
	require.NoError(t, err)

	// Once the queue is back, HR requeues the parse instead of the candidate
	// applying again.
	h.svc.queue = h.queue
	requeued, err := h.svc.RequeueParse(ctx, auth.AuthContext{UserID: "hr-1", Role: auth.RoleHR}, app.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ParseStatusQueued, requeued.ParseStatus)

	queued, err := h.queue.Dequeue(ctx, time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, queued)
	assert.Equal(t, app.ID, queued.ApplicationID)
	assert.Equal(t, app.ResumeKey, queued.FilePath)

	stored, err = h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ParseStatusQueued, stored.ParseStatus)
	assert.Empty(t, stored.ParseError)
}

func TestRequeueParseRejectsParseThatDidNotFail(t *testing.T) {
	h := newHarness(t)
	app := h.apply(t)

	_, err := h.svc.RequeueParse(context.Background(), auth.AuthContext{Role: auth.RoleHR}, app.ID)
	require.Error(t, err)
	assert.True(t, errx.IsCode(err, application.CodeParseNotFailed))
}

func TestMarkParseProcessing(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	app := h.apply(t)

	require.NoError(t, h.svc.MarkParseProcessing(ctx, app.ID))
	stored, err := h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ParseStatusProcessing, stored.ParseStatus)

	err = h.svc.MarkParseProcessing(ctx, "missing")
	assert.True(t, errx.IsType(err, errx.TypeNotFound))
}

func TestProcessParsedResumePersistsMatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	app := h.apply(t)

	parsed := &resume.ParsedResume{
		PersonalInfo: resume.PersonalInfo{Name: "Ana Diaz", Phone: "+51 999"},
		Skills:       []string{" go ", "SQL", "React"},
	}
	require.NoError(t, h.svc.ProcessParsedResume(ctx, app.ID, parsed))

	stored, err := h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ParseStatusParsed, stored.ParseStatus)
	assert.Equal(t, 50.0, stored.MatchPercentage)
	assert.Equal(t, parsed, stored.ParsedResume)
	require.Len(t, h.candidates.upserted, 1)
	assert.Equal(t, "+51 999", h.candidates.upserted[0].Phone)

	// Reprocessing the same result writes the same row.
	require.NoError(t, h.svc.ProcessParsedResume(ctx, app.ID, parsed))
	again, err := h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.MatchPercentage, again.MatchPercentage)
	assert.Equal(t, 2, h.apps.saves)
}

func TestMarkParseFailedZeroesMatch(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	app := h.apply(t)

	require.NoError(t, h.svc.MarkParseFailed(ctx, app.ID, "parser rejected the file"))

	stored, err := h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ParseStatusFailed, stored.ParseStatus)
	assert.Nil(t, stored.ParsedResume)
	assert.Zero(t, stored.MatchPercentage)
	assert.Equal(t, "parser rejected the file", stored.ParseError)

	gap, err := h.svc.GetSkillGap(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql", "docker", "kubernetes"}, gap.Missing)
	assert.Zero(t, gap.MatchPercentage)
}

func TestGetSkillGapUsesCurrentRequirements(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	app := h.apply(t)
	require.NoError(t, h.svc.ProcessParsedResume(ctx, app.ID, &resume.ParsedResume{
		Skills: []string{"go", "sql", "a", "b", "c", "d", "e", "f", "g"},
	}))

	h.jobs.jobs["job-1"].RequiredSkills = "go"

	gap, err := h.svc.GetSkillGap(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, gap.MatchPercentage)
	assert.Len(t, gap.AdditionalPreview, application.AdditionalSkillPreview)
	assert.Equal(t, 3, gap.AdditionalMore)

	// The persisted score only moves on rescore.
	stored, err := h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, stored.MatchPercentage)

	result, err := h.svc.Rescore(ctx, hr, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.MatchPercentage)
	stored, err = h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.MatchPercentage)
}

func TestRescoreRequiresParsedResume(t *testing.T) {
	h := newHarness(t)
	app := h.apply(t)

	_, err := h.svc.Rescore(context.Background(), hr, app.ID)
	assert.True(t, errx.IsCode(err, application.CodeNotParsed))
}

func TestUpdateStatusAllowsAnyTransition(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	app := h.apply(t)

	for _, s := range []application.ApplicationStatus{
		application.ApplicationStatusOfferSent,
		application.ApplicationStatusPending,
		application.ApplicationStatusRejected,
		application.ApplicationStatusSelected,
	} {
		updated, err := h.svc.UpdateStatus(ctx, hr, app.ID, s)
		require.NoError(t, err)
		assert.Equal(t, s, updated.Status)
	}
	assert.Empty(t, h.seeder.hires)

	_, err := h.svc.UpdateStatus(ctx, hr, app.ID, "promoted")
	assert.True(t, errx.IsCode(err, application.CodeInvalidStatus))
}

func TestHiringSeedsOnboarding(t *testing.T) {
	h := newHarness(t)
	app := h.apply(t)

	_, err := h.svc.UpdateStatus(context.Background(), hr, app.ID, application.ApplicationStatusHired)
	require.NoError(t, err)

	require.Len(t, h.seeder.hires, 1)
	hire := h.seeder.hires[0]
	assert.Equal(t, app.ID, hire.ApplicationID)
	assert.Equal(t, "Ana Diaz", hire.EmployeeName)
	assert.Equal(t, "Backend Engineer", hire.JobTitle)
}

func TestBulkUpdateStatusReportsFailures(t *testing.T) {
	h := newHarness(t)
	app := h.apply(t)

	resp, err := h.svc.BulkUpdateStatus(context.Background(), hr, application.BulkUpdateStatusRequest{
		ApplicationIDs: []kernel.ApplicationID{app.ID, "missing"},
		Status:         application.ApplicationStatusRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, []kernel.ApplicationID{app.ID}, resp.Succeeded)
	assert.Contains(t, resp.Failed, kernel.ApplicationID("missing"))

	_, err = h.svc.BulkUpdateStatus(context.Background(), hr, application.BulkUpdateStatusRequest{Status: "hired"})
	assert.True(t, errx.IsCode(err, application.CodeNoApplicationIDs))
}

func TestAddNote(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	app := h.apply(t)

	note, err := h.svc.AddNote(ctx, hr, app.ID, "  strong Go background ")
	require.NoError(t, err)
	assert.Equal(t, "strong Go background", note.Body)
	assert.Equal(t, hr.UserID, note.AuthorID)

	_, err = h.svc.AddNote(ctx, hr, app.ID, "   ")
	assert.True(t, errx.IsCode(err, application.CodeEmptyNote))

	stored, err := h.svc.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Notes, 1)
}

func TestDeleteRemovesResumeFile(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	app := h.apply(t)

	require.NoError(t, h.svc.Delete(ctx, hr, app.ID))

	exists, err := h.files.Exists(ctx, app.ResumeKey)
	require.NoError(t, err)
	assert.False(t, exists)
	_, err = h.svc.GetApplication(ctx, app.ID)
	assert.True(t, errx.IsCode(err, application.CodeApplicationNotFound))
}

func TestListApplicationsValidatesFilter(t *testing.T) {
	h := newHarness(t)
	h.apply(t)

	minMatch, maxMatch := 80.0, 20.0
	_, err := h.svc.ListApplications(context.Background(), application.ListFilter{MinMatch: &minMatch, MaxMatch: &maxMatch}, kernel.PaginationOptions{})
	assert.True(t, errx.IsCode(err, application.CodeInvalidFilter))

	_, err = h.svc.ListApplications(context.Background(), application.ListFilter{Sort: "name"}, kernel.PaginationOptions{})
	assert.True(t, errx.IsCode(err, application.CodeInvalidFilter))

	page, err := h.svc.ListApplications(context.Background(), application.ListFilter{JobID: "job-1"}, kernel.PaginationOptions{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
}

func TestSanitizeFileName(t *testing.T) {
	assert.Equal(t, "cv.pdf", sanitizeFileName("../../etc/cv.pdf"))
	assert.Equal(t, "cv.pdf", sanitizeFileName(`C:\Users\ana\cv.pdf`))
	assert.Equal(t, "resume", sanitizeFileName("  "))
}
