package analyticsapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/analytics"
	"github.com/Abraxas-365/hrportal/analytics/analyticssrv"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct{}

func (stubRepo) StatusCounts(context.Context) (map[string]int, error) {
	return map[string]int{"pending": 4}, nil
}
func (stubRepo) ApplicationsPerJob(context.Context) ([]analytics.JobCount, error) { return nil, nil }
func (stubRepo) MatchPercentages(context.Context) ([]float64, error)              { return []float64{40}, nil }
func (stubRepo) HiresSince(context.Context, time.Time) (int, error)               { return 0, nil }
func (stubRepo) ParsedResumesForJob(context.Context, kernel.JobID) ([]*resume.ParsedResume, error) {
	return nil, nil
}

type stubJobs struct{ job.Repository }

func (stubJobs) GetByID(_ context.Context, id kernel.JobID) (*job.Job, error) {
	return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
}

func newApp(t *testing.T) (*fiber.App, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService("test-secret", "hrportal", time.Hour)
	app := fiber.New(fiber.Config{ErrorHandler: errx.FiberErrorHandler(nil)})
	svc := analyticssrv.NewAnalyticsService(stubRepo{}, stubJobs{})
	RegisterRoutes(app, NewHandlers(svc), auth.NewUnifiedAuthMiddleware(tokens, nil))
	return app, tokens
}

func get(t *testing.T, app *fiber.App, tokens *auth.TokenService, role kernel.Role, path string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		token, err := tokens.GenerateAccessToken("user-1", role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestOverviewRequiresReportsScope(t *testing.T) {
	app, tokens := newApp(t)

	assert.Equal(t, http.StatusUnauthorized, get(t, app, tokens, "", "/api/analytics/overview").StatusCode)
	assert.Equal(t, http.StatusForbidden, get(t, app, tokens, auth.RoleCandidate, "/api/analytics/overview").StatusCode)

	resp := get(t, app, tokens, auth.RoleHR, "/api/analytics/overview")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body analytics.Overview
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 4, body.TotalApplications)
	assert.Equal(t, 40.0, body.AverageMatch)
}

func TestSkillGapReportUnknownJob(t *testing.T) {
	app, tokens := newApp(t)

	resp := get(t, app, tokens, auth.RoleManager, "/api/analytics/jobs/nope/skill-gap")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
