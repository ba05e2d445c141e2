package mcpserver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/application"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestComputeMatchTool(t *testing.T) {
	tl := &tools{}
	res, err := tl.computeMatch(context.Background(), call(map[string]any{
		"required_skills":  "Go, SQL, Docker, Kubernetes",
		"candidate_skills": []any{"go", " Docker ", "React"},
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var result matching.Result
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &result))
	assert.Equal(t, 50.0, result.MatchPercentage)
	assert.Equal(t, []string{"sql", "kubernetes"}, result.Missing)
}

func TestComputeMatchToolRejectsBadArguments(t *testing.T) {
	tl := &tools{}
	res, err := tl.computeMatch(context.Background(), call(map[string]any{
		"required_skills":  "Go",
		"candidate_skills": 42,
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

type stubLister struct {
	filter     application.ListFilter
	pagination kernel.PaginationOptions
}

func (s *stubLister) ListApplications(_ context.Context, f application.ListFilter, p kernel.PaginationOptions) (*kernel.Paginated[application.ListItem], error) {
	s.filter, s.pagination = f, p
	items := []application.ListItem{{
		Application:    application.Application{ID: "app-1", MatchPercentage: 75, Status: application.ApplicationStatusPending},
		CandidateName:  "Ana Ruiz",
		CandidateEmail: "ana@example.com",
	}}
	page := kernel.NewPaginated(items, p.Page, p.PageSize, len(items))
	return &page, nil
}

func TestTopApplicationsTool(t *testing.T) {
	lister := &stubLister{}
	tl := &tools{apps: lister}

	res, err := tl.topApplications(context.Background(), call(map[string]any{"job_id": "job-1", "limit": float64(3)}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	assert.Equal(t, kernel.JobID("job-1"), lister.filter.JobID)
	assert.Equal(t, application.SortMatchDesc, lister.filter.Sort)
	assert.Equal(t, 3, lister.pagination.PageSize)

	var ranked []rankedApplication
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &ranked))
	require.Len(t, ranked, 1)
	assert.Equal(t, "Ana Ruiz", ranked[0].CandidateName)

	res, err = tl.topApplications(context.Background(), call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestNewRegistersTools(t *testing.T) {
	assert.NotNil(t, New(nil, "test"))
	assert.NotNil(t, New(&stubLister{}, "test"))
}
