// Package mcpserver exposes match scoring and the application ranking as MCP
// tools for assistants running next to the portal.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/application"
	"github.com/Abraxas-365/hrportal/recruitment/matching"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const defaultTopLimit = 10

// ApplicationLister is the read side of the application service.
type ApplicationLister interface {
	ListApplications(ctx context.Context, filter application.ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[application.ListItem], error)
}

type tools struct {
	apps ApplicationLister
}

// New builds the MCP server. apps may be nil, which leaves out top_applications.
func New(apps ApplicationLister, version string) *server.MCPServer {
	s := server.NewMCPServer("hrportal", version)
	t := &tools{apps: apps}

	matchTool := mcp.NewTool("compute_match",
		mcp.WithDescription("Score candidate skills against a job's comma-separated required skills"),
	)
	matchTool.InputSchema = mcp.ToolInputSchema{
		Type: "object",
		Properties: map[string]any{
			"required_skills":  map[string]any{"type": "string", "description": "Comma-separated required skills, e.g. \"Go, SQL, Docker\""},
			"candidate_skills": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Skills found on the resume"},
		},
		Required: []string{"required_skills", "candidate_skills"},
	}
	s.AddTool(matchTool, t.computeMatch)

	if apps != nil {
		topTool := mcp.NewTool("top_applications",
			mcp.WithDescription("List the best matching applications of a job"),
		)
		topTool.InputSchema = mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"job_id": map[string]any{"type": "string", "description": "Job identifier"},
				"status": map[string]any{"type": "string", "description": "Only applications in this status (optional)"},
				"limit":  map[string]any{"type": "integer", "description": "Max applications to return (default 10)"},
			},
			Required: []string{"job_id"},
		}
		s.AddTool(topTool, t.topApplications)
	}
	return s
}

func arguments(request mcp.CallToolRequest) (map[string]any, bool) {
	args, ok := request.Params.Arguments.(map[string]any)
	return args, ok
}

func (t *tools) computeMatch(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	required, _ := args["required_skills"].(string)
	var skills []string
	switch v := args["candidate_skills"].(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				skills = append(skills, s)
			}
		}
	case string:
		skills = strings.Split(v, ",")
	default:
		return mcp.NewToolResultError("candidate_skills must be a list of strings"), nil
	}

	result := matching.ComputeMatch(required, matching.NormalizeSkills(skills))
	return jsonResult(result)
}

type rankedApplication struct {
	ApplicationID   kernel.ApplicationID          `json:"application_id"`
	CandidateName   string                        `json:"candidate_name"`
	CandidateEmail  kernel.Email                  `json:"candidate_email"`
	MatchPercentage float64                       `json:"match_percentage"`
	Status          application.ApplicationStatus `json:"status"`
}

func (t *tools) topApplications(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := arguments(request)
	if !ok {
		return mcp.NewToolResultError("invalid arguments format"), nil
	}

	jobID, _ := args["job_id"].(string)
	if strings.TrimSpace(jobID) == "" {
		return mcp.NewToolResultError("job_id is required"), nil
	}
	limit := defaultTopLimit
	if v, ok := args["limit"].(float64); ok && v > 0 {
		limit = int(v)
	}
	status, _ := args["status"].(string)

	page, err := t.apps.ListApplications(ctx, application.ListFilter{
		JobID:  kernel.JobID(strings.TrimSpace(jobID)),
		Status: application.ApplicationStatus(strings.TrimSpace(status)),
		Sort:   application.SortMatchDesc,
	}, kernel.PaginationOptions{Page: 1, PageSize: limit}.Normalize())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list applications: %v", err)), nil
	}

	ranked := make([]rankedApplication, 0, len(page.Items))
	for _, item := range page.Items {
		ranked = append(ranked, rankedApplication{
			ApplicationID:   item.ID,
			CandidateName:   item.CandidateName,
			CandidateEmail:  item.CandidateEmail,
			MatchPercentage: item.MatchPercentage,
			Status:          item.Status,
		})
	}
	return jsonResult(ranked)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
