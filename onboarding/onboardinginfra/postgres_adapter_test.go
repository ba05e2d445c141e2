package onboardinginfra

import (
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/onboarding"
	"github.com/stretchr/testify/assert"
)

func TestBuildListFilter(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	where, args := buildListFilter(onboarding.ListTasksFilter{}, now)
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = buildListFilter(onboarding.ListTasksFilter{Status: onboarding.TaskStatusTodo, OverdueOnly: true}, now)
	assert.Equal(t, " WHERE status = $1 AND status <> 'done' AND due_date < $2", where)
	assert.Equal(t, []any{"todo", now}, args)
}

func TestModelRoundTrip(t *testing.T) {
	tasks := onboarding.BuildChecklist(onboarding.Hire{ApplicationID: "app-1", EmployeeName: "Ana"}, nil)
	assert.Equal(t, tasks[0], fromEntity(&tasks[0]).toEntity())
}
