package onboarding

import (
	"testing"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hiredAt = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func TestBuildChecklistUsesDefaults(t *testing.T) {
	tasks := BuildChecklist(Hire{ApplicationID: "app-1", EmployeeName: "Ana Diaz", HiredAt: hiredAt}, nil)

	require.Len(t, tasks, len(DefaultChecklist))
	first := tasks[0]
	assert.Equal(t, "Sign employment contract", first.Title)
	assert.Equal(t, hiredAt.AddDate(0, 0, 1), first.DueDate)
	assert.Equal(t, TaskStatusTodo, first.Status)
	assert.Equal(t, "Ana Diaz", first.EmployeeName)
	assert.NotEqual(t, tasks[0].ID, tasks[1].ID)
}

func TestBuildChecklistSkipsBlankTitles(t *testing.T) {
	tasks := BuildChecklist(Hire{ApplicationID: "app-1", JobTitle: "Engineer", HiredAt: hiredAt}, []Template{
		{Title: "  ", DueInDays: 1},
		{Title: "Laptop", DueInDays: 2},
	})
	require.Len(t, tasks, 1)
	assert.Equal(t, "Onboarding for Engineer", tasks[0].Description)
}

func TestChangeStatusTracksCompletion(t *testing.T) {
	task := BuildChecklist(Hire{ApplicationID: "app-1", HiredAt: hiredAt}, nil)[0]
	now := hiredAt.Add(time.Hour)

	require.NoError(t, task.ChangeStatus(TaskStatusDone, now))
	require.NotNil(t, task.CompletedAt)
	assert.Equal(t, now, *task.CompletedAt)

	require.NoError(t, task.ChangeStatus(TaskStatusInProgress, now))
	assert.Nil(t, task.CompletedAt)

	err := task.ChangeStatus("blocked", now)
	assert.True(t, errx.IsCode(err, CodeInvalidTaskStatus))
}

func TestComputeProgress(t *testing.T) {
	tasks := BuildChecklist(Hire{ApplicationID: "app-1", HiredAt: hiredAt}, []Template{
		{Title: "a", DueInDays: 1},
		{Title: "b", DueInDays: 1},
		{Title: "c", DueInDays: 30},
	})
	now := hiredAt.AddDate(0, 0, 2)
	require.NoError(t, tasks[0].ChangeStatus(TaskStatusDone, now))

	p := ComputeProgress("app-1", tasks, now)
	assert.Equal(t, 3, p.Total)
	assert.Equal(t, 1, p.Done)
	assert.Equal(t, 1, p.Overdue)
	assert.Equal(t, 33.33, p.Percent)

	assert.Zero(t, ComputeProgress("app-2", nil, now).Percent)
}
