// Package onboarding tracks the checklist a new hire works through.
package onboarding

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/google/uuid"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) IsValid() bool {
	return slices.Contains([]TaskStatus{TaskStatusTodo, TaskStatusInProgress, TaskStatusDone}, s)
}

type Task struct {
	ID            kernel.TaskID        `json:"id"`
	ApplicationID kernel.ApplicationID `json:"application_id"`
	CandidateID   kernel.CandidateID   `json:"candidate_id"`
	EmployeeName  string               `json:"employee_name"`
	Title         string               `json:"title"`
	Description   string               `json:"description"`
	DueDate       time.Time            `json:"due_date"`
	Status        TaskStatus           `json:"status"`
	CompletedAt   *time.Time           `json:"completed_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// Hire is the hired application an onboarding checklist is seeded for.
type Hire struct {
	ApplicationID kernel.ApplicationID
	CandidateID   kernel.CandidateID
	EmployeeName  string
	JobTitle      string
	HiredAt       time.Time
}

// Template is one checklist entry, due DueInDays after the hire date.
type Template struct {
	Title       string
	Description string
	DueInDays   int
}

// DefaultChecklist is used when no checklist is configured.
var DefaultChecklist = []Template{
	{Title: "Sign employment contract", Description: "Review and sign the contract sent by HR.", DueInDays: 1},
	{Title: "Submit personal documents", Description: "ID, bank account and tax information.", DueInDays: 3},
	{Title: "IT equipment and accounts", Description: "Collect the laptop and activate email and chat accounts.", DueInDays: 3},
	{Title: "Meet your team", Description: "Introduction meeting with the manager and the team.", DueInDays: 5},
	{Title: "Complete compliance training", Description: "Security and code of conduct courses.", DueInDays: 14},
}

// BuildChecklist expands templates into todo tasks for hire.
func BuildChecklist(hire Hire, templates []Template) []Task {
	if len(templates) == 0 {
		templates = DefaultChecklist
	}
	start := hire.HiredAt
	if start.IsZero() {
		start = time.Now()
	}
	tasks := make([]Task, 0, len(templates))
	for _, tpl := range templates {
		title := strings.TrimSpace(tpl.Title)
		if title == "" {
			continue
		}
		description := tpl.Description
		if description == "" && hire.JobTitle != "" {
			description = "Onboarding for " + hire.JobTitle
		}
		tasks = append(tasks, Task{
			ID:            kernel.NewTaskID(uuid.NewString()),
			ApplicationID: hire.ApplicationID,
			CandidateID:   hire.CandidateID,
			EmployeeName:  hire.EmployeeName,
			Title:         title,
			Description:   description,
			DueDate:       start.AddDate(0, 0, tpl.DueInDays),
			Status:        TaskStatusTodo,
			CreatedAt:     start,
			UpdatedAt:     start,
		})
	}
	return tasks
}

// ChangeStatus moves the task and keeps CompletedAt in step with done.
func (t *Task) ChangeStatus(status TaskStatus, now time.Time) error {
	if !status.IsValid() {
		return ErrInvalidTaskStatus().WithDetail("status", string(status))
	}
	t.Status = status
	if status == TaskStatusDone {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	t.UpdatedAt = now
	return nil
}

func (t *Task) IsOverdue(now time.Time) bool {
	return t.Status != TaskStatusDone && now.After(t.DueDate)
}

// Progress summarizes a hire's checklist.
type Progress struct {
	ApplicationID kernel.ApplicationID `json:"application_id"`
	Total         int                  `json:"total"`
	Done          int                  `json:"done"`
	Overdue       int                  `json:"overdue"`
	Percent       float64              `json:"percent"`
}

func ComputeProgress(appID kernel.ApplicationID, tasks []Task, now time.Time) Progress {
	p := Progress{ApplicationID: appID, Total: len(tasks)}
	for i := range tasks {
		if tasks[i].Status == TaskStatusDone {
			p.Done++
		} else if tasks[i].IsOverdue(now) {
			p.Overdue++
		}
	}
	if p.Total > 0 {
		p.Percent = math.Round(float64(p.Done)/float64(p.Total)*10000) / 100
	}
	return p
}

// ListTasksFilter narrows task listings. Zero values match everything.
type ListTasksFilter struct {
	Status      TaskStatus
	OverdueOnly bool
}
