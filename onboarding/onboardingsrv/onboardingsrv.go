package onboardingsrv

import (
	"context"
	"time"

	"github.com/Abraxas-365/hrportal/onboarding"
	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/metrics"
)

type OnboardingService struct {
	taskRepo  onboarding.Repository
	templates []onboarding.Template
	now       func() time.Time
}

// NewOnboardingService builds the service with the configured checklist.
// An empty checklist falls back to onboarding.DefaultChecklist.
func NewOnboardingService(taskRepo onboarding.Repository, cfg config.OnboardingConfig) *OnboardingService {
	templates := make([]onboarding.Template, 0, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		templates = append(templates, onboarding.Template{
			Title:       t.Title,
			Description: t.Description,
			DueInDays:   t.DueInDays,
		})
	}
	return &OnboardingService{taskRepo: taskRepo, templates: templates, now: time.Now}
}

// SeedForHire creates the checklist of a hire once. Calling it again for the
// same application returns the existing tasks.
func (s *OnboardingService) SeedForHire(ctx context.Context, hire onboarding.Hire) ([]onboarding.Task, error) {
	existing, err := s.taskRepo.ListByApplication(ctx, hire.ApplicationID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to load onboarding tasks", errx.TypeInternal)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	if hire.HiredAt.IsZero() {
		hire.HiredAt = s.now()
	}
	tasks := onboarding.BuildChecklist(hire, s.templates)
	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, errx.Wrap(err, "failed to create onboarding tasks", errx.TypeInternal)
	}

	logx.Info("onboarding checklist created",
		logx.String("application_id", hire.ApplicationID.String()),
		logx.String("employee", hire.EmployeeName),
		logx.Int("tasks", len(tasks)))
	return s.taskRepo.ListByApplication(ctx, hire.ApplicationID)
}

func (s *OnboardingService) ListTasks(ctx context.Context, appID kernel.ApplicationID) ([]onboarding.Task, error) {
	tasks, err := s.taskRepo.ListByApplication(ctx, appID)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list onboarding tasks", errx.TypeInternal)
	}
	return tasks, nil
}

func (s *OnboardingService) ListAllTasks(ctx context.Context, filter onboarding.ListTasksFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[onboarding.Task], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, onboarding.ErrInvalidTaskStatus().WithDetail("status", string(filter.Status))
	}
	page, err := s.taskRepo.List(ctx, filter, s.now(), pagination)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list onboarding tasks", errx.TypeInternal)
	}
	return page, nil
}

func (s *OnboardingService) UpdateTaskStatus(ctx context.Context, ac auth.AuthContext, id kernel.TaskID, status onboarding.TaskStatus) (*onboarding.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.ChangeStatus(status, s.now()); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, errx.Wrap(err, "failed to update onboarding task", errx.TypeInternal)
	}
	logx.Info("onboarding task updated",
		logx.String("task_id", id.String()),
		logx.String("status", string(status)),
		logx.String("by", ac.UserID.String()))
	return task, nil
}

func (s *OnboardingService) Progress(ctx context.Context, appID kernel.ApplicationID) (*onboarding.Progress, error) {
	tasks, err := s.ListTasks(ctx, appID)
	if err != nil {
		return nil, err
	}
	p := onboarding.ComputeProgress(appID, tasks, s.now())
	return &p, nil
}

// MarkOverdue logs every open task past its due date and publishes the count.
func (s *OnboardingService) MarkOverdue(ctx context.Context) (int, error) {
	tasks, err := s.taskRepo.ListOverdue(ctx, s.now())
	if err != nil {
		return 0, errx.Wrap(err, "failed to list overdue tasks", errx.TypeInternal)
	}
	for _, t := range tasks {
		logx.Warn("onboarding task overdue",
			logx.String("task_id", t.ID.String()),
			logx.String("application_id", t.ApplicationID.String()),
			logx.String("employee", t.EmployeeName),
			logx.String("title", t.Title),
			logx.String("due", t.DueDate.Format(time.DateOnly)))
	}
	metrics.OverdueTasks.Set(float64(len(tasks)))
	return len(tasks), nil
}
