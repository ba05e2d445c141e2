package onboarding

import (
	"context"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
)

type Repository interface {
	// CreateBatch inserts tasks, skipping titles the application already has.
	CreateBatch(ctx context.Context, tasks []Task) error

	GetByID(ctx context.Context, id kernel.TaskID) (*Task, error)

	Update(ctx context.Context, task *Task) error

	// ListByApplication returns the checklist ordered by due date.
	ListByApplication(ctx context.Context, appID kernel.ApplicationID) ([]Task, error)

	List(ctx context.Context, filter ListTasksFilter, now time.Time, pagination kernel.PaginationOptions) (*kernel.Paginated[Task], error)

	// ListOverdue returns open tasks due before now.
	ListOverdue(ctx context.Context, now time.Time) ([]Task, error)
}
