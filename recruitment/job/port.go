package job

import (
	"context"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
)

type Repository interface {
	Create(ctx context.Context, job *Job) error

	Update(ctx context.Context, job *Job) error

	// GetByID returns ErrJobNotFound when no row matches.
	GetByID(ctx context.Context, id kernel.JobID) (*Job, error)

	Delete(ctx context.Context, id kernel.JobID) error

	// List returns jobs matching filter, newest first.
	List(ctx context.Context, filter ListJobsFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[Job], error)

	CountApplications(ctx context.Context, id kernel.JobID) (int64, error)
}
