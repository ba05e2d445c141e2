package candidate

import (
	"context"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
)

type Repository interface {
	Create(ctx context.Context, candidate *Candidate) error

	Update(ctx context.Context, candidate *Candidate) error

	GetByID(ctx context.Context, id kernel.CandidateID) (*Candidate, error)

	// GetByEmail matches on the normalized address.
	GetByEmail(ctx context.Context, email kernel.Email) (*Candidate, error)

	// List returns candidates whose name or email contains query, newest first.
	List(ctx context.Context, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[Candidate], error)

	// ListApplications returns the candidate's applications, newest first.
	ListApplications(ctx context.Context, id kernel.CandidateID) ([]CandidateApplication, error)
}
