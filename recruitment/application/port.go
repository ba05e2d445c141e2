package application

import (
	"context"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
)

type Repository interface {
	Create(ctx context.Context, application *Application) error

	GetByID(ctx context.Context, id kernel.ApplicationID) (*Application, error)

	ExistsByJobAndCandidate(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (bool, error)

	// List applies the filter and its sort order. Ties are broken by id.
	List(ctx context.Context, filter ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[ListItem], error)

	// SaveParseOutcome overwrites the parse columns. Writing the same outcome
	// twice leaves the row unchanged apart from updated_at.
	SaveParseOutcome(ctx context.Context, id kernel.ApplicationID, outcome ParsedOutcome) error

	UpdateStatus(ctx context.Context, id kernel.ApplicationID, status ApplicationStatus) error

	AppendNote(ctx context.Context, id kernel.ApplicationID, note Note) error

	Delete(ctx context.Context, id kernel.ApplicationID) error
}
