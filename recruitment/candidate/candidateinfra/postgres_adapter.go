package candidateinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/candidate"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresCandidateRepository implements candidate.Repository using PostgreSQL
type PostgresCandidateRepository struct {
	db *sqlx.DB
}

func NewPostgresCandidateRepository(db *sqlx.DB) *PostgresCandidateRepository {
	return &PostgresCandidateRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type candidateModel struct {
	ID         string     `db:"id"`
	Email      string     `db:"email"`
	Phone      string     `db:"phone"`
	FirstName  string     `db:"first_name"`
	LastName   string     `db:"last_name"`
	Address    string     `db:"address"`
	LinkedIn   string     `db:"linkedin"`
	GitHub     string     `db:"github"`
	Status     string     `db:"status"`
	ArchivedAt *time.Time `db:"archived_at"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

const candidateColumns = `
	id, email, phone, first_name, last_name, address, linkedin, github,
	status, archived_at, created_at, updated_at`

func (m *candidateModel) toEntity() candidate.Candidate {
	return candidate.Candidate{
		ID:         kernel.CandidateID(m.ID),
		Email:      kernel.Email(m.Email),
		Phone:      kernel.Phone(m.Phone),
		FirstName:  kernel.FirstName(m.FirstName),
		LastName:   kernel.LastName(m.LastName),
		Address:    m.Address,
		LinkedIn:   m.LinkedIn,
		GitHub:     m.GitHub,
		Status:     candidate.CandidateStatus(m.Status),
		ArchivedAt: m.ArchivedAt,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func fromEntity(c *candidate.Candidate) *candidateModel {
	return &candidateModel{
		ID:         string(c.ID),
		Email:      string(c.Email.Normalized()),
		Phone:      string(c.Phone),
		FirstName:  string(c.FirstName),
		LastName:   string(c.LastName),
		Address:    c.Address,
		LinkedIn:   c.LinkedIn,
		GitHub:     c.GitHub,
		Status:     string(c.Status),
		ArchivedAt: c.ArchivedAt,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

func (r *PostgresCandidateRepository) Create(ctx context.Context, c *candidate.Candidate) error {
	query := `
		INSERT INTO candidates (` + candidateColumns + `
		) VALUES (
			:id, :email, :phone, :first_name, :last_name, :address, :linkedin, :github,
			:status, :archived_at, :created_at, :updated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, fromEntity(c)); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation on email
			return candidate.ErrEmailAlreadyExists().WithDetail("email", c.Email.String())
		}
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

func (r *PostgresCandidateRepository) Update(ctx context.Context, c *candidate.Candidate) error {
	query := `
		UPDATE candidates SET
			phone = :phone,
			first_name = :first_name,
			last_name = :last_name,
			address = :address,
			linkedin = :linkedin,
			github = :github,
			status = :status,
			archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, fromEntity(c))
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return candidate.ErrCandidateNotFound().WithDetail("candidate_id", c.ID.String())
	}
	return nil
}

func (r *PostgresCandidateRepository) GetByID(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	return r.getOne(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, string(id))
}

func (r *PostgresCandidateRepository) GetByEmail(ctx context.Context, email kernel.Email) (*candidate.Candidate, error) {
	return r.getOne(ctx, `SELECT `+candidateColumns+` FROM candidates WHERE email = $1`, string(email.Normalized()))
}

func (r *PostgresCandidateRepository) getOne(ctx context.Context, query string, arg string) (*candidate.Candidate, error) {
	var model candidateModel
	if err := r.db.GetContext(ctx, &model, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, candidate.ErrCandidateNotFound()
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	entity := model.toEntity()
	return &entity, nil
}

func (r *PostgresCandidateRepository) List(ctx context.Context, query string, pagination kernel.PaginationOptions) (*kernel.Paginated[candidate.Candidate], error) {
	pagination = pagination.Normalize()

	where := ""
	args := []any{}
	if query != "" {
		args = append(args, "%"+query+"%")
		where = ` WHERE email ILIKE $1 OR (first_name || ' ' || last_name) ILIKE $1`
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM candidates`+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count candidates: %w", err)
	}

	sqlQuery := fmt.Sprintf(`SELECT %s FROM candidates%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		candidateColumns, where, len(args)+1, len(args)+2)
	args = append(args, pagination.Limit(), pagination.Offset())

	var models []candidateModel
	if err := r.db.SelectContext(ctx, &models, sqlQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}

	entities := make([]candidate.Candidate, 0, len(models))
	for i := range models {
		entities = append(entities, models[i].toEntity())
	}
	page := kernel.NewPaginated(entities, pagination.Page, pagination.PageSize, total)
	return &page, nil
}

type candidateApplicationModel struct {
	ApplicationID   string          `db:"application_id"`
	JobID           string          `db:"job_id"`
	JobTitle        string          `db:"job_title"`
	Status          string          `db:"status"`
	MatchPercentage sql.NullFloat64 `db:"match_percentage"`
	AppliedAt       time.Time       `db:"applied_at"`
}

func (r *PostgresCandidateRepository) ListApplications(ctx context.Context, id kernel.CandidateID) ([]candidate.CandidateApplication, error) {
	query := `
		SELECT a.id AS application_id, a.job_id, j.title AS job_title, a.status,
		       a.match_percentage, a.created_at AS applied_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		WHERE a.candidate_id = $1
		ORDER BY a.created_at DESC
	`
	var models []candidateApplicationModel
	if err := r.db.SelectContext(ctx, &models, query, string(id)); err != nil {
		return nil, fmt.Errorf("failed to list candidate applications: %w", err)
	}

	out := make([]candidate.CandidateApplication, 0, len(models))
	for _, m := range models {
		row := candidate.CandidateApplication{
			ApplicationID: kernel.ApplicationID(m.ApplicationID),
			JobID:         kernel.JobID(m.JobID),
			JobTitle:      m.JobTitle,
			Status:        m.Status,
			AppliedAt:     m.AppliedAt,
		}
		if m.MatchPercentage.Valid {
			pct := m.MatchPercentage.Float64
			row.MatchPercentage = &pct
		}
		out = append(out, row)
	}
	return out, nil
}
