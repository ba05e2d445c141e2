package jobinfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/job"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresJobRepository implements job.Repository using PostgreSQL
type PostgresJobRepository struct {
	db *sqlx.DB
}

func NewPostgresJobRepository(db *sqlx.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

// ============================================================================
// Database Model
// ============================================================================

type jobModel struct {
	ID              string     `db:"id"`
	Title           string     `db:"title"`
	Department      string     `db:"department"`
	Description     string     `db:"description"`
	RequiredSkills  string     `db:"required_skills"`
	ExperienceLevel string     `db:"experience_level"`
	Status          string     `db:"status"`
	CreatedBy       string     `db:"created_by"`
	PublishedAt     *time.Time `db:"published_at"`
	ArchivedAt      *time.Time `db:"archived_at"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

const jobColumns = `
	id, title, department, description, required_skills, experience_level,
	status, created_by, published_at, archived_at, created_at, updated_at`

func (m *jobModel) toEntity() job.Job {
	return job.Job{
		ID:              kernel.JobID(m.ID),
		Title:           m.Title,
		Department:      m.Department,
		Description:     m.Description,
		RequiredSkills:  m.RequiredSkills,
		ExperienceLevel: job.ExperienceLevel(m.ExperienceLevel),
		Status:          job.JobStatus(m.Status),
		CreatedBy:       kernel.UserID(m.CreatedBy),
		PublishedAt:     m.PublishedAt,
		ArchivedAt:      m.ArchivedAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func fromEntity(j *job.Job) *jobModel {
	return &jobModel{
		ID:              string(j.ID),
		Title:           j.Title,
		Department:      j.Department,
		Description:     j.Description,
		RequiredSkills:  j.RequiredSkills,
		ExperienceLevel: string(j.ExperienceLevel),
		Status:          string(j.Status),
		CreatedBy:       string(j.CreatedBy),
		PublishedAt:     j.PublishedAt,
		ArchivedAt:      j.ArchivedAt,
		CreatedAt:       j.CreatedAt,
		UpdatedAt:       j.UpdatedAt,
	}
}

// ============================================================================
// Repository Implementation
// ============================================================================

func (r *PostgresJobRepository) Create(ctx context.Context, jobEntity *job.Job) error {
	query := `
		INSERT INTO jobs (` + jobColumns + `
		) VALUES (
			:id, :title, :department, :description, :required_skills, :experience_level,
			:status, :created_by, :published_at, :archived_at, :created_at, :updated_at
		)
	`

	_, err := r.db.NamedExecContext(ctx, query, fromEntity(jobEntity))
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return job.ErrJobAlreadyExists().WithDetail("job_id", jobEntity.ID.String())
		}
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

func (r *PostgresJobRepository) Update(ctx context.Context, jobEntity *job.Job) error {
	query := `
		UPDATE jobs SET
			title = :title,
			department = :department,
			description = :description,
			required_skills = :required_skills,
			experience_level = :experience_level,
			status = :status,
			published_at = :published_at,
			archived_at = :archived_at,
			updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, fromEntity(jobEntity))
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", jobEntity.ID.String())
	}
	return nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	query := `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`

	var model jobModel
	if err := r.db.GetContext(ctx, &model, query, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return nil, fmt.Errorf("failed to get job by id: %w", err)
	}
	entity := model.toEntity()
	return &entity, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id kernel.JobID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	return nil
}

// buildListFilter renders the WHERE clause of List with positional args.
func buildListFilter(filter job.ListJobsFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Department != "" {
		args = append(args, filter.Department)
		conds = append(conds, fmt.Sprintf("LOWER(department) = LOWER($%d)", len(args)))
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		args = append(args, "%"+q+"%")
		conds = append(conds, fmt.Sprintf("title ILIKE $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *PostgresJobRepository) List(ctx context.Context, filter job.ListJobsFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[job.Job], error) {
	pagination = pagination.Normalize()
	where, args := buildListFilter(filter)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM jobs`+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		jobColumns, where, len(args)+1, len(args)+2)
	args = append(args, pagination.Limit(), pagination.Offset())

	var models []jobModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	entities := make([]job.Job, 0, len(models))
	for i := range models {
		entities = append(entities, models[i].toEntity())
	}

	page := kernel.NewPaginated(entities, pagination.Page, pagination.PageSize, total)
	return &page, nil
}

func (r *PostgresJobRepository) CountApplications(ctx context.Context, id kernel.JobID) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM applications WHERE job_id = $1`, string(id)); err != nil {
		return 0, fmt.Errorf("failed to count applications: %w", err)
	}
	return count, nil
}
