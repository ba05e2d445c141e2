package onboardinginfra

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/onboarding"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/jmoiron/sqlx"
)

// PostgresTaskRepository implements onboarding.Repository using PostgreSQL
type PostgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

type taskModel struct {
	ID            string     `db:"id"`
	ApplicationID string     `db:"application_id"`
	CandidateID   string     `db:"candidate_id"`
	EmployeeName  string     `db:"employee_name"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	DueDate       time.Time  `db:"due_date"`
	Status        string     `db:"status"`
	CompletedAt   *time.Time `db:"completed_at"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

const taskColumns = `
	id, application_id, candidate_id, employee_name, title, description,
	due_date, status, completed_at, created_at, updated_at`

func (m *taskModel) toEntity() onboarding.Task {
	return onboarding.Task{
		ID:            kernel.TaskID(m.ID),
		ApplicationID: kernel.ApplicationID(m.ApplicationID),
		CandidateID:   kernel.CandidateID(m.CandidateID),
		EmployeeName:  m.EmployeeName,
		Title:         m.Title,
		Description:   m.Description,
		DueDate:       m.DueDate,
		Status:        onboarding.TaskStatus(m.Status),
		CompletedAt:   m.CompletedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromEntity(t *onboarding.Task) *taskModel {
	return &taskModel{
		ID:            string(t.ID),
		ApplicationID: string(t.ApplicationID),
		CandidateID:   string(t.CandidateID),
		EmployeeName:  t.EmployeeName,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       t.DueDate,
		Status:        string(t.Status),
		CompletedAt:   t.CompletedAt,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toEntities(models []taskModel) []onboarding.Task {
	out := make([]onboarding.Task, 0, len(models))
	for i := range models {
		out = append(out, models[i].toEntity())
	}
	return out
}

// CreateBatch relies on UNIQUE (application_id, title) to make reseeding a no-op.
func (r *PostgresTaskRepository) CreateBatch(ctx context.Context, tasks []onboarding.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	models := make([]*taskModel, 0, len(tasks))
	for i := range tasks {
		models = append(models, fromEntity(&tasks[i]))
	}
	query := `
		INSERT INTO onboarding_tasks (` + taskColumns + `
		) VALUES (
			:id, :application_id, :candidate_id, :employee_name, :title, :description,
			:due_date, :status, :completed_at, :created_at, :updated_at
		)
		ON CONFLICT (application_id, title) DO NOTHING
	`
	if _, err := r.db.NamedExecContext(ctx, query, models); err != nil {
		return fmt.Errorf("failed to create onboarding tasks: %w", err)
	}
	return nil
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id kernel.TaskID) (*onboarding.Task, error) {
	var model taskModel
	if err := r.db.GetContext(ctx, &model, `SELECT `+taskColumns+` FROM onboarding_tasks WHERE id = $1`, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, onboarding.ErrTaskNotFound().WithDetail("task_id", id.String())
		}
		return nil, fmt.Errorf("failed to get onboarding task: %w", err)
	}
	task := model.toEntity()
	return &task, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, t *onboarding.Task) error {
	query := `
		UPDATE onboarding_tasks SET
			status = :status,
			completed_at = :completed_at,
			updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, fromEntity(t))
	if err != nil {
		return fmt.Errorf("failed to update onboarding task: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return onboarding.ErrTaskNotFound().WithDetail("task_id", t.ID.String())
	}
	return nil
}

func (r *PostgresTaskRepository) ListByApplication(ctx context.Context, appID kernel.ApplicationID) ([]onboarding.Task, error) {
	var models []taskModel
	query := `SELECT ` + taskColumns + ` FROM onboarding_tasks WHERE application_id = $1 ORDER BY due_date, title`
	if err := r.db.SelectContext(ctx, &models, query, string(appID)); err != nil {
		return nil, fmt.Errorf("failed to list onboarding tasks: %w", err)
	}
	return toEntities(models), nil
}

func (r *PostgresTaskRepository) List(ctx context.Context, filter onboarding.ListTasksFilter, now time.Time, pagination kernel.PaginationOptions) (*kernel.Paginated[onboarding.Task], error) {
	pagination = pagination.Normalize()
	where, args := buildListFilter(filter, now)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM onboarding_tasks`+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count onboarding tasks: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM onboarding_tasks%s ORDER BY due_date, id LIMIT $%d OFFSET $%d`,
		taskColumns, where, len(args)+1, len(args)+2)
	args = append(args, pagination.Limit(), pagination.Offset())

	var models []taskModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list onboarding tasks: %w", err)
	}
	page := kernel.NewPaginated(toEntities(models), pagination.Page, pagination.PageSize, total)
	return &page, nil
}

func buildListFilter(f onboarding.ListTasksFilter, now time.Time) (string, []any) {
	var clauses []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.OverdueOnly {
		args = append(args, now)
		clauses = append(clauses, fmt.Sprintf("status <> 'done' AND due_date < $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *PostgresTaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]onboarding.Task, error) {
	var models []taskModel
	query := `SELECT ` + taskColumns + ` FROM onboarding_tasks WHERE status <> 'done' AND due_date < $1 ORDER BY due_date`
	if err := r.db.SelectContext(ctx, &models, query, now); err != nil {
		return nil, fmt.Errorf("failed to list overdue tasks: %w", err)
	}
	return toEntities(models), nil
}
