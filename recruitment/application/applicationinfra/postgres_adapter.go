package applicationinfra

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/application"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresApplicationRepository implements application.Repository using PostgreSQL
type PostgresApplicationRepository struct {
	db *sqlx.DB
}

func NewPostgresApplicationRepository(db *sqlx.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

// ============================================================================
// Database Models
// ============================================================================

type applicationModel struct {
	ID              string    `db:"id"`
	JobID           string    `db:"job_id"`
	CandidateID     string    `db:"candidate_id"`
	ResumeFilename  string    `db:"resume_filename"`
	ResumeKey       string    `db:"resume_key"`
	ParsedResume    *string   `db:"parsed_resume"` // JSONB, NULL until parsed
	MatchPercentage float64   `db:"match_percentage"`
	ParseStatus     string    `db:"parse_status"`
	ParseError      string    `db:"parse_error"`
	Status          string    `db:"status"`
	Notes           string    `db:"notes"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// applicationListModel for joined list queries
type applicationListModel struct {
	applicationModel
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	CandidateEmail string `db:"candidate_email"`
	JobTitle       string `db:"job_title"`
}

const applicationColumns = `
	a.id, a.job_id, a.candidate_id, a.resume_filename, a.resume_key, a.parsed_resume,
	a.match_percentage, a.parse_status, COALESCE(a.parse_error, '') AS parse_error, a.status,
	COALESCE(a.notes, '[]'::jsonb) AS notes,
	a.created_at, a.updated_at`

func (m *applicationModel) toEntity() (application.Application, error) {
	app := application.Application{
		ID:              kernel.ApplicationID(m.ID),
		JobID:           kernel.JobID(m.JobID),
		CandidateID:     kernel.CandidateID(m.CandidateID),
		ResumeFilename:  m.ResumeFilename,
		ResumeKey:       m.ResumeKey,
		MatchPercentage: m.MatchPercentage,
		ParseStatus:     resume.ParseStatus(m.ParseStatus),
		ParseError:      m.ParseError,
		Status:          application.ApplicationStatus(m.Status),
		Notes:           []application.Note{},
		AppliedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	// Older rows may still carry vendor field names.
	if m.ParsedResume != nil && *m.ParsedResume != "null" {
		app.ParsedResume = resume.DecodeParsedResume([]byte(*m.ParsedResume))
	}
	if len(m.Notes) > 0 {
		if err := json.Unmarshal([]byte(m.Notes), &app.Notes); err != nil {
			return app, fmt.Errorf("failed to decode notes of application %s: %w", m.ID, err)
		}
	}
	return app, nil
}

func fromEntity(app *application.Application) (*applicationModel, error) {
	parsed, err := parsedResumeColumn(app.ParsedResume)
	if err != nil {
		return nil, err
	}
	notes := app.Notes
	if notes == nil {
		notes = []application.Note{}
	}
	notesJSON, err := json.Marshal(notes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode notes: %w", err)
	}
	return &applicationModel{
		ID:              string(app.ID),
		JobID:           string(app.JobID),
		CandidateID:     string(app.CandidateID),
		ResumeFilename:  app.ResumeFilename,
		ResumeKey:       app.ResumeKey,
		ParsedResume:    parsed,
		MatchPercentage: app.MatchPercentage,
		ParseStatus:     string(app.ParseStatus),
		ParseError:      app.ParseError,
		Status:          string(app.Status),
		Notes:           string(notesJSON),
		CreatedAt:       app.AppliedAt,
		UpdatedAt:       app.UpdatedAt,
	}, nil
}

// parsedResumeColumn encodes a resume for the JSONB column; nil stays NULL.
func parsedResumeColumn(r *resume.ParsedResume) (*string, error) {
	if r == nil {
		return nil, nil
	}
	raw, err := r.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to encode parsed resume: %w", err)
	}
	s := string(raw)
	return &s, nil
}

// ============================================================================
// Repository Implementation
// ============================================================================

func (r *PostgresApplicationRepository) Create(ctx context.Context, app *application.Application) error {
	model, err := fromEntity(app)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO applications (
			id, job_id, candidate_id, resume_filename, resume_key, parsed_resume,
			match_percentage, parse_status, parse_error, status, notes, created_at, updated_at
		) VALUES (
			:id, :job_id, :candidate_id, :resume_filename, :resume_key, :parsed_resume,
			:match_percentage, :parse_status, :parse_error, :status, :notes, :created_at, :updated_at
		)
	`
	if _, err := r.db.NamedExecContext(ctx, query, model); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique (job_id, candidate_id)
			return application.ErrApplicationAlreadyExists().
				WithDetail("job_id", app.JobID.String()).
				WithDetail("candidate_id", app.CandidateID.String())
		}
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id kernel.ApplicationID) (*application.Application, error) {
	var model applicationModel
	query := `SELECT ` + applicationColumns + ` FROM applications a WHERE a.id = $1`
	if err := r.db.GetContext(ctx, &model, query, string(id)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, application.ErrApplicationNotFound().WithDetail("application_id", id.String())
		}
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	app, err := model.toEntity()
	if err != nil {
		return nil, err
	}
	return &app, nil
}

func (r *PostgresApplicationRepository) ExistsByJobAndCandidate(ctx context.Context, jobID kernel.JobID, candidateID kernel.CandidateID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND candidate_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, string(jobID), string(candidateID)); err != nil {
		return false, fmt.Errorf("failed to check application existence: %w", err)
	}
	return exists, nil
}

func (r *PostgresApplicationRepository) List(ctx context.Context, filter application.ListFilter, pagination kernel.PaginationOptions) (*kernel.Paginated[application.ListItem], error) {
	pagination = pagination.Normalize()
	where, args := buildListFilter(filter)

	from := `
		FROM applications a
		JOIN candidates c ON c.id = a.candidate_id
		JOIN jobs j ON j.id = a.job_id` + where

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*)`+from, args...); err != nil {
		return nil, fmt.Errorf("failed to count applications: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s, c.first_name, c.last_name, c.email AS candidate_email, j.title AS job_title
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		applicationColumns, from, orderBy(filter.Sort), len(args)+1, len(args)+2)
	args = append(args, pagination.Limit(), pagination.Offset())

	var models []applicationListModel
	if err := r.db.SelectContext(ctx, &models, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	items := make([]application.ListItem, 0, len(models))
	for i := range models {
		app, err := models[i].toEntity()
		if err != nil {
			return nil, err
		}
		items = append(items, application.ListItem{
			Application:    app,
			CandidateName:  strings.TrimSpace(models[i].FirstName + " " + models[i].LastName),
			CandidateEmail: kernel.Email(models[i].CandidateEmail),
			JobTitle:       models[i].JobTitle,
		})
	}
	page := kernel.NewPaginated(items, pagination.Page, pagination.PageSize, total)
	return &page, nil
}

// buildListFilter renders the WHERE clause of List with positional args.
func buildListFilter(f application.ListFilter) (string, []any) {
	var clauses []string
	var args []any
	add := func(clause string, arg any) {
		args = append(args, arg)
		clauses = append(clauses, fmt.Sprintf(clause, len(args)))
	}

	if f.JobID != "" {
		add("a.job_id = $%d", string(f.JobID))
	}
	if f.CandidateID != "" {
		add("a.candidate_id = $%d", string(f.CandidateID))
	}
	if f.Status != "" {
		add("a.status = $%d", string(f.Status))
	}
	if f.MinMatch != nil {
		add("a.match_percentage >= $%d", *f.MinMatch)
	}
	if f.MaxMatch != nil {
		add("a.match_percentage <= $%d", *f.MaxMatch)
	}
	if f.Search != "" {
		add("(c.email ILIKE $%[1]d OR (c.first_name || ' ' || c.last_name) ILIKE $%[1]d)", "%"+f.Search+"%")
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderBy(s application.SortOrder) string {
	switch s {
	case application.SortMatchDesc:
		return "a.match_percentage DESC, a.created_at DESC, a.id"
	case application.SortMatchAsc:
		return "a.match_percentage ASC, a.created_at DESC, a.id"
	case application.SortAppliedAsc:
		return "a.created_at ASC, a.id"
	default:
		return "a.created_at DESC, a.id"
	}
}

// SaveParseOutcome is a plain overwrite, so replays of the same outcome are harmless.
func (r *PostgresApplicationRepository) SaveParseOutcome(ctx context.Context, id kernel.ApplicationID, o application.ParsedOutcome) error {
	parsed, err := parsedResumeColumn(o.ParsedResume)
	if err != nil {
		return err
	}
	query := `
		UPDATE applications SET
			parsed_resume = $2,
			match_percentage = $3,
			parse_status = $4,
			parse_error = $5,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, string(id), parsed, o.MatchPercentage, string(o.ParseStatus), o.ParseError)
	if err != nil {
		return fmt.Errorf("failed to save parse outcome: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *PostgresApplicationRepository) UpdateStatus(ctx context.Context, id kernel.ApplicationID, status application.ApplicationStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`,
		string(id), string(status))
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *PostgresApplicationRepository) AppendNote(ctx context.Context, id kernel.ApplicationID, note application.Note) error {
	raw, err := json.Marshal([]application.Note{note})
	if err != nil {
		return fmt.Errorf("failed to encode note: %w", err)
	}
	query := `
		UPDATE applications SET
			notes = COALESCE(notes, '[]'::jsonb) || $2::jsonb,
			updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, string(id), string(raw))
	if err != nil {
		return fmt.Errorf("failed to append note: %w", err)
	}
	return expectOneRow(result, id)
}

func (r *PostgresApplicationRepository) Delete(ctx context.Context, id kernel.ApplicationID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, string(id))
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return expectOneRow(result, id)
}

func expectOneRow(result sql.Result, id kernel.ApplicationID) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return application.ErrApplicationNotFound().WithDetail("application_id", id.String())
	}
	return nil
}
