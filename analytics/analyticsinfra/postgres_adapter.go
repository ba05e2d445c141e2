package analyticsinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/hrportal/analytics"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/recruitment/resume"
	"github.com/jmoiron/sqlx"
)

// PostgresAnalyticsRepository implements analytics.Repository with read-only queries.
type PostgresAnalyticsRepository struct {
	db *sqlx.DB
}

func NewPostgresAnalyticsRepository(db *sqlx.DB) *PostgresAnalyticsRepository {
	return &PostgresAnalyticsRepository{db: db}
}

func (r *PostgresAnalyticsRepository) StatusCounts(ctx context.Context) (map[string]int, error) {
	var rows []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, `SELECT status, COUNT(*) AS count FROM applications GROUP BY status`); err != nil {
		return nil, fmt.Errorf("failed to count applications by status: %w", err)
	}
	out := make(map[string]int, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

func (r *PostgresAnalyticsRepository) ApplicationsPerJob(ctx context.Context) ([]analytics.JobCount, error) {
	var rows []struct {
		JobID string `db:"job_id"`
		Title string `db:"title"`
		Count int    `db:"count"`
	}
	query := `
		SELECT j.id AS job_id, j.title, COUNT(a.id) AS count
		FROM jobs j
		LEFT JOIN applications a ON a.job_id = j.id
		WHERE j.status <> 'ARCHIVED'
		GROUP BY j.id, j.title
		ORDER BY count DESC, j.title
	`
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count applications per job: %w", err)
	}
	out := make([]analytics.JobCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, analytics.JobCount{JobID: kernel.JobID(row.JobID), Title: row.Title, Count: row.Count})
	}
	return out, nil
}

func (r *PostgresAnalyticsRepository) MatchPercentages(ctx context.Context) ([]float64, error) {
	var out []float64
	query := `SELECT match_percentage FROM applications WHERE parse_status = $1`
	if err := r.db.SelectContext(ctx, &out, query, string(resume.ParseStatusParsed)); err != nil {
		return nil, fmt.Errorf("failed to load match percentages: %w", err)
	}
	return out, nil
}

// HiresSince approximates the hire date with the last update of hired rows.
func (r *PostgresAnalyticsRepository) HiresSince(ctx context.Context, since time.Time) (int, error) {
	var n int
	query := `SELECT COUNT(*) FROM applications WHERE status = 'hired' AND updated_at >= $1`
	if err := r.db.GetContext(ctx, &n, query, since); err != nil {
		return 0, fmt.Errorf("failed to count hires: %w", err)
	}
	return n, nil
}

func (r *PostgresAnalyticsRepository) ParsedResumesForJob(ctx context.Context, jobID kernel.JobID) ([]*resume.ParsedResume, error) {
	var blobs []string
	query := `
		SELECT parsed_resume::text FROM applications
		WHERE job_id = $1 AND parse_status = $2 AND parsed_resume IS NOT NULL
	`
	if err := r.db.SelectContext(ctx, &blobs, query, string(jobID), string(resume.ParseStatusParsed)); err != nil {
		return nil, fmt.Errorf("failed to load parsed resumes: %w", err)
	}
	out := make([]*resume.ParsedResume, 0, len(blobs))
	for _, b := range blobs {
		out = append(out, resume.DecodeParsedResume([]byte(b)))
	}
	return out, nil
}
