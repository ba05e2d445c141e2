package chatbotinfra

import (
	"context"
	"time"

	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
)

// PostgresFAQRepository stores FAQ entries with a pgvector embedding column.
type PostgresFAQRepository struct {
	db *sqlx.DB
}

func NewPostgresFAQRepository(db *sqlx.DB) *PostgresFAQRepository {
	return &PostgresFAQRepository{db: db}
}

type faqModel struct {
	ID        string          `db:"id"`
	Question  string          `db:"question"`
	Answer    string          `db:"answer"`
	Embedding pgvector.Vector `db:"embedding"`
	CreatedBy string          `db:"created_by"`
	CreatedAt time.Time       `db:"created_at"`
}

type faqMatchModel struct {
	faqModel
	Distance float64 `db:"distance"`
}

func (m *faqModel) toEntity() chatbot.FAQ {
	return chatbot.FAQ{
		ID:        kernel.FAQID(m.ID),
		Question:  m.Question,
		Answer:    m.Answer,
		Embedding: kernel.Embedding(m.Embedding.Slice()),
		CreatedBy: kernel.UserID(m.CreatedBy),
		CreatedAt: m.CreatedAt,
	}
}

func fromEntity(f *chatbot.FAQ) faqModel {
	return faqModel{
		ID:        f.ID.String(),
		Question:  f.Question,
		Answer:    f.Answer,
		Embedding: pgvector.NewVector(f.Embedding),
		CreatedBy: string(f.CreatedBy),
		CreatedAt: f.CreatedAt,
	}
}

func (r *PostgresFAQRepository) Create(ctx context.Context, faq *chatbot.FAQ) error {
	query := `
		INSERT INTO chatbot_faqs (id, question, answer, embedding, created_by, created_at)
		VALUES (:id, :question, :answer, :embedding, :created_by, :created_at)`

	_, err := r.db.NamedExecContext(ctx, query, fromEntity(faq))
	return err
}

// Nearest orders by cosine distance (pgvector <=>).
func (r *PostgresFAQRepository) Nearest(ctx context.Context, embedding kernel.Embedding, limit int) ([]chatbot.FAQMatch, error) {
	if limit <= 0 {
		limit = 1
	}
	query := `
		SELECT id, question, answer, embedding, created_by, created_at,
			embedding <=> $1 AS distance
		FROM chatbot_faqs
		ORDER BY embedding <=> $1
		LIMIT $2`

	var models []faqMatchModel
	if err := r.db.SelectContext(ctx, &models, query, pgvector.NewVector(embedding), limit); err != nil {
		return nil, err
	}

	matches := make([]chatbot.FAQMatch, len(models))
	for i := range models {
		matches[i] = chatbot.FAQMatch{
			FAQ:      models[i].toEntity(),
			Distance: models[i].Distance,
		}
	}
	return matches, nil
}

func (r *PostgresFAQRepository) List(ctx context.Context) ([]chatbot.FAQ, error) {
	query := `
		SELECT id, question, answer, embedding, created_by, created_at
		FROM chatbot_faqs
		ORDER BY created_at DESC`

	var models []faqModel
	if err := r.db.SelectContext(ctx, &models, query); err != nil {
		return nil, err
	}

	faqs := make([]chatbot.FAQ, len(models))
	for i := range models {
		faqs[i] = models[i].toEntity()
	}
	return faqs, nil
}

func (r *PostgresFAQRepository) Delete(ctx context.Context, id kernel.FAQID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chatbot_faqs WHERE id = $1`, id.String())
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return chatbot.ErrFAQNotFound().WithDetail("faq_id", id.String())
	}
	return nil
}
