// Package chatbot answers HR questions from rules, an FAQ and an LLM.
package chatbot

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/Abraxas-365/hrportal/pkg/kernel"
)

// Source tells which stage produced a reply.
type Source string

const (
	SourceRule     Source = "rule"
	SourceFAQ      Source = "faq"
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

type Reply struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
	// FAQID and Distance are set for FAQ replies.
	FAQID    kernel.FAQID `json:"faq_id,omitempty"`
	Distance float64      `json:"distance,omitempty"`
}

// Rule answers a question that contains every keyword.
type Rule struct {
	Keywords []string
	Answer   string
}

// NormalizeQuestion lowercases text and turns punctuation into single spaces.
func NormalizeQuestion(q string) string {
	var b strings.Builder
	b.Grow(len(q))
	space := true
	for _, r := range strings.ToLower(q) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			space = false
			continue
		}
		if !space {
			b.WriteByte(' ')
			space = true
		}
	}
	return strings.TrimSpace(b.String())
}

// MatchRule returns the first rule whose keywords all occur in the question.
// Rules without keywords never match.
func MatchRule(rules []Rule, question string) (Rule, bool) {
	normalized := NormalizeQuestion(question)
	for _, rule := range rules {
		if len(rule.Keywords) == 0 {
			continue
		}
		all := true
		for _, kw := range rule.Keywords {
			kw = NormalizeQuestion(kw)
			if kw == "" || !strings.Contains(normalized, kw) {
				all = false
				break
			}
		}
		if all {
			return rule, true
		}
	}
	return Rule{}, false
}

type FAQ struct {
	ID        kernel.FAQID     `json:"id"`
	Question  string           `json:"question"`
	Answer    string           `json:"answer"`
	Embedding kernel.Embedding `json:"-"`
	CreatedBy kernel.UserID    `json:"created_by"`
	CreatedAt time.Time        `json:"created_at"`
}

// FAQMatch is an FAQ entry with its cosine distance to a question.
type FAQMatch struct {
	FAQ      FAQ     `json:"faq"`
	Distance float64 `json:"distance"`
}

type FAQRepository interface {
	Create(ctx context.Context, faq *FAQ) error
	// Nearest returns up to limit entries ordered by cosine distance.
	Nearest(ctx context.Context, embedding kernel.Embedding, limit int) ([]FAQMatch, error)
	List(ctx context.Context) ([]FAQ, error)
	Delete(ctx context.Context, id kernel.FAQID) error
}

type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// LLM completes a single question given a system prompt.
type LLM interface {
	Complete(ctx context.Context, system, question string) (string, error)
	Name() string
}

type AddFAQRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type AskRequest struct {
	Question string `json:"question"`
}
