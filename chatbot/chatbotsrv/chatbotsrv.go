package chatbotsrv

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/Abraxas-365/hrportal/pkg/config"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/Abraxas-365/hrportal/pkg/iam/auth"
	"github.com/Abraxas-365/hrportal/pkg/kernel"
	"github.com/Abraxas-365/hrportal/pkg/logx"
	"github.com/Abraxas-365/hrportal/pkg/metrics"
	"github.com/google/uuid"
)

const (
	// MaxQuestionLength is counted in runes.
	MaxQuestionLength = 1000
	// faqContextSize is how many nearby FAQ entries are handed to the LLM.
	faqContextSize = 3

	defaultFallback = "Sorry, I don't have an answer to that yet. Please contact the HR team."
	defaultTimeout  = 15 * time.Second
)

const systemPrompt = `You are the HR assistant of a company portal. Answer questions from employees
and applicants about hiring, onboarding and HR policies in at most a few sentences.
If the reference answers below do not cover the question and you are not sure,
say that the HR team should be contacted. Never invent salaries, dates or names.`

// ChatbotService answers questions through rules, FAQ search, an LLM and a
// fallback message, in that order.
type ChatbotService struct {
	rules       []chatbot.Rule
	faqRepo     chatbot.FAQRepository
	embedder    chatbot.Embedder
	llm         chatbot.LLM
	maxDistance float64
	fallback    string
	timeout     time.Duration
	now         func() time.Time
}

// NewChatbotService wires the answer pipeline. embedder and llm may be nil,
// which skips the FAQ and LLM stages.
func NewChatbotService(
	faqRepo chatbot.FAQRepository,
	embedder chatbot.Embedder,
	llm chatbot.LLM,
	cfg config.ChatbotConfig,
) *ChatbotService {
	rules := make([]chatbot.Rule, 0, len(cfg.Rules))
	for _, r := range cfg.Rules {
		rules = append(rules, chatbot.Rule{Keywords: r.Keywords, Answer: r.Answer})
	}
	fallback := strings.TrimSpace(cfg.FallbackMessage)
	if fallback == "" {
		fallback = defaultFallback
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &ChatbotService{
		rules:       rules,
		faqRepo:     faqRepo,
		embedder:    embedder,
		llm:         llm,
		maxDistance: cfg.FAQMaxDistance,
		fallback:    fallback,
		timeout:     timeout,
		now:         time.Now,
	}
}

// ============================================================================
// Answering
// ============================================================================

// Answer replies to a question. Provider failures degrade to the next stage,
// so only validation errors are returned.
func (s *ChatbotService) Answer(ctx context.Context, ac auth.AuthContext, question string) (*chatbot.Reply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, chatbot.ErrEmptyQuestion()
	}
	if utf8.RuneCountInString(question) > MaxQuestionLength {
		return nil, chatbot.ErrQuestionTooLong().WithDetail("max_length", MaxQuestionLength)
	}

	reply := s.answer(ctx, question)
	metrics.ChatbotAnswers.WithLabelValues(string(reply.Source)).Inc()
	logx.Debug("chatbot answered",
		logx.String("user_id", string(ac.UserID)),
		logx.String("source", string(reply.Source)),
		logx.String("question", logx.Truncate(question, 120)))
	return reply, nil
}

func (s *ChatbotService) answer(ctx context.Context, question string) *chatbot.Reply {
	if rule, ok := chatbot.MatchRule(s.rules, question); ok {
		return &chatbot.Reply{Text: rule.Answer, Source: chatbot.SourceRule}
	}

	nearest := s.nearestFAQs(ctx, question)
	if len(nearest) > 0 && nearest[0].Distance <= s.maxDistance {
		best := nearest[0]
		return &chatbot.Reply{
			Text:     best.FAQ.Answer,
			Source:   chatbot.SourceFAQ,
			FAQID:    best.FAQ.ID,
			Distance: best.Distance,
		}
	}

	if s.llm != nil {
		if text, ok := s.complete(ctx, question, nearest); ok {
			return &chatbot.Reply{Text: text, Source: chatbot.SourceLLM}
		}
	}

	return &chatbot.Reply{Text: s.fallback, Source: chatbot.SourceFallback}
}

func (s *ChatbotService) nearestFAQs(ctx context.Context, question string) []chatbot.FAQMatch {
	if s.embedder == nil || s.faqRepo == nil {
		return nil
	}
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		logx.Warn("chatbot embedding failed, skipping faq search", logx.Err(err))
		return nil
	}
	matches, err := s.faqRepo.Nearest(ctx, vec, faqContextSize)
	if err != nil {
		logx.Warn("chatbot faq search failed", logx.Err(err))
		return nil
	}
	return matches
}

func (s *ChatbotService) complete(ctx context.Context, question string, reference []chatbot.FAQMatch) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.llm.Complete(ctx, buildSystemPrompt(reference), question)
	if err != nil {
		logx.Warn("chatbot llm failed, using fallback",
			logx.String("provider", s.llm.Name()),
			logx.Err(err))
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

func buildSystemPrompt(reference []chatbot.FAQMatch) string {
	if len(reference) == 0 {
		return systemPrompt
	}
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nReference answers:\n")
	for i, m := range reference {
		fmt.Fprintf(&b, "%d. Q: %s\n   A: %s\n", i+1, m.FAQ.Question, m.FAQ.Answer)
	}
	return b.String()
}

// ============================================================================
// FAQ management
// ============================================================================

func (s *ChatbotService) AddFAQ(ctx context.Context, ac auth.AuthContext, req chatbot.AddFAQRequest) (*chatbot.FAQ, error) {
	question := strings.TrimSpace(req.Question)
	answer := strings.TrimSpace(req.Answer)
	if question == "" || answer == "" {
		return nil, chatbot.ErrInvalidFAQ()
	}
	if s.embedder == nil {
		return nil, chatbot.ErrEmbeddingsOff()
	}

	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, errx.Wrap(err, "failed to embed faq question", errx.TypeExternal)
	}

	faq := &chatbot.FAQ{
		ID:        kernel.NewFAQID(uuid.NewString()),
		Question:  question,
		Answer:    answer,
		Embedding: vec,
		CreatedBy: ac.UserID,
		CreatedAt: s.now(),
	}
	if err := s.faqRepo.Create(ctx, faq); err != nil {
		return nil, errx.Wrap(err, "failed to create faq", errx.TypeInternal)
	}

	logx.Info("faq entry added",
		logx.String("faq_id", faq.ID.String()),
		logx.String("created_by", string(ac.UserID)))
	return faq, nil
}

func (s *ChatbotService) ListFAQs(ctx context.Context) ([]chatbot.FAQ, error) {
	faqs, err := s.faqRepo.List(ctx)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list faqs", errx.TypeInternal)
	}
	return faqs, nil
}

func (s *ChatbotService) DeleteFAQ(ctx context.Context, id kernel.FAQID) error {
	if err := s.faqRepo.Delete(ctx, id); err != nil {
		return errx.Wrap(err, "failed to delete faq", errx.TypeInternal)
	}
	return nil
}
