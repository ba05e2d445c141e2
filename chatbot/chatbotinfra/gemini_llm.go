package chatbotinfra

import (
	"context"
	"strings"

	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiLLM answers chatbot questions through the Gemini API.
type GeminiLLM struct {
	client *genai.Client
	model  string
}

// NewGeminiLLM builds the client. baseURL is empty outside tests.
func NewGeminiLLM(ctx context.Context, apiKey, model, baseURL string) (*GeminiLLM, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errx.New("gemini api key is required", errx.TypeValidation)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, errx.Wrap(err, "failed to create genai client", errx.TypeExternal)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultGeminiModel
	}
	return &GeminiLLM{client: client, model: model}, nil
}

func (l *GeminiLLM) Name() string { return "gemini" }

func (l *GeminiLLM) Complete(ctx context.Context, system, question string) (string, error) {
	resp, err := l.client.Models.GenerateContent(ctx, l.model, genai.Text(question), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
	})
	if err != nil {
		return "", chatbot.ErrRegistry.NewWithCause(chatbot.CodeProviderFailed, err).
			WithDetail("provider", l.Name())
	}

	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if text := strings.TrimSpace(part.Text); text != "" {
				if b.Len() > 0 {
					b.WriteString("\n")
				}
				b.WriteString(text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}
	if b.Len() == 0 {
		return "", chatbot.ErrProviderFailed().WithDetail("reason", "empty response")
	}
	return b.String(), nil
}

var _ chatbot.LLM = (*GeminiLLM)(nil)
