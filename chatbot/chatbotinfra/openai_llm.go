package chatbotinfra

import (
	"context"
	"strings"

	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAILLM answers chatbot questions with a chat completion.
type OpenAILLM struct {
	client *openai.Client
	model  string
}

func NewOpenAILLM(apiKey, model string, opts ...option.RequestOption) *OpenAILLM {
	if model == "" {
		model = "gpt-4o-mini"
	}
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	return &OpenAILLM{client: &client, model: model}
}

func (l *OpenAILLM) Name() string { return "openai" }

func (l *OpenAILLM) Complete(ctx context.Context, system, question string) (string, error) {
	completion, err := l.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(question),
		},
		Model:       l.model,
		Temperature: openai.Float(0.2),
		MaxTokens:   openai.Int(400),
	})
	if err != nil {
		return "", chatbot.ErrRegistry.NewWithCause(chatbot.CodeProviderFailed, err).
			WithDetail("provider", l.Name())
	}
	if len(completion.Choices) == 0 {
		return "", chatbot.ErrProviderFailed().WithDetail("reason", "no choices returned")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

var _ chatbot.LLM = (*OpenAILLM)(nil)
