package chatbotinfra

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Abraxas-365/hrportal/chatbot"
	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/openai/openai-go/v3/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAILLMComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "Where is the office?", req.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o-mini",
			"choices": []any{map[string]any{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": " Lima, floor 3. "},
			}},
		})
	}))
	defer srv.Close()

	llm := NewOpenAILLM("test", "", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	text, err := llm.Complete(context.Background(), "be brief", "Where is the office?")
	require.NoError(t, err)
	assert.Equal(t, "Lima, floor 3.", text)
}

func TestOpenAILLMUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	llm := NewOpenAILLM("test", "gpt-4o-mini", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	_, err := llm.Complete(context.Background(), "sys", "q")
	assert.True(t, errx.IsCode(err, chatbot.CodeProviderFailed))
}

func TestGeminiLLMComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []any{map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": "Thirty days."}},
				},
			}},
		})
	}))
	defer srv.Close()

	llm, err := NewGeminiLLM(context.Background(), "test", "", srv.URL)
	require.NoError(t, err)
	text, err := llm.Complete(context.Background(), "be brief", "vacation?")
	require.NoError(t, err)
	assert.Equal(t, "Thirty days.", text)
}

func TestGeminiLLMRequiresKey(t *testing.T) {
	_, err := NewGeminiLLM(context.Background(), " ", "", "")
	assert.True(t, errx.IsType(err, errx.TypeValidation))
}
