package embeddings

import (
	"context"
	"strings"

	"github.com/Abraxas-365/hrportal/pkg/errx"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Generator creates embedding vectors for FAQ search.
type Generator struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewGenerator(apiKey, model string, opts ...option.RequestOption) *Generator {
	client := openai.NewClient(append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)...)
	m := openai.EmbeddingModelTextEmbedding3Small
	if model != "" {
		m = openai.EmbeddingModel(model)
	}
	return &Generator{client: &client, model: m}
}

// Embed returns the embedding of a single text.
func (g *Generator) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := g.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds texts in one request, preserving order. Blank texts are
// rejected since the API refuses them.
func (g *Generator) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, errx.New("no texts provided", errx.TypeValidation)
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, errx.New("text cannot be empty", errx.TypeValidation).WithDetail("index", i)
		}
	}

	resp, err := g.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: texts,
		},
		Model: g.model,
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to generate embeddings", errx.TypeExternal)
	}
	if len(resp.Data) != len(texts) {
		return nil, errx.New("embedding count mismatch", errx.TypeExternal).
			WithDetail("expected", len(texts)).
			WithDetail("got", len(resp.Data))
	}

	out := make([][]float32, len(texts))
	for _, data := range resp.Data {
		idx := int(data.Index)
		if idx < 0 || idx >= len(out) {
			idx = 0
		}
		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		out[idx] = vec
	}
	return out, nil
}
