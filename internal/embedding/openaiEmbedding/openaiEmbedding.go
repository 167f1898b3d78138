package openaiEmbedding

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/rkondaveeti/IngestAPI/internal/embedding"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

type client struct {
	openAi openai.Client
	model  string
	logger *logger_i.Logger
}

// NewOpenAIEmbedder builds an embedder over the OpenAI embeddings API.
// It is configured sequential-only: the vector-store adapter embeds and
// upserts one chunk at a time when this provider is selected.
func NewOpenAIEmbedder(apikey string, modelName string) (embedding.Embedder, error) {
	if apikey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	return &client{
		openAi: openai.NewClient(option.WithAPIKey(apikey)),
		model:  modelName,
		logger: logger_i.NewLogger("openai_embedding"),
	}, nil
}

func (c *client) BatchCapable() bool { return false }

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := c.openAi.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfString: openai.String(text)},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		c.logger.WithTrace(ctx).Error("error getting embedding from OpenAI", "error", err)
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("empty embedding response for model %s", c.model)
	}
	return toFloat32(resp.Data[0].Embedding), nil
}

// BatchEmbedding satisfies the interface by looping; callers should check
// BatchCapable first and prefer per-chunk calls for this provider.
func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for _, chunk := range chunks {
		v, err := c.GetEmbedding(ctx, chunk)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, v)
	}
	return vectors, nil
}

func toFloat32(values []float64) []float32 {
	out := make([]float32, len(values))
	for i, v := range values {
		out[i] = float32(v)
	}
	return out
}
