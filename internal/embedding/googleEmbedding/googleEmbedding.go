package googleEmbedding

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/embedding"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

var dimension int32 = config.EmbeddingOutputDimensionality

type client struct {
	genAi  *genai.Client
	model  string
	logger *logger_i.Logger
}

// NewGoogleEmbedder builds a batch-capable embedder over the Gemini
// embedding API. The client is an explicit dependency of the caller; there
// is no shared module-level instance.
func NewGoogleEmbedder(ctx context.Context, modelName string, apikey string) (embedding.Embedder, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apikey})
	if err != nil {
		return nil, fmt.Errorf("creating google embedding client: %w", err)
	}

	logger := logger_i.NewLogger("google_embedding")
	logger.Debug("Google embedding client created", "model", modelName)
	return &client{genAi: c, model: modelName, logger: logger}, nil
}

func (c *client) BatchCapable() bool { return true }

func (c *client) GetEmbedding(ctx context.Context, text string) ([]float32, error) {
	result, err := c.doCall(ctx, genai.Text(text))
	if err != nil {
		c.logger.WithTrace(ctx).Error("error getting embedding from Google", "error", err)
		return nil, err
	}
	if len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("empty embedding response for model %s", c.model)
	}
	return result.Embeddings[0].Values, nil
}

func (c *client) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	log := c.logger.WithTrace(ctx)

	res, err := c.doCall(ctx, getContent(chunks))
	if err != nil && doRetry(err, log) {
		log.Debug("rate limited, retrying in 5 seconds")
		time.Sleep(5 * time.Second)
		res, err = c.doCall(ctx, getContent(chunks))
	}
	if err != nil {
		log.Error("error getting batch embeddings from Google", "error", err)
		return nil, err
	}

	embeddingResults := make([][]float32, 0, len(res.Embeddings))
	for _, r := range res.Embeddings {
		embeddingResults = append(embeddingResults, r.Values)
	}
	return embeddingResults, nil
}

func (c *client) doCall(ctx context.Context, content []*genai.Content) (*genai.EmbedContentResponse, error) {
	return c.genAi.Models.EmbedContent(ctx, c.model, content, &genai.EmbedContentConfig{
		OutputDimensionality: &dimension,
		TaskType:             "RETRIEVAL_DOCUMENT",
	})
}
