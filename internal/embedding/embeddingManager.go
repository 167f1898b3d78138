package embedding

import "context"

// Embedder is implemented by every embedding provider. BatchCapable is a
// property of the provider configuration, not of a request: providers that
// cannot embed a whole document in one call report false and the
// vector-store adapter falls back to one call per chunk.
type Embedder interface {
	GetEmbedding(ctx context.Context, text string) ([]float32, error)
	BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error)
	BatchCapable() bool
}
