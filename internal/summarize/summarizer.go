package summarize

import "context"

// Engine produces a single document summary from the document's stored
// chunk texts, in chunk order.
type Engine interface {
	Summarize(ctx context.Context, chunkTexts []string) (string, error)
}
