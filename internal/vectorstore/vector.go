package vectorstore

import (
	"context"
	"time"
)

// DocChunk is one embeddable segment as the vector store sees it. Every
// chunk of a document carries the same DocumentId so the document's
// vectors can later be grouped or removed together.
type DocChunk struct {
	ChunkId    string
	DocumentId string
	FileName   string
	Text       string
	PageNum    int
	ChunkOrder int
	IngestedAt time.Time
}

type VectorDB interface {
	EnsureCollection(ctx context.Context, collectionName string) error
	UpsertChunks(ctx context.Context, collectionName string, chunks []DocChunk, vectors [][]float32) error

	// ChunkTexts returns the stored chunk texts of one document in chunk
	// order, for the summarization stage.
	ChunkTexts(ctx context.Context, collectionName string, documentId string) ([]string, error)
}
