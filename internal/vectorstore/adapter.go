package vectorstore

import (
	"context"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/adapter/utils"
	"github.com/rkondaveeti/IngestAPI/internal/embedding"
	"github.com/rkondaveeti/IngestAPI/internal/ingest"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

// Adapter embeds a document's sections and upserts them under the
// document's id inside a collection. A failure on any chunk aborts the
// whole add; chunks upserted before the failure are not rolled back, the
// caller decides what the partial state means.
type Adapter interface {
	Add(ctx context.Context, sections []ingest.Section, collectionName string, documentId string, fileName string) ([]string, error)
}

// NewAdapter picks the strategy once, from the provider's configuration:
// batch-capable embedders get one embed call and one upsert for the whole
// document, everything else gets one embed+upsert per chunk.
func NewAdapter(embedder embedding.Embedder, db VectorDB) Adapter {
	if embedder.BatchCapable() {
		return &batchAdapter{embedder: embedder, db: db, logger: logger_i.NewLogger("BatchAdapter")}
	}
	return &sequentialAdapter{embedder: embedder, db: db, logger: logger_i.NewLogger("SequentialAdapter")}
}

type batchAdapter struct {
	embedder embedding.Embedder
	db       VectorDB
	logger   *logger_i.Logger
}

func (a *batchAdapter) Add(ctx context.Context, sections []ingest.Section, collectionName string, documentId string, fileName string) ([]string, error) {
	chunks := buildChunks(sections, documentId, fileName)

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	a.logger.WithTrace(ctx).Debug("embedding document in one batch", "chunks", len(texts))
	vectors, err := a.embedder.BatchEmbedding(ctx, texts)
	if err != nil {
		return nil, err
	}

	if err := a.db.UpsertChunks(ctx, collectionName, chunks, vectors); err != nil {
		return nil, err
	}
	return chunkIds(chunks), nil
}

type sequentialAdapter struct {
	embedder embedding.Embedder
	db       VectorDB
	logger   *logger_i.Logger
}

func (a *sequentialAdapter) Add(ctx context.Context, sections []ingest.Section, collectionName string, documentId string, fileName string) ([]string, error) {
	chunks := buildChunks(sections, documentId, fileName)
	a.logger.WithTrace(ctx).Debug("embedding document chunk by chunk", "chunks", len(chunks))

	for i := range chunks {
		vector, err := a.embedder.GetEmbedding(ctx, chunks[i].Text)
		if err != nil {
			return nil, err
		}
		if err := a.db.UpsertChunks(ctx, collectionName, chunks[i:i+1], [][]float32{vector}); err != nil {
			return nil, err
		}
	}
	return chunkIds(chunks), nil
}

func buildChunks(sections []ingest.Section, documentId string, fileName string) []DocChunk {
	now := time.Now()
	chunks := make([]DocChunk, 0, len(sections))
	for i, s := range sections {
		if s.Text == "" {
			continue
		}
		chunks = append(chunks, DocChunk{
			ChunkId:    utils.GetNewUUID(),
			DocumentId: documentId,
			FileName:   fileName,
			Text:       s.Text,
			PageNum:    s.Page,
			ChunkOrder: i,
			IngestedAt: now,
		})
	}
	return chunks
}

func chunkIds(chunks []DocChunk) []string {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ChunkId
	}
	return ids
}
