package qdrantDB

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/qdrant/go-client/qdrant"

	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/vectorstore"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

var dimension = uint64(config.EmbeddingOutputDimensionality)

// scroll page size when pulling a document's chunks back out
const chunkScrollLimit = 4096

type ClientHolder struct {
	qObj   *qdrant.Client
	logger *logger_i.Logger
}

// NewClient connects to Qdrant. The returned holder is an explicit
// dependency of the pipeline; connection lifetime follows ctx.
func NewClient(ctx context.Context) (*ClientHolder, error) {
	logger := logger_i.NewLogger("Qdrant")

	host := os.Getenv("QDRANT_HOST")
	port, er := strconv.Atoi(os.Getenv("QDRANT_PORT"))
	if host == "" || er != nil {
		host = config.QdrantHost
		port = config.QdrantGrpcPort
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:     host,
		Port:     port,
		UseTLS:   config.QdrantUseTLS,
		PoolSize: uint(config.QdrantPoolSize),
	})
	if err != nil {
		return nil, fmt.Errorf("could not instantiate qdrant client: %w", err)
	}

	holder := &ClientHolder{qObj: client, logger: logger}
	go holder.closeOnDone(ctx)
	return holder, nil
}

func (db *ClientHolder) closeOnDone(ctx context.Context) {
	<-ctx.Done()
	db.logger.Info("Shutting down Qdrant")
	if err := db.qObj.Close(); err != nil {
		db.logger.Error("could not close Qdrant", "error", err)
	}
}

func (db *ClientHolder) EnsureCollection(ctx context.Context, collectionName string) error {
	if collectionName == "" {
		return errors.New("empty collection name")
	}

	exists, err := db.qObj.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	return db.qObj.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
}

func (db *ClientHolder) UpsertChunks(ctx context.Context, collectionName string, chunks []vectorstore.DocChunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("mismatch: got %d chunks but %d vectors", len(chunks), len(vectors))
	}

	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ChunkId),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"content":       chunk.Text,
				"page_num":      chunk.PageNum,
				"source_doc_id": chunk.DocumentId,
				"doc_name":      chunk.FileName,
				"chunk_order":   chunk.ChunkOrder,
				"chunk_id":      chunk.ChunkId,
				"ingested_at":   chunk.IngestedAt.Unix(),
			}),
		}
	}

	_, err := db.qObj.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collectionName,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}
	return nil
}

func (db *ClientHolder) ChunkTexts(ctx context.Context, collectionName string, documentId string) ([]string, error) {
	points, err := db.qObj.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: collectionName,
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("source_doc_id", documentId),
			},
		},
		Limit:       qdrant.PtrOf(uint32(chunkScrollLimit)),
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll failed: %w", err)
	}

	type orderedText struct {
		order int
		text  string
	}
	ordered := make([]orderedText, 0, len(points))
	for _, p := range points {
		ordered = append(ordered, orderedText{
			order: int(p.Payload["chunk_order"].GetIntegerValue()),
			text:  p.Payload["content"].GetStringValue(),
		})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].order < ordered[j].order })

	texts := make([]string, len(ordered))
	for i, o := range ordered {
		texts[i] = o.text
	}
	return texts, nil
}
