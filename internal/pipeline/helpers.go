package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/ingest"
	"github.com/rkondaveeti/IngestAPI/internal/metrics"
)

var (
	ErrSummarizerDisabled = errors.New("summarization is not configured")
	ErrDocumentNotReady   = errors.New("document has not completed ingestion")
)

func (s *service) executeLoadStep(ctx context.Context, record docModel.DocumentRecord, format ingest.Format) (ingest.PageMap, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("content_load", time.Since(start)) }()

	return s.loader.Load(ctx, record.StoragePath, format)
}

func (s *service) executeAddStep(ctx context.Context, record docModel.DocumentRecord, sections []ingest.Section) ([]string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_add", time.Since(start)) }()

	return s.adapter.Add(ctx, sections, record.CollectionName, record.Id, record.FileName)
}

func (s *service) executeSummaryStep(ctx context.Context, record docModel.DocumentRecord) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("summary_generation", time.Since(start)) }()

	chunkTexts, err := s.vectorDB.ChunkTexts(ctx, record.CollectionName, record.Id)
	if err != nil {
		return "", err
	}
	return s.summarizer.Summarize(ctx, chunkTexts)
}
