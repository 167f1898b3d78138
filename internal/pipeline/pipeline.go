package pipeline

import (
	"context"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/callback"
	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/ingest"
	"github.com/rkondaveeti/IngestAPI/internal/metrics"
	"github.com/rkondaveeti/IngestAPI/internal/summarize"
	"github.com/rkondaveeti/IngestAPI/internal/vectorstore"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

// Service Worker will only call this service - it doesn't need to know the
// loader, the embedder or the vector store.
type Service interface {
	ProcessDocument(ctx context.Context, job docModel.PipelineJob) docModel.DocumentRecord
	Summarize(ctx context.Context, documentId string, regenerate bool) (docModel.DocumentRecord, error)
}

type service struct {
	documents  docModel.DocumentStore
	loader     ingest.Loader
	chunkCfg   ingest.ChunkConfig
	adapter    vectorstore.Adapter
	vectorDB   vectorstore.VectorDB
	summarizer summarize.Engine
	notifier   callback.Notifier
	logger     *logger_i.Logger
}

// NewService constructor. summarizer may be nil, summary requests then fail
// with a stable error instead of a pipeline crash.
func NewService(
	documents docModel.DocumentStore,
	loader ingest.Loader,
	chunkCfg ingest.ChunkConfig,
	adapter vectorstore.Adapter,
	vectorDB vectorstore.VectorDB,
	summarizer summarize.Engine,
	notifier callback.Notifier,
) Service {
	return &service{
		documents:  documents,
		loader:     loader,
		chunkCfg:   chunkCfg,
		adapter:    adapter,
		vectorDB:   vectorDB,
		summarizer: summarizer,
		notifier:   notifier,
		logger:     logger_i.NewLogger("Pipeline Service :"),
	}
}

// ProcessDocument runs the full ingestion for one stored document. Failures
// anywhere in the run are absorbed here: the record leaves in COMPLETE or in
// ERROR with the failure text as its description, never mid-state.
func (s *service) ProcessDocument(ctx context.Context, job docModel.PipelineJob) docModel.DocumentRecord {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	log := s.logger.WithTrace(ctx).With("documentId", job.DocumentId)

	record, err := s.documents.GetById(ctx, job.DocumentId)
	if err != nil {
		log.Error("document record missing, dropping job", "error", err)
		return record
	}

	record, err = s.runIngestion(ctx, log, record)
	if err != nil {
		record = s.finishRecord(ctx, log, record, docModel.StatusError, err.Error())
	} else {
		record = s.finishRecord(ctx, log, record, docModel.StatusComplete, "")
	}

	s.deliverCallback(ctx, log, record)
	return record
}

// runIngestion is the happy path: detect, load, chunk, embed, upsert. The
// first failing stage wins and its error text becomes the status description.
func (s *service) runIngestion(ctx context.Context, log *logger_i.Logger, record docModel.DocumentRecord) (docModel.DocumentRecord, error) {
	format, err := ingest.DetectFormat(record.FileName)
	if err != nil {
		return record, err
	}
	log.Debug("format detected", "format", format)

	pages, err := s.executeLoadStep(ctx, record, format)
	if err != nil {
		return record, err
	}

	sections := ingest.CollectSections(ingest.SplitSections(pages, s.chunkCfg))
	log.Debug("document chunked", "pages", len(pages), "sections", len(sections))

	if err := s.vectorDB.EnsureCollection(ctx, record.CollectionName); err != nil {
		return record, err
	}

	vectorIds, err := s.executeAddStep(ctx, record, sections)
	if err != nil {
		return record, err
	}

	record.VectorIds = vectorIds
	return record, nil
}

// Summarize produces or returns the document summary. An existing summary is
// returned as-is unless regenerate is set. While the engine runs the record
// shows PENDING so status polls reflect the work in flight; the prior status
// is restored afterwards.
func (s *service) Summarize(ctx context.Context, documentId string, regenerate bool) (docModel.DocumentRecord, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_summarization", time.Since(start)) }()

	log := s.logger.WithTrace(ctx).With("documentId", documentId)

	record, err := s.documents.GetById(ctx, documentId)
	if err != nil {
		return record, err
	}

	if record.Summary != "" && !regenerate {
		log.Debug("summary already present, skipping engine")
		return record, nil
	}
	if s.summarizer == nil {
		return record, ErrSummarizerDisabled
	}
	if record.ProcessStatus != docModel.StatusComplete {
		return record, ErrDocumentNotReady
	}

	priorStatus := record.ProcessStatus
	record = s.finishRecord(ctx, log, record, docModel.StatusPending, "summarizing in progress")

	summary, err := s.executeSummaryStep(ctx, record)
	if err != nil {
		// summarization failure does not invalidate the ingested document
		record = s.finishRecord(ctx, log, record, priorStatus, "")
		return record, err
	}

	record.Summary = summary
	record = s.finishRecord(ctx, log, record, priorStatus, "")
	log.Debug("summary stored", "length", len(summary))
	return record, nil
}

// finishRecord is the single place the pipeline writes status transitions.
func (s *service) finishRecord(ctx context.Context, log *logger_i.Logger, record docModel.DocumentRecord, status docModel.ProcessStatus, description string) docModel.DocumentRecord {
	record.ProcessStatus = status
	record.ProcessDescription = description

	if err := s.documents.UpdateDocument(ctx, record); err != nil {
		log.Error("failed to persist status transition", "status", status, "error", err)
	}
	return record
}

func (s *service) deliverCallback(ctx context.Context, log *logger_i.Logger, record docModel.DocumentRecord) {
	if record.CallbackURL == "" || s.notifier == nil {
		return
	}

	callbackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.CallbackTimeout)
	defer cancel()

	// delivery failures are logged only, the record keeps its final status
	if err := s.notifier.Deliver(callbackCtx, record.CallbackURL, record); err != nil {
		log.Error("callback delivery failed", "url", record.CallbackURL, "error", err)
		return
	}
	log.Info("callback delivered", "url", record.CallbackURL)
}
