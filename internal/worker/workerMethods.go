package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/metrics"
)

func executeJob(currentJob docModel.PipelineJob) {
	start := time.Now()
	defer func() {
		metrics.CaptureJobMetrics(string(currentJob.Kind), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, currentJob.TraceId)
	ctx, cancel := context.WithTimeout(ctxTrace, config.PipelineRunTimeout)
	defer cancel()
	logger.Debug("Processing job:", "documentId:", currentJob.DocumentId, "kind", currentJob.Kind)

	switch currentJob.Kind {
	case docModel.JobKindIngest:
		record := _pipelineService.ProcessDocument(ctx, currentJob)
		metrics.CountDocumentIngested(string(record.ProcessStatus))

	case docModel.JobKindSummarize:
		if _, err := _pipelineService.Summarize(ctx, currentJob.DocumentId, currentJob.Regenerate); err != nil {
			logger.Error("Summarize job failed", "documentId", currentJob.DocumentId, "err", err)
		}

	default:
		logger.Error("Unknown job kind, dropping", "kind", currentJob.Kind)
	}
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}
