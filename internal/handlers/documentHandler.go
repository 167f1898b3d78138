package handlers

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/job"
	"github.com/rkondaveeti/IngestAPI/internal/metrics"
	"github.com/rkondaveeti/IngestAPI/internal/pipeline"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

var (
	handlerInstance *DocumentHandler //private singleton
	once            sync.Once
	logDH           *logger_i.Logger
)

type DocumentHandler struct {
	service  *job.Service
	pipeline pipeline.Service
}

func InitDocumentHandler(jobService *job.Service, pipelineService pipeline.Service) {
	once.Do(func() {
		handlerInstance = &DocumentHandler{service: jobService, pipeline: pipelineService}

		logDH = logger_i.NewLogger("DocumentHandler")
		logRH = logger_i.NewLogger("RequestHandler")
		logDH.Info("Starting document handler")
	})
}

func CreateDocumentRecord(ctx context.Context, record docModel.DocumentRecord) error {
	return handlerInstance.service.DocumentStore.CreateDocument(ctx, record)
}

func GetDocument(id string, traceId string) (docModel.DocumentRecord, error) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	return handlerInstance.service.DocumentStore.GetById(ctxC, id)
}

func GetDocumentByFileName(fileName string, traceId string) (docModel.DocumentRecord, error) {
	ctxC := context.WithValue(context.Background(), config.TRACE_ID_KEY, traceId)
	return handlerInstance.service.DocumentStore.GetByFileName(ctxC, fileName)
}

// EnqueueJob hands a pipeline job to the worker pool. The send blocks when
// the buffer is full, which backpressures uploads instead of dropping work.
func EnqueueJob(newJob docModel.PipelineJob) {
	logDH.Info("Queueing pipeline job", "documentId", newJob.DocumentId, "kind", newJob.Kind)

	//metrics
	metrics.IncrementJobsInQueue()

	handlerInstance.service.JobChannel <- newJob

	//we will start a new worker every 10 requests - can also be configured
	//ingestion involves batch embedding which might take time - external system call
	//so an ingest job always gets a dispatcher signal, the worker retires when idle
	accurateCount := atomic.AddInt64(&handlerInstance.service.RequestCount, 1)
	if accurateCount%config.RequestsPerNewWorkerCount == 0 || newJob.Kind == docModel.JobKindIngest {
		metrics.StartDispatcherSignalCount() //metrics
		logDH.Debug("Worker count ", accurateCount)
		handlerInstance.service.DispatcherChannel <- true
	}
}
