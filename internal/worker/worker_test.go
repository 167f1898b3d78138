package worker

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/job"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

// MockPipelineService to track if jobs are executed
type MockPipelineService struct {
	ProcessedCount  int32
	SummarizedCount int32
}

func (m *MockPipelineService) ProcessDocument(ctx context.Context, j docModel.PipelineJob) docModel.DocumentRecord {
	atomic.AddInt32(&m.ProcessedCount, 1)
	return docModel.DocumentRecord{Id: j.DocumentId, ProcessStatus: docModel.StatusComplete}
}

func (m *MockPipelineService) Summarize(ctx context.Context, documentId string, regenerate bool) (docModel.DocumentRecord, error) {
	atomic.AddInt32(&m.SummarizedCount, 1)
	return docModel.DocumentRecord{Id: documentId}, nil
}

func TestWorkerPool_Flow(t *testing.T) {
	// 1. Setup
	jobSvc := &job.Service{
		JobChannel:        make(chan docModel.PipelineJob, 10),
		DispatcherChannel: make(chan bool, 10),
	}
	mockPipeline := &MockPipelineService{}
	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}

	InitServices(jobSvc, mockPipeline)
	InitWorkerPool(stopChan, wg)

	// Reset global state for test
	atomic.StoreInt64(&currentWorkerCount, 0)

	t.Run("Dispatcher creates worker on signal", func(t *testing.T) {
		// Signal dispatcher to create a worker
		jobSvc.DispatcherChannel <- true

		// Give it a millisecond to spawn
		time.Sleep(50 * time.Millisecond)

		count := atomic.LoadInt64(&currentWorkerCount)
		if count < 1 {
			t.Errorf("Expected at least 1 worker, got %d", count)
		}
	})

	t.Run("Worker processes an ingest job", func(t *testing.T) {
		jobSvc.JobChannel <- docModel.PipelineJob{Kind: docModel.JobKindIngest, DocumentId: "doc-1"}

		// Wait for worker to pick up and process
		time.Sleep(50 * time.Millisecond)

		processed := atomic.LoadInt32(&mockPipeline.ProcessedCount)
		if processed != 1 {
			t.Errorf("Expected 1 job processed, got %d", processed)
		}
	})

	t.Run("Worker routes summarize jobs", func(t *testing.T) {
		jobSvc.JobChannel <- docModel.PipelineJob{Kind: docModel.JobKindSummarize, DocumentId: "doc-1"}

		time.Sleep(50 * time.Millisecond)

		summarized := atomic.LoadInt32(&mockPipeline.SummarizedCount)
		if summarized != 1 {
			t.Errorf("Expected 1 summarize call, got %d", summarized)
		}
	})

	t.Run("Stop signal retires workers", func(t *testing.T) {
		// Send stop signal
		close(stopChan)

		// Wait for workers to exit
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			// Success
		case <-time.After(2 * time.Second):
			t.Error("Workers did not stop within timeout")
		}
	})
}

func TestWorkerPool_IdleRetirement(t *testing.T) {
	jobSvc := &job.Service{
		JobChannel:        make(chan docModel.PipelineJob),
		DispatcherChannel: make(chan bool),
	}
	InitServices(jobSvc, &MockPipelineService{})

	stopChan := make(chan bool)
	wg := &sync.WaitGroup{}
	stopWorkerChannel = stopChan
	workerWaitGroup = wg
	logger = logger_i.NewLogger("WorkerPool")
	atomic.StoreInt64(&currentWorkerCount, 0)

	previousTimeout := idleWorkerTimeout
	idleWorkerTimeout = 20 * time.Millisecond
	defer func() { idleWorkerTimeout = previousTimeout }()

	t.Run("Minimum worker survives idle timeouts", func(t *testing.T) {
		createWorker()

		// several idle timeouts pass, the last worker must stay
		time.Sleep(150 * time.Millisecond)

		if count := atomic.LoadInt64(&currentWorkerCount); count != config.MinWorkerCount {
			t.Errorf("Expected %d worker after idle timeouts, got %d", config.MinWorkerCount, count)
		}
	})

	t.Run("Surplus idle worker retires", func(t *testing.T) {
		createWorker()

		time.Sleep(150 * time.Millisecond)

		if count := atomic.LoadInt64(&currentWorkerCount); count >= 2 {
			t.Errorf("Expected the pool to shrink on idle, still %d workers", count)
		}
	})

	close(stopChan)
}
