package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/ingest"
	"github.com/rkondaveeti/IngestAPI/internal/pipeline"
)

func testContext() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func pendingRecord(fileName string) docModel.DocumentRecord {
	return docModel.DocumentRecord{
		Id:             "doc-1",
		FileName:       fileName,
		ProcessStatus:  docModel.StatusPending,
		CollectionName: "coll",
		StoragePath:    "/tmp/" + fileName,
	}
}

func newService(store *MockDocumentStore, loader *MockLoader, adapter *MockAdapter, vDB *MockVectorDB, engine *MockEngine, notifier *MockNotifier) pipeline.Service {
	cfg := ingest.ChunkConfig{Size: 50, Overlap: 10, SentenceSearchLimit: 20}
	return pipeline.NewService(store, loader, cfg, adapter, vDB, engine, notifier)
}

func TestProcessDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name            string
		fileName        string
		setupMocks      func(l *MockLoader, a *MockAdapter, v *MockVectorDB)
		expectedStatus  docModel.ProcessStatus
		descriptionPart string
		expectVectorIds bool
	}{
		{
			name:            "Success_Full_Flow",
			fileName:        "doc.txt",
			setupMocks:      func(l *MockLoader, a *MockAdapter, v *MockVectorDB) {},
			expectedStatus:  docModel.StatusComplete,
			expectVectorIds: true,
		},
		{
			name:            "Failure_Unsupported_Format",
			fileName:        "report.exe",
			setupMocks:      func(l *MockLoader, a *MockAdapter, v *MockVectorDB) {},
			expectedStatus:  docModel.StatusError,
			descriptionPart: "is not supported",
		},
		{
			name:     "Failure_Content_Load",
			fileName: "doc.pdf",
			setupMocks: func(l *MockLoader, a *MockAdapter, v *MockVectorDB) {
				l.OnLoad = func(ctx context.Context, path string, format ingest.Format) (ingest.PageMap, error) {
					return nil, &ingest.LoadError{Path: path, Err: errors.New("no readable content")}
				}
			},
			expectedStatus:  docModel.StatusError,
			descriptionPart: "no readable content",
		},
		{
			name:     "Failure_Collection_Creation",
			fileName: "doc.txt",
			setupMocks: func(l *MockLoader, a *MockAdapter, v *MockVectorDB) {
				v.OnEnsureCollection = func(ctx context.Context, name string) error {
					return errors.New("connection refused")
				}
			},
			expectedStatus:  docModel.StatusError,
			descriptionPart: "connection refused",
		},
		{
			name:     "Failure_Embedding_Add",
			fileName: "doc.txt",
			setupMocks: func(l *MockLoader, a *MockAdapter, v *MockVectorDB) {
				a.OnAdd = func(ctx context.Context, s []ingest.Section, coll string, id string, fn string) ([]string, error) {
					return nil, errors.New("api limit exceeded")
				}
			},
			expectedStatus:  docModel.StatusError,
			descriptionPart: "api limit exceeded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMockDocumentStore(pendingRecord(tt.fileName))
			loader := &MockLoader{}
			adapter := &MockAdapter{}
			vDB := &MockVectorDB{}
			tt.setupMocks(loader, adapter, vDB)

			s := newService(store, loader, adapter, vDB, &MockEngine{}, &MockNotifier{})
			result := s.ProcessDocument(testContext(), docModel.PipelineJob{Kind: docModel.JobKindIngest, DocumentId: "doc-1"})

			if result.ProcessStatus != tt.expectedStatus {
				t.Errorf("Status got %v, want %v", result.ProcessStatus, tt.expectedStatus)
			}
			if tt.descriptionPart != "" && !strings.Contains(result.ProcessDescription, tt.descriptionPart) {
				t.Errorf("Description %q should contain %q", result.ProcessDescription, tt.descriptionPart)
			}
			if tt.expectedStatus == docModel.StatusComplete && result.ProcessDescription != "" {
				t.Errorf("Completed record should have an empty description, got %q", result.ProcessDescription)
			}
			if tt.expectVectorIds && len(result.VectorIds) == 0 {
				t.Error("Completed record should carry the upserted vector ids")
			}
			if result.Summary != "" {
				t.Errorf("Ingestion must not produce a summary, got %q", result.Summary)
			}

			stored, err := store.GetById(testContext(), "doc-1")
			if err != nil {
				t.Fatalf("Record disappeared: %v", err)
			}
			if stored.ProcessStatus != tt.expectedStatus {
				t.Errorf("Persisted status got %v, want %v", stored.ProcessStatus, tt.expectedStatus)
			}
		})
	}
}

func TestProcessDocument_MissingRecordIsDropped(t *testing.T) {
	store := NewMockDocumentStore()
	s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, &MockEngine{}, &MockNotifier{})

	result := s.ProcessDocument(testContext(), docModel.PipelineJob{DocumentId: "ghost"})
	if result.Id != "" {
		t.Errorf("Expected zero record for missing document, got %+v", result)
	}
	if len(store.Updates) != 0 {
		t.Error("No updates should be written for a missing record")
	}
}

func TestProcessDocument_Callback(t *testing.T) {
	t.Run("Delivered on completion", func(t *testing.T) {
		record := pendingRecord("doc.txt")
		record.CallbackURL = "http://callback.test/hook"
		store := NewMockDocumentStore(record)
		notifier := &MockNotifier{}

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, &MockEngine{}, notifier)
		s.ProcessDocument(testContext(), docModel.PipelineJob{DocumentId: "doc-1"})

		if len(notifier.Deliveries) != 1 || notifier.Deliveries[0] != record.CallbackURL {
			t.Errorf("Expected one delivery to %s, got %v", record.CallbackURL, notifier.Deliveries)
		}
	})

	t.Run("Delivered on failure too", func(t *testing.T) {
		record := pendingRecord("report.exe")
		record.CallbackURL = "http://callback.test/hook"
		store := NewMockDocumentStore(record)
		notifier := &MockNotifier{}

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, &MockEngine{}, notifier)
		result := s.ProcessDocument(testContext(), docModel.PipelineJob{DocumentId: "doc-1"})

		if result.ProcessStatus != docModel.StatusError {
			t.Fatalf("Expected ERROR status, got %v", result.ProcessStatus)
		}
		if len(notifier.Deliveries) != 1 {
			t.Errorf("Failed run should still notify, got %v", notifier.Deliveries)
		}
	})

	t.Run("Delivery failure does not change the record", func(t *testing.T) {
		record := pendingRecord("doc.txt")
		record.CallbackURL = "http://callback.test/hook"
		store := NewMockDocumentStore(record)
		notifier := &MockNotifier{
			OnDeliver: func(ctx context.Context, url string, payload any) error {
				return errors.New("target unreachable")
			},
		}

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, &MockEngine{}, notifier)
		result := s.ProcessDocument(testContext(), docModel.PipelineJob{DocumentId: "doc-1"})

		if result.ProcessStatus != docModel.StatusComplete {
			t.Errorf("Callback failure must not alter the final status, got %v", result.ProcessStatus)
		}
	})
}

func TestSummarize_Scenarios(t *testing.T) {
	completeRecord := func() docModel.DocumentRecord {
		r := pendingRecord("doc.txt")
		r.ProcessStatus = docModel.StatusComplete
		return r
	}

	t.Run("Existing summary is returned without the engine", func(t *testing.T) {
		record := completeRecord()
		record.Summary = "already summarized"
		store := NewMockDocumentStore(record)
		engine := &MockEngine{}

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, engine, &MockNotifier{})
		result, err := s.Summarize(testContext(), "doc-1", false)
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if result.Summary != "already summarized" {
			t.Errorf("Summary got %q", result.Summary)
		}
		if engine.Calls != 0 {
			t.Errorf("Engine should not run, got %d calls", engine.Calls)
		}
	})

	t.Run("Regenerate replaces the stored summary", func(t *testing.T) {
		record := completeRecord()
		record.Summary = "stale summary"
		store := NewMockDocumentStore(record)
		engine := &MockEngine{OnSummarize: func(ctx context.Context, chunks []string) (string, error) {
			return "fresh summary", nil
		}}

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, engine, &MockNotifier{})
		result, err := s.Summarize(testContext(), "doc-1", true)
		if err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}
		if result.Summary != "fresh summary" {
			t.Errorf("Summary got %q", result.Summary)
		}
		if engine.Calls != 1 {
			t.Errorf("Engine should run once, got %d calls", engine.Calls)
		}
		if result.ProcessStatus != docModel.StatusComplete {
			t.Errorf("Status should return to COMPLETE, got %v", result.ProcessStatus)
		}
	})

	t.Run("Record shows PENDING while the engine runs", func(t *testing.T) {
		store := NewMockDocumentStore(completeRecord())
		var observed []docModel.DocumentRecord
		store.OnUpdate = func(record docModel.DocumentRecord) error {
			observed = append(observed, record)
			return nil
		}

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, &MockEngine{}, &MockNotifier{})
		if _, err := s.Summarize(testContext(), "doc-1", false); err != nil {
			t.Fatalf("Summarize failed: %v", err)
		}

		if len(observed) < 2 {
			t.Fatalf("Expected transient and final updates, got %d", len(observed))
		}
		first := observed[0]
		if first.ProcessStatus != docModel.StatusPending || first.ProcessDescription != "summarizing in progress" {
			t.Errorf("Transient update got %v %q", first.ProcessStatus, first.ProcessDescription)
		}
		last := observed[len(observed)-1]
		if last.ProcessStatus != docModel.StatusComplete || last.ProcessDescription != "" {
			t.Errorf("Final update got %v %q", last.ProcessStatus, last.ProcessDescription)
		}
	})

	t.Run("Engine failure restores the prior status", func(t *testing.T) {
		store := NewMockDocumentStore(completeRecord())
		engine := &MockEngine{OnSummarize: func(ctx context.Context, chunks []string) (string, error) {
			return "", errors.New("provider down")
		}}

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, engine, &MockNotifier{})
		result, err := s.Summarize(testContext(), "doc-1", false)
		if err == nil {
			t.Fatal("Expected error from failing engine")
		}
		if result.ProcessStatus != docModel.StatusComplete {
			t.Errorf("Status should be restored to COMPLETE, got %v", result.ProcessStatus)
		}
		if result.Summary != "" {
			t.Errorf("No summary should be stored on failure, got %q", result.Summary)
		}
	})

	t.Run("Pending document is rejected", func(t *testing.T) {
		store := NewMockDocumentStore(pendingRecord("doc.txt"))

		s := newService(store, &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, &MockEngine{}, &MockNotifier{})
		_, err := s.Summarize(testContext(), "doc-1", false)
		if !errors.Is(err, pipeline.ErrDocumentNotReady) {
			t.Errorf("Expected ErrDocumentNotReady, got %v", err)
		}
	})

	t.Run("Disabled summarizer is rejected", func(t *testing.T) {
		store := NewMockDocumentStore(completeRecord())

		s := pipeline.NewService(store, &MockLoader{}, ingest.ChunkConfig{Size: 50, Overlap: 10, SentenceSearchLimit: 20}, &MockAdapter{}, &MockVectorDB{}, nil, &MockNotifier{})
		_, err := s.Summarize(testContext(), "doc-1", false)
		if !errors.Is(err, pipeline.ErrSummarizerDisabled) {
			t.Errorf("Expected ErrSummarizerDisabled, got %v", err)
		}
	})

	t.Run("Missing document", func(t *testing.T) {
		s := newService(NewMockDocumentStore(), &MockLoader{}, &MockAdapter{}, &MockVectorDB{}, &MockEngine{}, &MockNotifier{})
		_, err := s.Summarize(testContext(), "ghost", false)
		if !errors.Is(err, docModel.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
