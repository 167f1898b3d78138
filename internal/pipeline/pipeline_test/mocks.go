package pipeline_test

import (
	"context"
	"sync"

	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/ingest"
	"github.com/rkondaveeti/IngestAPI/internal/vectorstore"
)

// MockDocumentStore implements docModel.DocumentStore over a map and records
// every update so tests can assert on transient status transitions.
type MockDocumentStore struct {
	mu      sync.Mutex
	records map[string]docModel.DocumentRecord
	Updates []docModel.DocumentRecord

	OnUpdate func(record docModel.DocumentRecord) error
}

func NewMockDocumentStore(seed ...docModel.DocumentRecord) *MockDocumentStore {
	m := &MockDocumentStore{records: make(map[string]docModel.DocumentRecord)}
	for _, r := range seed {
		m.records[r.Id] = r
	}
	return m
}

func (m *MockDocumentStore) CreateDocument(ctx context.Context, record docModel.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[record.Id] = record
	return nil
}

func (m *MockDocumentStore) GetById(ctx context.Context, id string) (docModel.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	record, found := m.records[id]
	if !found {
		return record, docModel.ErrNotFound
	}
	return record, nil
}

func (m *MockDocumentStore) GetByFileName(ctx context.Context, fileName string) (docModel.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.FileName == fileName {
			return r, nil
		}
	}
	return docModel.DocumentRecord{}, docModel.ErrNotFound
}

func (m *MockDocumentStore) UpdateDocument(ctx context.Context, record docModel.DocumentRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OnUpdate != nil {
		if err := m.OnUpdate(record); err != nil {
			return err
		}
	}
	if _, found := m.records[record.Id]; !found {
		return docModel.ErrNotFound
	}
	m.records[record.Id] = record
	m.Updates = append(m.Updates, record)
	return nil
}

// MockLoader implements ingest.Loader
type MockLoader struct {
	OnLoad func(ctx context.Context, path string, format ingest.Format) (ingest.PageMap, error)
}

func (m *MockLoader) Load(ctx context.Context, path string, format ingest.Format) (ingest.PageMap, error) {
	if m.OnLoad != nil {
		return m.OnLoad(ctx, path, format)
	}
	return ingest.PageMap{{Number: 1, Offset: 0, Text: "Default page content for the pipeline. It is long enough to chunk."}}, nil
}

// MockAdapter implements vectorstore.Adapter
type MockAdapter struct {
	OnAdd func(ctx context.Context, sections []ingest.Section, coll string, docId string, fileName string) ([]string, error)
}

func (m *MockAdapter) Add(ctx context.Context, sections []ingest.Section, coll string, docId string, fileName string) ([]string, error) {
	if m.OnAdd != nil {
		return m.OnAdd(ctx, sections, coll, docId, fileName)
	}
	return []string{"vec-1", "vec-2"}, nil
}

// MockVectorDB implements vectorstore.VectorDB
type MockVectorDB struct {
	OnEnsureCollection func(ctx context.Context, name string) error
	OnChunkTexts       func(ctx context.Context, coll string, docId string) ([]string, error)
}

func (m *MockVectorDB) EnsureCollection(ctx context.Context, name string) error {
	if m.OnEnsureCollection != nil {
		return m.OnEnsureCollection(ctx, name)
	}
	return nil
}

func (m *MockVectorDB) UpsertChunks(ctx context.Context, coll string, chunks []vectorstore.DocChunk, vectors [][]float32) error {
	return nil
}

func (m *MockVectorDB) ChunkTexts(ctx context.Context, coll string, docId string) ([]string, error) {
	if m.OnChunkTexts != nil {
		return m.OnChunkTexts(ctx, coll, docId)
	}
	return []string{"chunk one", "chunk two"}, nil
}

// MockEngine implements summarize.Engine
type MockEngine struct {
	Calls       int
	OnSummarize func(ctx context.Context, chunkTexts []string) (string, error)
}

func (m *MockEngine) Summarize(ctx context.Context, chunkTexts []string) (string, error) {
	m.Calls++
	if m.OnSummarize != nil {
		return m.OnSummarize(ctx, chunkTexts)
	}
	return "mocked summary", nil
}

// MockNotifier implements callback.Notifier
type MockNotifier struct {
	Deliveries []string
	OnDeliver  func(ctx context.Context, url string, payload any) error
}

func (m *MockNotifier) Deliver(ctx context.Context, url string, payload any) error {
	m.Deliveries = append(m.Deliveries, url)
	if m.OnDeliver != nil {
		return m.OnDeliver(ctx, url, payload)
	}
	return nil
}
