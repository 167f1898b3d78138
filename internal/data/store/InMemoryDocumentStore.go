package store

import (
	"context"
	"sync"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem DocumentStore")

// InMemoryDocumentStore is the fallback when Redis is unreachable at boot.
// Records do not survive a restart.
type InMemoryDocumentStore struct {
	mutex    *sync.RWMutex
	byId     map[string]docModel.DocumentRecord
	idByName map[string]string
}

func InitInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		mutex:    new(sync.RWMutex),
		byId:     make(map[string]docModel.DocumentRecord),
		idByName: make(map[string]string),
	}
}

func (store *InMemoryDocumentStore) CreateDocument(ctx context.Context, record docModel.DocumentRecord) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if _, taken := store.idByName[record.FileName]; taken {
		return docModel.ErrDuplicateFileName
	}
	store.byId[record.Id] = record
	store.idByName[record.FileName] = record.Id
	inMemLogger.Debug("saved document record", "documentId", record.Id)
	return nil
}

func (store *InMemoryDocumentStore) GetById(ctx context.Context, id string) (docModel.DocumentRecord, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	record, found := store.byId[id]
	if !found {
		return record, docModel.ErrNotFound
	}
	return record, nil
}

func (store *InMemoryDocumentStore) GetByFileName(ctx context.Context, fileName string) (docModel.DocumentRecord, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()

	id, found := store.idByName[fileName]
	if !found {
		return docModel.DocumentRecord{}, docModel.ErrNotFound
	}
	return store.byId[id], nil
}

func (store *InMemoryDocumentStore) UpdateDocument(ctx context.Context, record docModel.DocumentRecord) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()

	if _, found := store.byId[record.Id]; !found {
		return docModel.ErrNotFound
	}
	record.UpdatedTime = time.Now().UTC()
	store.byId[record.Id] = record
	return nil
}
