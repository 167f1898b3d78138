package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/data/redisStore"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

// key layout: "doc:<id>" holds the JSON record, "docname:<file_name>" holds
// the id. The name key doubles as the uniqueness guard for file names.
const (
	docKeyPrefix  = "doc:"
	nameKeyPrefix = "docname:"
)

type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context) *RedisDocumentStore {
	backing := redisStore.GetRedisStore(ctx, config.RedisDocumentStore)
	if backing == nil {
		return nil
	}
	return &RedisDocumentStore{
		store:  backing,
		logger: logger_i.NewLogger("DocumentStore"),
	}
}

func (s *RedisDocumentStore) CreateDocument(ctx context.Context, record docModel.DocumentRecord) error {
	log := s.logger.WithTrace(ctx).With("documentId", record.Id)
	log.Debug("creating document record")

	claimed, err := s.store.SetIfAbsent(ctx, nameKeyPrefix+record.FileName, record.Id, config.RedisDocumentStoreTTL)
	if err != nil {
		return err
	}
	if !claimed {
		log.Debug("file name already claimed", "fileName", record.FileName)
		return docModel.ErrDuplicateFileName
	}

	if err := s.write(ctx, record); err != nil {
		//roll back the name claim so a retry is not locked out
		_ = s.store.Del(ctx, nameKeyPrefix+record.FileName)
		return err
	}
	log.Debug("document record created")
	return nil
}

func (s *RedisDocumentStore) GetById(ctx context.Context, id string) (docModel.DocumentRecord, error) {
	var record docModel.DocumentRecord
	val, err := s.store.Get(ctx, docKeyPrefix+id)
	if s.store.IsNil(err) {
		return record, docModel.ErrNotFound
	} else if err != nil {
		return record, err
	}

	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return record, err
	}
	return record, nil
}

func (s *RedisDocumentStore) GetByFileName(ctx context.Context, fileName string) (docModel.DocumentRecord, error) {
	id, err := s.store.Get(ctx, nameKeyPrefix+fileName)
	if s.store.IsNil(err) {
		return docModel.DocumentRecord{}, docModel.ErrNotFound
	} else if err != nil {
		return docModel.DocumentRecord{}, err
	}
	return s.GetById(ctx, id)
}

func (s *RedisDocumentStore) UpdateDocument(ctx context.Context, record docModel.DocumentRecord) error {
	log := s.logger.WithTrace(ctx).With("documentId", record.Id)

	exists, err := s.store.Exists(ctx, docKeyPrefix+record.Id)
	if err != nil {
		return err
	}
	if !exists {
		return docModel.ErrNotFound
	}

	record.UpdatedTime = time.Now().UTC()
	if err := s.write(ctx, record); err != nil {
		return err
	}
	log.Debug("document record updated", "status", record.ProcessStatus)
	return nil
}

func (s *RedisDocumentStore) write(ctx context.Context, record docModel.DocumentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, docKeyPrefix+record.Id, data, config.RedisDocumentStoreTTL)
}

func TestDocumentStore(store *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  store,
		logger: logger_i.NewLogger("test redis"),
	}
}
