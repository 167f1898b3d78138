package docModel

import (
	"context"
	"errors"
	"time"
)

type ProcessStatus string

const (
	StatusPending  ProcessStatus = "PENDING"
	StatusComplete ProcessStatus = "COMPLETE"
	StatusError    ProcessStatus = "ERROR"
)

// DocumentRecord tracks a single uploaded document through its pipeline run.
// FileName is unique across records; duplicate uploads are rejected at
// creation time. Status, description and summary are mutated only by the
// pipeline with last-write-wins semantics.
type DocumentRecord struct {
	Id                 string        `json:"id"`
	FileName           string        `json:"file_name"`
	ProcessStatus      ProcessStatus `json:"process_status"`
	ProcessDescription string        `json:"process_description,omitempty"`
	CollectionName     string        `json:"collection_name"`
	Summary            string        `json:"summary,omitempty"`
	CallbackURL        string        `json:"callback_url,omitempty"`
	StoragePath        string        `json:"storage_path,omitempty"`
	VectorIds          []string      `json:"vector_ids,omitempty"`
	CreatedTime        time.Time     `json:"created_time"`
	UpdatedTime        time.Time     `json:"updated_time,omitempty"`
}

type JobKind string

const (
	JobKindIngest    JobKind = "Ingest"
	JobKindSummarize JobKind = "Summarize"
)

// PipelineJob is the unit of deferred work a worker executes for one
// document. Ingest jobs run the full pipeline; summarize jobs only run the
// summarization stage.
type PipelineJob struct {
	Kind       JobKind `json:"kind"`
	DocumentId string  `json:"document_id"`
	TraceId    string  `json:"trace_id"`
	Regenerate bool    `json:"regenerate,omitempty"`
}

// ErrNotFound is returned by store lookups and updates whose target
// filename or id does not exist. Callers of Update must not swallow it.
var ErrNotFound = errors.New("document not found")

// ErrDuplicateFileName enforces the unique file_name invariant at creation.
var ErrDuplicateFileName = errors.New("file name already exists")

type DocumentStore interface {
	CreateDocument(ctx context.Context, record DocumentRecord) error
	GetById(ctx context.Context, id string) (DocumentRecord, error)
	GetByFileName(ctx context.Context, fileName string) (DocumentRecord, error)
	UpdateDocument(ctx context.Context, record DocumentRecord) error
}
