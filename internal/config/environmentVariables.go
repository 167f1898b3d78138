package config

import (
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//uploads land here before the pipeline picks them up
	UploadDirName     = "uploaded_documents"
	MaxUploadSize     = 32 << 20 //32mb
	DefaultCollection = "documents_default"

	//chunking - tuned for prose with occasional embedded html tables
	ChunkSize           = 1000
	ChunkOverlap        = 300
	SentenceSearchLimit = 100
	//a table opening inside this many chars of the segment start is ignored,
	//otherwise tables longer than ChunkSize would never let start advance
	TableContinuationMultiplier = 2

	EmbeddingOutputDimensionality int32 = 1536

	//embedding provider selection: "google" is batch capable, "openai" embeds
	//one chunk per call
	EmbeddingProviderGoogle = "google"
	EmbeddingProviderOpenAI = "openai"

	GoogleEmbeddingModel = "gemini-embedding-001"
	GeminiModelName      = "gemini-2.5-flash-lite-preview-09-2025"
	OpenAIEmbeddingModel = "text-embedding-3-small"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute
	PipelineRunTimeout              = 5 * time.Minute

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	ServerListenAddr = ":3000"

	//pipeline job buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost     = ""
	QdrantGrpcPort = 6334
	QdrantUseTLS   = false
	QdrantPoolSize = 1

	//callback delivery
	CallbackTimeout = 15 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost = "127.0.0.1"
	redisPort = "6379"
	RedisAddr = redisHost + ":" + redisPort

	RedisPassword = ""

	//redis has 16 DBs we can use
	RedisDocumentStore = 0

	RedisDocumentStoreTTL = 0 * time.Second //document records never expire
)

var (
	GoogleAPIKey      = os.Getenv("GOOGLE_API_KEY")
	OpenAIAPIKey      = os.Getenv("OPENAI_API_KEY")
	EmbeddingProvider = envOrDefault("EMBEDDING_PROVIDER", EmbeddingProviderGoogle)
	AuthToken         = os.Getenv("INGEST_AUTH_TOKEN")
	NoAuthBypass      = os.Getenv("INGEST_AUTH_BYPASS") == "true"
)

func envOrDefault(key string, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
