// @title           Document Ingest API
// @version         1.0
// @description     This API handles asynchronous document ingestion and summarization
// @termsOfService  http://swagger.io/terms/

// @contact.name    me lol
// @contact.url
// @contact.email

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rkondaveeti/IngestAPI/internal/callback"
	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/data/store"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/internal/embedding"
	"github.com/rkondaveeti/IngestAPI/internal/embedding/googleEmbedding"
	"github.com/rkondaveeti/IngestAPI/internal/embedding/openaiEmbedding"
	"github.com/rkondaveeti/IngestAPI/internal/handlers"
	"github.com/rkondaveeti/IngestAPI/internal/ingest"
	"github.com/rkondaveeti/IngestAPI/internal/job"
	"github.com/rkondaveeti/IngestAPI/internal/pipeline"
	"github.com/rkondaveeti/IngestAPI/internal/server"
	"github.com/rkondaveeti/IngestAPI/internal/summarize"
	"github.com/rkondaveeti/IngestAPI/internal/summarize/gemini"
	"github.com/rkondaveeti/IngestAPI/internal/vectorstore"
	"github.com/rkondaveeti/IngestAPI/internal/vectorstore/qdrantDB"
	"github.com/rkondaveeti/IngestAPI/internal/worker"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

var (
	listenAddr        string
	requestCount      int64
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
)

func main() {

	logger_i.Init()
	var logger = logger_i.NewLogger("main")

	//config
	flag.StringVar(&listenAddr, "listen-addr", config.ServerListenAddr, "server listen address")
	flag.Parse()

	//init buffered job channel
	jobChannel := make(chan docModel.PipelineJob, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and document store
	var documentStore docModel.DocumentStore
	if redisDocs := store.GetRedisDocumentStore(serviceContext); redisDocs != nil {
		documentStore = redisDocs
	} else {
		logger.Error("Redis store is offline, falling back to in-memory records")
		documentStore = store.InitInMemoryDocumentStore()
	}

	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
		DocumentStore:     documentStore,
	}
	logger.Info("Starting job service")
	service := job.InitJobService(serviceConfig)

	vectorDB, err := qdrantDB.NewClient(serviceContext)
	if err != nil {
		logger.Error("Qdrant failed to initialize. Shutting down.", "error", err)
		return
	}

	embedder, err := buildEmbedder(serviceContext)
	if err != nil {
		logger.Error("Embedding provider failed to initialize. Shutting down.", "provider", config.EmbeddingProvider, "error", err)
		return
	}

	var summarizer summarize.Engine
	if config.GoogleAPIKey != "" {
		summarizer, err = gemini.NewEngine(serviceContext, config.GoogleAPIKey, config.GeminiModelName)
		if err != nil {
			logger.Error("Summarizer failed to initialize, summary requests will be rejected", "error", err)
		}
	} else {
		logger.Warn("No Google API key, summarization disabled")
	}

	pipelineService := pipeline.NewService(
		documentStore,
		ingest.NewFileLoader(),
		ingest.DefaultChunkConfig(),
		vectorstore.NewAdapter(embedder, vectorDB),
		vectorDB,
		summarizer,
		callback.NewNotifier(),
	)

	handlers.InitDocumentHandler(service, pipelineService)

	//init worker pool
	worker.InitServices(service, pipelineService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.ShutDownHandler(shutdownParams)
	go server.CreateServer(listenAddr)

	<-stopExecution
	logger.Info("Server stopped")
}

func buildEmbedder(ctx context.Context) (embedding.Embedder, error) {
	if config.EmbeddingProvider == config.EmbeddingProviderOpenAI {
		return openaiEmbedding.NewOpenAIEmbedder(config.OpenAIAPIKey, config.OpenAIEmbeddingModel)
	}
	return googleEmbedding.NewGoogleEmbedder(ctx, config.GoogleEmbeddingModel, config.GoogleAPIKey)
}
