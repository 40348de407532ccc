// @title           Invoice Extraction API
// @version         1.0
// @description     This API handles asynchronous batch extraction of invoice fields
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

	"github.com/akolanti/InvoiceAPI/internal/config"
	"github.com/akolanti/InvoiceAPI/internal/data/store"
	jobmodel "github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
	"github.com/akolanti/InvoiceAPI/internal/extract"
	"github.com/akolanti/InvoiceAPI/internal/extract/embedding/googleEmbedding"
	"github.com/akolanti/InvoiceAPI/internal/extract/llm/gemini"
	"github.com/akolanti/InvoiceAPI/internal/extract/vectorDB/qdrantDB"
	"github.com/akolanti/InvoiceAPI/internal/handlers"
	"github.com/akolanti/InvoiceAPI/internal/job"
	"github.com/akolanti/InvoiceAPI/internal/server"
	"github.com/akolanti/InvoiceAPI/internal/worker"
	"github.com/akolanti/InvoiceAPI/pkg/logger_i"
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
	jobChannel := make(chan jobmodel.Job, config.BufferLimit)
	dispatcherChannel := make(chan bool, 1)
	stopWorkerChannel = make(chan bool, 1)

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	//init job service and stores
	serviceConfig := job.ServiceConfig{
		JobChannel:        jobChannel,
		RequestCount:      requestCount,
		DispatcherChannel: dispatcherChannel,
	}
	logger.Info("Starting job service")

	redisJobStore := store.GetRedisJobStore(serviceContext)
	redisResultStore := store.GetRedisResultStore(serviceContext)
	if redisJobStore == nil || redisResultStore == nil {
		logger.Error("Redis stores are offline")
		serviceConfig.JobStore = store.InitInMemoryJobStore()
		serviceConfig.ResultStore = store.InitInMemoryResultStore()
	} else {
		serviceConfig.JobStore = redisJobStore
		serviceConfig.ResultStore = redisResultStore
	}
	service := job.InitJobService(serviceConfig)

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = config.GoogleEmbeddingAPIKey
	}

	vectorDB := qdrantDB.GetQdrantClient(serviceContext)
	embeddingService := googleEmbedding.GetGoogleEmbeddingClient(serviceContext, config.GoogleEmbeddingModel, apiKey)
	llmProvider := gemini.GetGeminiClient(serviceContext, apiKey, config.GeminiModelName)

	if vectorDB == nil || embeddingService == nil || llmProvider == nil {
		logger.Error("One or more external services failed to initialize. Shutting down.")
		logger.Debug("Available services : ", "VectorDB", vectorDB != nil, "EmbeddingService", embeddingService != nil, "LLMProvider", llmProvider != nil)
		return
	}

	extractService := extract.NewService(vectorDB, llmProvider, embeddingService)

	handlers.InitJobHandler(service)

	//init worker pool
	worker.InitServices(service, extractService)
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
