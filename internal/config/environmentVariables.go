package config

import (
	"log/slog"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo
	TRACE_ID_KEY   = "traceId"

	NoAuthBypass = true //flip once a real token is provisioned
	AuthToken    = ""

	RATE_LIMIT_PER_SECOND       = 2
	BURST_RATE_LIMIT_PER_SECOND = 5

	//chunking defaults for the extraction pipeline
	//callers elsewhere may pass their own size/overlap pair
	ChunkMaxSize = 1000
	ChunkOverlap = 200

	//retrieval
	RetrievalTopK = 4

	//query used when the upload request carries none
	DefaultExtractionQuery = "Extract relevant details from this business invoice."

	//embeddings
	GoogleEmbeddingAPIKey                 = "" //GEMINI_API_KEY env wins when set
	EmbeddingOutputDimensionality int32   = 1536
	GoogleEmbeddingModel                  = "gemini-embedding-001"
	GeminiModelName                       = "gemini-2.5-flash-lite-preview-09-2025"
	ModelTemperature              float32 = 0

	//reserved qdrant collection mapping collection name -> source digest
	CollectionRegistryName = "collection-registry"

	RequestsPerNewWorkerCount int64 = 10
	MaxWorkerCount            int64 = 10
	MinWorkerCount            int64 = 1
	IdleWorkerTimeout               = 1 * time.Minute

	//per-stage and per-job budgets, capability calls inherit these contexts
	StageTimeout = 30 * time.Second
	JobTimeout   = 120 * time.Second

	//serverTimeouts
	ReadTimeout            = 5 * time.Second
	WriteTimeout           = 10 * time.Second
	IdleTimeout            = 120 * time.Second
	ShutdownContextTimeout = 10 * time.Second

	//server listening port
	ServerListenAddr = ":3000"

	//job requests buffer limit
	BufferLimit = 100

	//vectorDB
	QdrantHost             = ""
	QdrantGrpcPort         = 6334
	QdrantUseTLS           = false //set for https
	QdrantPoolSize         = 1     //2-5 is preferred for prod according to documentation
	QdrantKeepAliveTimeout = 30 * time.Second

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//redis
	redisHost     = "127.0.0.1"
	redisPort     = "6379"
	RedisAddr     = redisHost + ":" + redisPort
	RedisPassword = ""

	//redis has 16 DB we can use
	RedisJobStore    = 0
	RedisResultStore = 1

	//redis timeouts
	RedisJobStoreTTL    = 24 * time.Hour
	RedisResultStoreTTL = 24 * time.Hour
)
