package extract

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/akolanti/InvoiceAPI/internal/config"
	"github.com/akolanti/InvoiceAPI/internal/domain/commonModels"
	"github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
	"github.com/akolanti/InvoiceAPI/internal/extract/ingest"
	"github.com/akolanti/InvoiceAPI/internal/extract/llm"
	"github.com/akolanti/InvoiceAPI/internal/extract/vectorDB"
	"github.com/akolanti/InvoiceAPI/internal/metrics"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *service) executeParseStep(file jobModel.BatchFile) (commonModels.Document, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("parse", time.Since(start)) }()

	return ingest.ParseUpload(file.Path, file.Name)
}

func (s *service) executeChunkStep(doc commonModels.Document) []commonModels.DocChunk {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("chunk", time.Since(start)) }()

	return ingest.SplitPages(doc, config.ChunkMaxSize, config.ChunkOverlap)
}

func (s *service) executeDedupStep(chunks []commonModels.DocChunk) []commonModels.DocChunk {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("dedup", time.Since(start)) }()

	return ingest.DedupChunks(chunks)
}

func (s *service) executeStoreStep(ctx context.Context, doc commonModels.Document, chunks []commonModels.DocChunk) error {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embed_store", time.Since(start)) }()

	stepCtx, cancel := context.WithTimeout(ctx, config.StageTimeout)
	defer cancel()

	if err := s.vectorDB.EnsureCollection(stepCtx, doc.CollectionName, doc.SourceDigest); err != nil {
		return err
	}
	return ingest.BatchIngest(stepCtx, chunks, s.vectorDB, s.embedder)
}

func (s *service) executeRetrieveStep(ctx context.Context, collectionName string, query string) ([]string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("retrieve", time.Since(start)) }()

	stepCtx, cancel := context.WithTimeout(ctx, config.StageTimeout)
	defer cancel()

	queryVector, err := s.embedder.GetEmbedding(stepCtx, query)
	if err != nil {
		return nil, err
	}
	return s.vectorDB.Query(stepCtx, collectionName, queryVector, config.RetrievalTopK)
}

func (s *service) executeLLMStep(ctx context.Context, query string, matches []string) (llm.ExtractedFields, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_extraction", time.Since(start)) }()

	stepCtx, cancel := context.WithTimeout(ctx, config.StageTimeout)
	defer cancel()

	//retrieved chunks joined by blank lines form the prompt context
	contextText := strings.Join(matches, "\n\n")
	return s.llmProvider.Extract(stepCtx, query, contextText)
}

// fileFailure classifies a stage error into the failure kind surfaced to the
// caller. Deadline expiry and name collisions override the stage default.
func fileFailure(file jobModel.BatchFile, stage jobModel.InternalStatus, err error) *jobModel.FileFailure {
	return &jobModel.FileFailure{
		FileName: file.Name,
		Stage:    stage,
		Kind:     failureKind(stage, err),
		Message:  err.Error(),
	}
}

func failureKind(stage jobModel.InternalStatus, err error) jobModel.FailureKind {
	//qdrant surfaces an expired context as a gRPC status, not the stdlib error
	if errors.Is(err, context.DeadlineExceeded) || status.Code(err) == codes.DeadlineExceeded {
		return jobModel.TimeoutFailure
	}
	if errors.Is(err, vectorDB.ErrNameCollision) {
		return jobModel.NameCollision
	}

	switch stage {
	case jobModel.Parsed:
		return jobModel.ParseFailure
	case jobModel.Stored:
		return jobModel.EmbeddingFailure
	case jobModel.Retrieved:
		return jobModel.RetrievalFailure
	case jobModel.Prompted:
		return jobModel.ModelFailure
	default:
		return jobModel.ModelFailure
	}
}
