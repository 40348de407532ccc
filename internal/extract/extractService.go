package extract

import (
	"context"
	"net/http"
	"time"

	"github.com/akolanti/InvoiceAPI/internal/config"
	"github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
	"github.com/akolanti/InvoiceAPI/internal/extract/embedding"
	"github.com/akolanti/InvoiceAPI/internal/extract/llm"
	"github.com/akolanti/InvoiceAPI/internal/extract/vectorDB"
	"github.com/akolanti/InvoiceAPI/internal/metrics"
	"github.com/akolanti/InvoiceAPI/pkg/logger_i"
)

// Service is what the worker calls - it doesn't need to know about the llm,
// the embedder or the vector store behind it.
type Service interface {
	RunBatch(ctx context.Context, job jobModel.Job) jobModel.Job
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	logger      *logger_i.Logger
}

// NewService constructor. The three capabilities are injected so tests can
// swap in deterministic doubles.
func NewService(vector vectorDB.DataProcessor, llmP llm.Provider, em embedding.Embedder) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llmP,
		embedder:    em,
		logger:      logger_i.NewLogger("Extraction Service"),
	}
}

// RunBatch drives the extraction pipeline over every file of the job, in
// input order. The policy is partial-result continuation: a failed file is
// recorded on the job's failure list with its stage and failure kind, the
// remaining files still run, and the result table only ever holds rows for
// files whose pipeline reached Tabulated.
func (s *service) RunBatch(ctx context.Context, job jobModel.Job) jobModel.Job {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("batch_extraction", time.Since(start)) }()

	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY), "JobId", job.Id)

	query := job.JobPayload.Query
	if query == "" {
		query = config.DefaultExtractionQuery
		job.JobPayload.Query = query
	}

	log.Info("Starting batch extraction", "files", len(job.JobPayload.Files))

	//each stage a file clears is reflected on the job so status polls can
	//see how far the batch has progressed
	progress := func(stage jobModel.InternalStatus) {
		job.CurrentStep = stage
	}

	for _, file := range job.JobPayload.Files {
		row, failure := s.extractFile(ctx, file, query, progress)
		if failure != nil {
			log.Error("File extraction failed", "file", file.Name, "stage", failure.Stage, "kind", failure.Kind)
			metrics.CaptureStageFailure(string(failure.Stage), string(failure.Kind))
			job.JobPayload.Failures = append(job.JobPayload.Failures, *failure)
			job.CurrentStep = jobModel.Failed
			continue
		}
		metrics.IncrementFilesProcessed()
		job.JobPayload.Results = append(job.JobPayload.Results, row)
	}

	if len(job.JobPayload.Files) > 0 && len(job.JobPayload.Results) == 0 {
		//every file failed, nothing to tabulate
		job.CurrentStep = jobModel.Failed
		job.Status = jobModel.JobStatusError
		job.Error = jobModel.JobError{
			Code:    http.StatusInternalServerError,
			Message: "all files in the batch failed",
			Retry:   true,
		}
		return job
	}

	job.CurrentStep = jobModel.Complete
	job.Status = jobModel.JobStatusComplete
	return job
}

// extractFile walks one file through the pipeline stages
// Parsed -> Chunked -> Deduplicated -> Stored -> Retrieved -> Prompted -> Tabulated,
// reporting each cleared stage through progress. The first stage error aborts
// the run and reports the stage it died in.
func (s *service) extractFile(ctx context.Context, file jobModel.BatchFile, query string, progress func(jobModel.InternalStatus)) (jobModel.ExtractionResult, *jobModel.FileFailure) {
	var none jobModel.ExtractionResult

	fileCtx, cancel := context.WithTimeout(ctx, config.JobTimeout)
	defer cancel()

	doc, err := s.executeParseStep(file)
	if err != nil {
		return none, fileFailure(file, jobModel.Parsed, err)
	}
	progress(jobModel.Parsed)

	chunks := s.executeChunkStep(doc)
	progress(jobModel.Chunked)

	unique := s.executeDedupStep(chunks)
	progress(jobModel.Deduplicated)

	if err := s.executeStoreStep(fileCtx, doc, unique); err != nil {
		return none, fileFailure(file, jobModel.Stored, err)
	}
	progress(jobModel.Stored)

	matches, err := s.executeRetrieveStep(fileCtx, doc.CollectionName, query)
	if err != nil {
		return none, fileFailure(file, jobModel.Retrieved, err)
	}
	progress(jobModel.Retrieved)

	fields, err := s.executeLLMStep(fileCtx, query, matches)
	if err != nil {
		return none, fileFailure(file, jobModel.Prompted, err)
	}
	progress(jobModel.Prompted)

	row := jobModel.ExtractionResult{
		FileName:     file.Name,
		InvoiceItems: fields.InvoiceItems,
		InvoiceDate:  fields.InvoiceDate,
		BusinessName: fields.BusinessName,
		TotalAmount:  fields.TotalAmount,
	}
	progress(jobModel.Tabulated)
	return row, nil
}
