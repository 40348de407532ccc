package jobModel

import (
	"context"
	"time"
)

type JobStatus string
type InternalStatus string
type FailureKind string

const (
	JobStatusQueued   JobStatus = "QUEUED"
	JobStatusRunning  JobStatus = "RUNNING"
	JobStatusComplete JobStatus = "COMPLETE"
	JobStatusError    JobStatus = "Error"

	//per-file pipeline stages, in execution order
	BatchInit    InternalStatus = "Init"
	Parsed       InternalStatus = "Parsed"
	Chunked      InternalStatus = "Chunked"
	Deduplicated InternalStatus = "Deduplicated"
	Stored       InternalStatus = "Stored"
	Retrieved    InternalStatus = "Retrieved"
	Prompted     InternalStatus = "Prompted"
	Tabulated    InternalStatus = "Tabulated"
	Failed       InternalStatus = "Failed"

	Complete InternalStatus = "Complete"

	//failure kinds surfaced to the caller, one per aborting stage class
	ParseFailure     FailureKind = "PARSE_FAILURE"
	EmbeddingFailure FailureKind = "EMBEDDING_FAILURE"
	RetrievalFailure FailureKind = "RETRIEVAL_FAILURE"
	ModelFailure     FailureKind = "MODEL_FAILURE"
	NameCollision    FailureKind = "NAME_COLLISION"
	TimeoutFailure   FailureKind = "TIMEOUT_FAILURE"
)

type Job struct {
	Id          string         `json:"id"`
	TraceId     string         `json:"trace_id"`
	JobPayload  JobPayload     `json:"job_payload"`
	Error       JobError       `json:"error,omitempty"`
	CreatedTime time.Time      `json:"created_time"`
	EndTime     time.Time      `json:"end_time,omitempty"`
	Status      JobStatus      `json:"status"`
	CurrentStep InternalStatus `json:"current_step"`
}

type JobError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// BatchFile is one uploaded file queued for extraction. Path points at the
// materialized temp copy, which the pipeline removes after parsing.
type BatchFile struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type JobPayload struct {
	Query string      `json:"query,omitempty"`
	Files []BatchFile `json:"files,omitempty"`

	Results  ResultTable   `json:"results,omitempty"`
	Failures []FileFailure `json:"failures,omitempty"`
}

// ExtractionResult is the fixed four-field record the model emits for one
// file. A declined field holds the model's "unknown" token, never a guess.
type ExtractionResult struct {
	FileName     string `json:"file_name"`
	InvoiceItems string `json:"invoice_items"`
	InvoiceDate  string `json:"invoice_date"`
	BusinessName string `json:"business_name"`
	TotalAmount  string `json:"total_amount"`
}

// ResultTable holds one row per successfully extracted file, in input order.
type ResultTable []ExtractionResult

// FileFailure records a file the pipeline aborted, with the stage that was
// running and the failure kind. Failed files never get a table row.
type FileFailure struct {
	FileName string         `json:"file_name"`
	Stage    InternalStatus `json:"stage"`
	Kind     FailureKind    `json:"kind"`
	Message  string         `json:"message"`
}

type JobStore interface {
	GetJob(ctx context.Context, jobId string) (Job, bool)
	SaveJob(ctx context.Context, job Job) error
	DeleteJob(ctx context.Context, jobID string)
}

type ResultStore interface {
	AppendRow(ctx context.Context, jobId string, row ExtractionResult) error
	GetTable(ctx context.Context, jobId string) (ResultTable, error)
}
