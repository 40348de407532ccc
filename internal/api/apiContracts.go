package api

import "time"

type JobExternalStatus string

const (
	JobStatusError JobExternalStatus = "Error"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

// ResultRow is one line of the extraction table. The column names mirror the
// spreadsheet the table is meant to be exported into.
type ResultRow struct {
	FileName     string `json:"file_name" example:"invoice (1).pdf"`
	InvoiceItems string `json:"Invoice Items"`
	InvoiceDate  string `json:"Invoice Date" example:"2024-03-01"`
	BusinessName string `json:"Business Name" example:"Acme Corp"`
	TotalAmount  string `json:"Total Amount" example:"$42.00"`
}

type FileFailureResponse struct {
	FileName string `json:"file_name"`
	Stage    string `json:"stage" example:"Parsed"`
	Kind     string `json:"kind" example:"PARSE_FAILURE"`
	Message  string `json:"message"`
}

type Result struct {
	Status   string                `json:"status"`
	Query    string                `json:"query,omitempty"`
	Table    []ResultRow           `json:"table,omitempty"`
	Failures []FileFailureResponse `json:"failures,omitempty"`
}

type InitJobResponse struct {
	Id        string `json:"id"`
	StatusURL string `json:"status_url"`
}

// requests---------------------

type ExtractRequest struct {
	Query string `json:"query,omitempty"`
}

type JobStatusRequest struct {
	JobId string `json:"job_id" validate:"required"`
}
