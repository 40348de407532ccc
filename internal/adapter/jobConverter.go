package adapter

import (
	"fmt"
	"time"

	"github.com/akolanti/InvoiceAPI/internal/api"
	"github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
)

func ToInitJobResponse(id string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:        id,
		StatusURL: fmt.Sprintf("status/%s", id), //pass "status/job.Id"
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {

	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	result := api.Result{
		Status:   string(job.Status),
		Query:    job.JobPayload.Query,
		Table:    ToResultTable(job.JobPayload.Results),
		Failures: ToFailureList(job.JobPayload.Failures),
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result:    result,
	}
}

func ToResultTable(rows jobModel.ResultTable) []api.ResultRow {
	if len(rows) == 0 {
		return nil
	}
	table := make([]api.ResultRow, 0, len(rows))
	for _, row := range rows {
		table = append(table, api.ResultRow{
			FileName:     row.FileName,
			InvoiceItems: row.InvoiceItems,
			InvoiceDate:  row.InvoiceDate,
			BusinessName: row.BusinessName,
			TotalAmount:  row.TotalAmount,
		})
	}
	return table
}

func ToFailureList(failures []jobModel.FileFailure) []api.FileFailureResponse {
	if len(failures) == 0 {
		return nil
	}
	list := make([]api.FileFailureResponse, 0, len(failures))
	for _, failure := range failures {
		list = append(list, api.FileFailureResponse{
			FileName: failure.FileName,
			Stage:    string(failure.Stage),
			Kind:     string(failure.Kind),
			Message:  failure.Message,
		})
	}
	return list
}

func BadRequest(id string, error string, code int) api.JobResponse {
	return api.JobResponse{
		Id:        id,
		StartTime: time.Time{},
		EndTime:   time.Time{},
		Result: api.Result{
			Status: string(api.JobStatusError),
		},
		Error: &api.JobOutgoingError{
			Code:    code,
			Message: error,
			Retry:   false,
		},
	}
}
