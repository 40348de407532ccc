package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/akolanti/InvoiceAPI/internal/config"
	jobmodel "github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
	"github.com/akolanti/InvoiceAPI/internal/metrics"
)

func executeJob(job jobmodel.Job) {
	start := time.Now()
	defer func() {
		// Record total time at the end
		metrics.CaptureJobMetrics(string(job.Status), time.Since(start))
	}()
	ctxTrace := context.WithValue(context.Background(), config.TRACE_ID_KEY, job.TraceId)

	// Every file gets its own timeout budget inside the pipeline, the outer
	// deadline just caps the batch as a whole.
	batchBudget := config.JobTimeout * time.Duration(len(job.JobPayload.Files)+1)
	ctx, cancel := context.WithTimeout(ctxTrace, batchBudget)
	defer cancel()

	logger.With("trace Id ", job.TraceId)
	logger.Debug("Processing job:", "job Id:", job.Id)

	saveJobState(ctx, job, jobmodel.JobStatusRunning)

	job.CurrentStep = jobmodel.BatchInit
	job = _extractService.RunBatch(ctx, job)

	persistResultRows(ctx, job)

	job.EndTime = time.Now()
	saveJobState(ctx, job, job.Status)
}

func persistResultRows(ctx context.Context, job jobmodel.Job) {
	for _, row := range job.JobPayload.Results {
		if err := _jobService.ResultStore.AppendRow(ctx, job.Id, row); err != nil {
			logger.Error("Failed to save result row", "file", row.FileName, "err", err)
		}
	}
}

func removeWorker(reason string) {

	workerWaitGroup.Done()
	atomic.AddInt64(&currentWorkerCount, -1)
	logger.Info("Removed worker ", "reason", reason, "workerCount", currentWorkerCount)
	metrics.DecrementActiveWorkerCount()

}

func saveJobState(ctx context.Context, job jobmodel.Job, jobStatus jobmodel.JobStatus) {
	job.Status = jobStatus
	if err := _jobService.JobStore.SaveJob(ctx, job); err != nil {
		logger.Error("Failed to update status in Redis", "err", err)
	}
}
