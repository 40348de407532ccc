package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/akolanti/InvoiceAPI/internal/adapter"
	"github.com/akolanti/InvoiceAPI/internal/adapter/utils"
	"github.com/akolanti/InvoiceAPI/internal/config"
	"github.com/akolanti/InvoiceAPI/internal/domain/jobModel"
	"github.com/akolanti/InvoiceAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

// technically i dont need this
// but i want to eventually remove jobHandler from handlers and set it in another package
// so in anticipation for that this struct exists
type newJobData struct {
	id      string
	query   string
	files   []jobModel.BatchFile
	traceId string
}

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// PostExtractHandler handles the uploading of invoice documents for batch extraction.
// @Summary      Upload invoices for extraction
// @Description  Receives one or more files via multipart/form-data plus an optional query, saves them to a temporary directory, and queues a batch extraction job.
// @Tags         Extraction
// @Accept       multipart/form-data
// @Produce      json
// @Param        query      formData  string  false  "Extraction instruction, a default is used when omitted"
// @Param        documents  formData  file    true   "One or more PDF, DOCX or TXT files"
// @Success      202  {object}  api.InitJobResponse "Accepted - returns job id and status URL"
// @Failure      400  {object}  api.JobResponse "Bad Request - Missing files or file too large"
// @Failure      500  {object}  api.JobResponse "Internal Server Error - Storage or Write Error"
// @Router       /extract [post]
func PostExtractHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {

		targetDir, errString := getTargetDirectory()

		if errString != "" {
			logRH.Error("Couldn't get target directory :", "err", errString)
			WriteErrorResponse(w, http.StatusInternalServerError, "", errString)
			return
		}

		const maxUploadSize = 32 << 20 //32mb
		err := r.ParseMultipartForm(maxUploadSize)
		if err != nil {
			WriteErrorResponse(w, http.StatusBadRequest, "", "File too large or bad request")
			return
		}

		if r.MultipartForm == nil || len(r.MultipartForm.File["documents"]) == 0 {
			WriteErrorResponse(w, http.StatusBadRequest, "", "at least one document is required")
			return
		}

		query := r.FormValue("query")

		var batchFiles []jobModel.BatchFile
		for _, fileMetadata := range r.MultipartForm.File["documents"] {
			tempFilePath, err := materializeUpload(targetDir, fileMetadata)
			if err != nil {
				logRH.Error("Couldn't materialize upload :", "file", fileMetadata.Filename, "err", err)
				WriteErrorResponse(w, http.StatusInternalServerError, fileMetadata.Filename, "Storage error")
				return
			}
			batchFiles = append(batchFiles, jobModel.BatchFile{
				Name: fileMetadata.Filename,
				Path: tempFilePath,
			})
		}

		newJob := newJobData{
			id:      utils.GetNewUUID(),
			query:   query,
			files:   batchFiles,
			traceId: r.Context().Value(config.TRACE_ID_KEY).(string),
		}
		CreateNewJob(newJob)
		res := adapter.ToInitJobResponse(newJob.id)
		writeJsonResponse(w, http.StatusAccepted, res)
		return
	}
	logRH.Warn("Invalid Context by request ", r.RemoteAddr)
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of a specific extraction job using its ID.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.JobResponse   "Successful retrieval of job status"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		//use chi get the url id
		idString := utils.GetChiURLParam(r, "id")
		result, isFound := validateId(idString, r.Context().Value(config.TRACE_ID_KEY).(string))

		logRH.Debug("Get Status Request:", "URL path", r.URL.Path)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
	}
}

// GetResultsHandler godoc
// @Summary      Get extraction table
// @Description  Returns the table of extracted rows for a finished job, one row per successfully processed file.
// @Tags         Job Status
// @Accept       json
// @Produce      json
// @Param        id   path      string  true  "Job ID "
// @Success      200  {object}  api.Result        "The extraction table"
// @Failure      404  {object}  api.JobResponse   "Job not found (returns Error object within JobResponse)"
// @Router       /results/{id} [get]
func GetResultsHandler(w http.ResponseWriter, r *http.Request) {
	if validateContext(r.Context()) {
		idString := utils.GetChiURLParam(r, "id")
		traceId := r.Context().Value(config.TRACE_ID_KEY).(string)
		jobResult, isFound := validateId(idString, traceId)
		if !isFound {
			WriteErrorResponse(w, http.StatusNotFound, idString, "Job not found")
			return
		}

		table, err := GetJobTable(idString, traceId)
		if err != nil {
			logRH.Error("Couldn't read result table :", "jobId", idString, "err", err)
			WriteErrorResponse(w, http.StatusInternalServerError, idString, "Storage error")
			return
		}

		response := adapter.ToAPIResponse(jobResult).Result
		response.Table = adapter.ToResultTable(table)
		writeJsonResponse(w, http.StatusOK, response)
	}
}

func materializeUpload(targetDir string, fileMetadata *multipart.FileHeader) (string, error) {
	fileReader, err := fileMetadata.Open()
	if err != nil {
		return "", err
	}
	defer fileReader.Close()

	filename := fmt.Sprintf("%d-%s", time.Now().UnixNano(), fileMetadata.Filename)
	tempFilePath := filepath.Join(targetDir, filename)
	destinationFileWriter, err := os.Create(tempFilePath)
	if err != nil {
		return "", err
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		return "", err
	}
	return tempFilePath, nil
}
