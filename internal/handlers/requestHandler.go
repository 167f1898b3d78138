package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rkondaveeti/IngestAPI/internal/adapter"
	"github.com/rkondaveeti/IngestAPI/internal/adapter/utils"
	"github.com/rkondaveeti/IngestAPI/internal/api"
	"github.com/rkondaveeti/IngestAPI/internal/config"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
	"github.com/rkondaveeti/IngestAPI/pkg/logger_i"
)

var logRH *logger_i.Logger

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	return
}

// UploadDocumentHandler godoc
// @Summary      Upload a document for ingestion
// @Description  Receives a file via multipart/form-data, stores it, creates a PENDING document record and queues an ingestion job.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document         formData  file    true   "The document file to ingest"
// @Param        collection_name  formData  string  false  "Target collection, defaults to the configured collection"
// @Param        callback_url     formData  string  false  "URL notified with the final record when processing ends"
// @Success      202  {object}  api.UploadResponse  "Accepted - document queued"
// @Failure      400  {object}  api.ErrorResponse   "Missing file or bad request"
// @Failure      409  {object}  api.ErrorResponse   "A document with this file name already exists"
// @Failure      500  {object}  api.ErrorResponse   "Storage or write error"
// @Router       /documents [post]
func UploadDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		logRH.Warn("Invalid Context by request ", r.RemoteAddr)
		return
	}

	targetDir, errString := getTargetDirectory()
	if errString != "" {
		logRH.Error("Couldn't get target directory :", "err", errString)
		WriteErrorResponse(w, http.StatusInternalServerError, errString)
		return
	}

	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	collectionName := r.FormValue("collection_name")
	if collectionName == "" {
		collectionName = config.DefaultCollection
	}

	//stored name is prefixed so two uploads never collide on disk, the
	//record keeps the original name for lookups
	storedName := filepath.Join(targetDir, utils.GetNewUUID()+"-"+filepath.Base(fileMetadata.Filename))
	destinationFileWriter, err := os.Create(storedName)
	if err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	defer destinationFileWriter.Close()

	if _, err := io.Copy(destinationFileWriter, fileReader); err != nil {
		WriteErrorResponse(w, http.StatusInternalServerError, "Write error")
		return
	}

	record := docModel.DocumentRecord{
		Id:             utils.GetNewUUID(),
		FileName:       filepath.Base(fileMetadata.Filename),
		ProcessStatus:  docModel.StatusPending,
		CollectionName: collectionName,
		CallbackURL:    r.FormValue("callback_url"),
		StoragePath:    storedName,
		CreatedTime:    time.Now().UTC(),
	}

	if err := CreateDocumentRecord(r.Context(), record); err != nil {
		if errors.Is(err, docModel.ErrDuplicateFileName) {
			WriteErrorResponse(w, http.StatusConflict, "A document with this file name already exists")
			return
		}
		logRH.Error("Could not create document record", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	EnqueueJob(docModel.PipelineJob{
		Kind:       docModel.JobKindIngest,
		DocumentId: record.Id,
		TraceId:    traceFromRequest(r),
	})
	writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(record))
}

// GetStatusHandler godoc
// @Summary      Get document status
// @Description  Retrieves the current processing state of a document using its ID.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentResponse  "The current document record"
// @Failure      404  {object}  api.ErrorResponse     "Document not found"
// @Router       /documents/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")
	logRH.Debug("Get Status Request:", "URL path", r.URL.Path)

	record, err := GetDocument(idString, traceFromRequest(r))
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(record))
}

// LookupDocumentHandler godoc
// @Summary      Look up a document by file name
// @Description  Retrieves the document record whose file name matches the query parameter exactly.
// @Tags         Documents
// @Produce      json
// @Param        file_name  query     string  true  "Original file name of the upload"
// @Success      200  {object}  api.DocumentResponse  "The matching document record"
// @Failure      400  {object}  api.ErrorResponse     "Missing file_name parameter"
// @Failure      404  {object}  api.ErrorResponse     "Document not found"
// @Router       /documents [get]
func LookupDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	fileName := r.URL.Query().Get("file_name")
	if fileName == "" {
		WriteErrorResponse(w, http.StatusBadRequest, "file_name is required")
		return
	}

	record, err := GetDocumentByFileName(fileName, traceFromRequest(r))
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, "Document not found")
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentResponse(record))
}

// ReprocessDocumentHandler godoc
// @Summary      Re-run ingestion for a document
// @Description  Resets the record to PENDING and queues a fresh ingestion run over the stored file.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      202  {object}  api.UploadResponse  "Accepted - reprocessing queued"
// @Failure      404  {object}  api.ErrorResponse   "Document not found"
// @Router       /documents/{id}/reprocess [post]
func ReprocessDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")

	record, err := GetDocument(idString, traceFromRequest(r))
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, "Document not found")
		return
	}

	record.ProcessStatus = docModel.StatusPending
	record.ProcessDescription = "queued for reprocessing"
	if err := handlerInstance.service.DocumentStore.UpdateDocument(r.Context(), record); err != nil {
		logRH.Error("Could not reset document for reprocessing", "err", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}

	EnqueueJob(docModel.PipelineJob{
		Kind:       docModel.JobKindIngest,
		DocumentId: record.Id,
		TraceId:    traceFromRequest(r),
	})
	writeJsonResponse(w, http.StatusAccepted, adapter.ToUploadResponse(record))
}

// SummaryHandler godoc
// @Summary      Summarize a document
// @Description  Generates or returns a stored summary over the document's ingested chunks. Synchronous requests wait for the result; otherwise a summarize job is queued.
// @Tags         Summaries
// @Accept       json
// @Produce      json
// @Param        id       path      string              true   "Document ID"
// @Param        request  body      api.SummaryRequest  false  "Regeneration and synchronicity flags"
// @Success      200  {object}  api.SummaryResponse  "Summary ready"
// @Success      202  {object}  api.SummaryResponse  "Summarize job queued"
// @Failure      404  {object}  api.ErrorResponse    "Document not found"
// @Failure      409  {object}  api.ErrorResponse    "Document has not completed ingestion"
// @Router       /documents/{id}/summary [post]
func SummaryHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	idString := utils.GetChiURLParam(r, "id")

	var requestData api.SummaryRequest
	if r.Body != nil {
		//an empty body means default flags
		if err := json.NewDecoder(r.Body).Decode(&requestData); err != nil && !errors.Is(err, io.EOF) {
			WriteErrorResponse(w, http.StatusBadRequest, "Bad Request")
			return
		}
		defer r.Body.Close()
	}

	record, err := GetDocument(idString, traceFromRequest(r))
	if err != nil {
		WriteErrorResponse(w, http.StatusNotFound, "Document not found")
		return
	}

	if requestData.Synchronous {
		record, err = handlerInstance.pipeline.Summarize(r.Context(), record.Id, requestData.Regenerate)
		if err != nil {
			logRH.Error("Synchronous summarization failed", "documentId", idString, "err", err)
			WriteErrorResponse(w, http.StatusConflict, err.Error())
			return
		}
		writeJsonResponse(w, http.StatusOK, adapter.ToSummaryResponse(record))
		return
	}

	//an already stored summary does not need a round trip through the queue
	if record.Summary != "" && !requestData.Regenerate {
		writeJsonResponse(w, http.StatusOK, adapter.ToSummaryResponse(record))
		return
	}

	EnqueueJob(docModel.PipelineJob{
		Kind:       docModel.JobKindSummarize,
		DocumentId: record.Id,
		TraceId:    traceFromRequest(r),
		Regenerate: requestData.Regenerate,
	})
	writeJsonResponse(w, http.StatusAccepted, adapter.ToSummaryResponse(record))
}
