package adapter

import (
	"fmt"

	"github.com/rkondaveeti/IngestAPI/internal/api"
	"github.com/rkondaveeti/IngestAPI/internal/domain/docModel"
)

func ToUploadResponse(record docModel.DocumentRecord) api.UploadResponse {
	return api.UploadResponse{
		Id:        record.Id,
		FileName:  record.FileName,
		Status:    string(record.ProcessStatus),
		StatusURL: fmt.Sprintf("documents/%s", record.Id),
	}
}

func ToDocumentResponse(record docModel.DocumentRecord) api.DocumentResponse {
	return api.DocumentResponse{
		Id:                record.Id,
		FileName:          record.FileName,
		Status:            string(record.ProcessStatus),
		StatusDescription: record.ProcessDescription,
		CollectionName:    record.CollectionName,
		Summary:           record.Summary,
		CreatedTime:       record.CreatedTime,
		LastUpdateTime:    record.UpdatedTime,
	}
}

func ToSummaryResponse(record docModel.DocumentRecord) api.SummaryResponse {
	return api.SummaryResponse{
		Id:      record.Id,
		Status:  string(record.ProcessStatus),
		Summary: record.Summary,
	}
}

func BadRequest(message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Code:    code,
		Message: message,
	}
}
