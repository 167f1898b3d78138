package api

import "time"

type DocumentResponse struct {
	Id                string    `json:"id" example:"doc_8f14e45f"`
	FileName          string    `json:"file_name" example:"handbook.pdf"`
	Status            string    `json:"status" example:"PENDING"`
	StatusDescription string    `json:"status_description,omitempty" example:"file format .exe of the file report.exe is not supported"`
	CollectionName    string    `json:"collection_name" example:"documents_default"`
	Summary           string    `json:"summary,omitempty"`
	CreatedTime       time.Time `json:"created_time"`
	LastUpdateTime    time.Time `json:"last_update_time,omitempty"`
}

type UploadResponse struct {
	Id        string `json:"id"`
	FileName  string `json:"file_name"`
	Status    string `json:"status" example:"PENDING"`
	StatusURL string `json:"status_url" example:"documents/doc_8f14e45f"`
}

type ErrorResponse struct {
	Code    int    `json:"code" example:"404"`
	Message string `json:"message" example:"document not found"`
}

// requests---------------------

type SummaryRequest struct {
	Regenerate  bool `json:"regenerate,omitempty"`
	Synchronous bool `json:"synchronous,omitempty"`
}

type SummaryResponse struct {
	Id      string `json:"id"`
	Status  string `json:"status"`
	Summary string `json:"summary,omitempty"`
}
