package models

import "time"

type UploadedFile struct {
	ID           int64     `json:"id" example:"7"`
	File         string    `json:"file" example:"V1StGXR8_Z5jdHi6B-myT"`
	OriginalName string    `json:"original_name" example:"report.pdf"`
	SizeBytes    int64     `json:"size_bytes" example:"52431"`
	MimeType     string    `json:"mime_type" example:"application/pdf"`
	UploadedAt   time.Time `json:"uploaded_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
