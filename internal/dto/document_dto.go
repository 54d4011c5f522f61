package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Filename     string     `json:"filename" validate:"required"`
	DeclaredType string     `json:"declared_type" validate:"required"`
	DossierId    *uuid.UUID `json:"dossier_id"`
	SizeBytes    int64      `json:"size_bytes" validate:"gte=0"`
}

type CreateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type DocumentResponse struct {
	Id           uuid.UUID  `json:"id"`
	Filename     string     `json:"filename"`
	DeclaredType string     `json:"declared_type"`
	DossierId    *uuid.UUID `json:"dossier_id"`
	SizeBytes    int64      `json:"size_bytes"`
	UploadedAt   time.Time  `json:"uploaded_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type UpdateDocumentRequest struct {
	Id           uuid.UUID
	Filename     string `json:"filename" validate:"required"`
	DeclaredType string `json:"declared_type" validate:"required"`
}

type UpdateDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type MoveDocumentRequest struct {
	Id        uuid.UUID
	DossierId *uuid.UUID `json:"dossier_id"`
}

type MoveDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

// DocumentUploadedMessage is the internal queue payload that triggers
// auto-fill of open procedures after an upload.
type DocumentUploadedMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
