package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is the metadata record of an uploaded file. File bytes live with
// the storage collaborator; this service only references them by id.
type Document struct {
	Id           uuid.UUID
	Filename     string
	DeclaredType string
	DossierId    *uuid.UUID
	UserId       uuid.UUID
	SizeBytes    int64
	UploadedAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
