package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDossierRequest struct {
	Name     string     `json:"name" validate:"required"`
	ParentId *uuid.UUID `json:"parent_id"`
}

type CreateDossierResponse struct {
	Id uuid.UUID `json:"id"`
}

type DossierResponse struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	ParentId  *uuid.UUID `json:"parent_id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateDossierRequest struct {
	Id   uuid.UUID
	Name string `json:"name" validate:"required"`
}

type UpdateDossierResponse struct {
	Id uuid.UUID `json:"id"`
}
