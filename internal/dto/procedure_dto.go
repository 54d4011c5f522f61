package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProcedureRequest struct {
	TemplateId uuid.UUID `json:"template_id" validate:"required"`
	Title      string    `json:"title"`
	// Bindings maps requirement labels to library document ids. Labels not
	// present in the template are rejected.
	Bindings map[string]uuid.UUID `json:"bindings"`
}

type CreateProcedureResponse struct {
	Id uuid.UUID `json:"id"`
}

// RequirementRow is one line of an instance's progress view: the requirement
// label plus the bound document, if any.
type RequirementRow struct {
	Requirement string     `json:"requirement"`
	DocumentId  *uuid.UUID `json:"document_id"`
	Filename    string     `json:"filename,omitempty"`
	// Set when the bound document's declared type no longer satisfies the
	// requirement label, e.g. after the document was retyped.
	Stale bool `json:"stale,omitempty"`
}

type ProcedureSummaryResponse struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	TemplateTitle string     `json:"template_title"`
	Status        string     `json:"status"`
	BoundCount    int        `json:"bound_count"`
	TotalCount    int        `json:"total_count"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

type ShowProcedureResponse struct {
	Id            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Notes         *string          `json:"notes"`
	TemplateId    uuid.UUID        `json:"template_id"`
	TemplateTitle string           `json:"template_title"`
	Status        string           `json:"status"`
	Requirements  []RequirementRow `json:"requirements"`
	StartedAt     time.Time        `json:"started_at"`
	CompletedAt   *time.Time       `json:"completed_at"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at"`
}

type ProgressResponse struct {
	InstanceId    uuid.UUID `json:"instance_id"`
	BoundCount    int       `json:"bound_count"`
	TotalRequired int       `json:"total_required"`
}

type BindRequirementRequest struct {
	InstanceId  uuid.UUID
	Requirement string `json:"requirement" validate:"required"`
	// A nil DocumentId removes the binding.
	DocumentId *uuid.UUID `json:"document_id"`
}

type BindRequirementResponse struct {
	InstanceId uuid.UUID `json:"instance_id"`
}

type MarkCompleteRequest struct {
	InstanceId uuid.UUID
	// Override acknowledges missing requirements and completes anyway.
	Override bool `json:"override"`
}

type MarkCompleteResponse struct {
	InstanceId uuid.UUID `json:"instance_id"`
	Status     string    `json:"status"`
}

type UpdateProcedureRequest struct {
	InstanceId uuid.UUID
	Title      string  `json:"title" validate:"required"`
	Notes      *string `json:"notes"`
}

type UpdateProcedureResponse struct {
	InstanceId uuid.UUID `json:"instance_id"`
}
