package dto

import (
	"github.com/google/uuid"
)

type StartWizardResponse struct {
	SessionId string `json:"session_id"`
	State     string `json:"state"`
}

type WizardSearchRequest struct {
	SessionId string
	Query     string `json:"query"`
	Category  string `json:"category"`
}

type WizardSelectTemplateRequest struct {
	SessionId  string
	TemplateId uuid.UUID `json:"template_id" validate:"required"`
}

// WizardRow mirrors one review line of the session.
type WizardRow struct {
	Requirement        string `json:"requirement"`
	DocumentId         string `json:"document_id,omitempty"`
	Filename           string `json:"filename,omitempty"`
	IsSubstitution     bool   `json:"is_substitution,omitempty"`
	SubstitutionReason string `json:"substitution_reason,omitempty"`
}

type WizardStateResponse struct {
	SessionId     string      `json:"session_id"`
	State         string      `json:"state"`
	TemplateId    string      `json:"template_id,omitempty"`
	TemplateTitle string      `json:"template_title,omitempty"`
	Rows          []WizardRow `json:"rows,omitempty"`
	InstanceId    string      `json:"instance_id,omitempty"`
}

type WizardEditBindingRequest struct {
	SessionId   string
	Requirement string `json:"requirement" validate:"required"`
	// A nil DocumentId clears the row.
	DocumentId *uuid.UUID `json:"document_id"`
}

type WizardCommitRequest struct {
	SessionId string
	Title     string `json:"title"`
}

type WizardCommitResponse struct {
	SessionId  string `json:"session_id"`
	InstanceId string `json:"instance_id"`
	State      string `json:"state"`
}

type WizardRenameRequest struct {
	SessionId string
	Title     string `json:"title" validate:"required"`
}
