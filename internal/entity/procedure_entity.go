package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProcedureTemplate is the reusable definition of a procedure. Templates are
// authored by the administrative back office and read-only here; the
// Requirements slice is ordered for display and unique by label.
type ProcedureTemplate struct {
	Id           uuid.UUID
	Title        string
	Description  *string
	Category     string
	Requirements []string
	Active       bool
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

const (
	InstanceStatusInProgress = "in_progress"
	InstanceStatusComplete   = "complete"
	InstanceStatusAbandoned  = "abandoned"
)

// ProcedureInstance is a user's run of a template.
//
// Status transitions: in_progress -> complete and in_progress -> abandoned,
// both terminal. complete implies CompletedAt != nil.
type ProcedureInstance struct {
	Id          uuid.UUID
	UserId      uuid.UUID
	TemplateId  uuid.UUID
	Title       string
	Notes       *string
	Status      string
	StartedAt   time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

func (p *ProcedureInstance) IsTerminal() bool {
	return p.Status == InstanceStatusComplete || p.Status == InstanceStatusAbandoned
}

// RequirementBinding associates one requirement label of an instance with a
// library document. Unique per (instance, requirement); last write wins.
type RequirementBinding struct {
	Id          uuid.UUID
	InstanceId  uuid.UUID
	Requirement string
	DocumentId  uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
