package model

import (
	"time"

	"github.com/google/uuid"
)

type ProcedureInstance struct {
	Id          uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId      uuid.UUID  `gorm:"type:uuid;not null;index"`
	TemplateId  uuid.UUID  `gorm:"type:uuid;not null;index"`
	Title       string     `gorm:"type:varchar(255);not null"`
	Notes       *string    `gorm:"type:text"`
	Status      string     `gorm:"type:varchar(50);not null;default:'in_progress';index"`
	StartedAt   time.Time  `gorm:"not null"`
	CompletedAt *time.Time
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (ProcedureInstance) TableName() string {
	return "procedure_instances"
}

type RequirementBinding struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InstanceId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bindings_instance_requirement,priority:1"`
	Requirement string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_bindings_instance_requirement,priority:2"`
	DocumentId  uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (RequirementBinding) TableName() string {
	return "requirement_bindings"
}
