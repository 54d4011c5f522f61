package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProcedureTemplate struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title        string         `gorm:"type:varchar(255);not null"`
	Description  *string        `gorm:"type:text"`
	Category     string         `gorm:"type:varchar(100);not null;index"`
	Requirements datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'"`
	Active       bool           `gorm:"default:true;index"`
	DisplayOrder int            `gorm:"not null;default:0"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
}

func (ProcedureTemplate) TableName() string {
	return "procedure_templates"
}
