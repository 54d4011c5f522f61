package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename     string         `gorm:"type:varchar(255);not null"`
	DeclaredType string         `gorm:"type:varchar(255);not null;index"`
	DossierId    *uuid.UUID     `gorm:"type:uuid;index"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	SizeBytes    int64          `gorm:"not null;default:0"`
	UploadedAt   time.Time      `gorm:"not null"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
