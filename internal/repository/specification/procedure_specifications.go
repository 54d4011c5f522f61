package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Template specs

type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true)
}

type TitleContains struct {
	Query string
}

func (s TitleContains) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("title ILIKE ?", "%"+s.Query+"%")
}

type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("category = ?", s.Category)
}

// Instance specs

type ByTemplateID struct {
	TemplateID uuid.UUID
}

func (s ByTemplateID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("template_id = ?", s.TemplateID)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// Binding specs

type ByInstanceID struct {
	InstanceID uuid.UUID
}

func (s ByInstanceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("instance_id = ?", s.InstanceID)
}

type ByRequirement struct {
	Requirement string
}

func (s ByRequirement) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("requirement = ?", s.Requirement)
}

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}
