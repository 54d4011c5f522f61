package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByDossierID filters documents by dossier; nil matches unfiled documents.
type ByDossierID struct {
	DossierID *uuid.UUID
}

func (s ByDossierID) Apply(db *gorm.DB) *gorm.DB {
	if s.DossierID == nil {
		return db.Where("dossier_id IS NULL")
	}
	return db.Where("dossier_id = ?", s.DossierID)
}

type ByDossierIDs struct {
	DossierIDs []uuid.UUID
}

func (s ByDossierIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("dossier_id IN ?", s.DossierIDs)
}

type ByDeclaredType struct {
	DeclaredType string
}

func (s ByDeclaredType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("declared_type = ?", s.DeclaredType)
}

// ByParentID filters dossiers by parent; nil matches root dossiers.
type ByParentID struct {
	ParentID *uuid.UUID
}

func (s ByParentID) Apply(db *gorm.DB) *gorm.DB {
	if s.ParentID == nil {
		return db.Where("parent_id IS NULL")
	}
	return db.Where("parent_id = ?", s.ParentID)
}
