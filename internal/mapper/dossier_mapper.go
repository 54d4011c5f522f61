package mapper

import (
	"time"

	"demarches-be/internal/entity"
	"demarches-be/internal/model"

	"gorm.io/gorm"
)

type DossierMapper struct{}

func NewDossierMapper() *DossierMapper {
	return &DossierMapper{}
}

func (m *DossierMapper) ToEntity(d *model.Dossier) *entity.Dossier {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Dossier{
		Id:        d.Id,
		Name:      d.Name,
		ParentId:  d.ParentId,
		UserId:    d.UserId,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: d.DeletedAt.Valid,
	}
}

func (m *DossierMapper) ToModel(d *entity.Dossier) *model.Dossier {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Dossier{
		Id:        d.Id,
		Name:      d.Name,
		ParentId:  d.ParentId,
		UserId:    d.UserId,
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *DossierMapper) ToEntities(dossiers []*model.Dossier) []*entity.Dossier {
	entities := make([]*entity.Dossier, len(dossiers))
	for i, d := range dossiers {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
