package implementation

import (
	"context"
	"errors"

	"demarches-be/internal/entity"
	"demarches-be/internal/mapper"
	"demarches-be/internal/model"
	"demarches-be/internal/repository/contract"
	"demarches-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DossierRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DossierMapper
}

func NewDossierRepository(db *gorm.DB) contract.DossierRepository {
	return &DossierRepositoryImpl{
		db:     db,
		mapper: mapper.NewDossierMapper(),
	}
}

func (r *DossierRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DossierRepositoryImpl) Create(ctx context.Context, dossier *entity.Dossier) error {
	m := r.mapper.ToModel(dossier)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*dossier = *r.mapper.ToEntity(m)
	return nil
}

func (r *DossierRepositoryImpl) Update(ctx context.Context, dossier *entity.Dossier) error {
	m := r.mapper.ToModel(dossier)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*dossier = *r.mapper.ToEntity(m)
	return nil
}

func (r *DossierRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Dossier{}, id).Error
}

func (r *DossierRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dossier, error) {
	var m model.Dossier
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *DossierRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dossier, error) {
	var models []*model.Dossier
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *DossierRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Dossier{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
