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

type RequirementBindingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcedureMapper
}

func NewRequirementBindingRepository(db *gorm.DB) contract.RequirementBindingRepository {
	return &RequirementBindingRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcedureMapper(),
	}
}

func (r *RequirementBindingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *RequirementBindingRepositoryImpl) Create(ctx context.Context, binding *entity.RequirementBinding) error {
	m := r.mapper.BindingToModel(binding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*binding = *r.mapper.BindingToEntity(m)
	return nil
}

func (r *RequirementBindingRepositoryImpl) Update(ctx context.Context, binding *entity.RequirementBinding) error {
	m := r.mapper.BindingToModel(binding)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*binding = *r.mapper.BindingToEntity(m)
	return nil
}

func (r *RequirementBindingRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.RequirementBinding{}, id).Error
}

func (r *RequirementBindingRepositoryImpl) DeleteByInstanceId(ctx context.Context, instanceId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("instance_id = ?", instanceId).Delete(&model.RequirementBinding{}).Error
}

func (r *RequirementBindingRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RequirementBinding, error) {
	var m model.RequirementBinding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.BindingToEntity(&m), nil
}

func (r *RequirementBindingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RequirementBinding, error) {
	var models []*model.RequirementBinding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.BindingsToEntities(models), nil
}

func (r *RequirementBindingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.RequirementBinding{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
