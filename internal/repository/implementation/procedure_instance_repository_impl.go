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

type ProcedureInstanceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcedureMapper
}

func NewProcedureInstanceRepository(db *gorm.DB) contract.ProcedureInstanceRepository {
	return &ProcedureInstanceRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcedureMapper(),
	}
}

func (r *ProcedureInstanceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProcedureInstanceRepositoryImpl) Create(ctx context.Context, instance *entity.ProcedureInstance) error {
	m := r.mapper.InstanceToModel(instance)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*instance = *r.mapper.InstanceToEntity(m)
	return nil
}

func (r *ProcedureInstanceRepositoryImpl) Update(ctx context.Context, instance *entity.ProcedureInstance) error {
	m := r.mapper.InstanceToModel(instance)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*instance = *r.mapper.InstanceToEntity(m)
	return nil
}

func (r *ProcedureInstanceRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ProcedureInstance{}, id).Error
}

func (r *ProcedureInstanceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcedureInstance, error) {
	var m model.ProcedureInstance
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.InstanceToEntity(&m), nil
}

func (r *ProcedureInstanceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcedureInstance, error) {
	var models []*model.ProcedureInstance
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.InstancesToEntities(models), nil
}

func (r *ProcedureInstanceRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ProcedureInstance{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
