package implementation

import (
	"context"
	"errors"

	"demarches-be/internal/entity"
	"demarches-be/internal/mapper"
	"demarches-be/internal/model"
	"demarches-be/internal/repository/contract"
	"demarches-be/internal/repository/specification"

	"gorm.io/gorm"
)

type ProcedureTemplateRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProcedureMapper
}

func NewProcedureTemplateRepository(db *gorm.DB) contract.ProcedureTemplateRepository {
	return &ProcedureTemplateRepositoryImpl{
		db:     db,
		mapper: mapper.NewProcedureMapper(),
	}
}

func (r *ProcedureTemplateRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProcedureTemplateRepositoryImpl) Create(ctx context.Context, template *entity.ProcedureTemplate) error {
	m := r.mapper.TemplateToModel(template)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*template = *r.mapper.TemplateToEntity(m)
	return nil
}

func (r *ProcedureTemplateRepositoryImpl) Update(ctx context.Context, template *entity.ProcedureTemplate) error {
	m := r.mapper.TemplateToModel(template)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*template = *r.mapper.TemplateToEntity(m)
	return nil
}

func (r *ProcedureTemplateRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcedureTemplate, error) {
	var m model.ProcedureTemplate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TemplateToEntity(&m), nil
}

func (r *ProcedureTemplateRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcedureTemplate, error) {
	var models []*model.ProcedureTemplate
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TemplatesToEntities(models), nil
}

func (r *ProcedureTemplateRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ProcedureTemplate{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
