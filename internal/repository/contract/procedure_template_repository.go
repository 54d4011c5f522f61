package contract

import (
	"context"

	"demarches-be/internal/entity"
	"demarches-be/internal/repository/specification"
)

// ProcedureTemplateRepository is read-mostly: templates are authored by the
// administrative back office (the seeder stands in for it here).
type ProcedureTemplateRepository interface {
	Create(ctx context.Context, template *entity.ProcedureTemplate) error
	Update(ctx context.Context, template *entity.ProcedureTemplate) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcedureTemplate, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcedureTemplate, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
