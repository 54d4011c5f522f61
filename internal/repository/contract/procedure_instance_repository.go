package contract

import (
	"context"

	"demarches-be/internal/entity"
	"demarches-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProcedureInstanceRepository interface {
	Create(ctx context.Context, instance *entity.ProcedureInstance) error
	Update(ctx context.Context, instance *entity.ProcedureInstance) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProcedureInstance, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProcedureInstance, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type RequirementBindingRepository interface {
	Create(ctx context.Context, binding *entity.RequirementBinding) error
	Update(ctx context.Context, binding *entity.RequirementBinding) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByInstanceId(ctx context.Context, instanceId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.RequirementBinding, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.RequirementBinding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
