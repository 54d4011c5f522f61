package contract

import (
	"context"

	"demarches-be/internal/entity"
	"demarches-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DossierRepository interface {
	Create(ctx context.Context, dossier *entity.Dossier) error
	Update(ctx context.Context, dossier *entity.Dossier) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Dossier, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Dossier, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
