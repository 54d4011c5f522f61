package unitofwork

import (
	"context"

	"demarches-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentRepository() contract.DocumentRepository
	DossierRepository() contract.DossierRepository
	ProcedureTemplateRepository() contract.ProcedureTemplateRepository
	ProcedureInstanceRepository() contract.ProcedureInstanceRepository
	RequirementBindingRepository() contract.RequirementBindingRepository
}
