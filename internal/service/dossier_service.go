package service

import (
	"context"
	"time"

	"demarches-be/internal/dto"
	"demarches-be/internal/entity"
	"demarches-be/internal/pkg/apperr"
	"demarches-be/internal/repository/specification"
	"demarches-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDossierService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDossierRequest) (*dto.CreateDossierResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DossierResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDossierRequest) (*dto.UpdateDossierResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type dossierService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDossierService(uowFactory unitofwork.RepositoryFactory) IDossierService {
	return &dossierService{uowFactory: uowFactory}
}

func (s *dossierService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDossierRequest) (*dto.CreateDossierResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.ParentId != nil {
		parent, err := uow.DossierRepository().FindOne(ctx,
			specification.ByID{ID: *req.ParentId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, apperr.ErrNotFound
		}
	}

	dossier := entity.Dossier{
		Id:        uuid.New(),
		Name:      req.Name,
		ParentId:  req.ParentId,
		UserId:    userId,
		CreatedAt: time.Now(),
	}

	if err := uow.DossierRepository().Create(ctx, &dossier); err != nil {
		return nil, err
	}

	return &dto.CreateDossierResponse{Id: dossier.Id}, nil
}

func (s *dossierService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.DossierResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	dossiers, err := uow.DossierRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "name", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DossierResponse, 0, len(dossiers))
	for _, d := range dossiers {
		result = append(result, &dto.DossierResponse{
			Id:        d.Id,
			Name:      d.Name,
			ParentId:  d.ParentId,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return result, nil
}

func (s *dossierService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDossierRequest) (*dto.UpdateDossierResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	dossier, err := uow.DossierRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if dossier == nil {
		return nil, apperr.ErrNotFound
	}

	dossier.Name = req.Name
	now := time.Now()
	dossier.UpdatedAt = &now

	if err := uow.DossierRepository().Update(ctx, dossier); err != nil {
		return nil, err
	}

	return &dto.UpdateDossierResponse{Id: dossier.Id}, nil
}

// Delete removes one dossier only: child dossiers are re-parented to the
// deleted dossier's parent and contained documents are detached to unfiled,
// all in one transaction.
func (s *dossierService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	dossier, err := uow.DossierRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if dossier == nil {
		return apperr.ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	children, err := uow.DossierRepository().FindAll(ctx, specification.ByParentID{ParentID: &id})
	if err != nil {
		return err
	}
	for _, child := range children {
		child.ParentId = dossier.ParentId
		now := time.Now()
		child.UpdatedAt = &now
		if err := uow.DossierRepository().Update(ctx, child); err != nil {
			return err
		}
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, specification.ByDossierID{DossierID: &id})
	if err != nil {
		return err
	}
	for _, doc := range docs {
		doc.DossierId = dossier.ParentId
		now := time.Now()
		doc.UpdatedAt = &now
		if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
			return err
		}
	}

	if err := uow.DossierRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}
