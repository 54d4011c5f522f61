package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"demarches-be/internal/dto"
	"demarches-be/internal/entity"
	"demarches-be/internal/pkg/apperr"
	"demarches-be/internal/repository/specification"
	"demarches-be/internal/repository/unitofwork"
	"demarches-be/pkg/events"
	pktNats "demarches-be/pkg/nats"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID, dossierId *uuid.UUID, declaredType string) ([]*dto.DocumentResponse, error)
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error)
	Move(ctx context.Context, userId uuid.UUID, req *dto.MoveDocumentRequest) (*dto.MoveDocumentResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func toDocumentResponse(doc *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:           doc.Id,
		Filename:     doc.Filename,
		DeclaredType: doc.DeclaredType,
		DossierId:    doc.DossierId,
		SizeBytes:    doc.SizeBytes,
		UploadedAt:   doc.UploadedAt,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}
}

func (s *documentService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentRequest) (*dto.CreateDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if req.DossierId != nil {
		dossier, err := uow.DossierRepository().FindOne(ctx,
			specification.ByID{ID: *req.DossierId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if dossier == nil {
			return nil, apperr.ErrNotFound
		}
	}

	doc := entity.Document{
		Id:           uuid.New(),
		Filename:     req.Filename,
		DeclaredType: req.DeclaredType,
		DossierId:    req.DossierId,
		UserId:       userId,
		SizeBytes:    req.SizeBytes,
		UploadedAt:   time.Now(),
		CreatedAt:    time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &doc); err != nil {
		return nil, err
	}

	// Queue the auto-fill pass over the user's open procedures.
	if s.publisherService != nil {
		msgJson, err := json.Marshal(dto.DocumentUploadedMessage{DocumentId: doc.Id})
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, msgJson); err != nil {
			return nil, err
		}
	}

	s.publishEvent(ctx, events.TypeDocumentUploaded, map[string]interface{}{
		"document_id":   doc.Id,
		"user_id":       userId,
		"filename":      doc.Filename,
		"declared_type": doc.DeclaredType,
	})

	return &dto.CreateDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}
	return toDocumentResponse(doc), nil
}

func (s *documentService) GetAll(ctx context.Context, userId uuid.UUID, dossierId *uuid.UUID, declaredType string) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "uploaded_at", Desc: true},
	}
	if dossierId != nil {
		specs = append(specs, specification.ByDossierID{DossierID: dossierId})
	}
	if declaredType != "" {
		specs = append(specs, specification.ByDeclaredType{DeclaredType: declaredType})
	}

	docs, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		result = append(result, toDocumentResponse(doc))
	}
	return result, nil
}

func (s *documentService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateDocumentRequest) (*dto.UpdateDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}

	retyped := doc.DeclaredType != req.DeclaredType

	doc.Filename = req.Filename
	doc.DeclaredType = req.DeclaredType
	now := time.Now()
	doc.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	// Retyping does not touch existing bindings; they are re-evaluated as
	// stale when the owning procedure is read.
	if retyped {
		s.publishEvent(ctx, events.TypeDocumentRetyped, map[string]interface{}{
			"document_id":   doc.Id,
			"user_id":       userId,
			"declared_type": doc.DeclaredType,
		})
	}

	return &dto.UpdateDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) Move(ctx context.Context, userId uuid.UUID, req *dto.MoveDocumentRequest) (*dto.MoveDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}

	if req.DossierId != nil {
		dossier, err := uow.DossierRepository().FindOne(ctx,
			specification.ByID{ID: *req.DossierId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if dossier == nil {
			return nil, apperr.ErrNotFound
		}
	}

	doc.DossierId = req.DossierId
	now := time.Now()
	doc.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, doc); err != nil {
		return nil, err
	}

	return &dto.MoveDocumentResponse{Id: doc.Id}, nil
}

func (s *documentService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return err
	}
	if doc == nil {
		return apperr.ErrNotFound
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	// Bindings referencing the document go with it; the owning procedures
	// simply show the requirement as missing again.
	bindings, err := uow.RequirementBindingRepository().FindAll(ctx, specification.ByDocumentID{DocumentID: id})
	if err != nil {
		return err
	}
	for _, binding := range bindings {
		if err := uow.RequirementBindingRepository().Delete(ctx, binding.Id); err != nil {
			return err
		}
	}

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *documentService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", eventType, err)
	}
}
