package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"demarches-be/internal/dto"
	"demarches-be/internal/entity"
	"demarches-be/internal/pkg/apperr"
	"demarches-be/internal/pkg/mailer"
	"demarches-be/internal/repository/specification"
	"demarches-be/internal/repository/unitofwork"
	"demarches-be/pkg/events"
	pktNats "demarches-be/pkg/nats"
	"demarches-be/pkg/reconcile"

	"github.com/google/uuid"
)

type IProcedureService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProcedureRequest) (*dto.CreateProcedureResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ProcedureSummaryResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProcedureResponse, error)
	Progress(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProgressResponse, error)
	Bind(ctx context.Context, userId uuid.UUID, req *dto.BindRequirementRequest) (*dto.BindRequirementResponse, error)
	MarkComplete(ctx context.Context, userId uuid.UUID, req *dto.MarkCompleteRequest) (*dto.MarkCompleteResponse, error)
	Abandon(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
	Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProcedureRequest) (*dto.UpdateProcedureResponse, error)
	Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type procedureService struct {
	uowFactory     unitofwork.RepositoryFactory
	matchPolicy    reconcile.MatchPolicy
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
}

// NewProcedureService wires the lifecycle operations. emailService and
// eventPublisher may be nil; completion email and bus events are auxiliary.
func NewProcedureService(
	uowFactory unitofwork.RepositoryFactory,
	matchPolicy reconcile.MatchPolicy,
	emailService mailer.IEmailService,
	eventPublisher *pktNats.Publisher,
) IProcedureService {
	return &procedureService{
		uowFactory:     uowFactory,
		matchPolicy:    matchPolicy,
		emailService:   emailService,
		eventPublisher: eventPublisher,
	}
}

func requirementIndex(requirements []string) map[string]struct{} {
	idx := make(map[string]struct{}, len(requirements))
	for _, r := range requirements {
		idx[r] = struct{}{}
	}
	return idx
}

// findOwnedInstance resolves an instance under the caller's ownership. An
// instance that exists but belongs to someone else reads as not found, its
// existence is never revealed.
func (s *procedureService) findOwnedInstance(ctx context.Context, uow unitofwork.UnitOfWork, userId, id uuid.UUID) (*entity.ProcedureInstance, error) {
	instance, err := uow.ProcedureInstanceRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, apperr.ErrNotFound
	}
	return instance, nil
}

func (s *procedureService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateProcedureRequest) (*dto.CreateProcedureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	template, err := uow.ProcedureTemplateRepository().FindOne(ctx,
		specification.ByID{ID: req.TemplateId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.ErrTemplateNotFound
	}

	known := requirementIndex(template.Requirements)
	for requirement := range req.Bindings {
		if _, ok := known[requirement]; !ok {
			return nil, fmt.Errorf("%w: unknown requirement %q", apperr.ErrValidationFailed, requirement)
		}
	}

	for requirement, docId := range req.Bindings {
		doc, err := uow.DocumentRepository().FindOne(ctx,
			specification.ByID{ID: docId},
			specification.UserOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if doc == nil {
			return nil, fmt.Errorf("%w: document for requirement %q", apperr.ErrNotFound, requirement)
		}
	}

	title := req.Title
	if title == "" {
		title = template.Title
	}

	instance := entity.ProcedureInstance{
		Id:         uuid.New(),
		UserId:     userId,
		TemplateId: template.Id,
		Title:      title,
		Status:     entity.InstanceStatusInProgress,
		StartedAt:  time.Now(),
		CreatedAt:  time.Now(),
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.ProcedureInstanceRepository().Create(ctx, &instance); err != nil {
		return nil, err
	}

	// Bindings are written in template order for stable audit reads.
	for _, requirement := range template.Requirements {
		docId, ok := req.Bindings[requirement]
		if !ok {
			continue
		}
		binding := entity.RequirementBinding{
			Id:          uuid.New(),
			InstanceId:  instance.Id,
			Requirement: requirement,
			DocumentId:  docId,
			CreatedAt:   time.Now(),
		}
		if err := uow.RequirementBindingRepository().Create(ctx, &binding); err != nil {
			return nil, err
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TypeProcedureStarted, map[string]interface{}{
		"instance_id": instance.Id,
		"user_id":     userId,
		"title":       instance.Title,
		"template_id": template.Id,
	})

	return &dto.CreateProcedureResponse{Id: instance.Id}, nil
}

func (s *procedureService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.ProcedureSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instances, err := uow.ProcedureInstanceRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.ProcedureSummaryResponse, 0, len(instances))
	for _, instance := range instances {
		template, err := uow.ProcedureTemplateRepository().FindOne(ctx, specification.ByID{ID: instance.TemplateId})
		if err != nil {
			return nil, err
		}

		boundCount, err := uow.RequirementBindingRepository().Count(ctx,
			specification.ByInstanceID{InstanceID: instance.Id},
		)
		if err != nil {
			return nil, err
		}

		summary := &dto.ProcedureSummaryResponse{
			Id:          instance.Id,
			Title:       instance.Title,
			Status:      instance.Status,
			BoundCount:  int(boundCount),
			StartedAt:   instance.StartedAt,
			CompletedAt: instance.CompletedAt,
		}
		if template != nil {
			summary.TemplateTitle = template.Title
			summary.TotalCount = len(template.Requirements)
		}
		result = append(result, summary)
	}
	return result, nil
}

func (s *procedureService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowProcedureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instance, err := s.findOwnedInstance(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	template, err := uow.ProcedureTemplateRepository().FindOne(ctx, specification.ByID{ID: instance.TemplateId})
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.ErrTemplateNotFound
	}

	bindings, err := uow.RequirementBindingRepository().FindAll(ctx,
		specification.ByInstanceID{InstanceID: instance.Id},
	)
	if err != nil {
		return nil, err
	}
	byRequirement := make(map[string]*entity.RequirementBinding, len(bindings))
	docIds := make([]uuid.UUID, 0, len(bindings))
	for _, b := range bindings {
		byRequirement[b.Requirement] = b
		docIds = append(docIds, b.DocumentId)
	}

	docsById := make(map[uuid.UUID]*entity.Document, len(docIds))
	if len(docIds) > 0 {
		docs, err := uow.DocumentRepository().FindAll(ctx, specification.ByIDs{IDs: docIds})
		if err != nil {
			return nil, err
		}
		for _, d := range docs {
			docsById[d.Id] = d
		}
	}

	rows := make([]dto.RequirementRow, 0, len(template.Requirements))
	for _, requirement := range template.Requirements {
		row := dto.RequirementRow{Requirement: requirement}
		if binding, ok := byRequirement[requirement]; ok {
			if doc, ok := docsById[binding.DocumentId]; ok {
				docId := doc.Id
				row.DocumentId = &docId
				row.Filename = doc.Filename
				// A binding goes stale when the document was retyped away
				// from the requirement after binding.
				row.Stale = s.matchPolicy != nil && !s.matchPolicy.Matches(requirement, doc.DeclaredType)
			}
		}
		rows = append(rows, row)
	}

	return &dto.ShowProcedureResponse{
		Id:            instance.Id,
		Title:         instance.Title,
		Notes:         instance.Notes,
		TemplateId:    template.Id,
		TemplateTitle: template.Title,
		Status:        instance.Status,
		Requirements:  rows,
		StartedAt:     instance.StartedAt,
		CompletedAt:   instance.CompletedAt,
		CreatedAt:     instance.CreatedAt,
		UpdatedAt:     instance.UpdatedAt,
	}, nil
}

// Progress gates the complete action in the UI: it is enabled once
// boundCount reaches totalRequired.
func (s *procedureService) Progress(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ProgressResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instance, err := s.findOwnedInstance(ctx, uow, userId, id)
	if err != nil {
		return nil, err
	}

	template, err := uow.ProcedureTemplateRepository().FindOne(ctx, specification.ByID{ID: instance.TemplateId})
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.ErrTemplateNotFound
	}

	boundCount, err := uow.RequirementBindingRepository().Count(ctx,
		specification.ByInstanceID{InstanceID: instance.Id},
	)
	if err != nil {
		return nil, err
	}

	return &dto.ProgressResponse{
		InstanceId:    instance.Id,
		BoundCount:    int(boundCount),
		TotalRequired: len(template.Requirements),
	}, nil
}

func (s *procedureService) Bind(ctx context.Context, userId uuid.UUID, req *dto.BindRequirementRequest) (*dto.BindRequirementResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instance, err := s.findOwnedInstance(ctx, uow, userId, req.InstanceId)
	if err != nil {
		return nil, err
	}
	if instance.IsTerminal() {
		return nil, fmt.Errorf("%w: procedure is %s", apperr.ErrConflict, instance.Status)
	}

	template, err := uow.ProcedureTemplateRepository().FindOne(ctx, specification.ByID{ID: instance.TemplateId})
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.ErrTemplateNotFound
	}
	if _, ok := requirementIndex(template.Requirements)[req.Requirement]; !ok {
		return nil, fmt.Errorf("%w: unknown requirement %q", apperr.ErrValidationFailed, req.Requirement)
	}

	existing, err := uow.RequirementBindingRepository().FindOne(ctx,
		specification.ByInstanceID{InstanceID: instance.Id},
		specification.ByRequirement{Requirement: req.Requirement},
	)
	if err != nil {
		return nil, err
	}

	// A nil document removes the binding; removing an absent one is a no-op.
	if req.DocumentId == nil {
		if existing != nil {
			if err := uow.RequirementBindingRepository().Delete(ctx, existing.Id); err != nil {
				return nil, err
			}
		}
		return &dto.BindRequirementResponse{InstanceId: instance.Id}, nil
	}

	doc, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: *req.DocumentId},
		specification.UserOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, apperr.ErrNotFound
	}

	if existing != nil {
		// Last write wins, including rebinding to the same document.
		existing.DocumentId = doc.Id
		now := time.Now()
		existing.UpdatedAt = &now
		if err := uow.RequirementBindingRepository().Update(ctx, existing); err != nil {
			return nil, err
		}
	} else {
		binding := entity.RequirementBinding{
			Id:          uuid.New(),
			InstanceId:  instance.Id,
			Requirement: req.Requirement,
			DocumentId:  doc.Id,
			CreatedAt:   time.Now(),
		}
		if err := uow.RequirementBindingRepository().Create(ctx, &binding); err != nil {
			return nil, err
		}
	}

	return &dto.BindRequirementResponse{InstanceId: instance.Id}, nil
}

func (s *procedureService) MarkComplete(ctx context.Context, userId uuid.UUID, req *dto.MarkCompleteRequest) (*dto.MarkCompleteResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instance, err := s.findOwnedInstance(ctx, uow, userId, req.InstanceId)
	if err != nil {
		return nil, err
	}
	if instance.Status == entity.InstanceStatusComplete {
		// Completing twice is a no-op.
		return &dto.MarkCompleteResponse{InstanceId: instance.Id, Status: instance.Status}, nil
	}
	if instance.Status == entity.InstanceStatusAbandoned {
		return nil, fmt.Errorf("%w: procedure is abandoned", apperr.ErrConflict)
	}

	template, err := uow.ProcedureTemplateRepository().FindOne(ctx, specification.ByID{ID: instance.TemplateId})
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.ErrTemplateNotFound
	}

	boundCount, err := uow.RequirementBindingRepository().Count(ctx,
		specification.ByInstanceID{InstanceID: instance.Id},
	)
	if err != nil {
		return nil, err
	}

	if int(boundCount) < len(template.Requirements) && !req.Override {
		return nil, fmt.Errorf("%w: %d of %d requirements bound",
			apperr.ErrIncompleteRequirements, boundCount, len(template.Requirements))
	}

	now := time.Now()
	instance.Status = entity.InstanceStatusComplete
	instance.CompletedAt = &now
	instance.UpdatedAt = &now
	if err := uow.ProcedureInstanceRepository().Update(ctx, instance); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.TypeProcedureComplete, map[string]interface{}{
		"instance_id": instance.Id,
		"user_id":     userId,
		"title":       instance.Title,
	})

	if s.emailService != nil {
		user, _ := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
		if user != nil {
			title := instance.Title
			email := user.Email
			bound := int(boundCount)
			total := len(template.Requirements)
			go func() {
				if err := s.emailService.SendProcedureComplete(email, title, bound, total); err != nil {
					log.Printf("[WARN] Failed to send completion email: %v", err)
				}
			}()
		}
	}

	return &dto.MarkCompleteResponse{InstanceId: instance.Id, Status: instance.Status}, nil
}

func (s *procedureService) Abandon(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instance, err := s.findOwnedInstance(ctx, uow, userId, id)
	if err != nil {
		return err
	}
	if instance.Status == entity.InstanceStatusAbandoned {
		return nil
	}
	if instance.Status == entity.InstanceStatusComplete {
		return fmt.Errorf("%w: procedure is complete", apperr.ErrConflict)
	}

	now := time.Now()
	instance.Status = entity.InstanceStatusAbandoned
	instance.UpdatedAt = &now
	if err := uow.ProcedureInstanceRepository().Update(ctx, instance); err != nil {
		return err
	}

	s.publishEvent(ctx, events.TypeProcedureAbandoned, map[string]interface{}{
		"instance_id": instance.Id,
		"user_id":     userId,
		"title":       instance.Title,
	})

	return nil
}

func (s *procedureService) Update(ctx context.Context, userId uuid.UUID, req *dto.UpdateProcedureRequest) (*dto.UpdateProcedureResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instance, err := s.findOwnedInstance(ctx, uow, userId, req.InstanceId)
	if err != nil {
		return nil, err
	}

	instance.Title = req.Title
	instance.Notes = req.Notes
	now := time.Now()
	instance.UpdatedAt = &now
	if err := uow.ProcedureInstanceRepository().Update(ctx, instance); err != nil {
		return nil, err
	}

	return &dto.UpdateProcedureResponse{InstanceId: instance.Id}, nil
}

func (s *procedureService) Delete(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	instance, err := s.findOwnedInstance(ctx, uow, userId, id)
	if err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.RequirementBindingRepository().DeleteByInstanceId(ctx, instance.Id); err != nil {
		return err
	}
	if err := uow.ProcedureInstanceRepository().Delete(ctx, instance.Id); err != nil {
		return err
	}

	return uow.Commit()
}

func (s *procedureService) publishEvent(ctx context.Context, eventType string, data map[string]interface{}) {
	if s.eventPublisher == nil {
		return
	}
	evt := events.New(eventType, data)
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish %s event: %v", eventType, err)
	}
}
