package service

import (
	"context"
	"fmt"

	"demarches-be/internal/dto"
	"demarches-be/internal/entity"
	"demarches-be/internal/pkg/apperr"
	"demarches-be/internal/repository/memory"
	"demarches-be/internal/repository/specification"
	"demarches-be/internal/repository/unitofwork"
	"demarches-be/pkg/reconcile"
	"demarches-be/pkg/store"
	"demarches-be/pkg/wizard"

	"github.com/google/uuid"
)

type IWizardService interface {
	Start(ctx context.Context, userId uuid.UUID) (*dto.StartWizardResponse, error)
	GetState(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.WizardStateResponse, error)
	SearchTemplates(ctx context.Context, userId uuid.UUID, req *dto.WizardSearchRequest) ([]*dto.TemplateSummaryResponse, error)
	SelectTemplate(ctx context.Context, userId uuid.UUID, req *dto.WizardSelectTemplateRequest) (*dto.WizardStateResponse, error)
	EditBinding(ctx context.Context, userId uuid.UUID, req *dto.WizardEditBindingRequest) (*dto.WizardStateResponse, error)
	Commit(ctx context.Context, userId uuid.UUID, req *dto.WizardCommitRequest) (*dto.WizardCommitResponse, error)
	Rename(ctx context.Context, userId uuid.UUID, req *dto.WizardRenameRequest) error
	Cancel(ctx context.Context, userId uuid.UUID, sessionId string) error
}

type wizardService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessions         *memory.WizardRepository
	engine           *reconcile.Engine
	templateService  ITemplateService
	procedureService IProcedureService
}

func NewWizardService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.WizardRepository,
	engine *reconcile.Engine,
	templateService ITemplateService,
	procedureService IProcedureService,
) IWizardService {
	return &wizardService{
		uowFactory:       uowFactory,
		sessions:         sessions,
		engine:           engine,
		templateService:  templateService,
		procedureService: procedureService,
	}
}

// findSession resolves the caller's session. A session owned by another user
// reads as not found.
func (s *wizardService) findSession(userId uuid.UUID, sessionId string) (*store.WizardSession, error) {
	session, found := s.sessions.Get(sessionId)
	if !found || session.UserID != userId.String() {
		return nil, apperr.ErrNotFound
	}
	return session, nil
}

func toWizardState(session *store.WizardSession) *dto.WizardStateResponse {
	session.Lock()
	defer session.Unlock()

	rows := make([]dto.WizardRow, 0, len(session.Rows))
	for _, row := range session.Rows {
		rows = append(rows, dto.WizardRow{
			Requirement:        row.Requirement,
			DocumentId:         row.DocumentId,
			Filename:           row.Filename,
			IsSubstitution:     row.IsSubstitution,
			SubstitutionReason: row.SubstitutionReason,
		})
	}
	return &dto.WizardStateResponse{
		SessionId:     session.ID,
		State:         session.State,
		TemplateId:    session.TemplateID,
		TemplateTitle: session.TemplateTitle,
		Rows:          rows,
		InstanceId:    session.InstanceID,
	}
}

func (s *wizardService) Start(ctx context.Context, userId uuid.UUID) (*dto.StartWizardResponse, error) {
	session := wizard.NewSession(userId.String())
	s.sessions.Save(session)
	return &dto.StartWizardResponse{SessionId: session.ID, State: session.State}, nil
}

func (s *wizardService) GetState(ctx context.Context, userId uuid.UUID, sessionId string) (*dto.WizardStateResponse, error) {
	session, err := s.findSession(userId, sessionId)
	if err != nil {
		return nil, err
	}
	return toWizardState(session), nil
}

func (s *wizardService) SearchTemplates(ctx context.Context, userId uuid.UUID, req *dto.WizardSearchRequest) ([]*dto.TemplateSummaryResponse, error) {
	session, err := s.findSession(userId, req.SessionId)
	if err != nil {
		return nil, err
	}
	if session.State != store.StateSearch {
		return nil, fmt.Errorf("%w: search not available in state %s", apperr.ErrConflict, session.State)
	}
	return s.templateService.Search(ctx, req.Query, req.Category)
}

func (s *wizardService) SelectTemplate(ctx context.Context, userId uuid.UUID, req *dto.WizardSelectTemplateRequest) (*dto.WizardStateResponse, error) {
	session, err := s.findSession(userId, req.SessionId)
	if err != nil {
		return nil, err
	}

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

	if err := wizard.BeginReconcile(session, template.Id.String(), template.Title); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	s.sessions.Save(session)

	library, err := uow.DocumentRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "uploaded_at", Desc: true},
	)
	if err != nil {
		wizard.FailReconcile(session)
		s.sessions.Save(session)
		return nil, err
	}

	annotations := s.engine.Reconcile(ctx, template.Requirements, library)

	docsById := make(map[uuid.UUID]*entity.Document, len(library))
	for _, doc := range library {
		docsById[doc.Id] = doc
	}

	rows := make([]store.ReviewRow, 0, len(annotations))
	for _, ann := range annotations {
		row := store.ReviewRow{Requirement: ann.Requirement}
		if ann.Kind != reconcile.MatchMissing {
			row.DocumentId = ann.DocumentId.String()
			if doc, ok := docsById[ann.DocumentId]; ok {
				row.Filename = doc.Filename
			}
			if ann.Kind == reconcile.MatchSubstituted {
				row.IsSubstitution = true
				row.SubstitutionReason = ann.SubstitutionReason
			}
		}
		rows = append(rows, row)
	}

	if err := wizard.ToReview(session, rows); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	s.sessions.Save(session)

	return toWizardState(session), nil
}

func (s *wizardService) EditBinding(ctx context.Context, userId uuid.UUID, req *dto.WizardEditBindingRequest) (*dto.WizardStateResponse, error) {
	session, err := s.findSession(userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	if req.DocumentId == nil {
		if err := wizard.ClearBinding(session, req.Requirement); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
		s.sessions.Save(session)
		return toWizardState(session), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
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

	if err := wizard.PickDocument(session, req.Requirement, doc.Id.String(), doc.Filename); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	s.sessions.Save(session)

	return toWizardState(session), nil
}

func (s *wizardService) Commit(ctx context.Context, userId uuid.UUID, req *dto.WizardCommitRequest) (*dto.WizardCommitResponse, error) {
	session, err := s.findSession(userId, req.SessionId)
	if err != nil {
		return nil, err
	}

	if err := wizard.BeginCommit(session); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	s.sessions.Save(session)

	session.Lock()
	rawTemplateId := session.TemplateID
	session.Unlock()

	templateId, err := uuid.Parse(rawTemplateId)
	if err != nil {
		wizard.FailCommit(session)
		s.sessions.Save(session)
		return nil, err
	}

	bindings := make(map[string]uuid.UUID)
	for requirement, docId := range wizard.Bindings(session) {
		parsed, err := uuid.Parse(docId)
		if err != nil {
			wizard.FailCommit(session)
			s.sessions.Save(session)
			return nil, err
		}
		bindings[requirement] = parsed
	}

	created, err := s.procedureService.Create(ctx, userId, &dto.CreateProcedureRequest{
		TemplateId: templateId,
		Title:      req.Title,
		Bindings:   bindings,
	})
	if err != nil {
		// The review rows survive so the user can retry without re-editing.
		wizard.FailCommit(session)
		s.sessions.Save(session)
		return nil, err
	}

	if err := wizard.Complete(session, created.Id.String()); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}
	s.sessions.Save(session)

	session.Lock()
	defer session.Unlock()
	return &dto.WizardCommitResponse{
		SessionId:  session.ID,
		InstanceId: session.InstanceID,
		State:      session.State,
	}, nil
}

func (s *wizardService) Rename(ctx context.Context, userId uuid.UUID, req *dto.WizardRenameRequest) error {
	session, err := s.findSession(userId, req.SessionId)
	if err != nil {
		return err
	}

	if err := wizard.CanRename(session); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}

	session.Lock()
	rawInstanceId := session.InstanceID
	session.Unlock()

	instanceId, err := uuid.Parse(rawInstanceId)
	if err != nil {
		return err
	}

	if _, err := s.procedureService.Update(ctx, userId, &dto.UpdateProcedureRequest{
		InstanceId: instanceId,
		Title:      req.Title,
	}); err != nil {
		// The one-shot rename is only consumed below, after the instance
		// actually changed, so a failed update stays retryable.
		return err
	}

	if err := wizard.MarkTitleUpdated(session); err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
	}

	s.sessions.Save(session)
	return nil
}

func (s *wizardService) Cancel(ctx context.Context, userId uuid.UUID, sessionId string) error {
	if _, err := s.findSession(userId, sessionId); err != nil {
		return err
	}
	s.sessions.Delete(sessionId)
	return nil
}
