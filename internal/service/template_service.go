package service

import (
	"context"

	"demarches-be/internal/dto"
	"demarches-be/internal/entity"
	"demarches-be/internal/pkg/apperr"
	"demarches-be/internal/repository/specification"
	"demarches-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ITemplateService interface {
	ListActive(ctx context.Context) ([]*dto.TemplateSummaryResponse, error)
	Search(ctx context.Context, query, category string) ([]*dto.TemplateSummaryResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.TemplateDetailResponse, error)
}

type templateService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTemplateService(uowFactory unitofwork.RepositoryFactory) ITemplateService {
	return &templateService{uowFactory: uowFactory}
}

func toTemplateSummaries(templates []*entity.ProcedureTemplate) []*dto.TemplateSummaryResponse {
	result := make([]*dto.TemplateSummaryResponse, 0, len(templates))
	for _, t := range templates {
		result = append(result, &dto.TemplateSummaryResponse{
			Id:          t.Id,
			Title:       t.Title,
			Description: t.Description,
			Category:    t.Category,
		})
	}
	return result
}

func (s *templateService) ListActive(ctx context.Context) ([]*dto.TemplateSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	templates, err := uow.ProcedureTemplateRepository().FindAll(ctx,
		specification.ActiveOnly{},
		specification.OrderBy{Field: "display_order", Desc: false},
	)
	if err != nil {
		return nil, err
	}
	return toTemplateSummaries(templates), nil
}

func (s *templateService) Search(ctx context.Context, query, category string) ([]*dto.TemplateSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{
		specification.ActiveOnly{},
		specification.OrderBy{Field: "display_order", Desc: false},
	}
	if query != "" {
		specs = append(specs, specification.TitleContains{Query: query})
	}
	if category != "" {
		specs = append(specs, specification.ByCategory{Category: category})
	}

	templates, err := uow.ProcedureTemplateRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}
	return toTemplateSummaries(templates), nil
}

func (s *templateService) Show(ctx context.Context, id uuid.UUID) (*dto.TemplateDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	template, err := uow.ProcedureTemplateRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, apperr.ErrTemplateNotFound
	}

	return &dto.TemplateDetailResponse{
		Id:           template.Id,
		Title:        template.Title,
		Description:  template.Description,
		Category:     template.Category,
		Requirements: template.Requirements,
	}, nil
}
