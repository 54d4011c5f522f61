package mapper

import (
	"encoding/json"
	"time"

	"demarches-be/internal/entity"
	"demarches-be/internal/model"

	"gorm.io/datatypes"
)

type ProcedureMapper struct{}

func NewProcedureMapper() *ProcedureMapper {
	return &ProcedureMapper{}
}

func (m *ProcedureMapper) TemplateToEntity(t *model.ProcedureTemplate) *entity.ProcedureTemplate {
	if t == nil {
		return nil
	}

	// Requirements live in a jsonb column as an ordered string array.
	var requirements []string
	if len(t.Requirements) > 0 {
		_ = json.Unmarshal(t.Requirements, &requirements)
	}
	if requirements == nil {
		requirements = []string{}
	}

	var updatedAt *time.Time
	if !t.UpdatedAt.IsZero() {
		ts := t.UpdatedAt
		updatedAt = &ts
	}

	return &entity.ProcedureTemplate{
		Id:           t.Id,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Requirements: requirements,
		Active:       t.Active,
		DisplayOrder: t.DisplayOrder,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ProcedureMapper) TemplateToModel(t *entity.ProcedureTemplate) *model.ProcedureTemplate {
	if t == nil {
		return nil
	}

	reqJson, _ := json.Marshal(t.Requirements)

	var updatedAt time.Time
	if t.UpdatedAt != nil {
		updatedAt = *t.UpdatedAt
	}

	return &model.ProcedureTemplate{
		Id:           t.Id,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Requirements: datatypes.JSON(reqJson),
		Active:       t.Active,
		DisplayOrder: t.DisplayOrder,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    updatedAt,
	}
}

func (m *ProcedureMapper) TemplatesToEntities(templates []*model.ProcedureTemplate) []*entity.ProcedureTemplate {
	entities := make([]*entity.ProcedureTemplate, len(templates))
	for i, t := range templates {
		entities[i] = m.TemplateToEntity(t)
	}
	return entities
}

func (m *ProcedureMapper) InstanceToEntity(p *model.ProcedureInstance) *entity.ProcedureInstance {
	if p == nil {
		return nil
	}

	var updatedAt *time.Time
	if !p.UpdatedAt.IsZero() {
		ts := p.UpdatedAt
		updatedAt = &ts
	}

	return &entity.ProcedureInstance{
		Id:          p.Id,
		UserId:      p.UserId,
		TemplateId:  p.TemplateId,
		Title:       p.Title,
		Notes:       p.Notes,
		Status:      p.Status,
		StartedAt:   p.StartedAt,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProcedureMapper) InstanceToModel(p *entity.ProcedureInstance) *model.ProcedureInstance {
	if p == nil {
		return nil
	}

	var updatedAt time.Time
	if p.UpdatedAt != nil {
		updatedAt = *p.UpdatedAt
	}

	return &model.ProcedureInstance{
		Id:          p.Id,
		UserId:      p.UserId,
		TemplateId:  p.TemplateId,
		Title:       p.Title,
		Notes:       p.Notes,
		Status:      p.Status,
		StartedAt:   p.StartedAt,
		CompletedAt: p.CompletedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProcedureMapper) InstancesToEntities(instances []*model.ProcedureInstance) []*entity.ProcedureInstance {
	entities := make([]*entity.ProcedureInstance, len(instances))
	for i, p := range instances {
		entities[i] = m.InstanceToEntity(p)
	}
	return entities
}

func (m *ProcedureMapper) BindingToEntity(b *model.RequirementBinding) *entity.RequirementBinding {
	if b == nil {
		return nil
	}

	var updatedAt *time.Time
	if !b.UpdatedAt.IsZero() {
		ts := b.UpdatedAt
		updatedAt = &ts
	}

	return &entity.RequirementBinding{
		Id:          b.Id,
		InstanceId:  b.InstanceId,
		Requirement: b.Requirement,
		DocumentId:  b.DocumentId,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProcedureMapper) BindingToModel(b *entity.RequirementBinding) *model.RequirementBinding {
	if b == nil {
		return nil
	}

	var updatedAt time.Time
	if b.UpdatedAt != nil {
		updatedAt = *b.UpdatedAt
	}

	return &model.RequirementBinding{
		Id:          b.Id,
		InstanceId:  b.InstanceId,
		Requirement: b.Requirement,
		DocumentId:  b.DocumentId,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *ProcedureMapper) BindingsToEntities(bindings []*model.RequirementBinding) []*entity.RequirementBinding {
	entities := make([]*entity.RequirementBinding, len(bindings))
	for i, b := range bindings {
		entities[i] = m.BindingToEntity(b)
	}
	return entities
}
