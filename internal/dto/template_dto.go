package dto

import (
	"github.com/google/uuid"
)

type TemplateSummaryResponse struct {
	Id          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Category    string    `json:"category"`
}

type TemplateDetailResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  *string   `json:"description"`
	Category     string    `json:"category"`
	Requirements []string  `json:"requirements"`
}
