package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"demarches-be/internal/entity"
	"demarches-be/pkg/advisor"

	"github.com/google/uuid"
)

// Advisor calls an external suggestion service over HTTP. The service
// receives the requirement label plus the caller's library and answers with
// at most one candidate.
type Advisor struct {
	baseURL string
	client  *http.Client
}

func NewAdvisor(baseURL string) *Advisor {
	return &Advisor{
		baseURL: baseURL,
		client:  &http.Client{},
	}
}

type suggestRequest struct {
	Requirement string            `json:"requirement"`
	Documents   []suggestDocument `json:"documents"`
}

type suggestDocument struct {
	Id           string `json:"id"`
	Filename     string `json:"filename"`
	DeclaredType string `json:"declared_type"`
}

type suggestResponse struct {
	DocumentId string `json:"document_id"`
	Reason     string `json:"reason"`
}

func (a *Advisor) Suggest(ctx context.Context, requirement string, library []*entity.Document) (*advisor.Suggestion, error) {
	payload := suggestRequest{
		Requirement: requirement,
		Documents:   make([]suggestDocument, 0, len(library)),
	}
	for _, doc := range library {
		payload.Documents = append(payload.Documents, suggestDocument{
			Id:           doc.Id.String(),
			Filename:     doc.Filename,
			DeclaredType: doc.DeclaredType,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggest request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/suggest", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggest service returned status %d", resp.StatusCode)
	}

	var out suggestResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode suggest response: %w", err)
	}
	if out.DocumentId == "" {
		return nil, nil
	}

	docId, err := uuid.Parse(out.DocumentId)
	if err != nil {
		return nil, fmt.Errorf("suggest service returned invalid document id %q", out.DocumentId)
	}

	return &advisor.Suggestion{
		DocumentId: docId,
		Reason:     out.Reason,
	}, nil
}
