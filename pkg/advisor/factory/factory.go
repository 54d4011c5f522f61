package factory

import (
	"fmt"

	"demarches-be/pkg/advisor"
	"demarches-be/pkg/advisor/keyword"
	"demarches-be/pkg/advisor/remote"
)

// NewAdvisor selects the substitution advisor implementation from config.
func NewAdvisor(provider, baseURL string) (advisor.Advisor, error) {
	switch provider {
	case "keyword", "":
		return keyword.NewAdvisor(nil), nil
	case "remote":
		if baseURL == "" {
			return nil, fmt.Errorf("remote advisor requires a base URL")
		}
		return remote.NewAdvisor(baseURL), nil
	default:
		return nil, fmt.Errorf("unknown advisor provider: %s", provider)
	}
}
