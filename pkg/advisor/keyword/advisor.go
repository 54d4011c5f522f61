package keyword

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"demarches-be/internal/entity"
	"demarches-be/pkg/advisor"
)

// Advisor is the built-in substitution heuristic: a requirement whose label
// contains a known trigger word is matched against documents whose declared
// type (or filename) contains one of the trigger's associated keywords.
type Advisor struct {
	table    map[string][]string
	triggers []string
}

// DefaultTable maps requirement trigger words to document-type keywords for
// the common French administrative categories.
func DefaultTable() map[string][]string {
	return map[string][]string{
		"domicile":   {"facture", "quittance", "avis d'imposition", "électricité", "échéancier"},
		"identité":   {"passeport", "carte d'identité", "cni", "titre de séjour"},
		"ressources": {"bulletin de salaire", "fiche de paie", "avis d'imposition"},
		"revenu":     {"bulletin de salaire", "fiche de paie", "avis d'imposition"},
		"bancaire":   {"rib", "relevé"},
		"naissance":  {"acte de naissance", "livret de famille"},
	}
}

func NewAdvisor(table map[string][]string) *Advisor {
	if table == nil {
		table = DefaultTable()
	}
	// Trigger words are scanned in sorted order so suggestions are stable
	// across calls regardless of map iteration order.
	triggers := make([]string, 0, len(table))
	for trigger := range table {
		triggers = append(triggers, trigger)
	}
	sort.Strings(triggers)
	return &Advisor{table: table, triggers: triggers}
}

func (a *Advisor) Suggest(ctx context.Context, requirement string, library []*entity.Document) (*advisor.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := strings.ToLower(strings.TrimSpace(requirement))

	for _, trigger := range a.triggers {
		if !strings.Contains(req, trigger) {
			continue
		}
		keywords := a.table[trigger]
		// Keyword order decides preference; library order breaks ties.
		for _, kw := range keywords {
			for _, doc := range library {
				declared := strings.ToLower(doc.DeclaredType)
				filename := strings.ToLower(doc.Filename)
				if strings.Contains(declared, kw) || strings.Contains(filename, kw) {
					return &advisor.Suggestion{
						DocumentId: doc.Id,
						Reason:     fmt.Sprintf("matched by document type keyword %q", kw),
					}, nil
				}
			}
		}
	}

	return nil, nil
}
