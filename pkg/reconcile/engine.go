package reconcile

import (
	"context"
	"time"

	"demarches-be/internal/entity"
	"demarches-be/pkg/advisor"
)

// Engine computes requirement annotations against a document library. It is
// stateless: given the same requirements, library, and advisor verdicts, it
// produces the same annotations in the same order.
type Engine struct {
	policy  MatchPolicy
	advisor advisor.Advisor
	timeout time.Duration
}

// NewEngine wires a match policy and an optional substitution advisor. The
// advisor may be nil, in which case unmatched requirements stay missing.
// timeout bounds each advisor consultation; zero or negative means no bound
// beyond the caller's context.
func NewEngine(policy MatchPolicy, adv advisor.Advisor, timeout time.Duration) *Engine {
	return &Engine{policy: policy, advisor: adv, timeout: timeout}
}

// Reconcile returns exactly one annotation per requirement, in input order.
// Resolution per requirement: the first library document (in library order)
// whose declared type satisfies the policy wins as an exact match; only when
// no exact match exists is the advisor consulted. Advisor errors, timeouts,
// and empty suggestions all degrade to missing rather than failing the run.
func (e *Engine) Reconcile(ctx context.Context, requirements []string, library []*entity.Document) []Annotation {
	annotations := make([]Annotation, 0, len(requirements))
	for _, requirement := range requirements {
		annotations = append(annotations, e.reconcileOne(ctx, requirement, library))
	}
	return annotations
}

func (e *Engine) reconcileOne(ctx context.Context, requirement string, library []*entity.Document) Annotation {
	for _, doc := range library {
		if doc == nil {
			continue
		}
		if e.policy.Matches(requirement, doc.DeclaredType) {
			return Annotation{
				Requirement: requirement,
				Kind:        MatchExact,
				DocumentId:  doc.Id,
			}
		}
	}

	if e.advisor == nil {
		return Annotation{Requirement: requirement, Kind: MatchMissing}
	}

	advisorCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		advisorCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	suggestion, err := e.advisor.Suggest(advisorCtx, requirement, library)
	if err != nil || suggestion == nil {
		return Annotation{Requirement: requirement, Kind: MatchMissing}
	}

	return Annotation{
		Requirement:        requirement,
		Kind:               MatchSubstituted,
		DocumentId:         suggestion.DocumentId,
		SubstitutionReason: suggestion.Reason,
	}
}
