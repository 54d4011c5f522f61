package reconcile

import "strings"

// MatchPolicy decides whether a document's declared type satisfies a
// requirement label. Implementations must be pure and deterministic.
type MatchPolicy interface {
	Matches(requirement, declaredType string) bool
}

// CaseFoldPolicy matches on trimmed, case-insensitive equality, with an
// optional alias table mapping canonical requirement labels to accepted
// alternate spellings. Alias lookup is folded the same way.
type CaseFoldPolicy struct {
	aliases map[string][]string
}

// NewCaseFoldPolicy builds a policy from an alias table keyed by requirement
// label. A nil table yields plain case-fold equality.
func NewCaseFoldPolicy(aliases map[string][]string) *CaseFoldPolicy {
	folded := make(map[string][]string, len(aliases))
	for req, alts := range aliases {
		key := fold(req)
		for _, alt := range alts {
			folded[key] = append(folded[key], fold(alt))
		}
	}
	return &CaseFoldPolicy{aliases: folded}
}

func (p *CaseFoldPolicy) Matches(requirement, declaredType string) bool {
	req := fold(requirement)
	typ := fold(declaredType)
	if req == typ {
		return true
	}
	for _, alt := range p.aliases[req] {
		if typ == alt {
			return true
		}
	}
	return false
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
