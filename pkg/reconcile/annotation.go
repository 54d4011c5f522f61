package reconcile

import "github.com/google/uuid"

// MatchKind is the three-way outcome of reconciling one requirement.
type MatchKind int

const (
	// MatchMissing means neither an exact match nor a substitution exists.
	MatchMissing MatchKind = iota
	// MatchExact means a library document's declared type satisfies the
	// requirement label under the match policy.
	MatchExact
	// MatchSubstituted means the advisor proposed a non-exact candidate.
	MatchSubstituted
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchSubstituted:
		return "substitution"
	default:
		return "missing"
	}
}

// Annotation is the engine's verdict for a single requirement. DocumentId
// and SubstitutionReason carry meaning only when Kind is not MatchMissing;
// the Kind gates access rather than a nullable id.
type Annotation struct {
	Requirement        string
	Kind               MatchKind
	DocumentId         uuid.UUID
	SubstitutionReason string
}
