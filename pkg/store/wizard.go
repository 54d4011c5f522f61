package store

import "sync"

// WizardSession is the in-memory state of one creation wizard run. It lives
// in the session cache only; nothing is persisted until the commit step
// succeeds.
//
// Sessions are shared pointers between handler goroutines: every read or
// write of the mutable fields must hold the embedded mutex. The transition
// functions in pkg/wizard lock it themselves.
type WizardSession struct {
	sync.Mutex `json:"-"`

	ID     string `json:"id"`
	UserID string `json:"user_id"`
	State  string `json:"state"` // SEARCH | REVIEW | COMMITTING | DONE

	// Reconciling guards the SEARCH -> REVIEW edge: while a reconciliation
	// call is pending, re-selecting a template is rejected.
	Reconciling bool `json:"reconciling"`

	TemplateID    string `json:"template_id"`
	TemplateTitle string `json:"template_title"`

	// Rows holds one entry per template requirement, in template order.
	Rows []ReviewRow `json:"rows"`

	// Set when the commit step succeeds.
	InstanceID string `json:"instance_id"`

	// The DONE step allows exactly one title update.
	TitleUpdated bool `json:"title_updated"`
}

// ReviewRow is one requirement line of the review step. An empty DocumentId
// means the requirement is missing.
type ReviewRow struct {
	Requirement        string `json:"requirement"`
	DocumentId         string `json:"document_id"`
	Filename           string `json:"filename"`
	IsSubstitution     bool   `json:"is_substitution"`
	SubstitutionReason string `json:"substitution_reason,omitempty"`
}

const (
	StateSearch     = "SEARCH"
	StateReview     = "REVIEW"
	StateCommitting = "COMMITTING"
	StateDone       = "DONE"
)
