package wizard

import (
	"fmt"

	"github.com/google/uuid"

	"demarches-be/pkg/store"
)

// ErrInvalidTransition is returned when an operation is attempted from a
// state that does not allow it.
type ErrInvalidTransition struct {
	From string
	Op   string
}

func (e *ErrInvalidTransition) Error() string {
	return fmt.Sprintf("wizard: operation %s not allowed in state %s", e.Op, e.From)
}

// NewSession starts a wizard run in the SEARCH step.
func NewSession(userID string) *store.WizardSession {
	return &store.WizardSession{
		ID:     uuid.New().String(),
		UserID: userID,
		State:  store.StateSearch,
	}
}

// BeginReconcile marks the session as waiting on reconciliation of the chosen
// template. The guard is a locked test-and-set: of two concurrent select
// requests on the same session, exactly one passes.
func BeginReconcile(s *store.WizardSession, templateID, templateTitle string) error {
	s.Lock()
	defer s.Unlock()
	if s.State != store.StateSearch {
		return &ErrInvalidTransition{From: s.State, Op: "select template"}
	}
	if s.Reconciling {
		return &ErrInvalidTransition{From: s.State, Op: "select template while reconciling"}
	}
	s.Reconciling = true
	s.TemplateID = templateID
	s.TemplateTitle = templateTitle
	return nil
}

// FailReconcile rolls the session back to a selectable SEARCH step after a
// reconciliation error.
func FailReconcile(s *store.WizardSession) {
	s.Lock()
	defer s.Unlock()
	s.Reconciling = false
	s.TemplateID = ""
	s.TemplateTitle = ""
	s.Rows = nil
}

// ToReview installs the reconciled rows and advances to the REVIEW step.
func ToReview(s *store.WizardSession, rows []store.ReviewRow) error {
	s.Lock()
	defer s.Unlock()
	if s.State != store.StateSearch || !s.Reconciling {
		return &ErrInvalidTransition{From: s.State, Op: "enter review"}
	}
	s.Reconciling = false
	s.State = store.StateReview
	s.Rows = rows
	return nil
}

// ClearBinding empties the document slot of one requirement row.
func ClearBinding(s *store.WizardSession, requirement string) error {
	s.Lock()
	defer s.Unlock()
	if s.State != store.StateReview {
		return &ErrInvalidTransition{From: s.State, Op: "clear binding"}
	}
	row := findRow(s, requirement)
	if row == nil {
		return fmt.Errorf("wizard: unknown requirement %q", requirement)
	}
	row.DocumentId = ""
	row.Filename = ""
	row.IsSubstitution = false
	row.SubstitutionReason = ""
	return nil
}

// PickDocument binds a document to a requirement row. A manual pick is never
// a substitution, even when it replaces an advisor suggestion.
func PickDocument(s *store.WizardSession, requirement, documentID, filename string) error {
	s.Lock()
	defer s.Unlock()
	if s.State != store.StateReview {
		return &ErrInvalidTransition{From: s.State, Op: "pick document"}
	}
	row := findRow(s, requirement)
	if row == nil {
		return fmt.Errorf("wizard: unknown requirement %q", requirement)
	}
	row.DocumentId = documentID
	row.Filename = filename
	row.IsSubstitution = false
	row.SubstitutionReason = ""
	return nil
}

// BeginCommit advances REVIEW -> COMMITTING. While committing, further edits
// and repeated commits are rejected.
func BeginCommit(s *store.WizardSession) error {
	s.Lock()
	defer s.Unlock()
	if s.State != store.StateReview {
		return &ErrInvalidTransition{From: s.State, Op: "commit"}
	}
	s.State = store.StateCommitting
	return nil
}

// FailCommit returns to REVIEW after a failed commit. The rows are kept
// as-is so the user's edits survive the failure.
func FailCommit(s *store.WizardSession) {
	s.Lock()
	defer s.Unlock()
	if s.State == store.StateCommitting {
		s.State = store.StateReview
	}
}

// Complete records the created instance and advances to DONE.
func Complete(s *store.WizardSession, instanceID string) error {
	s.Lock()
	defer s.Unlock()
	if s.State != store.StateCommitting {
		return &ErrInvalidTransition{From: s.State, Op: "complete"}
	}
	s.State = store.StateDone
	s.InstanceID = instanceID
	return nil
}

// CanRename reports whether the one-shot post-creation rename is still
// available, without consuming it. Callers check it before touching the
// instance and consume it with MarkTitleUpdated afterwards, so a failed
// rename leaves the slot open for a retry.
func CanRename(s *store.WizardSession) error {
	s.Lock()
	defer s.Unlock()
	return renameAllowed(s)
}

// MarkTitleUpdated consumes the single post-creation rename allowed in the
// DONE step.
func MarkTitleUpdated(s *store.WizardSession) error {
	s.Lock()
	defer s.Unlock()
	if err := renameAllowed(s); err != nil {
		return err
	}
	s.TitleUpdated = true
	return nil
}

func renameAllowed(s *store.WizardSession) error {
	if s.State != store.StateDone {
		return &ErrInvalidTransition{From: s.State, Op: "rename"}
	}
	if s.TitleUpdated {
		return &ErrInvalidTransition{From: s.State, Op: "rename twice"}
	}
	return nil
}

// Bindings extracts the non-empty requirement -> document pairs for the
// commit step, preserving row order.
func Bindings(s *store.WizardSession) map[string]string {
	s.Lock()
	defer s.Unlock()
	out := make(map[string]string, len(s.Rows))
	for _, row := range s.Rows {
		if row.DocumentId != "" {
			out[row.Requirement] = row.DocumentId
		}
	}
	return out
}

func findRow(s *store.WizardSession, requirement string) *store.ReviewRow {
	for i := range s.Rows {
		if s.Rows[i].Requirement == requirement {
			return &s.Rows[i]
		}
	}
	return nil
}
