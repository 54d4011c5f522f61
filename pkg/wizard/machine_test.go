package wizard

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"demarches-be/pkg/store"
)

func sessionInReview(t *testing.T) *store.WizardSession {
	t.Helper()
	s := NewSession("user-1")
	if err := BeginReconcile(s, "tpl-1", "Demande de logement social"); err != nil {
		t.Fatalf("BeginReconcile: %v", err)
	}
	rows := []store.ReviewRow{
		{Requirement: "Pièce d'identité", DocumentId: "doc-1", Filename: "cni.pdf"},
		{Requirement: "Justificatif de domicile", DocumentId: "doc-42", Filename: "edf.pdf", IsSubstitution: true, SubstitutionReason: "utility bill as proof of address"},
		{Requirement: "Avis d'imposition"},
	}
	if err := ToReview(s, rows); err != nil {
		t.Fatalf("ToReview: %v", err)
	}
	return s
}

func TestNewSessionStartsInSearch(t *testing.T) {
	s := NewSession("user-1")
	if s.State != store.StateSearch {
		t.Fatalf("state = %s, want %s", s.State, store.StateSearch)
	}
	if s.ID == "" || s.UserID != "user-1" {
		t.Fatalf("session not initialized: %+v", s)
	}
}

func TestSelectWhileReconcilingRejected(t *testing.T) {
	s := NewSession("user-1")
	if err := BeginReconcile(s, "tpl-1", "Demande de logement social"); err != nil {
		t.Fatalf("BeginReconcile: %v", err)
	}

	err := BeginReconcile(s, "tpl-2", "Renouvellement de passeport")
	var invalid *ErrInvalidTransition
	if !errors.As(err, &invalid) {
		t.Fatalf("duplicate select = %v, want ErrInvalidTransition", err)
	}
	if s.TemplateID != "tpl-1" {
		t.Fatalf("rejected select mutated the session: template = %s", s.TemplateID)
	}
}

func TestConcurrentSelectSingleWinner(t *testing.T) {
	s := NewSession("user-1")

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			results <- BeginReconcile(s, fmt.Sprintf("tpl-%d", n), "Demande de logement social")
		}(i)
	}
	wg.Wait()
	close(results)

	won := 0
	for err := range results {
		if err == nil {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("%d selects passed the guard, want exactly 1", won)
	}
}

func TestFailReconcileReturnsToSearch(t *testing.T) {
	s := NewSession("user-1")
	if err := BeginReconcile(s, "tpl-1", "Demande de logement social"); err != nil {
		t.Fatalf("BeginReconcile: %v", err)
	}

	FailReconcile(s)

	if s.State != store.StateSearch || s.Reconciling || s.TemplateID != "" {
		t.Fatalf("session not reset after failed reconcile: %+v", s)
	}
	if err := BeginReconcile(s, "tpl-2", "Renouvellement de passeport"); err != nil {
		t.Fatalf("re-select after failure: %v", err)
	}
}

func TestManualPickClearsSubstitution(t *testing.T) {
	s := sessionInReview(t)

	if err := PickDocument(s, "Justificatif de domicile", "doc-7", "quittance.pdf"); err != nil {
		t.Fatalf("PickDocument: %v", err)
	}

	row := s.Rows[1]
	if row.DocumentId != "doc-7" || row.Filename != "quittance.pdf" {
		t.Fatalf("row not rebound: %+v", row)
	}
	if row.IsSubstitution || row.SubstitutionReason != "" {
		t.Fatalf("manual pick must clear the substitution flag: %+v", row)
	}
}

func TestClearBinding(t *testing.T) {
	s := sessionInReview(t)

	if err := ClearBinding(s, "Justificatif de domicile"); err != nil {
		t.Fatalf("ClearBinding: %v", err)
	}

	row := s.Rows[1]
	if row.DocumentId != "" || row.Filename != "" || row.IsSubstitution || row.SubstitutionReason != "" {
		t.Fatalf("row not cleared: %+v", row)
	}
}

func TestUnknownRequirementRejected(t *testing.T) {
	s := sessionInReview(t)
	if err := PickDocument(s, "Relevé bancaire", "doc-9", "releve.pdf"); err == nil {
		t.Fatal("picking into an unknown requirement should fail")
	}
	if err := ClearBinding(s, "Relevé bancaire"); err == nil {
		t.Fatal("clearing an unknown requirement should fail")
	}
}

func TestCommitFailurePreservesRows(t *testing.T) {
	s := sessionInReview(t)
	if err := PickDocument(s, "Avis d'imposition", "doc-3", "avis-2025.pdf"); err != nil {
		t.Fatalf("PickDocument: %v", err)
	}
	if err := BeginCommit(s); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}

	if err := PickDocument(s, "Avis d'imposition", "doc-4", "avis-2024.pdf"); err == nil {
		t.Fatal("edits during commit should be rejected")
	}
	if err := BeginCommit(s); err == nil {
		t.Fatal("repeated commit should be rejected")
	}

	FailCommit(s)

	if s.State != store.StateReview {
		t.Fatalf("state after failed commit = %s, want %s", s.State, store.StateReview)
	}
	if s.Rows[2].DocumentId != "doc-3" {
		t.Fatalf("edits lost across failed commit: %+v", s.Rows[2])
	}
}

func TestCompleteAndSingleRename(t *testing.T) {
	s := sessionInReview(t)
	if err := BeginCommit(s); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}
	if err := Complete(s, "inst-1"); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if s.State != store.StateDone || s.InstanceID != "inst-1" {
		t.Fatalf("session not completed: %+v", s)
	}

	if err := MarkTitleUpdated(s); err != nil {
		t.Fatalf("first rename: %v", err)
	}
	if err := MarkTitleUpdated(s); err == nil {
		t.Fatal("second rename should be rejected")
	}
}

func TestCanRenameDoesNotConsume(t *testing.T) {
	s := sessionInReview(t)
	if err := CanRename(s); err == nil {
		t.Fatal("rename should not be available before DONE")
	}

	if err := BeginCommit(s); err != nil {
		t.Fatalf("BeginCommit: %v", err)
	}
	if err := Complete(s, "inst-1"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	// Repeated checks model renames whose instance update failed: the
	// one-shot stays open until MarkTitleUpdated.
	if err := CanRename(s); err != nil {
		t.Fatalf("first check: %v", err)
	}
	if err := CanRename(s); err != nil {
		t.Fatalf("second check: %v", err)
	}

	if err := MarkTitleUpdated(s); err != nil {
		t.Fatalf("MarkTitleUpdated: %v", err)
	}
	if err := CanRename(s); err == nil {
		t.Fatal("rename should be consumed after MarkTitleUpdated")
	}
}

func TestCompleteRequiresCommitting(t *testing.T) {
	s := sessionInReview(t)
	if err := Complete(s, "inst-1"); err == nil {
		t.Fatal("completing from REVIEW should fail")
	}
}

func TestBindingsSkipsEmptyRows(t *testing.T) {
	s := sessionInReview(t)

	got := Bindings(s)

	want := map[string]string{
		"Pièce d'identité":         "doc-1",
		"Justificatif de domicile": "doc-42",
	}
	if len(got) != len(want) {
		t.Fatalf("bindings = %v, want %v", got, want)
	}
	for req, id := range want {
		if got[req] != id {
			t.Fatalf("bindings[%q] = %q, want %q", req, got[req], id)
		}
	}
}
