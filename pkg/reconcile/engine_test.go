package reconcile

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"demarches-be/internal/entity"
	"demarches-be/pkg/advisor"
)

type stubAdvisor struct {
	calls       int
	suggestions map[string]*advisor.Suggestion
	err         error
	delay       time.Duration
}

func (s *stubAdvisor) Suggest(ctx context.Context, requirement string, library []*entity.Document) (*advisor.Suggestion, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.suggestions == nil {
		return nil, nil
	}
	return s.suggestions[requirement], nil
}

func doc(id uuid.UUID, declaredType, filename string) *entity.Document {
	return &entity.Document{Id: id, DeclaredType: declaredType, Filename: filename}
}

func TestReconcileExactMatchesInLibraryOrder(t *testing.T) {
	idFirst := uuid.New()
	idSecond := uuid.New()
	library := []*entity.Document{
		doc(idFirst, "Pièce d'identité", "cni-recto.pdf"),
		doc(idSecond, "pièce d'identité", "passeport.pdf"),
	}

	adv := &stubAdvisor{}
	engine := NewEngine(NewCaseFoldPolicy(nil), adv, time.Second)

	got := engine.Reconcile(context.Background(), []string{"Pièce d'identité"}, library)

	want := []Annotation{{
		Requirement: "Pièce d'identité",
		Kind:        MatchExact,
		DocumentId:  idFirst,
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("annotations = %+v, want %+v", got, want)
	}
	if adv.calls != 0 {
		t.Fatalf("advisor consulted %d times for an exact match, want 0", adv.calls)
	}
}

func TestReconcileOneAnnotationPerRequirementInOrder(t *testing.T) {
	idIdentity := uuid.New()
	library := []*entity.Document{
		doc(idIdentity, "Pièce d'identité", "cni.pdf"),
	}
	requirements := []string{"Justificatif de domicile", "Pièce d'identité", "Avis d'imposition"}

	engine := NewEngine(NewCaseFoldPolicy(nil), nil, 0)
	got := engine.Reconcile(context.Background(), requirements, library)

	if len(got) != len(requirements) {
		t.Fatalf("got %d annotations, want %d", len(got), len(requirements))
	}
	for i, ann := range got {
		if ann.Requirement != requirements[i] {
			t.Fatalf("annotation %d is for %q, want %q", i, ann.Requirement, requirements[i])
		}
	}
	if got[0].Kind != MatchMissing || got[2].Kind != MatchMissing {
		t.Fatalf("unmatched requirements not marked missing: %+v", got)
	}
	if got[1].Kind != MatchExact || got[1].DocumentId != idIdentity {
		t.Fatalf("identity requirement = %+v, want exact match on %s", got[1], idIdentity)
	}
}

func TestReconcileEmptyInputs(t *testing.T) {
	engine := NewEngine(NewCaseFoldPolicy(nil), &stubAdvisor{}, time.Second)

	if got := engine.Reconcile(context.Background(), nil, nil); len(got) != 0 {
		t.Fatalf("reconciling zero requirements produced %d annotations", len(got))
	}

	got := engine.Reconcile(context.Background(), []string{"Justificatif de domicile"}, nil)
	want := []Annotation{{Requirement: "Justificatif de domicile", Kind: MatchMissing}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("empty library result = %+v, want %+v", got, want)
	}
}

func TestReconcileSubstitution(t *testing.T) {
	idUtility := uuid.New()
	library := []*entity.Document{
		doc(idUtility, "Facture d'électricité", "edf-juillet.pdf"),
	}
	adv := &stubAdvisor{suggestions: map[string]*advisor.Suggestion{
		"Justificatif de domicile": {DocumentId: idUtility, Reason: "a utility bill can serve as proof of address"},
	}}
	engine := NewEngine(NewCaseFoldPolicy(nil), adv, time.Second)

	got := engine.Reconcile(context.Background(), []string{"Justificatif de domicile"}, library)

	want := []Annotation{{
		Requirement:        "Justificatif de domicile",
		Kind:               MatchSubstituted,
		DocumentId:         idUtility,
		SubstitutionReason: "a utility bill can serve as proof of address",
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("annotations = %+v, want %+v", got, want)
	}
}

func TestReconcileDegradesOnAdvisorError(t *testing.T) {
	adv := &stubAdvisor{err: errors.New("advisor unreachable")}
	engine := NewEngine(NewCaseFoldPolicy(nil), adv, time.Second)

	got := engine.Reconcile(context.Background(), []string{"Avis d'imposition"}, nil)

	if got[0].Kind != MatchMissing {
		t.Fatalf("advisor error should degrade to missing, got %+v", got[0])
	}
	if adv.calls != 1 {
		t.Fatalf("advisor called %d times, want 1", adv.calls)
	}
}

func TestReconcileDegradesOnAdvisorTimeout(t *testing.T) {
	adv := &stubAdvisor{
		delay: 200 * time.Millisecond,
		suggestions: map[string]*advisor.Suggestion{
			"Avis d'imposition": {DocumentId: uuid.New(), Reason: "late"},
		},
	}
	engine := NewEngine(NewCaseFoldPolicy(nil), adv, 10*time.Millisecond)

	got := engine.Reconcile(context.Background(), []string{"Avis d'imposition"}, nil)

	if got[0].Kind != MatchMissing {
		t.Fatalf("advisor timeout should degrade to missing, got %+v", got[0])
	}
}

func TestReconcileIdempotent(t *testing.T) {
	idIdentity := uuid.New()
	idUtility := uuid.New()
	library := []*entity.Document{
		doc(idIdentity, "Pièce d'identité", "cni.pdf"),
		doc(idUtility, "Facture d'électricité", "edf.pdf"),
	}
	requirements := []string{"Pièce d'identité", "Justificatif de domicile", "Relevé bancaire"}
	adv := &stubAdvisor{suggestions: map[string]*advisor.Suggestion{
		"Justificatif de domicile": {DocumentId: idUtility, Reason: "utility bill as proof of address"},
	}}
	engine := NewEngine(NewCaseFoldPolicy(nil), adv, time.Second)

	first := engine.Reconcile(context.Background(), requirements, library)
	second := engine.Reconcile(context.Background(), requirements, library)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated runs differ:\nfirst  = %+v\nsecond = %+v", first, second)
	}
}

func TestReconcileNilAdvisor(t *testing.T) {
	engine := NewEngine(NewCaseFoldPolicy(nil), nil, time.Second)

	got := engine.Reconcile(context.Background(), []string{"Justificatif de domicile"}, nil)
	if got[0].Kind != MatchMissing {
		t.Fatalf("nil advisor should leave requirement missing, got %+v", got[0])
	}
}
