package keyword

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"demarches-be/internal/entity"
)

func doc(declaredType, filename string) *entity.Document {
	return &entity.Document{Id: uuid.New(), DeclaredType: declaredType, Filename: filename}
}

func TestSuggestMatchesDeclaredType(t *testing.T) {
	adv := NewAdvisor(nil)
	bill := doc("Facture d'électricité", "edf-juillet-2026.pdf")
	library := []*entity.Document{doc("Relevé bancaire", "releve.pdf"), bill}

	got, err := adv.Suggest(context.Background(), "Justificatif de domicile", library)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got == nil || got.DocumentId != bill.Id {
		t.Fatalf("suggestion = %+v, want the utility bill", got)
	}
	if got.Reason == "" {
		t.Fatal("suggestion must carry a reason")
	}
}

func TestSuggestMatchesFilename(t *testing.T) {
	adv := NewAdvisor(nil)
	passport := doc("Document scanné", "passeport-2030.pdf")

	got, err := adv.Suggest(context.Background(), "Pièce d'identité", []*entity.Document{passport})
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got == nil || got.DocumentId != passport.Id {
		t.Fatalf("suggestion = %+v, want the scanned passport", got)
	}
}

func TestSuggestNoTrigger(t *testing.T) {
	adv := NewAdvisor(nil)
	library := []*entity.Document{doc("Facture d'électricité", "edf.pdf")}

	got, err := adv.Suggest(context.Background(), "Photo d'identité au format 35x45", library)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	// "identité" triggers, but no identity keyword matches a utility bill.
	if got != nil {
		t.Fatalf("unexpected suggestion %+v", got)
	}
}

func TestSuggestNoCandidate(t *testing.T) {
	adv := NewAdvisor(nil)

	got, err := adv.Suggest(context.Background(), "Attestation d'assurance", nil)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if got != nil {
		t.Fatalf("no trigger word should mean no suggestion, got %+v", got)
	}
}

func TestSuggestDeterministicAcrossCalls(t *testing.T) {
	adv := NewAdvisor(nil)
	library := []*entity.Document{
		doc("Quittance de loyer", "quittance.pdf"),
		doc("Facture d'électricité", "edf.pdf"),
	}

	first, err := adv.Suggest(context.Background(), "Justificatif de domicile", library)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := adv.Suggest(context.Background(), "Justificatif de domicile", library)
		if err != nil {
			t.Fatalf("Suggest: %v", err)
		}
		if again == nil || again.DocumentId != first.DocumentId || again.Reason != first.Reason {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestSuggestRespectsContext(t *testing.T) {
	adv := NewAdvisor(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := adv.Suggest(ctx, "Justificatif de domicile", nil); err == nil {
		t.Fatal("cancelled context should surface an error")
	}
}
