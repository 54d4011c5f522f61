package reconcile

import "testing"

func TestCaseFoldPolicyMatches(t *testing.T) {
	policy := NewCaseFoldPolicy(map[string][]string{
		"Justificatif de domicile": {"Attestation de domicile"},
	})

	tests := []struct {
		name         string
		requirement  string
		declaredType string
		want         bool
	}{
		{"exact", "Pièce d'identité", "Pièce d'identité", true},
		{"case insensitive", "Pièce d'identité", "PIÈCE D'IDENTITÉ", true},
		{"surrounding whitespace", "Pièce d'identité", "  Pièce d'identité ", true},
		{"different label", "Pièce d'identité", "Justificatif de domicile", false},
		{"alias", "Justificatif de domicile", "Attestation de domicile", true},
		{"alias case folded", "justificatif de domicile", "ATTESTATION DE DOMICILE", true},
		{"alias is one-way", "Attestation de domicile", "Justificatif de domicile", false},
		{"empty declared type", "Pièce d'identité", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := policy.Matches(tt.requirement, tt.declaredType); got != tt.want {
				t.Fatalf("Matches(%q, %q) = %v, want %v", tt.requirement, tt.declaredType, got, tt.want)
			}
		})
	}
}

func TestCaseFoldPolicyNilAliases(t *testing.T) {
	policy := NewCaseFoldPolicy(nil)
	if !policy.Matches("avis d'imposition", "Avis d'imposition") {
		t.Fatal("plain case-fold equality should match without aliases")
	}
}
