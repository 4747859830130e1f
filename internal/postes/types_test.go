package postes

import "testing"

func TestCoefficient(t *testing.T) {
	tests := []struct {
		nom  string
		tp   TypePoste
		want float64
	}{
		{"leger", TypeLeger, 0.85},
		{"standard", TypeStandard, 1.0},
		{"complexe", TypeComplexe, 1.25},
		{"expert", TypeExpert, 1.5},
		{"vide retombe sur standard", "", 1.0},
		{"inconnu retombe sur standard", "fantaisie", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			if got := Coefficient(tt.tp); got != tt.want {
				t.Errorf("Coefficient(%q) = %v, attendu %v", tt.tp, got, tt.want)
			}
		})
	}
}

func TestChargePonderee(t *testing.T) {
	tests := []struct {
		nom    string
		charge float64
		tp     TypePoste
		want   float64
	}{
		{"standard inchangé", 10, TypeStandard, 10},
		{"complexe", 10, TypeComplexe, 12.5},
		{"expert", 18, TypeExpert, 27},
		// 10.5*0.85 = 8.925 mais 892.4999… en IEEE : l'arrondi tombe à 8.92
		{"leger arrondi à 2 décimales", 10.5, TypeLeger, 8.92},
		{"leger arrondi au centime", 7.3, TypeLeger, 6.21}, // 6.205 → 6.21
		{"charge nulle", 0, TypeExpert, 0},
		{"type vide = standard", 7.5, "", 7.5},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			if got := ChargePonderee(tt.charge, tt.tp); got != tt.want {
				t.Errorf("ChargePonderee(%v, %q) = %v, attendu %v", tt.charge, tt.tp, got, tt.want)
			}
		})
	}
}

func TestValide(t *testing.T) {
	for _, tp := range TypesOrdonnes {
		if !Valide(tp) {
			t.Errorf("Valide(%q) = false, le type est pourtant défini", tp)
		}
	}
	if !Valide("") {
		t.Error("Valide(\"\") = false, le type vide doit être accepté")
	}
	if Valide("fantaisie") {
		t.Error("Valide(\"fantaisie\") = true, le type n'existe pas")
	}
}

func TestDefinitionsOrdonnees(t *testing.T) {
	defs := Definitions()
	if len(defs) != len(TypesOrdonnes) {
		t.Fatalf("Definitions() rend %d entrées, attendu %d", len(defs), len(TypesOrdonnes))
	}
	for i, tp := range TypesOrdonnes {
		if defs[i].Type != tp {
			t.Errorf("Definitions()[%d].Type = %q, attendu %q", i, defs[i].Type, tp)
		}
		if defs[i].Coefficient != Coefficient(tp) {
			t.Errorf("définition %q : coefficient %v incohérent avec Coefficient()", tp, defs[i].Coefficient)
		}
	}
}
