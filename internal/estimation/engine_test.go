package estimation

import (
	"testing"

	"btp-backend/internal/postes"
)

func TestEstimer(t *testing.T) {
	tests := []struct {
		nom            string
		poste          PosteTravail
		wantMateriaux  float64
		wantMainOeuvre float64
	}{
		{
			nom:            "10h standard",
			poste:          PosteTravail{ID: "a", Charge: 10, TypePoste: postes.TypeStandard},
			wantMateriaux:  550,
			wantMainOeuvre: 350,
		},
		{
			// 18h * 1.5 = 27h pondérées
			nom:            "18h expert",
			poste:          PosteTravail{ID: "b", Charge: 18, TypePoste: postes.TypeExpert},
			wantMateriaux:  1485,
			wantMainOeuvre: 945,
		},
		{
			// 10h * 0.85 = 8.5h pondérées, coûts arrondis à l'euro
			nom:            "10h leger",
			poste:          PosteTravail{ID: "c", Charge: 10, TypePoste: postes.TypeLeger},
			wantMateriaux:  468, // 8.5 * 55 = 467.5
			wantMainOeuvre: 298, // 8.5 * 35 = 297.5
		},
		{
			nom:            "type vide = standard",
			poste:          PosteTravail{ID: "d", Charge: 10},
			wantMateriaux:  550,
			wantMainOeuvre: 350,
		},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			result := Estimer([]PosteTravail{tt.poste})

			if len(result.Postes) != 1 {
				t.Fatalf("Estimer rend %d postes, attendu 1", len(result.Postes))
			}
			p := result.Postes[0]
			if p.ID != tt.poste.ID {
				t.Errorf("ID = %q, attendu %q", p.ID, tt.poste.ID)
			}
			if p.CoutMateriaux != tt.wantMateriaux {
				t.Errorf("CoutMateriaux = %v, attendu %v", p.CoutMateriaux, tt.wantMateriaux)
			}
			if p.CoutMainOeuvre != tt.wantMainOeuvre {
				t.Errorf("CoutMainOeuvre = %v, attendu %v", p.CoutMainOeuvre, tt.wantMainOeuvre)
			}
			if result.TotalHT != tt.wantMateriaux+tt.wantMainOeuvre {
				t.Errorf("TotalHT = %v, attendu %v", result.TotalHT, tt.wantMateriaux+tt.wantMainOeuvre)
			}
		})
	}
}

func TestEstimerMarge(t *testing.T) {
	// total 900, marge = round(900 * 0.18) = 162
	result := Estimer([]PosteTravail{{ID: "a", Charge: 10, TypePoste: postes.TypeStandard}})
	if result.TotalHT != 900 {
		t.Fatalf("TotalHT = %v, attendu 900", result.TotalHT)
	}
	if result.MargeEstimee != 162 {
		t.Errorf("MargeEstimee = %v, attendu 162", result.MargeEstimee)
	}
}

func TestEstimerPlusieursPostes(t *testing.T) {
	result := Estimer([]PosteTravail{
		{ID: "a", Charge: 10, TypePoste: postes.TypeStandard},
		{ID: "b", Charge: 18, TypePoste: postes.TypeExpert},
	})

	if len(result.Postes) != 2 {
		t.Fatalf("Estimer rend %d postes, attendu 2", len(result.Postes))
	}
	if result.TotalHT != 900+2430 {
		t.Errorf("TotalHT = %v, attendu %v", result.TotalHT, 900+2430)
	}
}

func TestEstimerListeVide(t *testing.T) {
	result := Estimer(nil)

	if result.Postes == nil {
		t.Error("Postes = nil, attendu une liste vide sérialisable en []")
	}
	if len(result.Postes) != 0 || result.TotalHT != 0 || result.MargeEstimee != 0 {
		t.Errorf("liste vide : résultat non nul %+v", result)
	}
}
