package fiscal

import (
	"math"
	"testing"
)

func presque(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestSalaireBrut(t *testing.T) {
	// net / (1 - 0.22)
	if got := SalaireBrut(1560); !presque(got, 2000) {
		t.Errorf("SalaireBrut(1560) = %v, attendu 2000", got)
	}
}

func TestCalculCompletSalaire(t *testing.T) {
	calc := CalculCompletSalaire(2000)

	brut := 2000 / (1 - TauxChargesSalariales)
	if !presque(calc.SalaireBrut, brut) {
		t.Errorf("SalaireBrut = %v, attendu %v", calc.SalaireBrut, brut)
	}
	if !presque(calc.ChargesPatronales, brut*TauxChargesPatronales) {
		t.Errorf("ChargesPatronales = %v, attendu %v", calc.ChargesPatronales, brut*TauxChargesPatronales)
	}
	if !presque(calc.CoutTotal, calc.SalaireBrut+calc.ChargesPatronales) {
		t.Errorf("CoutTotal = %v, incohérent avec brut + charges", calc.CoutTotal)
	}
	if calc.SalaireNet != 2000 {
		t.Errorf("SalaireNet = %v, attendu 2000", calc.SalaireNet)
	}
}

func TestTauxHoraireLegal(t *testing.T) {
	if got := TauxHoraireLegal(3033.4); !presque(got, 3033.4/151.67) {
		t.Errorf("TauxHoraireLegal(3033.4) = %v, attendu %v", got, 3033.4/151.67)
	}
}

func TestCoutJournalier(t *testing.T) {
	tests := []struct {
		nom        string
		taux       float64
		heures     float64
		heuresSupp float64
		want       float64
	}{
		{"journée sans heures supp", 20, 7, 0, 140},
		{"heures supp majorées à 25%", 20, 8, 1, 165}, // 7*20 + 1*20*1.25
		{"tout en heures supp", 20, 4, 4, 100},        // 4*20*1.25
		{"heures supp négatives comptent 0", 20, 7, -2, 140},
		{"heures supp plafonnées au total", 20, 4, 10, 100},
		{"heures négatives comptent 0", 20, -5, 0, 0},
		{"zéro partout", 20, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			got := CoutJournalier(tt.taux, tt.heures, tt.heuresSupp)
			if !presque(got, tt.want) {
				t.Errorf("CoutJournalier(%v, %v, %v) = %v, attendu %v",
					tt.taux, tt.heures, tt.heuresSupp, got, tt.want)
			}
		})
	}
}

func TestMontantTVA(t *testing.T) {
	tests := []struct {
		nom  string
		ht   float64
		taux float64
		want float64
	}{
		{"taux normal", 100, 20, 20},
		{"taux intermédiaire", 100, 10, 10},
		{"taux réduit", 100, 5.5, 5.5},
		{"montant nul", 0, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			if got := MontantTVA(tt.ht, tt.taux); !presque(got, tt.want) {
				t.Errorf("MontantTVA(%v, %v) = %v, attendu %v", tt.ht, tt.taux, got, tt.want)
			}
		})
	}
}
