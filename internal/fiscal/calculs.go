// Package fiscal regroupe les calculs de charges sociales du BTP : passage
// net → brut, charges patronales, coût employeur complet et coût horaire.
// Les taux sont ceux en vigueur pour le secteur BTP en France (2024).
package fiscal

// Taux et constantes réglementaires. Centralisés ici pour qu'un changement
// de taux ne touche qu'un seul endroit.
const (
	// TauxChargesSalariales sert à reconstituer le brut depuis le net.
	TauxChargesSalariales = 0.22
	// TauxChargesPatronales est le taux moyen employeur spécifique au BTP.
	TauxChargesPatronales = 0.44
	// HeuresMensuelles est l'équivalent mensuel légal d'une semaine de 35h.
	HeuresMensuelles = 151.67
	// MajorationHeuresSupp est la majoration légale des heures supplémentaires.
	MajorationHeuresSupp = 1.25
)

// CalculComplet détaille le passage du salaire net au coût employeur.
type CalculComplet struct {
	SalaireNet        float64 `json:"salaire_net"`
	SalaireBrut       float64 `json:"salaire_brut"`
	ChargesPatronales float64 `json:"charges_patronales"`
	CoutTotal         float64 `json:"cout_total"`
}

// SalaireBrut reconstitue le salaire brut depuis le net.
// Précondition : net > 0, validé par l'appelant.
func SalaireBrut(salaireNet float64) float64 {
	return salaireNet / (1 - TauxChargesSalariales)
}

// ChargesPatronales calcule les charges employeur sur le brut.
func ChargesPatronales(salaireBrut float64) float64 {
	return salaireBrut * TauxChargesPatronales
}

// CoutTotal est le coût employeur mensuel complet.
func CoutTotal(salaireBrut, chargesPatronales float64) float64 {
	return salaireBrut + chargesPatronales
}

// CalculCompletSalaire enchaîne net → brut → charges → coût total.
func CalculCompletSalaire(salaireNet float64) CalculComplet {
	brut := SalaireBrut(salaireNet)
	charges := ChargesPatronales(brut)
	return CalculComplet{
		SalaireNet:        salaireNet,
		SalaireBrut:       brut,
		ChargesPatronales: charges,
		CoutTotal:         CoutTotal(brut, charges),
	}
}

// TauxHoraire divise le coût mensuel par un volume d'heures donné.
func TauxHoraire(coutTotal, heuresParMois float64) float64 {
	return coutTotal / heuresParMois
}

// TauxHoraireLegal applique le volume légal de 151.67 h/mois.
func TauxHoraireLegal(coutTotal float64) float64 {
	return TauxHoraire(coutTotal, HeuresMensuelles)
}

// CoutJournalier calcule le coût d'une journée de présence : heures normales
// au taux horaire, heures supplémentaires majorées à 25%.
// La fonction reste totale face à une saisie incohérente : des heures
// supplémentaires négatives comptent pour 0, et elles sont plafonnées au
// total d'heures pour ne jamais produire d'heures normales négatives.
// L'appelant reste responsable de rejeter ces saisies en amont.
func CoutJournalier(tauxHoraire, totalHeures, heuresSupp float64) float64 {
	if totalHeures < 0 {
		totalHeures = 0
	}
	if heuresSupp < 0 {
		heuresSupp = 0
	}
	if heuresSupp > totalHeures {
		heuresSupp = totalHeures
	}
	coutHeuresNormales := tauxHoraire * (totalHeures - heuresSupp)
	coutHeuresSupp := tauxHoraire * heuresSupp * MajorationHeuresSupp
	return coutHeuresNormales + coutHeuresSupp
}

// MontantTVA calcule la TVA sur un montant HT pour un taux exprimé en
// pourcentage (5.5, 10 ou 20).
func MontantTVA(montantHT, tauxTVA float64) float64 {
	return montantHT * (tauxTVA / 100)
}
