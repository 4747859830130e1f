// Package estimation fournit le chiffrage rapide d'une liste de postes de
// travail, avant même qu'un chantier et ses lignes de coûts existent. Le
// moteur est volontairement découplé du catalogue réel : il applique des
// taux synthétiques aux heures pondérées par la complexité des postes.
package estimation

import (
	"math"

	"btp-backend/internal/postes"
)

// Taux synthétiques du moteur d'estimation, en euros par heure pondérée,
// et hypothèse de marge. Hypothèses métier versionnées ici, pas en dur dans
// le code appelant.
const (
	TauxMateriaux  = 55.0
	TauxMainOeuvre = 35.0
	TauxMarge      = 0.18
)

// PosteTravail est un poste abstrait : une charge en heures et un type de
// complexité optionnel (vide = standard).
type PosteTravail struct {
	ID        string           `json:"id"`
	Nom       string           `json:"nom"`
	Charge    float64          `json:"charge"`
	TypePoste postes.TypePoste `json:"type_poste,omitempty"`
}

type EstimationPoste struct {
	ID             string  `json:"id"`
	CoutMateriaux  float64 `json:"cout_materiaux"`
	CoutMainOeuvre float64 `json:"cout_main_oeuvre"`
}

type Resultat struct {
	Postes       []EstimationPoste `json:"postes"`
	TotalHT      float64           `json:"total_ht"`
	MargeEstimee float64           `json:"marge_estimee"`
}

// Estimer chiffre chaque poste sur sa charge pondérée (coefficient de type,
// arrondi à 2 décimales) puis arrondit chaque coût à l'euro. Une liste vide
// rend un résultat à zéro, pas une erreur.
// Précondition : charges non négatives, validées par l'appelant.
func Estimer(liste []PosteTravail) Resultat {
	result := Resultat{Postes: make([]EstimationPoste, 0, len(liste))}

	for _, p := range liste {
		chargePonderee := postes.ChargePonderee(p.Charge, p.TypePoste)
		coutMateriaux := math.Round(chargePonderee * TauxMateriaux)
		coutMainOeuvre := math.Round(chargePonderee * TauxMainOeuvre)

		result.Postes = append(result.Postes, EstimationPoste{
			ID:             p.ID,
			CoutMateriaux:  coutMateriaux,
			CoutMainOeuvre: coutMainOeuvre,
		})
		result.TotalHT += coutMateriaux + coutMainOeuvre
	}

	result.MargeEstimee = math.Round(result.TotalHT * TauxMarge)
	return result
}
