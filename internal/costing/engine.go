// Package costing est le moteur de calcul des coûts de chantier. Toutes les
// fonctions sont pures : elles prennent un instantané du chantier et de ses
// lignes, ne modifient rien et rendent le même résultat à entrées égales.
package costing

import (
	"btp-backend/internal/fiscal"
	"btp-backend/internal/models"
)

// CoutMateriau est le détail HT/TVA/TTC d'une ligne matériau, calculé au
// moment de l'ajout de la ligne puis figé.
type CoutMateriau struct {
	PrixHT     float64 `json:"prix_ht"`
	MontantTVA float64 `json:"montant_tva"`
	TotalTTC   float64 `json:"total_ttc"`
	TauxTVA    float64 `json:"taux_tva"`
}

// CalculCoutMateriau calcule le coût d'une ligne matériau avec TVA.
func CalculCoutMateriau(prixUnitaire, quantite float64, taux models.TauxTVA) CoutMateriau {
	prixHT := prixUnitaire * quantite
	montantTVA := fiscal.MontantTVA(prixHT, taux.Valeur())
	return CoutMateriau{
		PrixHT:     prixHT,
		MontantTVA: montantTVA,
		TotalTTC:   prixHT + montantTVA,
		TauxTVA:    taux.Valeur(),
	}
}

// CoutsChantier est le bloc financier complet d'un chantier.
type CoutsChantier struct {
	CoutMainOeuvre    float64 `json:"cout_main_oeuvre"`
	CoutMateriaux     float64 `json:"cout_materiaux"`
	CoutSousTraitance float64 `json:"cout_sous_traitance"`
	CoutDirect        float64 `json:"cout_direct"`
	FraisGeneraux     float64 `json:"frais_generaux"`
	CoutTotal         float64 `json:"cout_total"`

	PrixVenteRecommande float64 `json:"prix_vente_recommande"`

	// MargeReelle est nil tant qu'aucun prix de vente n'a été saisi (ou
	// qu'il vaut 0) : jamais de division par zéro, jamais de NaN.
	MargeReelle   *float64 `json:"marge_reelle"`
	MargeObjectif float64  `json:"marge_objectif"`
}

// CoutsDuChantier agrège les trois familles de coûts d'un chantier :
//   - main d'œuvre : somme des totaux courants des affectations, eux-mêmes
//     maintenus présence par présence avec fiscal.CoutJournalier ;
//   - matériaux : somme des coûts TTC figés à l'ajout des lignes ;
//   - sous-traitance : somme des montants forfaitaires.
//
// puis applique les frais généraux (% du coût direct), la marge objectif
// pour le prix de vente recommandé, et la marge réelle si un prix de vente
// a été saisi.
func CoutsDuChantier(c *models.Chantier) CoutsChantier {
	var coutMainOeuvre float64
	for _, cs := range c.Salaries {
		coutMainOeuvre += cs.CoutTotal
	}

	var coutMateriaux float64
	for _, cm := range c.Materiaux {
		coutMateriaux += cm.CoutTTC
	}

	var coutSousTraitance float64
	for _, cst := range c.SousTraitants {
		coutSousTraitance += cst.MontantForfait
	}

	coutDirect := coutMainOeuvre + coutMateriaux + coutSousTraitance
	fraisGeneraux := coutDirect * (c.FraisGeneraux / 100)
	coutTotal := coutDirect + fraisGeneraux
	prixVenteRecommande := coutTotal * (1 + c.MargeObjectif/100)

	var margeReelle *float64
	if c.PrixVenteTTC != nil && *c.PrixVenteTTC > 0 {
		m := (*c.PrixVenteTTC - coutTotal) / *c.PrixVenteTTC * 100
		margeReelle = &m
	}

	return CoutsChantier{
		CoutMainOeuvre:      coutMainOeuvre,
		CoutMateriaux:       coutMateriaux,
		CoutSousTraitance:   coutSousTraitance,
		CoutDirect:          coutDirect,
		FraisGeneraux:       fraisGeneraux,
		CoutTotal:           coutTotal,
		PrixVenteRecommande: prixVenteRecommande,
		MargeReelle:         margeReelle,
		MargeObjectif:       c.MargeObjectif,
	}
}

// Variations décrit un scénario de simulation en pourcentages.
type Variations struct {
	Productivite  float64 `json:"productivite"`   // % de productivité en plus
	PrixMateriaux float64 `json:"prix_materiaux"` // % de hausse des prix matériaux
	Absences      float64 `json:"absences"`       // % d'heures d'absence à rattraper
}

// SimulerVariations rejoue le calcul de coûts avec un scénario : les heures
// (donc la main d'œuvre) évoluent avec absences et productivité, les lignes
// matériaux avec la variation de prix. Le chantier passé n'est pas modifié.
func SimulerVariations(c *models.Chantier, v Variations) CoutsChantier {
	simule := *c

	facteurMainOeuvre := 1.0
	if 1+v.Productivite/100 != 0 {
		facteurMainOeuvre = (1 + v.Absences/100) / (1 + v.Productivite/100)
	}

	simule.Salaries = make([]models.ChantierSalarie, len(c.Salaries))
	for i, cs := range c.Salaries {
		cs.CoutTotal *= facteurMainOeuvre
		simule.Salaries[i] = cs
	}

	simule.Materiaux = make([]models.ChantierMateriau, len(c.Materiaux))
	for i, cm := range c.Materiaux {
		cm.CoutHT *= 1 + v.PrixMateriaux/100
		cm.CoutTTC *= 1 + v.PrixMateriaux/100
		simule.Materiaux[i] = cm
	}

	return CoutsDuChantier(&simule)
}
