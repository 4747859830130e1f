package costing

import "btp-backend/internal/models"

// KPIChantier regroupe les indicateurs opérationnels d'un chantier.
type KPIChantier struct {
	NombreJoursTravailles int     `json:"nombre_jours_travailles"`
	TotalHeures           float64 `json:"total_heures"`
	HeuresMoyennesParJour float64 `json:"heures_moyennes_par_jour"`
	TotalHeuresSupp       float64 `json:"total_heures_supplementaires"`
	CoutHoraireMoyen      float64 `json:"cout_horaire_moyen"`

	// Rentabilité = marge / CA, en %. Zéro tant qu'aucun prix de vente.
	Rentabilite float64 `json:"rentabilite"`
}

// CalculKPIChantier parcourt les présences du chantier. Toutes les divisions
// sont gardées contre zéro.
func CalculKPIChantier(c *models.Chantier) KPIChantier {
	var kpi KPIChantier
	var coutMainOeuvre float64

	for _, cs := range c.Salaries {
		coutMainOeuvre += cs.CoutTotal
		for _, p := range cs.Presences {
			kpi.NombreJoursTravailles++
			kpi.TotalHeures += p.HeuresPresence
			kpi.TotalHeuresSupp += p.HeuresSupplementaires
		}
	}

	if kpi.NombreJoursTravailles > 0 {
		kpi.HeuresMoyennesParJour = kpi.TotalHeures / float64(kpi.NombreJoursTravailles)
	}
	if kpi.TotalHeures > 0 {
		kpi.CoutHoraireMoyen = coutMainOeuvre / kpi.TotalHeures
	}

	couts := CoutsDuChantier(c)
	if c.PrixVenteTTC != nil && *c.PrixVenteTTC > 0 {
		kpi.Rentabilite = (*c.PrixVenteTTC - couts.CoutTotal) / *c.PrixVenteTTC * 100
	}

	return kpi
}

// RapportCouts est un rapport de synthèse : coûts, KPIs et signaux simples
// à destination du conducteur de travaux.
type RapportCouts struct {
	Couts           CoutsChantier `json:"couts"`
	KPIs            KPIChantier   `json:"kpis"`
	Alertes         []string      `json:"alertes"`
	Recommandations []string      `json:"recommandations"`
}

// GenererRapportCouts applique des seuils métier fixes sur les coûts et KPIs.
func GenererRapportCouts(c *models.Chantier) RapportCouts {
	couts := CoutsDuChantier(c)
	kpis := CalculKPIChantier(c)

	var alertes []string
	if couts.MargeReelle != nil && *couts.MargeReelle < 10 {
		alertes = append(alertes, "Marge faible (< 10%)")
	}
	if kpis.TotalHeuresSupp > 20 {
		alertes = append(alertes, "Nombreuses heures supplémentaires")
	}

	var recommandations []string
	if couts.MargeReelle != nil && *couts.MargeReelle < 15 {
		recommandations = append(recommandations, "Revoir le prix de vente ou optimiser les coûts")
	}
	if kpis.HeuresMoyennesParJour > 10 {
		recommandations = append(recommandations, "Surveiller la fatigue des équipes")
	}

	return RapportCouts{
		Couts:           couts,
		KPIs:            kpis,
		Alertes:         alertes,
		Recommandations: recommandations,
	}
}
