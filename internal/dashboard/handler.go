package dashboard

import (
	"fmt"
	"time"

	"btp-backend/internal/database"
	"btp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type Alerte struct {
	Type    string   `json:"type"` // "warning" ou "error"
	Message string   `json:"message"`
	Details []string `json:"details"`
}

type Tendances struct {
	NouveauxChantiers int `json:"nouveaux_chantiers"`
	ChantiersLivres   int `json:"chantiers_livres"`
}

// DashboardResponse est la synthèse d'activité de l'entreprise, calculée à
// la demande depuis les caches financiers des chantiers.
type DashboardResponse struct {
	NombreChantiers   int `json:"nombre_chantiers"`
	ChantiersActifs   int `json:"chantiers_actifs"`
	ChantiersTermines int `json:"chantiers_termines"`
	NombreSalaries    int `json:"nombre_salaries"`
	NombreMateriaux   int `json:"nombre_materiaux"`

	CoutTotalChantiers float64 `json:"cout_total_chantiers"`
	CARealise          float64 `json:"ca_realise"`
	CAPrevu            float64 `json:"ca_prevu"`
	MargeMoyenne       float64 `json:"marge_moyenne"`
	BeneficeEstime     float64 `json:"benefice_estime"`

	TotalHeures       float64 `json:"total_heures"`
	CoutMoyenHeure    float64 `json:"cout_moyen_heure"`
	CoutMoyenChantier float64 `json:"cout_moyen_chantier"`

	Alertes   []Alerte  `json:"alertes"`
	Tendances Tendances `json:"tendances"`
}

// GET /api/dashboard
func DashboardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantiers []models.Chantier
		if err := database.DB.
			Preload("Salaries.Presences").
			Find(&chantiers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Lecture des chantiers impossible")
		}

		var nbSalaries, nbMateriaux int64
		database.DB.Model(&models.Salarie{}).Where("actif = ?", true).Count(&nbSalaries)
		database.DB.Model(&models.Materiau{}).Where("actif = ?", true).Count(&nbMateriaux)

		resp := DashboardResponse{
			NombreChantiers: len(chantiers),
			NombreSalaries:  int(nbSalaries),
			NombreMateriaux: int(nbMateriaux),
			Alertes:         []Alerte{},
		}

		maintenant := time.Now()
		il30Jours := maintenant.AddDate(0, 0, -30)

		var sommeMargesTerminees float64
		var nbMargesTerminees int
		var coutTotalTermines float64
		var enRetard, margesNegatives []string

		for _, ch := range chantiers {
			if ch.PrixVenteTTC != nil {
				resp.CAPrevu += *ch.PrixVenteTTC
			}
			if ch.CreatedAt.After(il30Jours) {
				resp.Tendances.NouveauxChantiers++
			}

			if ch.Statut != models.StatutProspect {
				resp.ChantiersActifs++
				resp.CoutTotalChantiers += ch.CoutTotal
			}

			for _, cs := range ch.Salaries {
				for _, p := range cs.Presences {
					resp.TotalHeures += p.HeuresPresence
				}
			}

			if ch.Statut.Termine() {
				resp.ChantiersTermines++
				coutTotalTermines += ch.CoutTotal
				if ch.PrixVenteTTC != nil {
					resp.CARealise += *ch.PrixVenteTTC
				}
				if ch.MargeReelle != nil {
					sommeMargesTerminees += *ch.MargeReelle
					nbMargesTerminees++
					if *ch.MargeReelle < 0 {
						margesNegatives = append(margesNegatives, ch.Nom)
					}
				}
				if ch.DateFin != nil && ch.DateFin.After(il30Jours) {
					resp.Tendances.ChantiersLivres++
				}
			}

			if estEnRetard(&ch, maintenant) {
				enRetard = append(enRetard, ch.Nom)
			}
		}

		if nbMargesTerminees > 0 {
			resp.MargeMoyenne = sommeMargesTerminees / float64(nbMargesTerminees)
		}
		resp.BeneficeEstime = resp.CARealise - coutTotalTermines
		if resp.TotalHeures > 0 {
			resp.CoutMoyenHeure = resp.CoutTotalChantiers / resp.TotalHeures
		}
		if resp.ChantiersActifs > 0 {
			resp.CoutMoyenChantier = resp.CoutTotalChantiers / float64(resp.ChantiersActifs)
		}

		// Alertes stock
		var stocksFaibles []models.Materiau
		database.DB.
			Where("actif = ? AND seuil_alerte > 0 AND quantite_stock <= seuil_alerte", true).
			Find(&stocksFaibles)
		if len(stocksFaibles) > 0 {
			noms := make([]string, 0, len(stocksFaibles))
			for _, m := range stocksFaibles {
				noms = append(noms, m.Nom)
			}
			resp.Alertes = append(resp.Alertes, Alerte{
				Type:    "warning",
				Message: formatCompte(len(stocksFaibles), "matériau(x) en stock faible"),
				Details: noms,
			})
		}

		if len(enRetard) > 0 {
			resp.Alertes = append(resp.Alertes, Alerte{
				Type:    "error",
				Message: formatCompte(len(enRetard), "chantier(s) en retard"),
				Details: enRetard,
			})
		}
		if len(margesNegatives) > 0 {
			resp.Alertes = append(resp.Alertes, Alerte{
				Type:    "error",
				Message: formatCompte(len(margesNegatives), "chantier(s) avec marge négative"),
				Details: margesNegatives,
			})
		}

		return c.JSON(resp)
	}
}

func formatCompte(n int, libelle string) string {
	return fmt.Sprintf("%d %s", n, libelle)
}

// estEnRetard : date de fin dépassée et chantier ni livré, ni facturé, ni payé.
func estEnRetard(ch *models.Chantier, maintenant time.Time) bool {
	if ch.DateFin == nil || ch.Statut.Termine() {
		return false
	}
	return ch.DateFin.Before(maintenant)
}
