package chantier

import (
	"fmt"

	"btp-backend/internal/costing"
	"btp-backend/internal/database"
	"btp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// rafraichirCacheFinancier recalcule le bloc financier du chantier et réécrit
// le cache de lecture (Cout*, MargeReelle). La vérité reste portée par les
// lignes : le cache n'existe que pour les listes et le tableau de bord.
func rafraichirCacheFinancier(chantier *models.Chantier) costing.CoutsChantier {
	couts := costing.CoutsDuChantier(chantier)

	chantier.CoutMainOeuvre = couts.CoutMainOeuvre
	chantier.CoutMateriaux = couts.CoutMateriaux
	chantier.CoutSousTraitance = couts.CoutSousTraitance
	chantier.CoutTotal = couts.CoutTotal
	chantier.MargeReelle = couts.MargeReelle

	if err := database.DB.Model(&models.Chantier{}).
		Where("id = ?", chantier.ID).
		Updates(map[string]interface{}{
			"cout_main_oeuvre":    couts.CoutMainOeuvre,
			"cout_materiaux":      couts.CoutMateriaux,
			"cout_sous_traitance": couts.CoutSousTraitance,
			"cout_total":          couts.CoutTotal,
			"marge_reelle":        couts.MargeReelle,
		}).Error; err != nil {
		fmt.Printf("Cache financier non mis à jour (chantier %d) : %v\n", chantier.ID, err)
	}

	return couts
}

// mettreAJourCache recharge le chantier avec ses lignes puis rafraîchit le
// cache. Appelé après chaque mutation de ligne qui change un coût.
func mettreAJourCache(chantierID uint) {
	full, err := chargerChantier(fmt.Sprint(chantierID))
	if err != nil {
		fmt.Printf("Chantier %d illisible pour recalcul : %v\n", chantierID, err)
		return
	}
	rafraichirCacheFinancier(full)
}

// GET /api/chantiers/:id/couts — recalcule depuis les lignes, jamais depuis
// le cache, et remet le cache d'aplomb au passage.
func CoutsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chantier, err := chargerChantier(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		couts := rafraichirCacheFinancier(chantier)
		return c.JSON(couts)
	}
}

// GET /api/chantiers/:id/kpis
func KPIsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chantier, err := chargerChantier(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		return c.JSON(costing.CalculKPIChantier(chantier))
	}
}

// POST /api/chantiers/:id/simulation — scénario "et si", sans écriture.
func SimulationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chantier, err := chargerChantier(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var variations costing.Variations
		if err := c.BodyParser(&variations); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if variations.Productivite <= -100 {
			return fiber.NewError(fiber.StatusBadRequest, "La variation de productivité doit être supérieure à -100%")
		}

		return c.JSON(fiber.Map{
			"reference":  chantier.Reference,
			"variations": variations,
			"reel":       costing.CoutsDuChantier(chantier),
			"simule":     costing.SimulerVariations(chantier, variations),
		})
	}
}

// GET /api/chantiers/:id/rapport
func RapportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chantier, err := chargerChantier(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		return c.JSON(costing.GenererRapportCouts(chantier))
	}
}
