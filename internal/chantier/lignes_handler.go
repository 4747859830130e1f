package chantier

import (
	"fmt"
	"strings"
	"time"

	"btp-backend/internal/audit"
	"btp-backend/internal/costing"
	"btp-backend/internal/database"
	"btp-backend/internal/fiscal"
	"btp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// -------------------------
// Request Types
// -------------------------

type AffecterSalarieRequest struct {
	SalarieID uint `json:"salarie_id"`
}

type AjouterPresenceRequest struct {
	Date                  string  `json:"date"`
	HeuresPresence        float64 `json:"heures_presence"`
	HeuresSupplementaires float64 `json:"heures_supplementaires"`
	TacheDescription      string  `json:"tache_description"`
	Commentaire           string  `json:"commentaire"`
}

type AjouterMateriauRequest struct {
	MateriauID       uint     `json:"materiau_id"`
	Quantite         float64  `json:"quantite"`
	PrixUnitaireReel *float64 `json:"prix_unitaire_reel"`
	TauxTVA          string   `json:"taux_tva"`
}

type AjouterEngagementRequest struct {
	SousTraitantID uint    `json:"sous_traitant_id"`
	Description    string  `json:"description"`
	DateDebut      string  `json:"date_debut"`
	DateFin        string  `json:"date_fin"`
	MontantForfait float64 `json:"montant_forfait"`
	Statut         string  `json:"statut"`
	Notes          string  `json:"notes"`
}

type UpdateEngagementRequest struct {
	Description    *string  `json:"description"`
	DateDebut      *string  `json:"date_debut"`
	DateFin        *string  `json:"date_fin"`
	MontantForfait *float64 `json:"montant_forfait"`
	Statut         *string  `json:"statut"`
	Notes          *string  `json:"notes"`
}

type EcheanceRequest struct {
	Libelle       string  `json:"libelle"`
	MontantHT     float64 `json:"montant_ht"`
	MontantTTC    float64 `json:"montant_ttc"`
	DateEcheance  string  `json:"date_echeance"`
	Statut        string  `json:"statut"`
	NumeroFacture string  `json:"numero_facture"`
}

func statutEngagementValide(s models.StatutEngagement) bool {
	for _, known := range models.StatutsEngagement {
		if s == known {
			return true
		}
	}
	return false
}

func auditerLigne(c *fiber.Ctx, chantier *models.Chantier, action models.AuditAction, description string, before, after interface{}) {
	userID, userName, err := getUserInfo(c)
	if err != nil {
		return
	}
	if logErr := audit.WriteLog(audit.LogOptions{
		UserID:      userID,
		UserName:    userName,
		EntityType:  "chantier",
		EntityID:    chantier.ID,
		Action:      action,
		Description: description,
		Before:      before,
		After:       after,
	}); logErr != nil {
		fmt.Printf("Audit log non écrit : %v\n", logErr)
	}
}

// -------------------------
// Affectations et présences
// -------------------------

// POST /api/chantiers/:id/salaries
func AffecterSalarieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var body AffecterSalarieRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		var salarie models.Salarie
		if err := database.DB.First(&salarie, "id = ?", body.SalarieID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salarié introuvable")
		}
		if !salarie.Actif {
			return fiber.NewError(fiber.StatusBadRequest, "Ce salarié est inactif")
		}

		var count int64
		database.DB.Model(&models.ChantierSalarie{}).
			Where("chantier_id = ? AND salarie_id = ?", chantier.ID, salarie.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ce salarié est déjà affecté à ce chantier")
		}

		affectation := models.ChantierSalarie{
			ChantierID: chantier.ID,
			SalarieID:  salarie.ID,
		}
		if err := database.DB.Create(&affectation).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Affectation non enregistrée")
		}
		affectation.Salarie = salarie

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Salarié %s %s affecté au chantier %s", salarie.Prenom, salarie.Nom, chantier.Reference),
			nil, affectation)

		return c.Status(fiber.StatusCreated).JSON(affectation)
	}
}

// DELETE /api/chantiers/:id/salaries/:affectationId
func RetirerSalarieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var affectation models.ChantierSalarie
		if err := database.DB.Preload("Presences").
			First(&affectation, "id = ? AND chantier_id = ?", c.Params("affectationId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Affectation introuvable")
		}

		if err := database.DB.Select("Presences").Delete(&affectation).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Affectation retirée du chantier %s", chantier.Reference),
			affectation, nil)

		return c.JSON(fiber.Map{"message": "Affectation supprimée"})
	}
}

// POST /api/chantiers/:id/salaries/:affectationId/presences
//
// Le coût de la journée est figé ici avec le taux horaire courant du salarié,
// puis cumulé dans le total de l'affectation. Une revalorisation de salaire
// postérieure ne réécrit pas l'historique.
func AjouterPresenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var affectation models.ChantierSalarie
		if err := database.DB.Preload("Salarie").
			First(&affectation, "id = ? AND chantier_id = ?", c.Params("affectationId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Affectation introuvable")
		}

		var body AjouterPresenceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if body.HeuresPresence <= 0 || body.HeuresPresence > 24 {
			return fiber.NewError(fiber.StatusBadRequest, "Les heures de présence doivent être entre 0 et 24")
		}
		if body.HeuresSupplementaires < 0 || body.HeuresSupplementaires > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Les heures supplémentaires doivent être entre 0 et 12")
		}
		if body.HeuresSupplementaires > body.HeuresPresence {
			return fiber.NewError(fiber.StatusBadRequest, "Les heures supplémentaires ne peuvent pas dépasser les heures de présence")
		}

		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date invalide (AAAA-MM-JJ)")
		}

		cout := fiscal.CoutJournalier(affectation.Salarie.TauxHoraire, body.HeuresPresence, body.HeuresSupplementaires)

		presence := models.ChantierPresence{
			AffectationID:         affectation.ID,
			Date:                  date,
			HeuresPresence:        body.HeuresPresence,
			HeuresSupplementaires: body.HeuresSupplementaires,
			Cout:                  cout,
			TacheDescription:      strings.TrimSpace(body.TacheDescription),
			Commentaire:           strings.TrimSpace(body.Commentaire),
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&presence).Error; err != nil {
				return err
			}
			// incrément en SQL : deux saisies concurrentes ne se perdent pas
			return tx.Model(&models.ChantierSalarie{}).
				Where("id = ?", affectation.ID).
				UpdateColumn("cout_total", gorm.Expr("cout_total + ?", cout)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Présence non enregistrée")
		}

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Présence du %s ajoutée (%s %s, %.1fh)", body.Date,
				affectation.Salarie.Prenom, affectation.Salarie.Nom, body.HeuresPresence),
			nil, presence)

		return c.Status(fiber.StatusCreated).JSON(presence)
	}
}

// DELETE /api/chantiers/:id/salaries/:affectationId/presences/:presenceId
func SupprimerPresenceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var affectation models.ChantierSalarie
		if err := database.DB.
			First(&affectation, "id = ? AND chantier_id = ?", c.Params("affectationId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Affectation introuvable")
		}

		var presence models.ChantierPresence
		if err := database.DB.
			First(&presence, "id = ? AND affectation_id = ?", c.Params("presenceId"), affectation.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Présence introuvable")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&presence).Error; err != nil {
				return err
			}
			return tx.Model(&models.ChantierSalarie{}).
				Where("id = ?", affectation.ID).
				UpdateColumn("cout_total", gorm.Expr("cout_total - ?", presence.Cout)).Error
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Présence supprimée sur le chantier %s", chantier.Reference),
			presence, nil)

		return c.JSON(fiber.Map{"message": "Présence supprimée"})
	}
}

// -------------------------
// Lignes matériaux
// -------------------------

// POST /api/chantiers/:id/materiaux
//
// Le coût HT/TTC est figé au moment de l'ajout : le prix réel saisi prime
// sur le prix catalogue, et un changement de catalogue ultérieur ne touche
// pas les lignes existantes.
func AjouterMateriauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var body AjouterMateriauRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		var materiau models.Materiau
		if err := database.DB.First(&materiau, "id = ?", body.MateriauID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Matériau introuvable")
		}

		if body.Quantite <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "La quantité doit être positive")
		}
		if body.PrixUnitaireReel != nil && *body.PrixUnitaireReel < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Le prix unitaire réel ne peut pas être négatif")
		}

		// TVA de la ligne : saisie, sinon celle du matériau.
		taux := materiau.TauxTVA
		if body.TauxTVA != "" {
			taux = models.TauxTVA(body.TauxTVA)
			if !taux.Valide() {
				return fiber.NewError(fiber.StatusBadRequest, "Taux de TVA inconnu : "+body.TauxTVA)
			}
		}

		prixUnitaire := materiau.PrixUnitaire
		if body.PrixUnitaireReel != nil {
			prixUnitaire = *body.PrixUnitaireReel
		}

		cout := costing.CalculCoutMateriau(prixUnitaire, body.Quantite, taux)

		ligne := models.ChantierMateriau{
			ChantierID:       chantier.ID,
			MateriauID:       materiau.ID,
			Quantite:         body.Quantite,
			PrixUnitaireReel: body.PrixUnitaireReel,
			TauxTVA:          taux,
			CoutHT:           cout.PrixHT,
			CoutTTC:          cout.TotalTTC,
		}

		if err := database.DB.Create(&ligne).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ligne matériau non enregistrée")
		}
		ligne.Materiau = materiau

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Matériau %s ajouté au chantier %s (%.2f %s)",
				materiau.Nom, chantier.Reference, body.Quantite, materiau.Unite),
			nil, ligne)

		return c.Status(fiber.StatusCreated).JSON(ligne)
	}
}

// DELETE /api/chantiers/:id/materiaux/:ligneId
func SupprimerMateriauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var ligne models.ChantierMateriau
		if err := database.DB.
			First(&ligne, "id = ? AND chantier_id = ?", c.Params("ligneId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ligne matériau introuvable")
		}

		if err := database.DB.Delete(&ligne).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Ligne matériau supprimée du chantier %s", chantier.Reference),
			ligne, nil)

		return c.JSON(fiber.Map{"message": "Ligne matériau supprimée"})
	}
}

// -------------------------
// Engagements sous-traitants
// -------------------------

// POST /api/chantiers/:id/sous-traitants
func AjouterEngagementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var body AjouterEngagementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		var st models.SousTraitant
		if err := database.DB.First(&st, "id = ?", body.SousTraitantID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sous-traitant introuvable")
		}

		if strings.TrimSpace(body.Description) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "La description est obligatoire")
		}
		if body.MontantForfait <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Le montant forfaitaire doit être positif")
		}

		statut := models.StatutEngagement(body.Statut)
		if body.Statut == "" {
			statut = models.EngagementPrevu
		}
		if !statutEngagementValide(statut) {
			return fiber.NewError(fiber.StatusBadRequest, "Statut d'engagement inconnu : "+body.Statut)
		}

		engagement := models.ChantierSousTraitant{
			ChantierID:     chantier.ID,
			SousTraitantID: st.ID,
			Description:    strings.TrimSpace(body.Description),
			MontantForfait: body.MontantForfait,
			Statut:         statut,
			Notes:          body.Notes,
		}

		var err error
		if engagement.DateDebut, err = parseDate(body.DateDebut); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date de début invalide (AAAA-MM-JJ)")
		}
		if engagement.DateFin, err = parseDate(body.DateFin); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date de fin invalide (AAAA-MM-JJ)")
		}

		if err := database.DB.Create(&engagement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Engagement non enregistré")
		}
		engagement.SousTraitant = st

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Engagement %s (%s) ajouté au chantier %s", st.Entreprise, engagement.Description, chantier.Reference),
			nil, engagement)

		return c.Status(fiber.StatusCreated).JSON(engagement)
	}
}

// PUT /api/chantiers/:id/sous-traitants/:engagementId
func UpdateEngagementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var engagement models.ChantierSousTraitant
		if err := database.DB.Preload("SousTraitant").
			First(&engagement, "id = ? AND chantier_id = ?", c.Params("engagementId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Engagement introuvable")
		}

		avant := engagement

		var body UpdateEngagementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if body.Description != nil {
			if strings.TrimSpace(*body.Description) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "La description ne peut pas être vide")
			}
			engagement.Description = strings.TrimSpace(*body.Description)
		}
		if body.MontantForfait != nil {
			if *body.MontantForfait <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Le montant forfaitaire doit être positif")
			}
			engagement.MontantForfait = *body.MontantForfait
		}
		if body.Statut != nil {
			statut := models.StatutEngagement(*body.Statut)
			if !statutEngagementValide(statut) {
				return fiber.NewError(fiber.StatusBadRequest, "Statut d'engagement inconnu : "+*body.Statut)
			}
			engagement.Statut = statut
		}
		if body.Notes != nil {
			engagement.Notes = *body.Notes
		}
		if body.DateDebut != nil {
			d, err := parseDate(*body.DateDebut)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date de début invalide (AAAA-MM-JJ)")
			}
			engagement.DateDebut = d
		}
		if body.DateFin != nil {
			d, err := parseDate(*body.DateFin)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date de fin invalide (AAAA-MM-JJ)")
			}
			engagement.DateFin = d
		}

		if err := database.DB.Save(&engagement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Engagement non mis à jour")
		}

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Engagement modifié sur le chantier %s", chantier.Reference),
			avant, engagement)

		return c.JSON(engagement)
	}
}

// DELETE /api/chantiers/:id/sous-traitants/:engagementId
func SupprimerEngagementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var engagement models.ChantierSousTraitant
		if err := database.DB.
			First(&engagement, "id = ? AND chantier_id = ?", c.Params("engagementId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Engagement introuvable")
		}

		if err := database.DB.Delete(&engagement).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		mettreAJourCache(chantier.ID)

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Engagement supprimé du chantier %s", chantier.Reference),
			engagement, nil)

		return c.JSON(fiber.Map{"message": "Engagement supprimé"})
	}
}

// -------------------------
// Échéancier de facturation
// -------------------------

func validerEcheance(body *EcheanceRequest) (*models.Echeance, error) {
	if strings.TrimSpace(body.Libelle) == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Le libellé est obligatoire")
	}
	if body.MontantHT < 0 || body.MontantTTC < 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Les montants ne peuvent pas être négatifs")
	}

	date, err := time.Parse("2006-01-02", body.DateEcheance)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Date d'échéance invalide (AAAA-MM-JJ)")
	}

	statut := models.StatutEcheance(body.Statut)
	if body.Statut == "" {
		statut = models.EcheancePrevu
	}
	if statut != models.EcheancePrevu && statut != models.EcheanceFacture && statut != models.EcheancePaye {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Statut d'échéance inconnu : "+body.Statut)
	}

	return &models.Echeance{
		Libelle:       strings.TrimSpace(body.Libelle),
		MontantHT:     body.MontantHT,
		MontantTTC:    body.MontantTTC,
		DateEcheance:  date,
		Statut:        statut,
		NumeroFacture: strings.TrimSpace(body.NumeroFacture),
	}, nil
}

// POST /api/chantiers/:id/echeances
func AjouterEcheanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var body EcheanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		echeance, err := validerEcheance(&body)
		if err != nil {
			return err
		}
		echeance.ChantierID = chantier.ID

		if err := database.DB.Create(echeance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Échéance non enregistrée")
		}

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Échéance « %s » ajoutée au chantier %s", echeance.Libelle, chantier.Reference),
			nil, echeance)

		return c.Status(fiber.StatusCreated).JSON(echeance)
	}
}

// PUT /api/chantiers/:id/echeances/:echeanceId
func UpdateEcheanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var echeance models.Echeance
		if err := database.DB.
			First(&echeance, "id = ? AND chantier_id = ?", c.Params("echeanceId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Échéance introuvable")
		}

		avant := echeance

		var body EcheanceRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		nouvelle, err := validerEcheance(&body)
		if err != nil {
			return err
		}

		echeance.Libelle = nouvelle.Libelle
		echeance.MontantHT = nouvelle.MontantHT
		echeance.MontantTTC = nouvelle.MontantTTC
		echeance.DateEcheance = nouvelle.DateEcheance
		echeance.Statut = nouvelle.Statut
		echeance.NumeroFacture = nouvelle.NumeroFacture

		if err := database.DB.Save(&echeance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Échéance non mise à jour")
		}

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Échéance modifiée sur le chantier %s", chantier.Reference),
			avant, echeance)

		return c.JSON(echeance)
	}
}

// DELETE /api/chantiers/:id/echeances/:echeanceId
func SupprimerEcheanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		var echeance models.Echeance
		if err := database.DB.
			First(&echeance, "id = ? AND chantier_id = ?", c.Params("echeanceId"), chantier.ID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Échéance introuvable")
		}

		if err := database.DB.Delete(&echeance).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		auditerLigne(c, &chantier, models.AuditActionUpdate,
			fmt.Sprintf("Échéance supprimée du chantier %s", chantier.Reference),
			echeance, nil)

		return c.JSON(fiber.Map{"message": "Échéance supprimée"})
	}
}
