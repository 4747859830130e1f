package chantier

import (
	"fmt"
	"strings"
	"time"

	"btp-backend/internal/audit"
	"btp-backend/internal/auth"
	"btp-backend/internal/database"
	"btp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateChantierRequest struct {
	Reference       string   `json:"reference"`
	Nom             string   `json:"nom"`
	ClientNom       string   `json:"client_nom"`
	ClientAdresse   string   `json:"client_adresse"`
	ClientTelephone string   `json:"client_telephone"`
	ClientEmail     string   `json:"client_email"`
	ClientSiret     string   `json:"client_siret"`
	Adresse         string   `json:"adresse"`
	DateDebut       string   `json:"date_debut"`
	DateFin         string   `json:"date_fin"`
	Statut          string   `json:"statut"`
	FraisGeneraux   *float64 `json:"frais_generaux"`
	MargeObjectif   *float64 `json:"marge_objectif"`
	Notes           string   `json:"notes"`
}

type UpdateChantierRequest struct {
	Nom             *string  `json:"nom"`
	ClientNom       *string  `json:"client_nom"`
	ClientAdresse   *string  `json:"client_adresse"`
	ClientTelephone *string  `json:"client_telephone"`
	ClientEmail     *string  `json:"client_email"`
	ClientSiret     *string  `json:"client_siret"`
	Adresse         *string  `json:"adresse"`
	DateDebut       *string  `json:"date_debut"`
	DateFin         *string  `json:"date_fin"`
	Statut          *string  `json:"statut"`
	FraisGeneraux   *float64 `json:"frais_generaux"`
	MargeObjectif   *float64 `json:"marge_objectif"`
	PrixVenteHT     *float64 `json:"prix_vente_ht"`
	PrixVenteTTC    *float64 `json:"prix_vente_ttc"`
	Notes           *string  `json:"notes"`
	// Les champs Cout* et MargeReelle ne sont volontairement pas acceptés :
	// ce sont des caches recalculés par le moteur de coûts.
}

// -------------------------
// Aides
// -------------------------

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Utilisateur introuvable")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Utilisateur introuvable")
	}

	return userID, user.Name, nil
}

func statutValide(s models.StatutChantier) bool {
	for _, known := range models.StatutsChantier {
		if s == known {
			return true
		}
	}
	return false
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// chargerChantier charge un chantier avec toutes ses lignes.
func chargerChantier(id string) (*models.Chantier, error) {
	var chantier models.Chantier
	err := database.DB.
		Preload("Salaries.Salarie").
		Preload("Salaries.Presences").
		Preload("Materiaux.Materiau").
		Preload("SousTraitants.SousTraitant").
		Preload("Echeancier").
		First(&chantier, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &chantier, nil
}

// -------------------------
// CRUD Chantiers
// -------------------------

// POST /api/chantiers
func CreateChantierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateChantierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if strings.TrimSpace(body.Reference) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "La référence est obligatoire")
		}
		if strings.TrimSpace(body.Nom) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom est obligatoire")
		}
		if strings.TrimSpace(body.ClientNom) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom du client est obligatoire")
		}
		if strings.TrimSpace(body.Adresse) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "L'adresse est obligatoire")
		}

		statut := models.StatutChantier(body.Statut)
		if body.Statut == "" {
			statut = models.StatutProspect
		}
		if !statutValide(statut) {
			return fiber.NewError(fiber.StatusBadRequest, "Statut inconnu : "+body.Statut)
		}

		chantier := models.Chantier{
			Reference:       strings.TrimSpace(body.Reference),
			Nom:             strings.TrimSpace(body.Nom),
			ClientNom:       strings.TrimSpace(body.ClientNom),
			ClientAdresse:   strings.TrimSpace(body.ClientAdresse),
			ClientTelephone: strings.TrimSpace(body.ClientTelephone),
			ClientEmail:     strings.TrimSpace(body.ClientEmail),
			ClientSiret:     strings.TrimSpace(body.ClientSiret),
			Adresse:         strings.TrimSpace(body.Adresse),
			Statut:          statut,
			FraisGeneraux:   15,
			MargeObjectif:   20,
			Notes:           body.Notes,
		}

		if body.FraisGeneraux != nil {
			if *body.FraisGeneraux < 0 || *body.FraisGeneraux > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "Les frais généraux doivent être entre 0 et 100%")
			}
			chantier.FraisGeneraux = *body.FraisGeneraux
		}
		if body.MargeObjectif != nil {
			if *body.MargeObjectif < 0 || *body.MargeObjectif > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "La marge objectif doit être entre 0 et 100%")
			}
			chantier.MargeObjectif = *body.MargeObjectif
		}

		var err error
		if chantier.DateDebut, err = parseDate(body.DateDebut); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date de début invalide (AAAA-MM-JJ)")
		}
		if chantier.DateFin, err = parseDate(body.DateFin); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Date de fin invalide (AAAA-MM-JJ)")
		}

		if err := database.DB.Create(&chantier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Chantier non enregistré (référence déjà prise ?)")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "chantier",
				EntityID:    chantier.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Chantier créé : %s (%s)", chantier.Nom, chantier.Reference),
				Before:      nil,
				After:       chantier,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(chantier)
	}
}

// GET /api/chantiers?statut=en_cours
func ListChantiersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Chantier{})
		if statut := c.Query("statut"); statut != "" {
			dbq = dbq.Where("statut = ?", statut)
		}

		var chantiers []models.Chantier
		if err := dbq.Order("created_at desc").Find(&chantiers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Liste des chantiers illisible")
		}

		return c.JSON(chantiers)
	}
}

// GET /api/chantiers/:id — avec toutes les lignes
func GetChantierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chantier, err := chargerChantier(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}
		return c.JSON(chantier)
	}
}

// PUT /api/chantiers/:id
func UpdateChantierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		avant := chantier

		var body UpdateChantierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if body.Nom != nil {
			if strings.TrimSpace(*body.Nom) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom ne peut pas être vide")
			}
			chantier.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.ClientNom != nil {
			if strings.TrimSpace(*body.ClientNom) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom du client ne peut pas être vide")
			}
			chantier.ClientNom = strings.TrimSpace(*body.ClientNom)
		}
		if body.ClientAdresse != nil {
			chantier.ClientAdresse = strings.TrimSpace(*body.ClientAdresse)
		}
		if body.ClientTelephone != nil {
			chantier.ClientTelephone = strings.TrimSpace(*body.ClientTelephone)
		}
		if body.ClientEmail != nil {
			chantier.ClientEmail = strings.TrimSpace(*body.ClientEmail)
		}
		if body.ClientSiret != nil {
			chantier.ClientSiret = strings.TrimSpace(*body.ClientSiret)
		}
		if body.Adresse != nil {
			if strings.TrimSpace(*body.Adresse) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "L'adresse ne peut pas être vide")
			}
			chantier.Adresse = strings.TrimSpace(*body.Adresse)
		}
		if body.Statut != nil {
			statut := models.StatutChantier(*body.Statut)
			if !statutValide(statut) {
				return fiber.NewError(fiber.StatusBadRequest, "Statut inconnu : "+*body.Statut)
			}
			chantier.Statut = statut
		}
		if body.FraisGeneraux != nil {
			if *body.FraisGeneraux < 0 || *body.FraisGeneraux > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "Les frais généraux doivent être entre 0 et 100%")
			}
			chantier.FraisGeneraux = *body.FraisGeneraux
		}
		if body.MargeObjectif != nil {
			if *body.MargeObjectif < 0 || *body.MargeObjectif > 100 {
				return fiber.NewError(fiber.StatusBadRequest, "La marge objectif doit être entre 0 et 100%")
			}
			chantier.MargeObjectif = *body.MargeObjectif
		}
		if body.PrixVenteHT != nil {
			if *body.PrixVenteHT < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Le prix de vente HT ne peut pas être négatif")
			}
			chantier.PrixVenteHT = body.PrixVenteHT
		}
		if body.PrixVenteTTC != nil {
			if *body.PrixVenteTTC < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Le prix de vente TTC ne peut pas être négatif")
			}
			chantier.PrixVenteTTC = body.PrixVenteTTC
		}
		if body.Notes != nil {
			chantier.Notes = *body.Notes
		}
		if body.DateDebut != nil {
			d, err := parseDate(*body.DateDebut)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date de début invalide (AAAA-MM-JJ)")
			}
			chantier.DateDebut = d
		}
		if body.DateFin != nil {
			d, err := parseDate(*body.DateFin)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date de fin invalide (AAAA-MM-JJ)")
			}
			chantier.DateFin = d
		}

		if err := database.DB.Save(&chantier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Chantier non mis à jour")
		}

		// Le prix de vente ou la marge objectif ont pu changer : on remet le
		// cache financier à jour dans la foulée.
		if full, err := chargerChantier(c.Params("id")); err == nil {
			rafraichirCacheFinancier(full)
			chantier = *full
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "chantier",
				EntityID:    chantier.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Chantier modifié : %s (%s)", chantier.Nom, chantier.Reference),
				Before:      avant,
				After:       chantier,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(chantier)
	}
}

// DELETE /api/chantiers/:id
func DeleteChantierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var chantier models.Chantier
		if err := database.DB.First(&chantier, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		if err := database.DB.Select("Salaries", "Materiaux", "SousTraitants", "Echeancier").
			Delete(&chantier).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "chantier",
				EntityID:    chantier.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Chantier supprimé : %s (%s)", chantier.Nom, chantier.Reference),
				Before:      chantier,
				After:       chantier,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(fiber.Map{"message": "Chantier supprimé"})
	}
}
