package soustraitant

import (
	"fmt"
	"strings"

	"btp-backend/internal/audit"
	"btp-backend/internal/auth"
	"btp-backend/internal/database"
	"btp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateSousTraitantRequest struct {
	Nom        string `json:"nom"`
	Entreprise string `json:"entreprise"`
	Specialite string `json:"specialite"`
	Telephone  string `json:"telephone"`
	Email      string `json:"email"`
	Adresse    string `json:"adresse"`
	Siret      string `json:"siret"`
	Notes      string `json:"notes"`
	Actif      *bool  `json:"actif"`
}

type UpdateSousTraitantRequest struct {
	Nom        *string `json:"nom"`
	Entreprise *string `json:"entreprise"`
	Specialite *string `json:"specialite"`
	Telephone  *string `json:"telephone"`
	Email      *string `json:"email"`
	Adresse    *string `json:"adresse"`
	Siret      *string `json:"siret"`
	Notes      *string `json:"notes"`
	Actif      *bool   `json:"actif"`
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

func specialiteValide(s models.Specialite) bool {
	for _, known := range models.Specialites {
		if s == known {
			return true
		}
	}
	return false
}

// -------------------------
// CRUD Sous-traitants
// -------------------------

// POST /api/sous-traitants
func CreateSousTraitantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSousTraitantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if strings.TrimSpace(body.Nom) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom est obligatoire")
		}
		if strings.TrimSpace(body.Entreprise) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom de l'entreprise est obligatoire")
		}
		specialite := models.Specialite(body.Specialite)
		if !specialiteValide(specialite) {
			return fiber.NewError(fiber.StatusBadRequest, "Spécialité inconnue : "+body.Specialite)
		}

		st := models.SousTraitant{
			Nom:        strings.TrimSpace(body.Nom),
			Entreprise: strings.TrimSpace(body.Entreprise),
			Specialite: specialite,
			Telephone:  strings.TrimSpace(body.Telephone),
			Email:      strings.TrimSpace(body.Email),
			Adresse:    strings.TrimSpace(body.Adresse),
			Siret:      strings.TrimSpace(body.Siret),
			Notes:      body.Notes,
			Actif:      true,
		}
		if body.Actif != nil {
			st.Actif = *body.Actif
		}

		if err := database.DB.Create(&st).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sous-traitant non enregistré")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sous_traitant",
				EntityID:    st.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Sous-traitant ajouté : %s (%s)", st.Nom, st.Entreprise),
				Before:      nil,
				After:       st,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(st)
	}
}

// GET /api/sous-traitants?actif=true&specialite=plomberie
func ListSousTraitantsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.SousTraitant{})
		if c.Query("actif") == "true" {
			dbq = dbq.Where("actif = ?", true)
		}
		if sp := c.Query("specialite"); sp != "" {
			dbq = dbq.Where("specialite = ?", sp)
		}

		var sts []models.SousTraitant
		if err := dbq.Order("entreprise asc, nom asc").Find(&sts).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Liste des sous-traitants illisible")
		}

		return c.JSON(sts)
	}
}

// GET /api/sous-traitants/:id
func GetSousTraitantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var st models.SousTraitant
		if err := database.DB.First(&st, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sous-traitant introuvable")
		}
		return c.JSON(st)
	}
}

// PUT /api/sous-traitants/:id
func UpdateSousTraitantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var st models.SousTraitant
		if err := database.DB.First(&st, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sous-traitant introuvable")
		}

		avant := st

		var body UpdateSousTraitantRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if body.Nom != nil {
			if strings.TrimSpace(*body.Nom) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom ne peut pas être vide")
			}
			st.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.Entreprise != nil {
			if strings.TrimSpace(*body.Entreprise) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom de l'entreprise ne peut pas être vide")
			}
			st.Entreprise = strings.TrimSpace(*body.Entreprise)
		}
		if body.Specialite != nil {
			sp := models.Specialite(*body.Specialite)
			if !specialiteValide(sp) {
				return fiber.NewError(fiber.StatusBadRequest, "Spécialité inconnue : "+*body.Specialite)
			}
			st.Specialite = sp
		}
		if body.Telephone != nil {
			st.Telephone = strings.TrimSpace(*body.Telephone)
		}
		if body.Email != nil {
			st.Email = strings.TrimSpace(*body.Email)
		}
		if body.Adresse != nil {
			st.Adresse = strings.TrimSpace(*body.Adresse)
		}
		if body.Siret != nil {
			st.Siret = strings.TrimSpace(*body.Siret)
		}
		if body.Notes != nil {
			st.Notes = *body.Notes
		}
		if body.Actif != nil {
			st.Actif = *body.Actif
		}

		if err := database.DB.Save(&st).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Sous-traitant non mis à jour")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sous_traitant",
				EntityID:    st.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Sous-traitant modifié : %s (%s)", st.Nom, st.Entreprise),
				Before:      avant,
				After:       st,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(st)
	}
}

// DELETE /api/sous-traitants/:id
func DeleteSousTraitantHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var st models.SousTraitant
		if err := database.DB.First(&st, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sous-traitant introuvable")
		}

		var count int64
		database.DB.Model(&models.ChantierSousTraitant{}).
			Where("sous_traitant_id = ?", st.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ce sous-traitant a des engagements en cours, désactive-le plutôt")
		}

		if err := database.DB.Delete(&st).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "sous_traitant",
				EntityID:    st.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Sous-traitant supprimé : %s (%s)", st.Nom, st.Entreprise),
				Before:      st,
				After:       st,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(fiber.Map{"message": "Sous-traitant supprimé"})
	}
}
