package salarie

import (
	"fmt"
	"strings"
	"time"

	"btp-backend/internal/audit"
	"btp-backend/internal/auth"
	"btp-backend/internal/database"
	"btp-backend/internal/fiscal"
	"btp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// -------------------------
// Request/Response Types
// -------------------------

type CreateSalarieRequest struct {
	Nom           string  `json:"nom"`
	Prenom        string  `json:"prenom"`
	SalaireNet    float64 `json:"salaire_net"`
	HeuresParJour float64 `json:"heures_par_jour"`
	Qualification string  `json:"qualification"`
	DateEmbauche  string  `json:"date_embauche"` // "2024-03-01"
	Actif         *bool   `json:"actif"`
}

type UpdateSalarieRequest struct {
	Nom           *string  `json:"nom"`
	Prenom        *string  `json:"prenom"`
	SalaireNet    *float64 `json:"salaire_net"`
	HeuresParJour *float64 `json:"heures_par_jour"`
	Qualification *string  `json:"qualification"`
	Actif         *bool    `json:"actif"`
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

func qualificationValide(q models.Qualification) bool {
	for _, known := range models.Qualifications {
		if q == known {
			return true
		}
	}
	return false
}

// appliquerCalculsFiscaux recalcule tous les champs dérivés depuis le net.
// Ils ne sont jamais acceptés du client : le net est la seule source.
func appliquerCalculsFiscaux(s *models.Salarie) {
	calc := fiscal.CalculCompletSalaire(s.SalaireNet)
	s.SalaireBrut = calc.SalaireBrut
	s.ChargesPatronales = calc.ChargesPatronales
	s.CoutTotal = calc.CoutTotal
	s.TauxHoraire = fiscal.TauxHoraireLegal(calc.CoutTotal)
}

// -------------------------
// CRUD Salariés
// -------------------------

// POST /api/salaries
func CreateSalarieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSalarieRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if strings.TrimSpace(body.Nom) == "" || strings.TrimSpace(body.Prenom) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nom et prénom obligatoires")
		}
		if body.SalaireNet <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Le salaire net doit être positif")
		}
		if body.HeuresParJour < 1 || body.HeuresParJour > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "Les heures par jour doivent être entre 1 et 12")
		}

		qualification := models.Qualification(body.Qualification)
		if body.Qualification == "" {
			qualification = models.QualificationOuvrier
		}
		if !qualificationValide(qualification) {
			return fiber.NewError(fiber.StatusBadRequest, "Qualification inconnue")
		}

		salarie := models.Salarie{
			Nom:           strings.TrimSpace(body.Nom),
			Prenom:        strings.TrimSpace(body.Prenom),
			SalaireNet:    body.SalaireNet,
			HeuresParJour: body.HeuresParJour,
			Qualification: qualification,
			Actif:         true,
		}
		if body.Actif != nil {
			salarie.Actif = *body.Actif
		}
		if body.DateEmbauche != "" {
			d, err := time.Parse("2006-01-02", body.DateEmbauche)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Date d'embauche invalide (AAAA-MM-JJ)")
			}
			salarie.DateEmbauche = &d
		}

		appliquerCalculsFiscaux(&salarie)

		if err := database.DB.Create(&salarie).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Salarié non enregistré")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "salarie",
				EntityID:    salarie.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Salarié ajouté : %s %s", salarie.Prenom, salarie.Nom),
				Before:      nil,
				After:       salarie,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(salarie)
	}
}

// GET /api/salaries?actif=true
func ListSalariesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Salarie{})
		if c.Query("actif") == "true" {
			dbq = dbq.Where("actif = ?", true)
		}

		var salaries []models.Salarie
		if err := dbq.Order("nom asc, prenom asc").Find(&salaries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Liste des salariés illisible")
		}

		return c.JSON(salaries)
	}
}

// GET /api/salaries/:id
func GetSalarieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var salarie models.Salarie
		if err := database.DB.First(&salarie, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salarié introuvable")
		}
		return c.JSON(salarie)
	}
}

// PUT /api/salaries/:id
func UpdateSalarieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var salarie models.Salarie
		if err := database.DB.First(&salarie, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salarié introuvable")
		}

		avant := salarie

		var body UpdateSalarieRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if body.Nom != nil {
			if strings.TrimSpace(*body.Nom) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom ne peut pas être vide")
			}
			salarie.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.Prenom != nil {
			if strings.TrimSpace(*body.Prenom) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le prénom ne peut pas être vide")
			}
			salarie.Prenom = strings.TrimSpace(*body.Prenom)
		}
		if body.SalaireNet != nil {
			if *body.SalaireNet <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Le salaire net doit être positif")
			}
			salarie.SalaireNet = *body.SalaireNet
		}
		if body.HeuresParJour != nil {
			if *body.HeuresParJour < 1 || *body.HeuresParJour > 12 {
				return fiber.NewError(fiber.StatusBadRequest, "Les heures par jour doivent être entre 1 et 12")
			}
			salarie.HeuresParJour = *body.HeuresParJour
		}
		if body.Qualification != nil {
			q := models.Qualification(*body.Qualification)
			if !qualificationValide(q) {
				return fiber.NewError(fiber.StatusBadRequest, "Qualification inconnue")
			}
			salarie.Qualification = q
		}
		if body.Actif != nil {
			salarie.Actif = *body.Actif
		}

		// Les champs dérivés suivent systématiquement le net courant
		appliquerCalculsFiscaux(&salarie)

		if err := database.DB.Save(&salarie).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Salarié non mis à jour")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "salarie",
				EntityID:    salarie.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Salarié modifié : %s %s", salarie.Prenom, salarie.Nom),
				Before:      avant,
				After:       salarie,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(salarie)
	}
}

// DELETE /api/salaries/:id
func DeleteSalarieHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var salarie models.Salarie
		if err := database.DB.First(&salarie, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Salarié introuvable")
		}

		// Refuser la suppression si le salarié est affecté à un chantier
		var count int64
		database.DB.Model(&models.ChantierSalarie{}).
			Where("salarie_id = ?", salarie.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ce salarié est affecté à un chantier, désactive-le plutôt")
		}

		if err := database.DB.Delete(&salarie).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "salarie",
				EntityID:    salarie.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Salarié supprimé : %s %s", salarie.Prenom, salarie.Nom),
				Before:      salarie,
				After:       salarie,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(fiber.Map{"message": "Salarié supprimé"})
	}
}
