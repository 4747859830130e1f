package materiau

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

type CreateMateriauRequest struct {
	Nom           string  `json:"nom"`
	Reference     string  `json:"reference"`
	PrixUnitaire  float64 `json:"prix_unitaire"`
	Unite         string  `json:"unite"`
	Categorie     string  `json:"categorie"`
	TauxTVA       string  `json:"taux_tva"`
	QuantiteStock float64 `json:"quantite_stock"`
	SeuilAlerte   float64 `json:"seuil_alerte"`
	Fournisseur   string  `json:"fournisseur"`
	Actif         *bool   `json:"actif"`
}

type UpdateMateriauRequest struct {
	Nom           *string  `json:"nom"`
	Reference     *string  `json:"reference"`
	PrixUnitaire  *float64 `json:"prix_unitaire"`
	Unite         *string  `json:"unite"`
	Categorie     *string  `json:"categorie"`
	TauxTVA       *string  `json:"taux_tva"`
	QuantiteStock *float64 `json:"quantite_stock"`
	SeuilAlerte   *float64 `json:"seuil_alerte"`
	Fournisseur   *string  `json:"fournisseur"`
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

func uniteValide(u models.UniteMateriau) bool {
	for _, known := range models.UnitesMateriau {
		if u == known {
			return true
		}
	}
	return false
}

func categorieValide(cat models.CategorieMateriau) bool {
	for _, known := range models.CategoriesMateriau {
		if cat == known {
			return true
		}
	}
	return false
}

// -------------------------
// CRUD Matériaux
// -------------------------

// POST /api/materiaux
func CreateMateriauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMateriauRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if strings.TrimSpace(body.Nom) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Le nom est obligatoire")
		}
		if body.PrixUnitaire <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Le prix unitaire doit être positif")
		}
		if body.QuantiteStock < 0 || body.SeuilAlerte < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stock et seuil d'alerte ne peuvent pas être négatifs")
		}

		unite := models.UniteMateriau(body.Unite)
		if !uniteValide(unite) {
			return fiber.NewError(fiber.StatusBadRequest, "Unité inconnue : "+body.Unite)
		}
		categorie := models.CategorieMateriau(body.Categorie)
		if !categorieValide(categorie) {
			return fiber.NewError(fiber.StatusBadRequest, "Catégorie inconnue : "+body.Categorie)
		}

		// Taux absent = taux normal, résolution unique ici
		taux := models.TauxTVA(body.TauxTVA)
		if body.TauxTVA == "" {
			taux = models.TauxTVADefaut
		}
		if !taux.Valide() {
			return fiber.NewError(fiber.StatusBadRequest, "Taux de TVA inconnu : "+body.TauxTVA)
		}

		materiau := models.Materiau{
			Nom:           strings.TrimSpace(body.Nom),
			Reference:     strings.TrimSpace(body.Reference),
			PrixUnitaire:  body.PrixUnitaire,
			Unite:         unite,
			Categorie:     categorie,
			TauxTVA:       taux,
			QuantiteStock: body.QuantiteStock,
			SeuilAlerte:   body.SeuilAlerte,
			Fournisseur:   strings.TrimSpace(body.Fournisseur),
			Actif:         true,
		}
		if body.Actif != nil {
			materiau.Actif = *body.Actif
		}

		if err := database.DB.Create(&materiau).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Matériau non enregistré")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "materiau",
				EntityID:    materiau.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Matériau ajouté : %s", materiau.Nom),
				Before:      nil,
				After:       materiau,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(materiau)
	}
}

// GET /api/materiaux?actif=true&categorie=plomberie
func ListMateriauxHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Materiau{})
		if c.Query("actif") == "true" {
			dbq = dbq.Where("actif = ?", true)
		}
		if cat := c.Query("categorie"); cat != "" {
			dbq = dbq.Where("categorie = ?", cat)
		}

		var materiaux []models.Materiau
		if err := dbq.Order("nom asc").Find(&materiaux).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Liste des matériaux illisible")
		}

		return c.JSON(materiaux)
	}
}

// GET /api/materiaux/:id
func GetMateriauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materiau models.Materiau
		if err := database.DB.First(&materiau, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Matériau introuvable")
		}
		return c.JSON(materiau)
	}
}

// GET /api/materiaux/alertes — stocks sous le seuil. Purement informatif,
// un stock bas ne bloque jamais l'utilisation sur un chantier.
func AlertesStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materiaux []models.Materiau
		if err := database.DB.
			Where("actif = ? AND seuil_alerte > 0 AND quantite_stock <= seuil_alerte", true).
			Order("nom asc").
			Find(&materiaux).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alertes de stock illisibles")
		}
		return c.JSON(materiaux)
	}
}

// PUT /api/materiaux/:id
func UpdateMateriauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materiau models.Materiau
		if err := database.DB.First(&materiau, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Matériau introuvable")
		}

		avant := materiau

		var body UpdateMateriauRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		if body.Nom != nil {
			if strings.TrimSpace(*body.Nom) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Le nom ne peut pas être vide")
			}
			materiau.Nom = strings.TrimSpace(*body.Nom)
		}
		if body.Reference != nil {
			materiau.Reference = strings.TrimSpace(*body.Reference)
		}
		if body.PrixUnitaire != nil {
			if *body.PrixUnitaire <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Le prix unitaire doit être positif")
			}
			materiau.PrixUnitaire = *body.PrixUnitaire
		}
		if body.Unite != nil {
			u := models.UniteMateriau(*body.Unite)
			if !uniteValide(u) {
				return fiber.NewError(fiber.StatusBadRequest, "Unité inconnue : "+*body.Unite)
			}
			materiau.Unite = u
		}
		if body.Categorie != nil {
			cat := models.CategorieMateriau(*body.Categorie)
			if !categorieValide(cat) {
				return fiber.NewError(fiber.StatusBadRequest, "Catégorie inconnue : "+*body.Categorie)
			}
			materiau.Categorie = cat
		}
		if body.TauxTVA != nil {
			taux := models.TauxTVA(*body.TauxTVA)
			if !taux.Valide() {
				return fiber.NewError(fiber.StatusBadRequest, "Taux de TVA inconnu : "+*body.TauxTVA)
			}
			materiau.TauxTVA = taux
		}
		if body.QuantiteStock != nil {
			if *body.QuantiteStock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Le stock ne peut pas être négatif")
			}
			materiau.QuantiteStock = *body.QuantiteStock
		}
		if body.SeuilAlerte != nil {
			if *body.SeuilAlerte < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Le seuil d'alerte ne peut pas être négatif")
			}
			materiau.SeuilAlerte = *body.SeuilAlerte
		}
		if body.Fournisseur != nil {
			materiau.Fournisseur = strings.TrimSpace(*body.Fournisseur)
		}
		if body.Actif != nil {
			materiau.Actif = *body.Actif
		}

		if err := database.DB.Save(&materiau).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Matériau non mis à jour")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "materiau",
				EntityID:    materiau.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Matériau modifié : %s", materiau.Nom),
				Before:      avant,
				After:       materiau,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(materiau)
	}
}

// DELETE /api/materiaux/:id
func DeleteMateriauHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var materiau models.Materiau
		if err := database.DB.First(&materiau, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Matériau introuvable")
		}

		var count int64
		database.DB.Model(&models.ChantierMateriau{}).
			Where("materiau_id = ?", materiau.ID).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ce matériau est utilisé sur un chantier, désactive-le plutôt")
		}

		if err := database.DB.Delete(&materiau).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Suppression impossible")
		}

		userID, userName, err := getUserInfo(c)
		if err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "materiau",
				EntityID:    materiau.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Matériau supprimé : %s", materiau.Nom),
				Before:      materiau,
				After:       materiau,
			}); logErr != nil {
				fmt.Printf("Audit log non écrit : %v\n", logErr)
			}
		}

		return c.JSON(fiber.Map{"message": "Matériau supprimé"})
	}
}
