package estimation

import (
	"log"
	"strings"
	"time"

	"btp-backend/internal/postes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// -------------------------
// Request/Response Types
// -------------------------

type PosteRequest struct {
	ID        string  `json:"id"`
	Nom       string  `json:"nom"`
	Charge    float64 `json:"charge"`
	TypePoste string  `json:"type_poste"`
}

type EstimerRequest struct {
	Postes        []PosteRequest `json:"postes"`
	MargeObjectif float64        `json:"marge_objectif"`
}

// POST /api/estimations
func EstimerHandler(client *Client, historique *Historique) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body EstimerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Données invalides")
		}

		// Validation : le moteur suppose des charges non négatives et des
		// types connus, on rejette ici.
		liste := make([]PosteTravail, 0, len(body.Postes))
		for _, p := range body.Postes {
			if strings.TrimSpace(p.Nom) == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Chaque poste doit avoir un nom")
			}
			if p.Charge < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "La charge d'un poste ne peut pas être négative")
			}
			tp := postes.TypePoste(p.TypePoste)
			if !postes.Valide(tp) {
				return fiber.NewError(fiber.StatusBadRequest, "Type de poste inconnu : "+p.TypePoste)
			}
			id := p.ID
			if id == "" {
				id = uuid.NewString()
			}
			liste = append(liste, PosteTravail{
				ID:        id,
				Nom:       strings.TrimSpace(p.Nom),
				Charge:    p.Charge,
				TypePoste: tp,
			})
		}
		if body.MargeObjectif < 0 || body.MargeObjectif > 100 {
			return fiber.NewError(fiber.StatusBadRequest, "La marge objectif doit être entre 0 et 100")
		}

		result, err := client.Estimer(c.Context(), liste)
		if err != nil {
			// Échec simple et descriptif, pas de retry : l'appelant décide
			// s'il retente ou retombe sur une estimation passée.
			return fiber.NewError(fiber.StatusBadGateway, "Estimation impossible : "+err.Error())
		}

		entree := EntreeHistorique{
			ID:            uuid.NewString(),
			CreatedAt:     time.Now(),
			Postes:        liste,
			Estimation:    result,
			MargeObjectif: body.MargeObjectif,
		}
		if err := historique.Ajouter(c.Context(), entree); err != nil {
			log.Printf("Historique d'estimation non enregistré : %v", err)
		}

		return c.JSON(result)
	}
}

// GET /api/estimations/history
func HistoriqueHandler(historique *Historique) fiber.Handler {
	return func(c *fiber.Ctx) error {
		entrees, err := historique.Lister(c.Context())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Historique illisible")
		}
		return c.JSON(entrees)
	}
}

// GET /api/postes/types
func TypesPostesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(postes.Definitions())
	}
}
