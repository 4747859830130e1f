package main

import (
	"log"
	"strings"

	"btp-backend/internal/audit"
	"btp-backend/internal/auth"
	"btp-backend/internal/chantier"
	"btp-backend/internal/config"
	"btp-backend/internal/dashboard"
	"btp-backend/internal/database"
	"btp-backend/internal/estimation"
	"btp-backend/internal/materiau"
	"btp-backend/internal/models"
	"btp-backend/internal/salarie"
	"btp-backend/internal/soustraitant"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	rdb := config.NewRedisClient(cfg)
	historique := estimation.NewHistorique(rdb)
	estimClient := estimation.NewClient(cfg.EstimationAPIBaseURL)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Erreur inattendue :", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erreur serveur inattendue",
			})
		},
	})

	// CORS : origines en liste séparée par des virgules
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Routes réservées admin
	protected.Post("/users", auth.RequireRole(models.RoleAdmin), auth.CreateUserHandler())
	protected.Post("/audit-logs/:id/undo", auth.RequireRole(models.RoleAdmin), audit.UndoHandler())

	// Salariés
	protected.Post("/salaries", salarie.CreateSalarieHandler())
	protected.Get("/salaries", salarie.ListSalariesHandler())
	protected.Get("/salaries/:id", salarie.GetSalarieHandler())
	protected.Put("/salaries/:id", salarie.UpdateSalarieHandler())
	protected.Delete("/salaries/:id", salarie.DeleteSalarieHandler())

	// Matériaux
	protected.Post("/materiaux", materiau.CreateMateriauHandler())
	protected.Get("/materiaux", materiau.ListMateriauxHandler())
	protected.Get("/materiaux/alertes", materiau.AlertesStockHandler())
	protected.Get("/materiaux/:id", materiau.GetMateriauHandler())
	protected.Put("/materiaux/:id", materiau.UpdateMateriauHandler())
	protected.Delete("/materiaux/:id", materiau.DeleteMateriauHandler())

	// Sous-traitants
	protected.Post("/sous-traitants", soustraitant.CreateSousTraitantHandler())
	protected.Get("/sous-traitants", soustraitant.ListSousTraitantsHandler())
	protected.Get("/sous-traitants/:id", soustraitant.GetSousTraitantHandler())
	protected.Put("/sous-traitants/:id", soustraitant.UpdateSousTraitantHandler())
	protected.Delete("/sous-traitants/:id", soustraitant.DeleteSousTraitantHandler())

	// Chantiers
	protected.Post("/chantiers", chantier.CreateChantierHandler())
	protected.Get("/chantiers", chantier.ListChantiersHandler())
	protected.Get("/chantiers/:id", chantier.GetChantierHandler())
	protected.Put("/chantiers/:id", chantier.UpdateChantierHandler())
	protected.Delete("/chantiers/:id", chantier.DeleteChantierHandler())

	// Affectations et présences
	protected.Post("/chantiers/:id/salaries", chantier.AffecterSalarieHandler())
	protected.Delete("/chantiers/:id/salaries/:affectationId", chantier.RetirerSalarieHandler())
	protected.Post("/chantiers/:id/salaries/:affectationId/presences", chantier.AjouterPresenceHandler())
	protected.Delete("/chantiers/:id/salaries/:affectationId/presences/:presenceId", chantier.SupprimerPresenceHandler())

	// Lignes matériaux
	protected.Post("/chantiers/:id/materiaux", chantier.AjouterMateriauHandler())
	protected.Delete("/chantiers/:id/materiaux/:ligneId", chantier.SupprimerMateriauHandler())

	// Engagements sous-traitants
	protected.Post("/chantiers/:id/sous-traitants", chantier.AjouterEngagementHandler())
	protected.Put("/chantiers/:id/sous-traitants/:engagementId", chantier.UpdateEngagementHandler())
	protected.Delete("/chantiers/:id/sous-traitants/:engagementId", chantier.SupprimerEngagementHandler())

	// Échéancier
	protected.Post("/chantiers/:id/echeances", chantier.AjouterEcheanceHandler())
	protected.Put("/chantiers/:id/echeances/:echeanceId", chantier.UpdateEcheanceHandler())
	protected.Delete("/chantiers/:id/echeances/:echeanceId", chantier.SupprimerEcheanceHandler())

	// Finances chantier
	protected.Get("/chantiers/:id/couts", chantier.CoutsHandler())
	protected.Get("/chantiers/:id/kpis", chantier.KPIsHandler())
	protected.Post("/chantiers/:id/simulation", chantier.SimulationHandler())
	protected.Get("/chantiers/:id/rapport", chantier.RapportHandler())
	protected.Get("/chantiers/:id/export", chantier.ExportChantierHandler())

	// Estimation rapide
	protected.Post("/estimations", estimation.EstimerHandler(estimClient, historique))
	protected.Get("/estimations/history", estimation.HistoriqueHandler(historique))
	protected.Get("/postes/types", estimation.TypesPostesHandler())

	// Dashboard et exports globaux
	protected.Get("/dashboard", dashboard.DashboardHandler())
	protected.Get("/export", chantier.ExportBackupHandler())

	// Audit logs
	protected.Get("/audit-logs", audit.ListAuditLogsHandler())

	log.Println("Serveur démarré sur le port", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
