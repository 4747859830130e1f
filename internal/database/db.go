package database

import (
	"log"

	"btp-backend/internal/config"
	"btp-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Connexion à la base de données impossible : %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Salarie{},
		&models.Materiau{},
		&models.SousTraitant{},
		&models.Chantier{},
		&models.ChantierSalarie{},
		&models.ChantierPresence{},
		&models.ChantierMateriau{},
		&models.ChantierSousTraitant{},
		&models.Echeance{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Erreur AutoMigrate : %v", err)
	}

	log.Println("Connexion base de données OK. Migration terminée.")
}
