package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// EstimationAPIBaseURL est résolue une seule fois au démarrage puis
	// injectée dans le client d'estimation. Vide ou "mock" = moteur local.
	EstimationAPIBaseURL string

	// RedisAddr active l'historique d'estimations dans Redis. Vide =
	// historique en mémoire uniquement.
	RedisAddr     string
	RedisPassword string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Pas de fichier .env, utilisation des variables d'environnement")
	}

	cfg := &Config{
		HTTPPort:             getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=btp port=5432 sslmode=disable"),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		CORSOrigins:          getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		EstimationAPIBaseURL: getEnv("ESTIMATION_API_BASE_URL", ""),
		RedisAddr:            getEnv("REDIS_ADDR", ""),
		RedisPassword:        getEnv("REDIS_PASSWORD", ""),
	}

	// Contrôles de sécurité production
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] La variable d'environnement JWT_SECRET n'est pas définie ! Obligatoire en production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET doit faire au moins 32 caractères ! Risque de sécurité.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=btp port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN utilise la valeur par défaut, définis ta propre connexion Postgres en production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS utilise la valeur par défaut, définis ton propre domaine en production.")
	}
	if cfg.EstimationAPIBaseURL == "" || cfg.EstimationAPIBaseURL == "mock" {
		log.Println("[INFO] ESTIMATION_API_BASE_URL absente ou 'mock' : estimations via le moteur local.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
