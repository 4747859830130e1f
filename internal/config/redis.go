package config

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// NewRedisClient ouvre la connexion Redis pour l'historique d'estimations.
// Redis est optionnel : sans adresse configurée ou si le ping échoue, on
// retourne nil et l'appelant retombe sur un historique en mémoire.
func NewRedisClient(cfg *Config) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("[WARN] Redis injoignable (%v), historique d'estimations en mémoire", err)
		return nil
	}
	log.Println("Connexion Redis OK")
	return rdb
}
