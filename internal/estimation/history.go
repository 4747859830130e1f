package estimation

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
)

// TailleHistorique borne le nombre d'estimations conservées.
const TailleHistorique = 50

const historiqueKey = "estimations:historique"

// EntreeHistorique est une estimation passée, avec ses entrées.
type EntreeHistorique struct {
	ID            string         `json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	Postes        []PosteTravail `json:"postes"`
	Estimation    Resultat       `json:"estimation"`
	MargeObjectif float64        `json:"marge_objectif"`
}

// Historique conserve les estimations récentes dans Redis quand il est
// configuré, sinon dans une liste mémoire bornée (perdue au redémarrage).
type Historique struct {
	rdb *redis.Client

	mu  sync.Mutex
	mem []EntreeHistorique
}

func NewHistorique(rdb *redis.Client) *Historique {
	return &Historique{rdb: rdb}
}

func (h *Historique) Ajouter(ctx context.Context, e EntreeHistorique) error {
	if h.rdb == nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.mem = append([]EntreeHistorique{e}, h.mem...)
		if len(h.mem) > TailleHistorique {
			h.mem = h.mem[:TailleHistorique]
		}
		return nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := h.rdb.TxPipeline()
	pipe.LPush(ctx, historiqueKey, data)
	pipe.LTrim(ctx, historiqueKey, 0, TailleHistorique-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (h *Historique) Lister(ctx context.Context) ([]EntreeHistorique, error) {
	if h.rdb == nil {
		h.mu.Lock()
		defer h.mu.Unlock()
		out := make([]EntreeHistorique, len(h.mem))
		copy(out, h.mem)
		return out, nil
	}

	raws, err := h.rdb.LRange(ctx, historiqueKey, 0, TailleHistorique-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]EntreeHistorique, 0, len(raws))
	for _, raw := range raws {
		var e EntreeHistorique
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			continue // entrée corrompue, on l'ignore
		}
		out = append(out, e)
	}
	return out, nil
}
