package estimation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"btp-backend/internal/postes"
)

const (
	estimationPath     = "/api/estimation"
	defaultHTTPTimeout = 30 * time.Second
)

// Client est la frontière avec le service d'estimation. L'URL de base vient
// de la configuration, résolue une seule fois au démarrage. Vide ou "mock" :
// le moteur local répond. Sinon l'appel part en un seul coup, sans retry ;
// l'échec remonte tel quel à l'appelant.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "mock" {
		baseURL = ""
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
}

// postePayload est le poste sérialisé vers le service distant : il porte la
// charge brute, la charge pondérée et le coefficient appliqué pour que le
// calcul soit auditable côté distant. Cette forme fait partie du contrat,
// à préserver si le transport change.
type postePayload struct {
	ID             string           `json:"id"`
	Nom            string           `json:"nom"`
	Charge         float64          `json:"charge"`
	TypePoste      postes.TypePoste `json:"type_poste,omitempty"`
	Coefficient    float64          `json:"coefficient"`
	ChargePonderee float64          `json:"charge_ponderee"`
}

type estimationRequest struct {
	Postes []postePayload `json:"postes"`
}

// Estimer rend l'estimation des postes, via le moteur local ou le service
// distant selon la configuration.
func (c *Client) Estimer(ctx context.Context, liste []PosteTravail) (Resultat, error) {
	if c.baseURL == "" {
		return Estimer(liste), nil
	}

	payload := estimationRequest{Postes: make([]postePayload, 0, len(liste))}
	for _, p := range liste {
		payload.Postes = append(payload.Postes, postePayload{
			ID:             p.ID,
			Nom:            p.Nom,
			Charge:         p.Charge,
			TypePoste:      p.TypePoste,
			Coefficient:    postes.Coefficient(p.TypePoste),
			ChargePonderee: postes.ChargePonderee(p.Charge, p.TypePoste),
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Resultat{}, fmt.Errorf("sérialisation de la demande d'estimation : %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+estimationPath, bytes.NewReader(body))
	if err != nil {
		return Resultat{}, fmt.Errorf("préparation de la requête d'estimation : %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Resultat{}, fmt.Errorf("appel du service d'estimation : %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Resultat{}, fmt.Errorf("service d'estimation : statut %d", resp.StatusCode)
	}

	var result Resultat
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Resultat{}, fmt.Errorf("lecture de la réponse d'estimation : %w", err)
	}
	return result, nil
}
