package estimation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"btp-backend/internal/postes"
)

func TestClientMoteurLocal(t *testing.T) {
	liste := []PosteTravail{{ID: "a", Charge: 10, TypePoste: postes.TypeComplexe}}

	for _, baseURL := range []string{"", "mock"} {
		client := NewClient(baseURL)
		got, err := client.Estimer(context.Background(), liste)
		if err != nil {
			t.Fatalf("NewClient(%q).Estimer : erreur inattendue %v", baseURL, err)
		}
		if want := Estimer(liste); !reflect.DeepEqual(got, want) {
			t.Errorf("NewClient(%q) : résultat %+v, attendu le moteur local %+v", baseURL, got, want)
		}
	}
}

func TestClientServiceDistant(t *testing.T) {
	attendu := Resultat{
		Postes:       []EstimationPoste{{ID: "a", CoutMateriaux: 688, CoutMainOeuvre: 438}},
		TotalHT:      1126,
		MargeEstimee: 203,
	}

	var recu estimationRequest
	serveur := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/estimation" {
			t.Errorf("requête %s %s, attendu POST /api/estimation", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&recu); err != nil {
			t.Errorf("corps de requête illisible : %v", err)
		}
		json.NewEncoder(w).Encode(attendu)
	}))
	defer serveur.Close()

	client := NewClient(serveur.URL)
	got, err := client.Estimer(context.Background(), []PosteTravail{
		{ID: "a", Nom: "Toiture", Charge: 10, TypePoste: postes.TypeComplexe},
	})
	if err != nil {
		t.Fatalf("erreur inattendue : %v", err)
	}
	if !reflect.DeepEqual(got, attendu) {
		t.Errorf("résultat %+v, attendu %+v", got, attendu)
	}

	// Le contrat de payload porte la charge brute, le coefficient appliqué
	// et la charge pondérée.
	if len(recu.Postes) != 1 {
		t.Fatalf("payload : %d postes, attendu 1", len(recu.Postes))
	}
	p := recu.Postes[0]
	if p.Charge != 10 || p.Coefficient != 1.25 || p.ChargePonderee != 12.5 {
		t.Errorf("payload = charge %v / coefficient %v / pondérée %v, attendu 10 / 1.25 / 12.5",
			p.Charge, p.Coefficient, p.ChargePonderee)
	}
}

func TestClientStatutErreur(t *testing.T) {
	serveur := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer serveur.Close()

	client := NewClient(serveur.URL)
	_, err := client.Estimer(context.Background(), []PosteTravail{{ID: "a", Charge: 1}})
	if err == nil {
		t.Fatal("statut 500 : erreur attendue, reçu nil")
	}
}

func TestClientServiceInjoignable(t *testing.T) {
	// Serveur fermé immédiatement : l'appel doit échouer sans retry.
	serveur := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serveur.Close()

	client := NewClient(serveur.URL)
	if _, err := client.Estimer(context.Background(), nil); err == nil {
		t.Fatal("service injoignable : erreur attendue, reçu nil")
	}
}
