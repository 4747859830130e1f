package estimation

import (
	"context"
	"fmt"
	"testing"
)

func TestHistoriqueMemoire(t *testing.T) {
	h := NewHistorique(nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := h.Ajouter(ctx, EntreeHistorique{ID: fmt.Sprintf("e%d", i)}); err != nil {
			t.Fatalf("Ajouter : erreur inattendue %v", err)
		}
	}

	entrees, err := h.Lister(ctx)
	if err != nil {
		t.Fatalf("Lister : erreur inattendue %v", err)
	}
	if len(entrees) != 3 {
		t.Fatalf("Lister rend %d entrées, attendu 3", len(entrees))
	}
	// la plus récente d'abord
	if entrees[0].ID != "e2" || entrees[2].ID != "e0" {
		t.Errorf("ordre %q...%q, attendu la plus récente d'abord", entrees[0].ID, entrees[2].ID)
	}
}

func TestHistoriqueMemoireBorne(t *testing.T) {
	h := NewHistorique(nil)
	ctx := context.Background()

	for i := 0; i < TailleHistorique+5; i++ {
		if err := h.Ajouter(ctx, EntreeHistorique{ID: fmt.Sprintf("e%d", i)}); err != nil {
			t.Fatalf("Ajouter : erreur inattendue %v", err)
		}
	}

	entrees, err := h.Lister(ctx)
	if err != nil {
		t.Fatalf("Lister : erreur inattendue %v", err)
	}
	if len(entrees) != TailleHistorique {
		t.Errorf("Lister rend %d entrées, attendu la borne %d", len(entrees), TailleHistorique)
	}
	// les plus anciennes sont évincées
	if entrees[0].ID != fmt.Sprintf("e%d", TailleHistorique+4) {
		t.Errorf("entrée la plus récente %q, attendu e%d", entrees[0].ID, TailleHistorique+4)
	}
}
