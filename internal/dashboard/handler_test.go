package dashboard

import (
	"testing"
	"time"

	"btp-backend/internal/models"
)

func TestEstEnRetard(t *testing.T) {
	maintenant := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	hier := maintenant.AddDate(0, 0, -1)
	demain := maintenant.AddDate(0, 0, 1)

	tests := []struct {
		nom     string
		statut  models.StatutChantier
		dateFin *time.Time
		want    bool
	}{
		{"en cours, date dépassée", models.StatutEnCours, &hier, true},
		{"devis, date dépassée", models.StatutDevis, &hier, true},
		{"en cours, date à venir", models.StatutEnCours, &demain, false},
		{"sans date de fin", models.StatutEnCours, nil, false},
		{"livré, date dépassée", models.StatutLivre, &hier, false},
		{"facturé, date dépassée", models.StatutFacture, &hier, false},
		{"payé, date dépassée", models.StatutPaye, &hier, false},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			ch := models.Chantier{Statut: tt.statut, DateFin: tt.dateFin}
			if got := estEnRetard(&ch, maintenant); got != tt.want {
				t.Errorf("estEnRetard(%s, fin %v) = %v, attendu %v", tt.statut, tt.dateFin, got, tt.want)
			}
		})
	}
}
