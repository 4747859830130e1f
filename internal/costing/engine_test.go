package costing

import (
	"math"
	"reflect"
	"testing"

	"btp-backend/internal/models"
)

func presque(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCalculCoutMateriau(t *testing.T) {
	tests := []struct {
		nom          string
		prixUnitaire float64
		quantite     float64
		taux         models.TauxTVA
		wantHT       float64
		wantTVA      float64
		wantTTC      float64
	}{
		{"taux normal", 10, 5, models.TVANormale, 50, 10, 60},
		{"taux réduit", 100, 1, models.TVAReduite, 100, 5.5, 105.5},
		{"taux intermédiaire", 20, 10, models.TVAIntermediaire, 200, 20, 220},
		{"quantité nulle", 10, 0, models.TVANormale, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			got := CalculCoutMateriau(tt.prixUnitaire, tt.quantite, tt.taux)
			if !presque(got.PrixHT, tt.wantHT) || !presque(got.MontantTVA, tt.wantTVA) || !presque(got.TotalTTC, tt.wantTTC) {
				t.Errorf("CalculCoutMateriau(%v, %v, %q) = HT %v / TVA %v / TTC %v, attendu %v / %v / %v",
					tt.prixUnitaire, tt.quantite, tt.taux,
					got.PrixHT, got.MontantTVA, got.TotalTTC,
					tt.wantHT, tt.wantTVA, tt.wantTTC)
			}
		})
	}
}

func chantierDeTest() *models.Chantier {
	prixVente := 3000.0
	return &models.Chantier{
		FraisGeneraux: 15,
		MargeObjectif: 20,
		PrixVenteTTC:  &prixVente,
		Salaries: []models.ChantierSalarie{
			{CoutTotal: 600},
			{CoutTotal: 400},
		},
		Materiaux: []models.ChantierMateriau{
			{CoutHT: 500, CoutTTC: 600},
		},
		SousTraitants: []models.ChantierSousTraitant{
			{MontantForfait: 400},
		},
	}
}

func TestCoutsDuChantier(t *testing.T) {
	couts := CoutsDuChantier(chantierDeTest())

	if !presque(couts.CoutMainOeuvre, 1000) {
		t.Errorf("CoutMainOeuvre = %v, attendu 1000", couts.CoutMainOeuvre)
	}
	if !presque(couts.CoutMateriaux, 600) {
		t.Errorf("CoutMateriaux = %v, attendu 600", couts.CoutMateriaux)
	}
	if !presque(couts.CoutSousTraitance, 400) {
		t.Errorf("CoutSousTraitance = %v, attendu 400", couts.CoutSousTraitance)
	}
	if !presque(couts.CoutDirect, 2000) {
		t.Errorf("CoutDirect = %v, attendu 2000", couts.CoutDirect)
	}
	// frais généraux 15% du direct
	if !presque(couts.FraisGeneraux, 300) {
		t.Errorf("FraisGeneraux = %v, attendu 300", couts.FraisGeneraux)
	}
	if !presque(couts.CoutTotal, 2300) {
		t.Errorf("CoutTotal = %v, attendu 2300", couts.CoutTotal)
	}
	// prix recommandé = total * 1.20
	if !presque(couts.PrixVenteRecommande, 2760) {
		t.Errorf("PrixVenteRecommande = %v, attendu 2760", couts.PrixVenteRecommande)
	}
	// marge réelle = (3000 - 2300) / 3000 * 100
	if couts.MargeReelle == nil {
		t.Fatal("MargeReelle = nil, un prix de vente est pourtant saisi")
	}
	if !presque(*couts.MargeReelle, 700.0/3000*100) {
		t.Errorf("MargeReelle = %v, attendu %v", *couts.MargeReelle, 700.0/3000*100)
	}
}

func TestCoutsDuChantierIdempotent(t *testing.T) {
	c := chantierDeTest()
	premier := CoutsDuChantier(c)
	second := CoutsDuChantier(c)
	if !reflect.DeepEqual(premier, second) {
		t.Errorf("deux calculs sur le même chantier divergent : %+v vs %+v", premier, second)
	}
}

func TestCoutsDuChantierSansLignes(t *testing.T) {
	couts := CoutsDuChantier(&models.Chantier{FraisGeneraux: 15, MargeObjectif: 20})

	if couts.CoutDirect != 0 || couts.CoutTotal != 0 || couts.PrixVenteRecommande != 0 {
		t.Errorf("chantier vide : coûts non nuls %+v", couts)
	}
	if couts.MargeReelle != nil {
		t.Errorf("chantier vide : MargeReelle = %v, attendu nil", *couts.MargeReelle)
	}
}

func TestMargeReelleAbsenteSansPrixDeVente(t *testing.T) {
	zero := 0.0
	tests := []struct {
		nom  string
		prix *float64
	}{
		{"prix absent", nil},
		{"prix à zéro", &zero},
	}

	for _, tt := range tests {
		t.Run(tt.nom, func(t *testing.T) {
			c := chantierDeTest()
			c.PrixVenteTTC = tt.prix
			if couts := CoutsDuChantier(c); couts.MargeReelle != nil {
				t.Errorf("MargeReelle = %v, attendu nil", *couts.MargeReelle)
			}
		})
	}
}

func TestSimulerVariations(t *testing.T) {
	c := chantierDeTest()
	avant := CoutsDuChantier(c)

	simule := SimulerVariations(c, Variations{PrixMateriaux: 10})

	// +10% sur les matériaux uniquement
	if !presque(simule.CoutMateriaux, 660) {
		t.Errorf("CoutMateriaux simulé = %v, attendu 660", simule.CoutMateriaux)
	}
	if !presque(simule.CoutMainOeuvre, avant.CoutMainOeuvre) {
		t.Errorf("CoutMainOeuvre simulé = %v, la main d'œuvre ne devait pas bouger", simule.CoutMainOeuvre)
	}

	// le chantier d'origine reste intact
	if apres := CoutsDuChantier(c); !reflect.DeepEqual(avant, apres) {
		t.Errorf("la simulation a modifié le chantier d'origine : %+v vs %+v", avant, apres)
	}
}

func TestSimulerVariationsMainOeuvre(t *testing.T) {
	c := chantierDeTest()

	// 10% d'absences à rattraper, sans gain de productivité :
	// la main d'œuvre coûte 10% de plus.
	simule := SimulerVariations(c, Variations{Absences: 10})
	if !presque(simule.CoutMainOeuvre, 1100) {
		t.Errorf("CoutMainOeuvre simulé = %v, attendu 1100", simule.CoutMainOeuvre)
	}

	// 25% de productivité en plus : le coût main d'œuvre est divisé par 1.25.
	simule = SimulerVariations(c, Variations{Productivite: 25})
	if !presque(simule.CoutMainOeuvre, 800) {
		t.Errorf("CoutMainOeuvre simulé = %v, attendu 800", simule.CoutMainOeuvre)
	}
}

func TestCalculKPIChantier(t *testing.T) {
	c := chantierDeTest()
	c.Salaries[0].Presences = []models.ChantierPresence{
		{HeuresPresence: 8, HeuresSupplementaires: 1},
		{HeuresPresence: 7},
	}
	c.Salaries[1].Presences = []models.ChantierPresence{
		{HeuresPresence: 5, HeuresSupplementaires: 2},
	}

	kpi := CalculKPIChantier(c)

	if kpi.NombreJoursTravailles != 3 {
		t.Errorf("NombreJoursTravailles = %d, attendu 3", kpi.NombreJoursTravailles)
	}
	if !presque(kpi.TotalHeures, 20) {
		t.Errorf("TotalHeures = %v, attendu 20", kpi.TotalHeures)
	}
	if !presque(kpi.TotalHeuresSupp, 3) {
		t.Errorf("TotalHeuresSupp = %v, attendu 3", kpi.TotalHeuresSupp)
	}
	if !presque(kpi.HeuresMoyennesParJour, 20.0/3) {
		t.Errorf("HeuresMoyennesParJour = %v, attendu %v", kpi.HeuresMoyennesParJour, 20.0/3)
	}
	// coût main d'œuvre 1000 sur 20 heures
	if !presque(kpi.CoutHoraireMoyen, 50) {
		t.Errorf("CoutHoraireMoyen = %v, attendu 50", kpi.CoutHoraireMoyen)
	}
}

func TestCalculKPIChantierSansPresences(t *testing.T) {
	kpi := CalculKPIChantier(&models.Chantier{})
	if kpi.HeuresMoyennesParJour != 0 || kpi.CoutHoraireMoyen != 0 || kpi.Rentabilite != 0 {
		t.Errorf("chantier sans présences : KPIs non nuls %+v", kpi)
	}
}
