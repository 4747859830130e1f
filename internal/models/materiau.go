package models

import (
	"strconv"
	"time"
)

// TauxTVA est l'énumération fermée des taux de TVA applicables ("5.5", "10",
// "20"). Stocké en chaîne pour coller aux taux affichés, converti en valeur
// numérique au moment du calcul.
type TauxTVA string

const (
	TVAReduite       TauxTVA = "5.5"
	TVAIntermediaire TauxTVA = "10"
	TVANormale       TauxTVA = "20"
)

// TauxTVADefaut s'applique quand aucun taux n'est précisé sur une ligne.
const TauxTVADefaut = TVANormale

func (t TauxTVA) Valide() bool {
	switch t {
	case TVAReduite, TVAIntermediaire, TVANormale:
		return true
	}
	return false
}

// Valeur retourne le taux en pourcentage (ex: "5.5" → 5.5).
// Précondition : le taux a été validé à la saisie.
func (t TauxTVA) Valeur() float64 {
	v, _ := strconv.ParseFloat(string(t), 64)
	return v
}

type UniteMateriau string

const (
	UniteM2      UniteMateriau = "m²"
	UniteM3      UniteMateriau = "m³"
	UniteML      UniteMateriau = "ml"
	UniteKg      UniteMateriau = "kg"
	UniteTonne   UniteMateriau = "t"
	UniteSac     UniteMateriau = "sac"
	UniteUnite   UniteMateriau = "unité"
	UniteLot     UniteMateriau = "lot"
	UniteForfait UniteMateriau = "forfait"
)

var UnitesMateriau = []UniteMateriau{
	UniteM2, UniteM3, UniteML, UniteKg, UniteTonne,
	UniteSac, UniteUnite, UniteLot, UniteForfait,
}

type CategorieMateriau string

const (
	CategorieGrosOeuvre       CategorieMateriau = "gros_oeuvre"
	CategorieSecondOeuvre     CategorieMateriau = "second_oeuvre"
	CategoriePlomberie        CategorieMateriau = "plomberie"
	CategorieElectricite      CategorieMateriau = "electricite"
	CategoriePeinture         CategorieMateriau = "peinture"
	CategorieCarrelage        CategorieMateriau = "carrelage"
	CategorieMenuiserie       CategorieMateriau = "menuiserie"
	CategorieIsolation        CategorieMateriau = "isolation"
	CategorieCouverture       CategorieMateriau = "couverture"
	CategorieOutillage        CategorieMateriau = "outillage"
	CategorieLocationMateriel CategorieMateriau = "location_materiel"
)

var CategoriesMateriau = []CategorieMateriau{
	CategorieGrosOeuvre, CategorieSecondOeuvre, CategoriePlomberie,
	CategorieElectricite, CategoriePeinture, CategorieCarrelage,
	CategorieMenuiserie, CategorieIsolation, CategorieCouverture,
	CategorieOutillage, CategorieLocationMateriel,
}

type Materiau struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Nom       string `gorm:"size:150;not null" json:"nom"`
	Reference string `gorm:"size:50;index" json:"reference"`

	PrixUnitaire float64           `gorm:"not null" json:"prix_unitaire"` // HT
	Unite        UniteMateriau     `gorm:"size:20;not null" json:"unite"`
	Categorie    CategorieMateriau `gorm:"size:30;not null" json:"categorie"`
	TauxTVA      TauxTVA           `gorm:"size:5;not null;default:'20'" json:"taux_tva"`

	// Le seuil d'alerte est purement informatif, il ne bloque jamais
	// l'utilisation du matériau sur un chantier.
	QuantiteStock float64 `gorm:"not null;default:0" json:"quantite_stock"`
	SeuilAlerte   float64 `gorm:"not null;default:0" json:"seuil_alerte"`

	Fournisseur string `gorm:"size:150" json:"fournisseur"`
	Actif       bool   `gorm:"not null;default:true" json:"actif"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
