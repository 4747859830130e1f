package models

import "time"

type Specialite string

const (
	SpecialitePlomberie   Specialite = "plomberie"
	SpecialiteElectricite Specialite = "electricite"
	SpecialitePeinture    Specialite = "peinture"
	SpecialiteCarrelage   Specialite = "carrelage"
	SpecialiteMenuiserie  Specialite = "menuiserie"
	SpecialiteIsolation   Specialite = "isolation"
	SpecialiteCouverture  Specialite = "couverture"
	SpecialiteCloisons    Specialite = "cloisons"
	SpecialiteSols        Specialite = "sols"
	SpecialiteFacades     Specialite = "facades"
	SpecialiteAutre       Specialite = "autre"
)

var Specialites = []Specialite{
	SpecialitePlomberie, SpecialiteElectricite, SpecialitePeinture,
	SpecialiteCarrelage, SpecialiteMenuiserie, SpecialiteIsolation,
	SpecialiteCouverture, SpecialiteCloisons, SpecialiteSols,
	SpecialiteFacades, SpecialiteAutre,
}

// SousTraitant est un annuaire : le chiffrage se fait par engagement sur
// chaque chantier (ChantierSousTraitant), pas sur la fiche.
type SousTraitant struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Nom        string     `gorm:"size:100;not null" json:"nom"`
	Entreprise string     `gorm:"size:150;not null" json:"entreprise"`
	Specialite Specialite `gorm:"size:30;not null" json:"specialite"`

	Telephone string `gorm:"size:30" json:"telephone"`
	Email     string `gorm:"size:150" json:"email"`
	Adresse   string `gorm:"size:255" json:"adresse"`
	Siret     string `gorm:"size:20" json:"siret"`

	Actif bool   `gorm:"not null;default:true" json:"actif"`
	Notes string `gorm:"size:1000" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
