package models

import "time"

type Qualification string

const (
	QualificationOuvrier           Qualification = "ouvrier"
	QualificationChefEquipe        Qualification = "chef_equipe"
	QualificationConducteurTravaux Qualification = "conducteur_travaux"
	QualificationIngenieur         Qualification = "ingenieur"
)

var Qualifications = []Qualification{
	QualificationOuvrier,
	QualificationChefEquipe,
	QualificationConducteurTravaux,
	QualificationIngenieur,
}

type Salarie struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Nom    string `gorm:"size:100;not null" json:"nom"`
	Prenom string `gorm:"size:100;not null" json:"prenom"`

	// Seul le salaire net est saisi. Brut, charges, coût total et taux
	// horaire sont toujours recalculés côté serveur (internal/fiscal),
	// jamais acceptés du client.
	SalaireNet        float64 `gorm:"not null" json:"salaire_net"`
	SalaireBrut       float64 `gorm:"not null" json:"salaire_brut"`
	ChargesPatronales float64 `gorm:"not null" json:"charges_patronales"`
	CoutTotal         float64 `gorm:"not null" json:"cout_total"`
	TauxHoraire       float64 `gorm:"not null" json:"taux_horaire"`

	HeuresParJour float64       `gorm:"not null;default:7" json:"heures_par_jour"`
	Qualification Qualification `gorm:"size:30;not null;default:ouvrier" json:"qualification"`
	DateEmbauche  *time.Time    `json:"date_embauche"`
	Actif         bool          `gorm:"not null;default:true" json:"actif"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
