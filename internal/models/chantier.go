package models

import "time"

type StatutChantier string

const (
	StatutProspect StatutChantier = "prospect"
	StatutDevis    StatutChantier = "devis"
	StatutEnCours  StatutChantier = "en_cours"
	StatutLivre    StatutChantier = "livre"
	StatutFacture  StatutChantier = "facture"
	StatutPaye     StatutChantier = "paye"
)

var StatutsChantier = []StatutChantier{
	StatutProspect, StatutDevis, StatutEnCours,
	StatutLivre, StatutFacture, StatutPaye,
}

// Termine regroupe les statuts où le chantier est livré et le prix de vente
// fait foi pour la marge réalisée.
func (s StatutChantier) Termine() bool {
	return s == StatutLivre || s == StatutFacture || s == StatutPaye
}

type StatutEngagement string

const (
	EngagementPrevu   StatutEngagement = "prevu"
	EngagementEnCours StatutEngagement = "en_cours"
	EngagementTermine StatutEngagement = "termine"
	EngagementFacture StatutEngagement = "facture"
)

var StatutsEngagement = []StatutEngagement{
	EngagementPrevu, EngagementEnCours, EngagementTermine, EngagementFacture,
}

type StatutEcheance string

const (
	EcheancePrevu   StatutEcheance = "prevu"
	EcheanceFacture StatutEcheance = "facture"
	EcheancePaye    StatutEcheance = "paye"
)

// Chantier est la racine d'agrégat du suivi de coûts. Les champs Cout* et
// MargeReelle sont un cache de lecture : la vérité est portée par les lignes
// (présences, matériaux, engagements) et le moteur internal/costing les
// recalcule à chaque consultation financière.
type Chantier struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Reference string `gorm:"size:50;not null;uniqueIndex" json:"reference"`
	Nom       string `gorm:"size:150;not null" json:"nom"`

	ClientNom       string `gorm:"size:150;not null" json:"client_nom"`
	ClientAdresse   string `gorm:"size:255" json:"client_adresse"`
	ClientTelephone string `gorm:"size:30" json:"client_telephone"`
	ClientEmail     string `gorm:"size:150" json:"client_email"`
	ClientSiret     string `gorm:"size:20" json:"client_siret"`

	Adresse   string     `gorm:"size:255;not null" json:"adresse"`
	DateDebut *time.Time `json:"date_debut"`
	DateFin   *time.Time `json:"date_fin"`

	Statut StatutChantier `gorm:"size:20;not null;default:prospect" json:"statut"`

	// Paramètres financiers saisis.
	FraisGeneraux float64  `gorm:"not null;default:15" json:"frais_generaux"` // % du coût direct
	MargeObjectif float64  `gorm:"not null;default:20" json:"marge_objectif"` // %
	PrixVenteHT   *float64 `json:"prix_vente_ht"`
	PrixVenteTTC  *float64 `json:"prix_vente_ttc"`

	// Cache de lecture, jamais accepté en écriture par l'API.
	CoutMainOeuvre    float64  `gorm:"not null;default:0" json:"cout_main_oeuvre"`
	CoutMateriaux     float64  `gorm:"not null;default:0" json:"cout_materiaux"`
	CoutSousTraitance float64  `gorm:"not null;default:0" json:"cout_sous_traitance"`
	CoutTotal         float64  `gorm:"not null;default:0" json:"cout_total"`
	MargeReelle       *float64 `json:"marge_reelle"`

	Notes string `gorm:"size:2000" json:"notes"`

	Salaries      []ChantierSalarie      `gorm:"constraint:OnDelete:CASCADE" json:"salaries"`
	Materiaux     []ChantierMateriau     `gorm:"constraint:OnDelete:CASCADE" json:"materiaux"`
	SousTraitants []ChantierSousTraitant `gorm:"constraint:OnDelete:CASCADE" json:"sous_traitants"`
	Echeancier    []Echeance             `gorm:"constraint:OnDelete:CASCADE" json:"echeancier"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChantierSalarie est l'affectation d'un salarié à un chantier. CoutTotal
// est le total courant des présences, maintenu incrémentalement à chaque
// ajout/suppression de présence avec fiscal.CoutJournalier.
type ChantierSalarie struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	ChantierID uint    `gorm:"index;not null" json:"chantier_id"`
	SalarieID  uint    `gorm:"index;not null" json:"salarie_id"`
	Salarie    Salarie `json:"salarie"`

	CoutTotal float64 `gorm:"not null;default:0" json:"cout_total"`

	Presences []ChantierPresence `gorm:"foreignKey:AffectationID;constraint:OnDelete:CASCADE" json:"presences"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ChantierPresence struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AffectationID uint      `gorm:"index;not null" json:"affectation_id"`
	Date          time.Time `gorm:"not null" json:"date"`

	HeuresPresence        float64 `gorm:"not null" json:"heures_presence"`
	HeuresSupplementaires float64 `gorm:"not null;default:0" json:"heures_supplementaires"`

	// Coût de la journée, figé au moment de la saisie avec le taux horaire
	// du salarié à cette date.
	Cout float64 `gorm:"not null" json:"cout"`

	TacheDescription string `gorm:"size:255" json:"tache_description"`
	Commentaire      string `gorm:"size:255" json:"commentaire"`

	CreatedAt time.Time `json:"created_at"`
}

// ChantierMateriau est une ligne de consommation. CoutHT et CoutTTC sont
// calculés et figés à l'ajout de la ligne : une évolution ultérieure du prix
// catalogue ne modifie pas les lignes existantes.
type ChantierMateriau struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	ChantierID uint     `gorm:"index;not null" json:"chantier_id"`
	MateriauID uint     `gorm:"index;not null" json:"materiau_id"`
	Materiau   Materiau `json:"materiau"`

	Quantite         float64  `gorm:"not null" json:"quantite"`
	PrixUnitaireReel *float64 `json:"prix_unitaire_reel"` // remplace le prix catalogue si présent
	TauxTVA          TauxTVA  `gorm:"size:5;not null;default:'20'" json:"taux_tva"`

	CoutHT  float64 `gorm:"not null" json:"cout_ht"`
	CoutTTC float64 `gorm:"not null" json:"cout_ttc"`

	CreatedAt time.Time `json:"created_at"`
}

// ChantierSousTraitant est un engagement forfaitaire.
type ChantierSousTraitant struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	ChantierID     uint         `gorm:"index;not null" json:"chantier_id"`
	SousTraitantID uint         `gorm:"index;not null" json:"sous_traitant_id"`
	SousTraitant   SousTraitant `json:"sous_traitant"`

	Description    string           `gorm:"size:255;not null" json:"description"`
	DateDebut      *time.Time       `json:"date_debut"`
	DateFin        *time.Time       `json:"date_fin"`
	MontantForfait float64          `gorm:"not null" json:"montant_forfait"`
	Statut         StatutEngagement `gorm:"size:20;not null;default:prevu" json:"statut"`
	Notes          string           `gorm:"size:500" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Echeance est une ligne d'échéancier de facturation.
type Echeance struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	ChantierID uint `gorm:"index;not null" json:"chantier_id"`

	Libelle       string         `gorm:"size:150;not null" json:"libelle"`
	MontantHT     float64        `gorm:"not null" json:"montant_ht"`
	MontantTTC    float64        `gorm:"not null" json:"montant_ttc"`
	DateEcheance  time.Time      `gorm:"not null" json:"date_echeance"`
	Statut        StatutEcheance `gorm:"size:20;not null;default:prevu" json:"statut"`
	NumeroFacture string         `gorm:"size:50" json:"numero_facture"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
