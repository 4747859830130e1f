// Package postes définit les types de postes de travail et leurs coefficients
// de complexité, utilisés pour pondérer les charges horaires des estimations.
package postes

import "math"

type TypePoste string

const (
	TypeLeger    TypePoste = "leger"
	TypeStandard TypePoste = "standard"
	TypeComplexe TypePoste = "complexe"
	TypeExpert   TypePoste = "expert"
)

// Ordre d'affichage des types, du plus simple au plus technique.
var TypesOrdonnes = []TypePoste{TypeLeger, TypeStandard, TypeComplexe, TypeExpert}

type Definition struct {
	Type        TypePoste `json:"type"`
	Label       string    `json:"label"`
	Coefficient float64   `json:"coefficient"`
	Description string    `json:"description"`
}

var definitions = map[TypePoste]Definition{
	TypeLeger: {
		Type:        TypeLeger,
		Label:       "Faible complexité",
		Coefficient: 0.85,
		Description: "Tâches simples avec peu de risques et une technicité limitée.",
	},
	TypeStandard: {
		Type:        TypeStandard,
		Label:       "Standard",
		Coefficient: 1.0,
		Description: "Postes courants sans difficulté particulière.",
	},
	TypeComplexe: {
		Type:        TypeComplexe,
		Label:       "Complexe",
		Coefficient: 1.25,
		Description: "Travaux nécessitant une coordination accrue ou des compétences spécifiques.",
	},
	TypeExpert: {
		Type:        TypeExpert,
		Label:       "Expert",
		Coefficient: 1.5,
		Description: "Interventions hautement techniques avec un niveau d'expertise élevé.",
	},
}

// Definitions retourne les définitions dans l'ordre des types.
func Definitions() []Definition {
	defs := make([]Definition, 0, len(TypesOrdonnes))
	for _, t := range TypesOrdonnes {
		defs = append(defs, definitions[t])
	}
	return defs
}

// Valide indique si le type existe. Le type vide est accepté (défaut standard).
func Valide(t TypePoste) bool {
	if t == "" {
		return true
	}
	_, ok := definitions[t]
	return ok
}

// Coefficient retourne le coefficient du type. Un type vide ou inconnu
// retombe sur le coefficient standard (1.0), jamais d'erreur.
func Coefficient(t TypePoste) float64 {
	if def, ok := definitions[t]; ok {
		return def.Coefficient
	}
	return definitions[TypeStandard].Coefficient
}

// ChargePonderee retourne la charge horaire pondérée par le coefficient du
// type, arrondie à 2 décimales (arrondi commercial).
func ChargePonderee(charge float64, t TypePoste) float64 {
	return math.Round(charge*Coefficient(t)*100) / 100
}
