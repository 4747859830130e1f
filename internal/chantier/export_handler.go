package chantier

import (
	"fmt"
	"time"

	"btp-backend/internal/costing"
	"btp-backend/internal/database"
	"btp-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

func dateOuVide(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format("2006-01-02")
}

// GET /api/chantiers/:id/export — classeur Excel complet du chantier :
// synthèse financière, présences, matériaux, sous-traitance, échéancier.
func ExportChantierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		chantier, err := chargerChantier(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Chantier introuvable")
		}

		couts := costing.CoutsDuChantier(chantier)
		kpis := costing.CalculKPIChantier(chantier)

		f := excelize.NewFile()
		defer f.Close()

		// Feuille Synthèse
		synthese := "Synthèse"
		f.SetSheetName("Sheet1", synthese)
		lignes := [][]interface{}{
			{"Référence", chantier.Reference},
			{"Chantier", chantier.Nom},
			{"Client", chantier.ClientNom},
			{"Adresse", chantier.Adresse},
			{"Statut", string(chantier.Statut)},
			{"Date de début", dateOuVide(chantier.DateDebut)},
			{"Date de fin", dateOuVide(chantier.DateFin)},
			{},
			{"Coût main d'œuvre (€)", couts.CoutMainOeuvre},
			{"Coût matériaux TTC (€)", couts.CoutMateriaux},
			{"Coût sous-traitance (€)", couts.CoutSousTraitance},
			{"Coût direct (€)", couts.CoutDirect},
			{fmt.Sprintf("Frais généraux (%.0f%%) (€)", chantier.FraisGeneraux), couts.FraisGeneraux},
			{"Coût total (€)", couts.CoutTotal},
			{"Prix de vente recommandé (€)", couts.PrixVenteRecommande},
			{},
			{"Jours travaillés", kpis.NombreJoursTravailles},
			{"Total heures", kpis.TotalHeures},
			{"Heures supplémentaires", kpis.TotalHeuresSupp},
			{"Coût horaire moyen (€)", kpis.CoutHoraireMoyen},
		}
		if chantier.PrixVenteTTC != nil {
			lignes = append(lignes, []interface{}{"Prix de vente TTC (€)", *chantier.PrixVenteTTC})
		}
		if couts.MargeReelle != nil {
			lignes = append(lignes, []interface{}{"Marge réelle (%)", *couts.MargeReelle})
		}
		for i, ligne := range lignes {
			for j, val := range ligne {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
				f.SetCellValue(synthese, cell, val)
			}
		}
		f.SetColWidth(synthese, "A", "A", 32)
		f.SetColWidth(synthese, "B", "B", 24)

		// Feuille Présences
		presences := "Présences"
		f.NewSheet(presences)
		entetes := []interface{}{"Date", "Salarié", "Heures", "Heures supp.", "Coût (€)", "Tâche"}
		for j, val := range entetes {
			cell, _ := excelize.CoordinatesToCellName(j+1, 1)
			f.SetCellValue(presences, cell, val)
		}
		row := 2
		for _, cs := range chantier.Salaries {
			nom := fmt.Sprintf("%s %s", cs.Salarie.Prenom, cs.Salarie.Nom)
			for _, p := range cs.Presences {
				valeurs := []interface{}{
					p.Date.Format("2006-01-02"), nom,
					p.HeuresPresence, p.HeuresSupplementaires, p.Cout, p.TacheDescription,
				}
				for j, val := range valeurs {
					cell, _ := excelize.CoordinatesToCellName(j+1, row)
					f.SetCellValue(presences, cell, val)
				}
				row++
			}
		}

		// Feuille Matériaux
		materiaux := "Matériaux"
		f.NewSheet(materiaux)
		entetes = []interface{}{"Matériau", "Quantité", "Unité", "Prix unitaire (€)", "TVA (%)", "Coût HT (€)", "Coût TTC (€)"}
		for j, val := range entetes {
			cell, _ := excelize.CoordinatesToCellName(j+1, 1)
			f.SetCellValue(materiaux, cell, val)
		}
		for i, cm := range chantier.Materiaux {
			prixUnitaire := cm.Materiau.PrixUnitaire
			if cm.PrixUnitaireReel != nil {
				prixUnitaire = *cm.PrixUnitaireReel
			}
			valeurs := []interface{}{
				cm.Materiau.Nom, cm.Quantite, string(cm.Materiau.Unite),
				prixUnitaire, cm.TauxTVA.Valeur(), cm.CoutHT, cm.CoutTTC,
			}
			for j, val := range valeurs {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(materiaux, cell, val)
			}
		}

		// Feuille Sous-traitance
		soustraitance := "Sous-traitance"
		f.NewSheet(soustraitance)
		entetes = []interface{}{"Entreprise", "Description", "Montant forfait (€)", "Statut", "Début", "Fin"}
		for j, val := range entetes {
			cell, _ := excelize.CoordinatesToCellName(j+1, 1)
			f.SetCellValue(soustraitance, cell, val)
		}
		for i, cst := range chantier.SousTraitants {
			valeurs := []interface{}{
				cst.SousTraitant.Entreprise, cst.Description, cst.MontantForfait,
				string(cst.Statut), dateOuVide(cst.DateDebut), dateOuVide(cst.DateFin),
			}
			for j, val := range valeurs {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(soustraitance, cell, val)
			}
		}

		// Feuille Échéancier
		echeancier := "Échéancier"
		f.NewSheet(echeancier)
		entetes = []interface{}{"Libellé", "Montant HT (€)", "Montant TTC (€)", "Échéance", "Statut", "N° facture"}
		for j, val := range entetes {
			cell, _ := excelize.CoordinatesToCellName(j+1, 1)
			f.SetCellValue(echeancier, cell, val)
		}
		for i, e := range chantier.Echeancier {
			valeurs := []interface{}{
				e.Libelle, e.MontantHT, e.MontantTTC,
				e.DateEcheance.Format("2006-01-02"), string(e.Statut), e.NumeroFacture,
			}
			for j, val := range valeurs {
				cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
				f.SetCellValue(echeancier, cell, val)
			}
		}

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export Excel impossible : "+err.Error())
		}

		nomFichier := fmt.Sprintf("chantier-%s-%s.xlsx", chantier.Reference, time.Now().Format("20060102"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, nomFichier))
		return c.Send(buf.Bytes())
	}
}

// BackupData est le jeu de données complet, exporté en JSON.
type BackupData struct {
	ExportedAt    time.Time             `json:"exported_at"`
	Salaries      []models.Salarie      `json:"salaries"`
	Materiaux     []models.Materiau     `json:"materiaux"`
	SousTraitants []models.SousTraitant `json:"sous_traitants"`
	Chantiers     []models.Chantier     `json:"chantiers"`
}

// GET /api/export — sauvegarde JSON intégrale (hors utilisateurs et logs).
func ExportBackupHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		backup := BackupData{ExportedAt: time.Now()}

		if err := database.DB.Order("id asc").Find(&backup.Salaries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export des salariés impossible")
		}
		if err := database.DB.Order("id asc").Find(&backup.Materiaux).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export des matériaux impossible")
		}
		if err := database.DB.Order("id asc").Find(&backup.SousTraitants).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export des sous-traitants impossible")
		}
		if err := database.DB.
			Preload("Salaries.Salarie").
			Preload("Salaries.Presences").
			Preload("Materiaux.Materiau").
			Preload("SousTraitants.SousTraitant").
			Preload("Echeancier").
			Order("id asc").
			Find(&backup.Chantiers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Export des chantiers impossible")
		}

		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="backup-btp-%s.json"`, time.Now().Format("20060102")))
		return c.JSON(backup)
	}
}
