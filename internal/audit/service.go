package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"btp-backend/internal/database"
	"btp-backend/internal/models"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

func WriteLog(opts LogOptions) error {
	// jsonb refuse la chaîne vide, on stocke le JSON "null" par défaut
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
		Undone:      false,
		IsUndone:    false,
	}

	if err := database.DB.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log non enregistré : %w", err)
	}

	return nil
}

// UndoLog annule l'opération tracée par un log d'audit.
func UndoLog(logID uint, userID uint, userName string) error {
	var log models.AuditLog
	if err := database.DB.First(&log, "id = ?", logID).Error; err != nil {
		return fmt.Errorf("log introuvable : %w", err)
	}

	if log.IsUndone {
		return fmt.Errorf("cette opération a déjà été annulée")
	}

	switch log.Action {
	case models.AuditActionCreate:
		// Un create s'annule en supprimant l'entité
		if err := deleteEntity(log.EntityType, log.EntityID); err != nil {
			return fmt.Errorf("suppression de l'entité impossible : %w", err)
		}

	case models.AuditActionUpdate:
		// Un update s'annule en restaurant l'état précédent
		if err := restoreEntity(log.EntityType, log.EntityID, log.BeforeData); err != nil {
			return fmt.Errorf("restauration de l'entité impossible : %w", err)
		}

	case models.AuditActionDelete:
		// Un delete s'annule en recréant l'entité
		if err := recreateEntity(log.EntityType, log.AfterData); err != nil {
			return fmt.Errorf("recréation de l'entité impossible : %w", err)
		}

	default:
		return fmt.Errorf("ce type d'opération ne peut pas être annulé")
	}

	now := time.Now()
	log.IsUndone = true
	log.UndoneBy = &userID
	log.UndoneAt = &now

	if err := database.DB.Save(&log).Error; err != nil {
		return fmt.Errorf("mise à jour du log impossible : %w", err)
	}

	undoLog := models.AuditLog{
		UserID:      userID,
		UserName:    userName,
		EntityType:  log.EntityType,
		EntityID:    log.EntityID,
		Action:      models.AuditActionUndo,
		Description: fmt.Sprintf("Annulé : %s", log.Description),
		BeforeData:  log.AfterData,
		AfterData:   log.BeforeData,
		Undone:      true,
		IsUndone:    false,
	}

	if err := database.DB.Create(&undoLog).Error; err != nil {
		return fmt.Errorf("log d'annulation non enregistré : %w", err)
	}

	return nil
}

func deleteEntity(entityType string, entityID uint) error {
	switch entityType {
	case "salarie":
		return database.DB.Delete(&models.Salarie{}, "id = ?", entityID).Error
	case "materiau":
		return database.DB.Delete(&models.Materiau{}, "id = ?", entityID).Error
	case "sous_traitant":
		return database.DB.Delete(&models.SousTraitant{}, "id = ?", entityID).Error
	case "chantier":
		return database.DB.Delete(&models.Chantier{}, "id = ?", entityID).Error
	default:
		return fmt.Errorf("type d'entité inconnu : %s", entityType)
	}
}

func recreateEntity(entityType string, dataJSON string) error {
	switch entityType {
	case "salarie":
		var salarie models.Salarie
		if err := json.Unmarshal([]byte(dataJSON), &salarie); err != nil {
			return err
		}
		salarie.ID = 0
		return database.DB.Create(&salarie).Error

	case "materiau":
		var materiau models.Materiau
		if err := json.Unmarshal([]byte(dataJSON), &materiau); err != nil {
			return err
		}
		materiau.ID = 0
		return database.DB.Create(&materiau).Error

	case "sous_traitant":
		var st models.SousTraitant
		if err := json.Unmarshal([]byte(dataJSON), &st); err != nil {
			return err
		}
		st.ID = 0
		return database.DB.Create(&st).Error

	case "chantier":
		var chantier models.Chantier
		if err := json.Unmarshal([]byte(dataJSON), &chantier); err != nil {
			return err
		}
		// Les lignes sont recréées avec l'en-tête, mais l'historique de
		// présences figé dans AfterData ne contient que l'en-tête.
		chantier.ID = 0
		return database.DB.Create(&chantier).Error

	default:
		return fmt.Errorf("type d'entité inconnu : %s", entityType)
	}
}

func restoreEntity(entityType string, entityID uint, dataJSON string) error {
	switch entityType {
	case "salarie":
		var salarie models.Salarie
		if err := json.Unmarshal([]byte(dataJSON), &salarie); err != nil {
			return err
		}
		return database.DB.Model(&models.Salarie{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"nom":                salarie.Nom,
			"prenom":             salarie.Prenom,
			"salaire_net":        salarie.SalaireNet,
			"salaire_brut":       salarie.SalaireBrut,
			"charges_patronales": salarie.ChargesPatronales,
			"cout_total":         salarie.CoutTotal,
			"taux_horaire":       salarie.TauxHoraire,
			"heures_par_jour":    salarie.HeuresParJour,
			"qualification":      salarie.Qualification,
			"actif":              salarie.Actif,
		}).Error

	case "materiau":
		var materiau models.Materiau
		if err := json.Unmarshal([]byte(dataJSON), &materiau); err != nil {
			return err
		}
		return database.DB.Model(&models.Materiau{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"nom":            materiau.Nom,
			"reference":      materiau.Reference,
			"prix_unitaire":  materiau.PrixUnitaire,
			"unite":          materiau.Unite,
			"categorie":      materiau.Categorie,
			"taux_tva":       materiau.TauxTVA,
			"quantite_stock": materiau.QuantiteStock,
			"seuil_alerte":   materiau.SeuilAlerte,
			"fournisseur":    materiau.Fournisseur,
			"actif":          materiau.Actif,
		}).Error

	case "sous_traitant":
		var st models.SousTraitant
		if err := json.Unmarshal([]byte(dataJSON), &st); err != nil {
			return err
		}
		return database.DB.Model(&models.SousTraitant{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"nom":        st.Nom,
			"entreprise": st.Entreprise,
			"specialite": st.Specialite,
			"telephone":  st.Telephone,
			"email":      st.Email,
			"adresse":    st.Adresse,
			"siret":      st.Siret,
			"actif":      st.Actif,
			"notes":      st.Notes,
		}).Error

	case "chantier":
		var chantier models.Chantier
		if err := json.Unmarshal([]byte(dataJSON), &chantier); err != nil {
			return err
		}
		return database.DB.Model(&models.Chantier{}).Where("id = ?", entityID).Updates(map[string]interface{}{
			"reference":      chantier.Reference,
			"nom":            chantier.Nom,
			"client_nom":     chantier.ClientNom,
			"client_adresse": chantier.ClientAdresse,
			"adresse":        chantier.Adresse,
			"statut":         chantier.Statut,
			"frais_generaux": chantier.FraisGeneraux,
			"marge_objectif": chantier.MargeObjectif,
			"prix_vente_ht":  chantier.PrixVenteHT,
			"prix_vente_ttc": chantier.PrixVenteTTC,
			"notes":          chantier.Notes,
		}).Error

	default:
		return fmt.Errorf("type d'entité inconnu : %s", entityType)
	}
}
