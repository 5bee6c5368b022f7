package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// EnsayoStore is the data access layer for test requests.
type EnsayoStore struct {
	db *gorm.DB
}

func (s *EnsayoStore) FindAll() ([]models.Ensayo, error) {
	var out []models.Ensayo
	if err := s.db.Order("fecha_solicitud DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing ensayos: %w", err)
	}
	return out, nil
}

// FindByID returns (nil, nil) when the id does not exist.
func (s *EnsayoStore) FindByID(id string) (*models.Ensayo, error) {
	var e models.Ensayo
	if err := s.db.First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading ensayo %s: %w", id, err)
	}
	return &e, nil
}

func (s *EnsayoStore) FindByCodigo(codigo string) (*models.Ensayo, error) {
	var e models.Ensayo
	if err := s.db.First(&e, "codigo = ?", codigo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading ensayo by codigo %s: %w", codigo, err)
	}
	return &e, nil
}

func (s *EnsayoStore) FindByProyecto(proyectoID string) ([]models.Ensayo, error) {
	var out []models.Ensayo
	err := s.db.Where("proyecto_id = ?", proyectoID).
		Order("fecha_solicitud DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing ensayos of proyecto %s: %w", proyectoID, err)
	}
	return out, nil
}

func (s *EnsayoStore) FindByPerforacion(perforacionID string) ([]models.Ensayo, error) {
	var out []models.Ensayo
	err := s.db.Where("perforacion_id = ?", perforacionID).
		Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing ensayos of perforacion %s: %w", perforacionID, err)
	}
	return out, nil
}

// FindByWorkflowState lists tests in one state, urgent ones first.
func (s *EnsayoStore) FindByWorkflowState(state models.WorkflowState) ([]models.Ensayo, error) {
	var out []models.Ensayo
	err := s.db.Where("workflow_state = ?", state.String()).
		Order("urgente DESC, fecha_solicitud ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing ensayos in state %s: %w", state, err)
	}
	return out, nil
}

// Create persists a new test request originated through the API.
func (s *EnsayoStore) Create(e *models.Ensayo) error {
	e.SyncSource = models.SyncSourceDB
	if err := s.db.Create(e).Error; err != nil {
		return fmt.Errorf("creating ensayo %s: %w", e.Codigo, err)
	}
	return nil
}

// Update saves API-origin changes, re-tagging the record as a database write.
func (s *EnsayoStore) Update(e *models.Ensayo) error {
	e.SyncSource = models.SyncSourceDB
	if err := s.db.Save(e).Error; err != nil {
		return fmt.Errorf("updating ensayo %s: %w", e.ID, err)
	}
	return nil
}

// UpdateWorkflowState moves the test to a new state. The transition must have
// been validated against the adjacency table before calling this.
func (s *EnsayoStore) UpdateWorkflowState(id string, state models.WorkflowState) (bool, error) {
	res := s.db.Model(&models.Ensayo{}).Where("id = ?", id).Updates(map[string]interface{}{
		"workflow_state": state.String(),
		"sync_source":    models.SyncSourceDB,
	})
	if res.Error != nil {
		return false, fmt.Errorf("updating workflow state of ensayo %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// Delete cancels a test request. Tests are never hard-deleted: deletion is a
// transition to the Anulado terminal state, invisible to already-terminal
// records.
func (s *EnsayoStore) Delete(id string) (bool, error) {
	res := s.db.Model(&models.Ensayo{}).
		Where("id = ? AND workflow_state NOT IN ?", id,
			[]string{models.StateE3.String(), models.StateE15.String()}).
		Updates(map[string]interface{}{
			"workflow_state": models.StateE3.String(),
			"sync_source":    models.SyncSourceDB,
		})
	if res.Error != nil {
		return false, fmt.Errorf("cancelling ensayo %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ensayoSheetColumns are the fields a sheets-origin upsert may overwrite.
// PDF fields, the drilling folder cache and created_at stay server-owned.
var ensayoSheetColumns = []string{
	"codigo", "tipo", "perforacion_id", "proyecto_id", "muestra", "norma",
	"workflow_state", "fecha_solicitud", "fecha_programacion", "fecha_ejecucion",
	"fecha_reporte", "fecha_entrega", "tecnico_id", "tecnico_nombre",
	"sheet_id", "sheet_url", "equipos_utilizados", "observaciones", "urgente",
	"synced_at", "sync_source",
}

// UpsertFromSheets inserts or refreshes a record discovered in the
// spreadsheet, tagging it as a sheets write and stamping synced_at.
func (s *EnsayoStore) UpsertFromSheets(e *models.Ensayo) error {
	now := time.Now().UTC()
	e.SyncedAt = &now
	e.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(ensayoSheetColumns),
	}).Create(e).Error
	if err != nil {
		return fmt.Errorf("upserting ensayo %s from sheets: %w", e.ID, err)
	}
	return nil
}

// FindModifiedSince returns database-origin changes newer than the watermark.
// Sheets-origin records are excluded so a pull is never echoed back out.
func (s *EnsayoStore) FindModifiedSince(since time.Time) ([]models.Ensayo, error) {
	var out []models.Ensayo
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified ensayos: %w", err)
	}
	return out, nil
}

// UpdatePDFInfo records the exported report after PDF generation succeeds.
func (s *EnsayoStore) UpdatePDFInfo(id, pdfDriveID, pdfURL string) (bool, error) {
	now := time.Now().UTC()
	res := s.db.Model(&models.Ensayo{}).Where("id = ?", id).Updates(map[string]interface{}{
		"pdf_drive_id":     pdfDriveID,
		"pdf_url":          pdfURL,
		"pdf_generated_at": now,
		"sync_source":      models.SyncSourceDB,
	})
	if res.Error != nil {
		return false, fmt.Errorf("updating PDF info of ensayo %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateSheetInfo links the test to its working spreadsheet.
func (s *EnsayoStore) UpdateSheetInfo(id, sheetID, sheetURL string) (bool, error) {
	res := s.db.Model(&models.Ensayo{}).Where("id = ?", id).Updates(map[string]interface{}{
		"sheet_id":    sheetID,
		"sheet_url":   sheetURL,
		"sync_source": models.SyncSourceDB,
	})
	if res.Error != nil {
		return false, fmt.Errorf("updating sheet info of ensayo %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdatePerforacionFolderID caches the drilling's Drive folder to spare a
// lookup on every export.
func (s *EnsayoStore) UpdatePerforacionFolderID(id, folderID string) (bool, error) {
	res := s.db.Model(&models.Ensayo{}).Where("id = ?", id).
		Update("perforacion_folder_id", folderID)
	if res.Error != nil {
		return false, fmt.Errorf("caching folder of ensayo %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
