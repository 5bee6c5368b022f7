package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// PerforacionStore is the data access layer for drillings.
type PerforacionStore struct {
	db *gorm.DB
}

func (s *PerforacionStore) FindAll() ([]models.Perforacion, error) {
	var out []models.Perforacion
	if err := s.db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing perforaciones: %w", err)
	}
	return out, nil
}

func (s *PerforacionStore) FindByID(id string) (*models.Perforacion, error) {
	var p models.Perforacion
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading perforacion %s: %w", id, err)
	}
	return &p, nil
}

func (s *PerforacionStore) FindByProyecto(proyectoID string) ([]models.Perforacion, error) {
	var out []models.Perforacion
	err := s.db.Where("proyecto_id = ?", proyectoID).Order("codigo ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing perforaciones of proyecto %s: %w", proyectoID, err)
	}
	return out, nil
}

func (s *PerforacionStore) Create(p *models.Perforacion) error {
	p.SyncSource = models.SyncSourceDB
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("creating perforacion %s: %w", p.Codigo, err)
	}
	return nil
}

func (s *PerforacionStore) Update(p *models.Perforacion) error {
	p.SyncSource = models.SyncSourceDB
	if err := s.db.Save(p).Error; err != nil {
		return fmt.Errorf("updating perforacion %s: %w", p.ID, err)
	}
	return nil
}

// Delete cancels the drilling; the record stays for the audit trail.
func (s *PerforacionStore) Delete(id string) (bool, error) {
	res := s.db.Model(&models.Perforacion{}).
		Where("id = ? AND estado <> ?", id, models.EstadoCancelado).
		Updates(map[string]interface{}{
			"estado":      models.EstadoCancelado,
			"sync_source": models.SyncSourceDB,
		})
	if res.Error != nil {
		return false, fmt.Errorf("cancelling perforacion %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *PerforacionStore) UpdateDriveFolder(id, folderID string) (bool, error) {
	res := s.db.Model(&models.Perforacion{}).Where("id = ?", id).
		Update("drive_folder_id", folderID)
	if res.Error != nil {
		return false, fmt.Errorf("storing drive folder of perforacion %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var perforacionSheetColumns = []string{
	"codigo", "proyecto_id", "nombre", "descripcion", "ubicacion", "profundidad",
	"fecha_inicio", "fecha_fin", "estado", "drive_folder_id",
	"synced_at", "sync_source",
}

func (s *PerforacionStore) UpsertFromSheets(p *models.Perforacion) error {
	now := time.Now().UTC()
	p.SyncedAt = &now
	p.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(perforacionSheetColumns),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("upserting perforacion %s from sheets: %w", p.ID, err)
	}
	return nil
}

func (s *PerforacionStore) FindModifiedSince(since time.Time) ([]models.Perforacion, error) {
	var out []models.Perforacion
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified perforaciones: %w", err)
	}
	return out, nil
}
