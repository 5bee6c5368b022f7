package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// CalibracionStore is the data access layer for calibration records.
type CalibracionStore struct {
	db *gorm.DB
}

func (s *CalibracionStore) FindAll() ([]models.Calibracion, error) {
	var out []models.Calibracion
	if err := s.db.Order("fecha DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing calibraciones: %w", err)
	}
	return out, nil
}

func (s *CalibracionStore) FindByID(id string) (*models.Calibracion, error) {
	var c models.Calibracion
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading calibracion %s: %w", id, err)
	}
	return &c, nil
}

func (s *CalibracionStore) FindByEquipo(equipoID string) ([]models.Calibracion, error) {
	var out []models.Calibracion
	err := s.db.Where("equipo_id = ?", equipoID).Order("fecha DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing calibraciones of equipo %s: %w", equipoID, err)
	}
	return out, nil
}

func (s *CalibracionStore) Create(c *models.Calibracion) error {
	c.SyncSource = models.SyncSourceDB
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("creating calibracion %s: %w", c.ID, err)
	}
	return nil
}

func (s *CalibracionStore) Update(c *models.Calibracion) error {
	c.SyncSource = models.SyncSourceDB
	if err := s.db.Save(c).Error; err != nil {
		return fmt.Errorf("updating calibracion %s: %w", c.ID, err)
	}
	return nil
}

// Delete removes the record. Calibrations are plain reference data, so unlike
// ensayos they are hard-deleted.
func (s *CalibracionStore) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.Calibracion{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("deleting calibracion %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var calibracionSheetColumns = []string{
	"equipo_id", "fecha", "laboratorio", "certificado", "factor",
	"incertidumbre", "proxima_calibracion", "observaciones",
	"synced_at", "sync_source",
}

func (s *CalibracionStore) UpsertFromSheets(c *models.Calibracion) error {
	now := time.Now().UTC()
	c.SyncedAt = &now
	c.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(calibracionSheetColumns),
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("upserting calibracion %s from sheets: %w", c.ID, err)
	}
	return nil
}

func (s *CalibracionStore) FindModifiedSince(since time.Time) ([]models.Calibracion, error) {
	var out []models.Calibracion
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified calibraciones: %w", err)
	}
	return out, nil
}
