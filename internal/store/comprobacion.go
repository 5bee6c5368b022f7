package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// ComprobacionStore is the data access layer for intermediate verifications.
type ComprobacionStore struct {
	db *gorm.DB
}

func (s *ComprobacionStore) FindAll() ([]models.Comprobacion, error) {
	var out []models.Comprobacion
	if err := s.db.Order("fecha DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing comprobaciones: %w", err)
	}
	return out, nil
}

func (s *ComprobacionStore) FindByID(id string) (*models.Comprobacion, error) {
	var c models.Comprobacion
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading comprobacion %s: %w", id, err)
	}
	return &c, nil
}

func (s *ComprobacionStore) FindByEquipo(equipoID string) ([]models.Comprobacion, error) {
	var out []models.Comprobacion
	err := s.db.Where("equipo_id = ?", equipoID).Order("fecha DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing comprobaciones of equipo %s: %w", equipoID, err)
	}
	return out, nil
}

func (s *ComprobacionStore) Create(c *models.Comprobacion) error {
	c.SyncSource = models.SyncSourceDB
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("creating comprobacion %s: %w", c.ID, err)
	}
	return nil
}

func (s *ComprobacionStore) Update(c *models.Comprobacion) error {
	c.SyncSource = models.SyncSourceDB
	if err := s.db.Save(c).Error; err != nil {
		return fmt.Errorf("updating comprobacion %s: %w", c.ID, err)
	}
	return nil
}

func (s *ComprobacionStore) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.Comprobacion{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("deleting comprobacion %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var comprobacionSheetColumns = []string{
	"equipo_id", "fecha", "tipo", "resultado", "responsable", "observaciones",
	"synced_at", "sync_source",
}

func (s *ComprobacionStore) UpsertFromSheets(c *models.Comprobacion) error {
	now := time.Now().UTC()
	c.SyncedAt = &now
	c.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(comprobacionSheetColumns),
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("upserting comprobacion %s from sheets: %w", c.ID, err)
	}
	return nil
}

func (s *ComprobacionStore) FindModifiedSince(since time.Time) ([]models.Comprobacion, error) {
	var out []models.Comprobacion
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified comprobaciones: %w", err)
	}
	return out, nil
}
