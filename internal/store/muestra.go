package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// MuestraStore is the data access layer for samples.
type MuestraStore struct {
	db *gorm.DB
}

func (s *MuestraStore) FindAll() ([]models.Muestra, error) {
	var out []models.Muestra
	if err := s.db.Order("codigo ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing muestras: %w", err)
	}
	return out, nil
}

func (s *MuestraStore) FindByID(id string) (*models.Muestra, error) {
	var m models.Muestra
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading muestra %s: %w", id, err)
	}
	return &m, nil
}

func (s *MuestraStore) FindByPerforacion(perforacionID string) ([]models.Muestra, error) {
	var out []models.Muestra
	err := s.db.Where("perforacion_id = ?", perforacionID).
		Order("profundidad_inicio ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing muestras of perforacion %s: %w", perforacionID, err)
	}
	return out, nil
}

func (s *MuestraStore) Create(m *models.Muestra) error {
	m.SyncSource = models.SyncSourceDB
	if err := s.db.Create(m).Error; err != nil {
		return fmt.Errorf("creating muestra %s: %w", m.Codigo, err)
	}
	return nil
}

func (s *MuestraStore) Update(m *models.Muestra) error {
	m.SyncSource = models.SyncSourceDB
	if err := s.db.Save(m).Error; err != nil {
		return fmt.Errorf("updating muestra %s: %w", m.ID, err)
	}
	return nil
}

func (s *MuestraStore) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.Muestra{}, "id = ?", id)
	if res.Error != nil {
		return false, fmt.Errorf("deleting muestra %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var muestraSheetColumns = []string{
	"codigo", "perforacion_id", "profundidad_inicio", "profundidad_fin",
	"tipo_muestra", "descripcion", "synced_at", "sync_source",
}

func (s *MuestraStore) UpsertFromSheets(m *models.Muestra) error {
	now := time.Now().UTC()
	m.SyncedAt = &now
	m.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(muestraSheetColumns),
	}).Create(m).Error
	if err != nil {
		return fmt.Errorf("upserting muestra %s from sheets: %w", m.ID, err)
	}
	return nil
}

func (s *MuestraStore) FindModifiedSince(since time.Time) ([]models.Muestra, error) {
	var out []models.Muestra
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified muestras: %w", err)
	}
	return out, nil
}
