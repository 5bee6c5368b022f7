package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// PersonalStore is the data access layer for laboratory staff.
type PersonalStore struct {
	db *gorm.DB
}

func (s *PersonalStore) FindAll() ([]models.PersonalInterno, error) {
	var out []models.PersonalInterno
	if err := s.db.Order("apellido ASC, nombre ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing personal: %w", err)
	}
	return out, nil
}

func (s *PersonalStore) FindByID(id string) (*models.PersonalInterno, error) {
	var p models.PersonalInterno
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading personal %s: %w", id, err)
	}
	return &p, nil
}

func (s *PersonalStore) Create(p *models.PersonalInterno) error {
	p.SyncSource = models.SyncSourceDB
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("creating personal %s: %w", p.Codigo, err)
	}
	return nil
}

func (s *PersonalStore) Update(p *models.PersonalInterno) error {
	p.SyncSource = models.SyncSourceDB
	if err := s.db.Save(p).Error; err != nil {
		return fmt.Errorf("updating personal %s: %w", p.ID, err)
	}
	return nil
}

func (s *PersonalStore) Delete(id string) (bool, error) {
	res := s.db.Model(&models.PersonalInterno{}).Where("id = ? AND activo", id).
		Updates(map[string]interface{}{
			"activo":      false,
			"sync_source": models.SyncSourceDB,
		})
	if res.Error != nil {
		return false, fmt.Errorf("deactivating personal %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var personalSheetColumns = []string{
	"codigo", "nombre", "apellido", "cargo", "email", "telefono", "activo",
	"synced_at", "sync_source",
}

func (s *PersonalStore) UpsertFromSheets(p *models.PersonalInterno) error {
	now := time.Now().UTC()
	p.SyncedAt = &now
	p.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(personalSheetColumns),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("upserting personal %s from sheets: %w", p.ID, err)
	}
	return nil
}

func (s *PersonalStore) FindModifiedSince(since time.Time) ([]models.PersonalInterno, error) {
	var out []models.PersonalInterno
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified personal: %w", err)
	}
	return out, nil
}
