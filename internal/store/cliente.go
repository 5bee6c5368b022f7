package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// ClienteStore is the data access layer for clients.
type ClienteStore struct {
	db *gorm.DB
}

func (s *ClienteStore) FindAll() ([]models.Cliente, error) {
	var out []models.Cliente
	if err := s.db.Order("nombre ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing clientes: %w", err)
	}
	return out, nil
}

func (s *ClienteStore) FindByID(id string) (*models.Cliente, error) {
	var c models.Cliente
	if err := s.db.First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading cliente %s: %w", id, err)
	}
	return &c, nil
}

func (s *ClienteStore) Create(c *models.Cliente) error {
	c.SyncSource = models.SyncSourceDB
	if err := s.db.Create(c).Error; err != nil {
		return fmt.Errorf("creating cliente %s: %w", c.Codigo, err)
	}
	return nil
}

func (s *ClienteStore) Update(c *models.Cliente) error {
	c.SyncSource = models.SyncSourceDB
	if err := s.db.Save(c).Error; err != nil {
		return fmt.Errorf("updating cliente %s: %w", c.ID, err)
	}
	return nil
}

// Delete deactivates the client. Client records are kept for the audit trail
// of their projects.
func (s *ClienteStore) Delete(id string) (bool, error) {
	res := s.db.Model(&models.Cliente{}).Where("id = ? AND activo", id).
		Updates(map[string]interface{}{
			"activo":      false,
			"sync_source": models.SyncSourceDB,
		})
	if res.Error != nil {
		return false, fmt.Errorf("deactivating cliente %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// UpdateDriveFolder stores the client's root Drive folder.
func (s *ClienteStore) UpdateDriveFolder(id, folderID string) (bool, error) {
	res := s.db.Model(&models.Cliente{}).Where("id = ?", id).
		Update("drive_folder_id", folderID)
	if res.Error != nil {
		return false, fmt.Errorf("storing drive folder of cliente %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var clienteSheetColumns = []string{
	"codigo", "nombre", "rut", "direccion", "ciudad", "telefono", "email",
	"contacto_nombre", "contacto_cargo", "contacto_email", "contacto_telefono",
	"activo", "drive_folder_id", "synced_at", "sync_source",
}

func (s *ClienteStore) UpsertFromSheets(c *models.Cliente) error {
	now := time.Now().UTC()
	c.SyncedAt = &now
	c.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(clienteSheetColumns),
	}).Create(c).Error
	if err != nil {
		return fmt.Errorf("upserting cliente %s from sheets: %w", c.ID, err)
	}
	return nil
}

func (s *ClienteStore) FindModifiedSince(since time.Time) ([]models.Cliente, error) {
	var out []models.Cliente
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified clientes: %w", err)
	}
	return out, nil
}
