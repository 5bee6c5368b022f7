package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// ProyectoStore is the data access layer for projects.
type ProyectoStore struct {
	db *gorm.DB
}

func (s *ProyectoStore) FindAll() ([]models.Proyecto, error) {
	var out []models.Proyecto
	if err := s.db.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing proyectos: %w", err)
	}
	return out, nil
}

func (s *ProyectoStore) FindByID(id string) (*models.Proyecto, error) {
	var p models.Proyecto
	if err := s.db.First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading proyecto %s: %w", id, err)
	}
	return &p, nil
}

func (s *ProyectoStore) FindByCliente(clienteID string) ([]models.Proyecto, error) {
	var out []models.Proyecto
	err := s.db.Where("cliente_id = ?", clienteID).Order("created_at DESC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing proyectos of cliente %s: %w", clienteID, err)
	}
	return out, nil
}

func (s *ProyectoStore) Create(p *models.Proyecto) error {
	p.SyncSource = models.SyncSourceDB
	if err := s.db.Create(p).Error; err != nil {
		return fmt.Errorf("creating proyecto %s: %w", p.Codigo, err)
	}
	return nil
}

func (s *ProyectoStore) Update(p *models.Proyecto) error {
	p.SyncSource = models.SyncSourceDB
	if err := s.db.Save(p).Error; err != nil {
		return fmt.Errorf("updating proyecto %s: %w", p.ID, err)
	}
	return nil
}

// Delete cancels the project. Projects carry audit value and are never
// removed from the table.
func (s *ProyectoStore) Delete(id string) (bool, error) {
	res := s.db.Model(&models.Proyecto{}).
		Where("id = ? AND estado <> ?", id, models.EstadoCancelado).
		Updates(map[string]interface{}{
			"estado":      models.EstadoCancelado,
			"sync_source": models.SyncSourceDB,
		})
	if res.Error != nil {
		return false, fmt.Errorf("cancelling proyecto %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *ProyectoStore) UpdateDriveFolder(id, folderID string) (bool, error) {
	res := s.db.Model(&models.Proyecto{}).Where("id = ?", id).
		Update("drive_folder_id", folderID)
	if res.Error != nil {
		return false, fmt.Errorf("storing drive folder of proyecto %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var proyectoSheetColumns = []string{
	"codigo", "nombre", "descripcion", "fecha_inicio", "fecha_fin_estimada",
	"cliente_id", "cliente_nombre", "contacto", "estado", "fecha_fin_real",
	"drive_folder_id", "created_by", "synced_at", "sync_source",
}

func (s *ProyectoStore) UpsertFromSheets(p *models.Proyecto) error {
	now := time.Now().UTC()
	p.SyncedAt = &now
	p.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(proyectoSheetColumns),
	}).Create(p).Error
	if err != nil {
		return fmt.Errorf("upserting proyecto %s from sheets: %w", p.ID, err)
	}
	return nil
}

func (s *ProyectoStore) FindModifiedSince(since time.Time) ([]models.Proyecto, error) {
	var out []models.Proyecto
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified proyectos: %w", err)
	}
	return out, nil
}
