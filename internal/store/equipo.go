package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// EquipoStore is the data access layer for laboratory equipment.
type EquipoStore struct {
	db *gorm.DB
}

func (s *EquipoStore) FindAll() ([]models.Equipo, error) {
	var out []models.Equipo
	if err := s.db.Order("codigo ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing equipos: %w", err)
	}
	return out, nil
}

func (s *EquipoStore) FindByID(id string) (*models.Equipo, error) {
	var q models.Equipo
	if err := s.db.First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading equipo %s: %w", id, err)
	}
	return &q, nil
}

// FindCalibrationDue lists active equipment whose next calibration date is on
// or before the cutoff.
func (s *EquipoStore) FindCalibrationDue(cutoff string) ([]models.Equipo, error) {
	var out []models.Equipo
	err := s.db.Where("activo AND proxima_calibracion IS NOT NULL AND proxima_calibracion <= ?", cutoff).
		Order("proxima_calibracion ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing equipos due for calibration: %w", err)
	}
	return out, nil
}

func (s *EquipoStore) Create(q *models.Equipo) error {
	q.SyncSource = models.SyncSourceDB
	if err := s.db.Create(q).Error; err != nil {
		return fmt.Errorf("creating equipo %s: %w", q.Codigo, err)
	}
	return nil
}

func (s *EquipoStore) Update(q *models.Equipo) error {
	q.SyncSource = models.SyncSourceDB
	if err := s.db.Save(q).Error; err != nil {
		return fmt.Errorf("updating equipo %s: %w", q.ID, err)
	}
	return nil
}

// Delete retires the equipment (estado baja, inactive). The record stays for
// traceability of past tests.
func (s *EquipoStore) Delete(id string) (bool, error) {
	res := s.db.Model(&models.Equipo{}).Where("id = ? AND activo", id).
		Updates(map[string]interface{}{
			"activo":      false,
			"estado":      models.EquipoEstadoBaja,
			"sync_source": models.SyncSourceDB,
		})
	if res.Error != nil {
		return false, fmt.Errorf("retiring equipo %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

var equipoSheetColumns = []string{
	"codigo", "nombre", "serie", "placa", "descripcion", "marca", "modelo",
	"ubicacion", "estado", "fecha_calibracion", "proxima_calibracion",
	"incertidumbre", "error_maximo", "certificado_id", "responsable",
	"observaciones", "activo", "synced_at", "sync_source",
}

func (s *EquipoStore) UpsertFromSheets(q *models.Equipo) error {
	now := time.Now().UTC()
	q.SyncedAt = &now
	q.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(equipoSheetColumns),
	}).Create(q).Error
	if err != nil {
		return fmt.Errorf("upserting equipo %s from sheets: %w", q.ID, err)
	}
	return nil
}

func (s *EquipoStore) FindModifiedSince(since time.Time) ([]models.Equipo, error) {
	var out []models.Equipo
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified equipos: %w", err)
	}
	return out, nil
}
