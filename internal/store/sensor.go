package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// SensorStore is the data access layer for sensors.
type SensorStore struct {
	db *gorm.DB
}

func (s *SensorStore) FindAll() ([]models.Sensor, error) {
	var out []models.Sensor
	if err := s.db.Order("codigo ASC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing sensores: %w", err)
	}
	return out, nil
}

func (s *SensorStore) FindByID(id string) (*models.Sensor, error) {
	var sen models.Sensor
	if err := s.db.First(&sen, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading sensor %s: %w", id, err)
	}
	return &sen, nil
}

func (s *SensorStore) FindByEquipo(equipoID string) ([]models.Sensor, error) {
	var out []models.Sensor
	err := s.db.Where("equipo_id = ?", equipoID).Order("codigo ASC").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing sensores of equipo %s: %w", equipoID, err)
	}
	return out, nil
}

func (s *SensorStore) Create(sen *models.Sensor) error {
	sen.SyncSource = models.SyncSourceDB
	if err := s.db.Create(sen).Error; err != nil {
		return fmt.Errorf("creating sensor %s: %w", sen.Codigo, err)
	}
	return nil
}

func (s *SensorStore) Update(sen *models.Sensor) error {
	sen.SyncSource = models.SyncSourceDB
	if err := s.db.Save(sen).Error; err != nil {
		return fmt.Errorf("updating sensor %s: %w", sen.ID, err)
	}
	return nil
}

// AssignEquipo links or unlinks (nil) the sensor to a parent equipment.
func (s *SensorStore) AssignEquipo(id string, equipoID *string) (bool, error) {
	res := s.db.Model(&models.Sensor{}).Where("id = ?", id).
		Update("equipo_id", equipoID)
	if res.Error != nil {
		return false, fmt.Errorf("assigning sensor %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *SensorStore) Delete(id string) (bool, error) {
	res := s.db.Model(&models.Sensor{}).Where("id = ? AND activo", id).
		Updates(map[string]interface{}{
			"activo":      false,
			"sync_source": models.SyncSourceDB,
		})
	if res.Error != nil {
		return false, fmt.Errorf("deactivating sensor %s: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// sensorSheetColumns deliberately excludes equipo_id: the sensor-equipment
// link is managed through the API only.
var sensorSheetColumns = []string{
	"codigo", "tipo", "marca", "modelo", "numero_serie", "rango_medicion",
	"precision", "ubicacion", "estado", "fecha_calibracion",
	"proxima_calibracion", "error_maximo", "certificado_id", "responsable",
	"observaciones", "activo", "synced_at", "sync_source",
}

func (s *SensorStore) UpsertFromSheets(sen *models.Sensor) error {
	now := time.Now().UTC()
	sen.SyncedAt = &now
	sen.SyncSource = models.SyncSourceSheets
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns(sensorSheetColumns),
	}).Create(sen).Error
	if err != nil {
		return fmt.Errorf("upserting sensor %s from sheets: %w", sen.ID, err)
	}
	return nil
}

func (s *SensorStore) FindModifiedSince(since time.Time) ([]models.Sensor, error) {
	var out []models.Sensor
	err := s.db.Where("updated_at > ? AND sync_source = ?", since, models.SyncSourceDB).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("listing modified sensores: %w", err)
	}
	return out, nil
}
