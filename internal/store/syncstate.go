package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rulos-nico/17025/internal/models"
)

// SyncStateStore persists the reconciliation engine's own state: watermarks,
// leases and run history.
type SyncStateStore struct {
	db *gorm.DB
}

// Checkpoint returns the stored watermark for a direction, or nil when the
// direction has never completed a run.
func (s *SyncStateStore) Checkpoint(direction string) (*time.Time, error) {
	var cp models.SyncCheckpoint
	if err := s.db.First(&cp, "direction = ?", direction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading checkpoint %s: %w", direction, err)
	}
	return &cp.Watermark, nil
}

// SetCheckpoint advances the watermark for a direction.
func (s *SyncStateStore) SetCheckpoint(direction string, watermark time.Time) error {
	cp := models.SyncCheckpoint{Direction: direction, Watermark: watermark.UTC()}
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "direction"}},
		DoUpdates: clause.AssignmentColumns([]string{"watermark", "updated_at"}),
	}).Create(&cp).Error
	if err != nil {
		return fmt.Errorf("storing checkpoint %s: %w", direction, err)
	}
	return nil
}

// AcquireLease takes the advisory lock for a direction. The upsert only
// succeeds when no lease row exists or the existing one has expired, so two
// concurrent runs cannot both win.
func (s *SyncStateStore) AcquireLease(direction, holder string, ttl time.Duration) (bool, error) {
	now := time.Now().UTC()
	lease := models.SyncLease{
		Direction:  direction,
		Holder:     holder,
		AcquiredAt: now,
		ExpiresAt:  now.Add(ttl),
	}
	res := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "direction"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"holder":      holder,
			"acquired_at": now,
			"expires_at":  now.Add(ttl),
		}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Lt{Column: clause.Column{Table: "sync_leases", Name: "expires_at"}, Value: now},
		}},
	}).Create(&lease)
	if res.Error != nil {
		return false, fmt.Errorf("acquiring sync lease %s: %w", direction, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ReleaseLease frees the lock. Only the current holder may release it.
func (s *SyncStateStore) ReleaseLease(direction, holder string) error {
	err := s.db.Where("direction = ? AND holder = ?", direction, holder).
		Delete(&models.SyncLease{}).Error
	if err != nil {
		return fmt.Errorf("releasing sync lease %s: %w", direction, err)
	}
	return nil
}

// RecordRun appends one reconciliation attempt to the history.
func (s *SyncStateStore) RecordRun(run *models.SyncRun) error {
	if err := s.db.Create(run).Error; err != nil {
		return fmt.Errorf("recording sync run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest runs, newest first.
func (s *SyncStateStore) RecentRuns(limit int) ([]models.SyncRun, error) {
	var out []models.SyncRun
	if err := s.db.Order("started_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing sync runs: %w", err)
	}
	return out, nil
}

// LastRun returns the most recent run for one direction, or nil.
func (s *SyncStateStore) LastRun(direction string) (*models.SyncRun, error) {
	var run models.SyncRun
	err := s.db.Where("direction = ?", direction).
		Order("started_at DESC").First(&run).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading last sync run %s: %w", direction, err)
	}
	return &run, nil
}
