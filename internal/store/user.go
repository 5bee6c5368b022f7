package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rulos-nico/17025/internal/models"
)

// UserStore is the data access layer for API accounts.
type UserStore struct {
	db *gorm.DB
}

func (s *UserStore) FindByUsername(username string) (*models.UserAuth, error) {
	var u models.UserAuth
	if err := s.db.First(&u, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading user %s: %w", username, err)
	}
	return &u, nil
}

func (s *UserStore) FindByID(id string) (*models.UserAuth, error) {
	var u models.UserAuth
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading user %s: %w", id, err)
	}
	return &u, nil
}

func (s *UserStore) Create(u *models.UserAuth) error {
	if err := s.db.Create(u).Error; err != nil {
		return fmt.Errorf("creating user %s: %w", u.Username, err)
	}
	return nil
}

// TouchLogin records a successful login.
func (s *UserStore) TouchLogin(id string) error {
	now := time.Now().UTC()
	if err := s.db.Model(&models.UserAuth{}).Where("id = ?", id).
		Update("last_login", now).Error; err != nil {
		return fmt.Errorf("recording login of user %s: %w", id, err)
	}
	return nil
}
