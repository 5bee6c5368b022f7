package models

import (
	"time"

	"gorm.io/gorm"
)

// UserAuth is an API account. Laboratory roles gate the write endpoints:
// admins manage everything, tecnicos drive test execution, consulta is
// read-only.
type UserAuth struct {
	ID         string         `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Username   string         `gorm:"unique;not null" json:"username"`
	Password   string         `gorm:"not null" json:"-"`
	Email      string         `gorm:"unique;not null" json:"email"`
	Name       string         `json:"name,omitempty"`
	Role       string         `gorm:"default:'consulta'" json:"role"` // "admin", "tecnico", "consulta"
	PersonalID *string        `gorm:"type:varchar(64)" json:"personal_id,omitempty"`
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	LastLogin  *time.Time     `json:"last_login,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for UserAuth model
func (UserAuth) TableName() string {
	return "user_auths"
}
