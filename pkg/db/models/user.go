package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/orderdeskhq/orderdesk-backend/pkg/enums"
)

// User is a staff or retailer account.
type User struct {
	ID             uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash   string         `gorm:"column:password_hash;not null"`
	Name           string         `gorm:"column:name;not null"`
	Role           enums.UserRole `gorm:"column:role;type:text;not null;default:'staff'"`
	SessionVersion int            `gorm:"column:session_version;not null;default:0"`
	IsActive       bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt    *time.Time     `gorm:"column:last_login_at"`
	CreatedAt      time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
