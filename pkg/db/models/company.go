package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is a supplier account that owns catalog listings.
type Company struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerUserID uuid.UUID `gorm:"column:owner_user_id;type:uuid;not null"`
	Name        string    `gorm:"column:name;not null"`
	LegalName   *string   `gorm:"column:legal_name"`
	Website     *string   `gorm:"column:website"`
	Country     string    `gorm:"column:country;not null;default:'US'"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
