package model

import (
	"time"

	"gorm.io/gorm"
)

// Capacity bands double as license tier selectors.
const (
	MinCapacityTier = 1
	MaxCapacityTier = 5
)

// Venue is a registered business location broadcasting the event.
// Code is alphanumeric-only: it is embedded in payment order ids, whose
// delimiter must never appear inside a venue identifier.
type Venue struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Code         string         `gorm:"type:varchar(12);uniqueIndex;not null" json:"code"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	BusinessName string         `gorm:"not null" json:"business_name"`
	OwnerName    string         `gorm:"not null" json:"owner_name"`
	Email        string         `gorm:"not null;index" json:"email"`
	Phone        string         `gorm:"type:varchar(30)" json:"phone"`
	Address      string         `gorm:"type:text" json:"address"`
	Province     string         `gorm:"index" json:"province"`
	City         string         `gorm:"index" json:"city"`
	District     string         `json:"district"`
	PostalCode   string         `gorm:"type:varchar(10)" json:"postal_code"`
	Capacity     int            `gorm:"not null" json:"capacity"` // tier selector, 1-5
	Latitude     *float64       `gorm:"type:decimal(10,8)" json:"latitude"`
	Longitude    *float64       `gorm:"type:decimal(11,8)" json:"longitude"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User         User               `gorm:"foreignKey:UserID" json:"owner,omitempty"`
	License      *License           `gorm:"foreignKey:VenueID" json:"license,omitempty"`
	Verification *FieldVerification `gorm:"foreignKey:VenueID" json:"verification,omitempty"`
}

func (Venue) TableName() string {
	return "venues"
}
