package model

import (
	"time"

	"gorm.io/gorm"
)

type LicenseStatus string

const (
	LicenseStatusUnpaid LicenseStatus = "unpaid"
	LicenseStatusPaid   LicenseStatus = "paid"
)

// License is the broadcast license of a venue, at most one per venue.
// The unique index on VenueID is the only concurrency-safety primitive in the
// payment flow: concurrent confirmations race on the insert, and the loser
// recovers by re-reading the winner's row.
type License struct {
	ID      uint `gorm:"primarykey" json:"id"`
	VenueID uint `gorm:"not null;uniqueIndex" json:"venue_id"`

	Tier       int           `gorm:"not null" json:"tier"` // capacity tier at issuance time
	BasePrice  int64         `gorm:"not null" json:"base_price"`
	VAT        int64         `gorm:"not null" json:"vat"`
	Fee        int64         `gorm:"not null" json:"fee"`
	TotalPrice int64         `gorm:"not null" json:"total_price"`
	Status     LicenseStatus `gorm:"type:varchar(20);default:'unpaid';index" json:"status"`

	// Gateway correlation and transaction metadata
	OrderID           string     `gorm:"type:varchar(64);index" json:"order_id,omitempty"`
	MidtransID        string     `gorm:"type:varchar(64)" json:"midtrans_id,omitempty"`
	TransactionID     string     `gorm:"type:varchar(64)" json:"transaction_id,omitempty"`
	PaymentType       string     `gorm:"type:varchar(30)" json:"payment_type,omitempty"`
	TransactionStatus string     `gorm:"type:varchar(20)" json:"transaction_status,omitempty"`
	TransactionTime   string     `gorm:"type:varchar(30)" json:"transaction_time,omitempty"`
	Bank              string     `gorm:"type:varchar(30)" json:"bank,omitempty"`
	VANumber          string     `gorm:"type:varchar(40)" json:"va_number,omitempty"`
	CardType          string     `gorm:"type:varchar(20)" json:"card_type,omitempty"`
	MaskedCard        string     `gorm:"type:varchar(30)" json:"masked_card,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Venue Venue `gorm:"foreignKey:VenueID" json:"-"`
}

func (License) TableName() string {
	return "licenses"
}

// Paid reports whether the license has reached its terminal state.
func (l *License) Paid() bool {
	return l.Status == LicenseStatusPaid
}
