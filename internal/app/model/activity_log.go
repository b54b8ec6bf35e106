package model

import (
	"time"

	"gorm.io/datatypes"
)

type ActivityAction string

const (
	ActionVenueRegistered     ActivityAction = "venue_registered"
	ActionVenueUpdated        ActivityAction = "venue_updated"
	ActionOrderCreated        ActivityAction = "order_created"
	ActionOrderCancelled      ActivityAction = "order_cancelled"
	ActionPaymentConfirmed    ActivityAction = "payment_confirmed"
	ActionVerificationVisited ActivityAction = "verification_visited"
	ActionVerificationReviewed ActivityAction = "verification_reviewed"
)

// ActivityLog is an append-only audit trail entry. The application never
// updates or deletes rows once written.
type ActivityLog struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	UserEmail   string            `gorm:"size:255;not null;index" json:"user_email"`
	Action      ActivityAction    `gorm:"size:64;not null;index" json:"action"`
	Description string            `gorm:"type:text" json:"description"`
	Metadata    datatypes.JSONMap `gorm:"type:json" json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
