package model

import (
	"time"

	"gorm.io/gorm"
)

// VerificationStatus is the review state of a surveyor's on-site report.
type VerificationStatus string

const (
	VerificationStatusPending  VerificationStatus = "pending"
	VerificationStatusApproved VerificationStatus = "approved"
	VerificationStatusRejected VerificationStatus = "rejected"
)

// FieldVerification records the on-site check a surveyor performs on a venue.
type FieldVerification struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	VenueID uint  `gorm:"not null;uniqueIndex" json:"venue_id"` // 1:1 with venue
	Venue   Venue `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	SurveyorID uint               `gorm:"not null;index" json:"surveyor_id"`
	PhotoURL   string             `gorm:"type:text" json:"photo_url,omitempty"` // evidence photo in object storage
	Notes      string             `gorm:"type:text" json:"notes,omitempty"`
	Status     VerificationStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	VisitedAt  *time.Time `json:"visited_at,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy *uint      `json:"reviewed_by,omitempty"` // reviewing admin id
	RejectionReason string `gorm:"type:text" json:"rejection_reason,omitempty"`
}

func (FieldVerification) TableName() string {
	return "field_verifications"
}
