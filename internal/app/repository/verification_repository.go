package repository

import (
	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	Create(verification *model.FieldVerification) error
	FindByID(id uint) (*model.FieldVerification, error)
	FindByVenueID(venueID uint) (*model.FieldVerification, error)
	FindByStatus(status model.VerificationStatus) ([]model.FieldVerification, error)
	Update(verification *model.FieldVerification) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(verification *model.FieldVerification) error {
	if err := r.db.Create(verification).Error; err != nil {
		logger.Error("Failed to create field verification", err, map[string]interface{}{
			"venue_id":    verification.VenueID,
			"surveyor_id": verification.SurveyorID,
		})
		return err
	}
	return nil
}

func (r *verificationRepository) FindByID(id uint) (*model.FieldVerification, error) {
	var verification model.FieldVerification
	if err := r.db.Preload("Venue").First(&verification, id).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) FindByVenueID(venueID uint) (*model.FieldVerification, error) {
	var verification model.FieldVerification
	if err := r.db.Where("venue_id = ?", venueID).First(&verification).Error; err != nil {
		return nil, err
	}
	return &verification, nil
}

func (r *verificationRepository) FindByStatus(status model.VerificationStatus) ([]model.FieldVerification, error) {
	var verifications []model.FieldVerification
	if err := r.db.Preload("Venue").
		Where("status = ?", status).
		Order("visited_at ASC").
		Find(&verifications).Error; err != nil {
		logger.Error("Failed to find field verifications by status", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return verifications, nil
}

func (r *verificationRepository) Update(verification *model.FieldVerification) error {
	if err := r.db.Save(verification).Error; err != nil {
		logger.Error("Failed to update field verification", err, map[string]interface{}{
			"verification_id": verification.ID,
		})
		return err
	}
	return nil
}
