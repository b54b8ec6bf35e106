package repository

import (
	"time"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"gorm.io/gorm"
)

type LicenseRepository interface {
	Create(license *model.License) error
	FindByVenueID(venueID uint) (*model.License, error)
	FindByOrderID(orderID string) (*model.License, error)
	Update(license *model.License) error
	Delete(license *model.License) error
	FindAllPaid() ([]model.License, error)
	FindStaleUnpaid(olderThan time.Time) ([]model.License, error)
}

type licenseRepository struct {
	db *gorm.DB
}

func NewLicenseRepository(db *gorm.DB) LicenseRepository {
	return &licenseRepository{db: db}
}

// Create inserts a license row. The unique index on venue_id makes this
// the contended operation under concurrent confirmations; callers must
// handle the duplicate-key error and re-read instead of treating it as
// a hard failure.
func (r *licenseRepository) Create(license *model.License) error {
	if err := r.db.Create(license).Error; err != nil {
		logger.Debug("License insert rejected", map[string]interface{}{
			"venue_id": license.VenueID,
			"order_id": license.OrderID,
			"error":    err.Error(),
		})
		return err
	}
	return nil
}

func (r *licenseRepository) FindByVenueID(venueID uint) (*model.License, error) {
	var license model.License
	if err := r.db.Where("venue_id = ?", venueID).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepository) FindByOrderID(orderID string) (*model.License, error) {
	var license model.License
	if err := r.db.Where("order_id = ?", orderID).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepository) Update(license *model.License) error {
	if err := r.db.Save(license).Error; err != nil {
		logger.Error("Failed to update license in database", err, map[string]interface{}{
			"license_id": license.ID,
			"venue_id":   license.VenueID,
		})
		return err
	}
	return nil
}

func (r *licenseRepository) Delete(license *model.License) error {
	if err := r.db.Unscoped().Delete(license).Error; err != nil {
		logger.Error("Failed to delete license from database", err, map[string]interface{}{
			"license_id": license.ID,
			"venue_id":   license.VenueID,
		})
		return err
	}
	return nil
}

func (r *licenseRepository) FindAllPaid() ([]model.License, error) {
	var licenses []model.License
	if err := r.db.Preload("Venue").Preload("Venue.User").
		Where("status = ?", model.LicenseStatusPaid).
		Order("paid_at ASC").
		Find(&licenses).Error; err != nil {
		logger.Error("Failed to find paid licenses", err)
		return nil, err
	}
	return licenses, nil
}

// FindStaleUnpaid returns unpaid licenses whose order was created before
// the cutoff, for the expiry sweep.
func (r *licenseRepository) FindStaleUnpaid(olderThan time.Time) ([]model.License, error) {
	var licenses []model.License
	if err := r.db.Where("status = ? AND created_at < ?", model.LicenseStatusUnpaid, olderThan).
		Find(&licenses).Error; err != nil {
		logger.Error("Failed to find stale unpaid licenses", err)
		return nil, err
	}
	return licenses, nil
}
