package repository

import (
	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"gorm.io/gorm"
)

// VenueListOptions filters venue listings.
type VenueListOptions struct {
	Province string
	City     string
	OwnerID  uint
	Licensed *bool // filter on paid-license presence
	Limit    int
	Offset   int
}

type VenueRepository interface {
	Create(venue *model.Venue) error
	FindByID(id uint) (*model.Venue, error)
	FindByCode(code string) (*model.Venue, error)
	FindByUserID(userID uint) ([]model.Venue, error)
	List(opts VenueListOptions) ([]model.Venue, int64, error)
	Update(venue *model.Venue) error
	FindUnverified() ([]model.Venue, error)
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) preload() *gorm.DB {
	return r.db.Preload("License").Preload("Verification")
}

func (r *venueRepository) Create(venue *model.Venue) error {
	logger.Debug("Creating venue in database", map[string]interface{}{
		"code":     venue.Code,
		"owner_id": venue.UserID,
	})

	if err := r.db.Create(venue).Error; err != nil {
		logger.Error("Failed to create venue in database", err, map[string]interface{}{
			"code":     venue.Code,
			"owner_id": venue.UserID,
		})
		return err
	}
	return nil
}

func (r *venueRepository) FindByID(id uint) (*model.Venue, error) {
	var venue model.Venue
	if err := r.preload().First(&venue, id).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) FindByCode(code string) (*model.Venue, error) {
	var venue model.Venue
	if err := r.preload().Where("code = ?", code).First(&venue).Error; err != nil {
		return nil, err
	}
	return &venue, nil
}

func (r *venueRepository) FindByUserID(userID uint) ([]model.Venue, error) {
	var venues []model.Venue
	if err := r.preload().Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&venues).Error; err != nil {
		logger.Error("Failed to find venues by user ID in database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return venues, nil
}

func (r *venueRepository) List(opts VenueListOptions) ([]model.Venue, int64, error) {
	query := r.db.Model(&model.Venue{})

	if opts.Province != "" {
		query = query.Where("province = ?", opts.Province)
	}
	if opts.City != "" {
		query = query.Where("city = ?", opts.City)
	}
	if opts.OwnerID != 0 {
		query = query.Where("user_id = ?", opts.OwnerID)
	}
	if opts.Licensed != nil {
		sub := r.db.Model(&model.License{}).
			Select("venue_id").
			Where("status = ?", model.LicenseStatusPaid)
		if *opts.Licensed {
			query = query.Where("id IN (?)", sub)
		} else {
			query = query.Where("id NOT IN (?)", sub)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit).Offset(opts.Offset)
	}

	var venues []model.Venue
	if err := query.Preload("License").Preload("Verification").
		Order("created_at DESC").
		Find(&venues).Error; err != nil {
		logger.Error("Failed to list venues", err)
		return nil, 0, err
	}

	return venues, total, nil
}

func (r *venueRepository) Update(venue *model.Venue) error {
	if err := r.db.Save(venue).Error; err != nil {
		logger.Error("Failed to update venue in database", err, map[string]interface{}{
			"venue_id": venue.ID,
		})
		return err
	}
	return nil
}

// FindUnverified returns venues without an approved field verification,
// ordered oldest first so surveyors work through the backlog in order.
func (r *venueRepository) FindUnverified() ([]model.Venue, error) {
	var venues []model.Venue
	sub := r.db.Model(&model.FieldVerification{}).
		Select("venue_id").
		Where("status = ?", model.VerificationStatusApproved)

	if err := r.db.Preload("Verification").
		Where("id NOT IN (?)", sub).
		Order("created_at ASC").
		Find(&venues).Error; err != nil {
		logger.Error("Failed to find unverified venues", err)
		return nil, err
	}
	return venues, nil
}
