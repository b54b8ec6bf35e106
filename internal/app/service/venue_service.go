package service

import (
	"errors"
	"fmt"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"github.com/nobarid/nobar-backend/pkg/util"
	"gorm.io/gorm"
)

// ErrVenueLocked is returned when a paid-licensed venue is edited. What was
// licensed is what was inspected; the record freezes on issuance.
var ErrVenueLocked = errors.New("venue is locked by a paid license")

const venueCodeLength = 8

type VenueInput struct {
	BusinessName string   `json:"business_name" binding:"required"`
	OwnerName    string   `json:"owner_name" binding:"required"`
	Email        string   `json:"email" binding:"required,email"`
	Phone        string   `json:"phone"`
	Address      string   `json:"address" binding:"required"`
	Province     string   `json:"province" binding:"required"`
	City         string   `json:"city" binding:"required"`
	District     string   `json:"district"`
	PostalCode   string   `json:"postal_code"`
	Capacity     int      `json:"capacity" binding:"required"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
}

type VenueService interface {
	Register(caller Caller, input VenueInput) (*model.Venue, error)
	Update(caller Caller, venueID uint, input VenueInput) (*model.Venue, error)
	Get(caller Caller, venueID uint) (*model.Venue, error)
	ListOwn(caller Caller) ([]model.Venue, error)
	List(opts repository.VenueListOptions) ([]model.Venue, int64, error)
}

type venueService struct {
	venueRepo repository.VenueRepository
	activity  ActivityService
}

func NewVenueService(venueRepo repository.VenueRepository, activity ActivityService) VenueService {
	return &venueService{venueRepo: venueRepo, activity: activity}
}

// Register creates a venue under the caller with a freshly generated code.
// Code collisions are vanishingly rare but the generate-and-insert loop
// retries a few times on the unique index just in case.
func (s *venueService) Register(caller Caller, input VenueInput) (*model.Venue, error) {
	if input.Capacity < model.MinCapacityTier || input.Capacity > model.MaxCapacityTier {
		return nil, ErrInvalidTier
	}

	venue := &model.Venue{
		UserID:       caller.UserID,
		BusinessName: input.BusinessName,
		OwnerName:    input.OwnerName,
		Email:        input.Email,
		Phone:        input.Phone,
		Address:      input.Address,
		Province:     input.Province,
		City:         input.City,
		District:     input.District,
		PostalCode:   input.PostalCode,
		Capacity:     input.Capacity,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
	}

	var err error
	for attempt := 0; attempt < 3; attempt++ {
		venue.Code = util.GenerateVenueCode(venueCodeLength)
		err = s.venueRepo.Create(venue)
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		logger.Warn("Venue code collision, regenerating", map[string]interface{}{
			"code": venue.Code,
		})
	}
	if err != nil {
		return nil, err
	}

	s.activity.Record(caller.Email, model.ActionVenueRegistered,
		fmt.Sprintf("Registered venue %s (%s)", venue.BusinessName, venue.Code),
		map[string]interface{}{
			"venue_id": venue.ID,
			"code":     venue.Code,
			"city":     venue.City,
		})

	return venue, nil
}

// Update edits a venue. Once a paid license exists the venue is locked:
// the licensed record must stay what the surveyor inspected and the
// merchant paid for.
func (s *venueService) Update(caller Caller, venueID uint, input VenueInput) (*model.Venue, error) {
	venue, err := s.load(venueID)
	if err != nil {
		return nil, err
	}
	if !caller.Trusted() && venue.UserID != caller.UserID {
		return nil, ErrAccessDenied
	}
	if venue.License != nil && venue.License.Paid() {
		return nil, ErrVenueLocked
	}
	if input.Capacity < model.MinCapacityTier || input.Capacity > model.MaxCapacityTier {
		return nil, ErrInvalidTier
	}

	venue.BusinessName = input.BusinessName
	venue.OwnerName = input.OwnerName
	venue.Email = input.Email
	venue.Phone = input.Phone
	venue.Address = input.Address
	venue.Province = input.Province
	venue.City = input.City
	venue.District = input.District
	venue.PostalCode = input.PostalCode
	venue.Capacity = input.Capacity
	venue.Latitude = input.Latitude
	venue.Longitude = input.Longitude

	if err := s.venueRepo.Update(venue); err != nil {
		return nil, err
	}

	s.activity.Record(caller.Email, model.ActionVenueUpdated,
		fmt.Sprintf("Updated venue %s (%s)", venue.BusinessName, venue.Code),
		map[string]interface{}{
			"venue_id": venue.ID,
			"code":     venue.Code,
		})

	return venue, nil
}

func (s *venueService) Get(caller Caller, venueID uint) (*model.Venue, error) {
	venue, err := s.load(venueID)
	if err != nil {
		return nil, err
	}
	if !caller.Trusted() && caller.Role != model.RoleSurveyor && venue.UserID != caller.UserID {
		return nil, ErrAccessDenied
	}
	return venue, nil
}

func (s *venueService) ListOwn(caller Caller) ([]model.Venue, error) {
	return s.venueRepo.FindByUserID(caller.UserID)
}

func (s *venueService) List(opts repository.VenueListOptions) ([]model.Venue, int64, error) {
	return s.venueRepo.List(opts)
}

func (s *venueService) load(venueID uint) (*model.Venue, error) {
	venue, err := s.venueRepo.FindByID(venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return venue, nil
}
