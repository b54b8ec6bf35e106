package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrVerificationNotFound        = errors.New("field verification not found")
	ErrVerificationAlreadyReviewed = errors.New("field verification already reviewed")
	ErrVerificationExists          = errors.New("venue already has a field verification")
)

type VisitInput struct {
	PhotoURL string `json:"photo_url" binding:"required"`
	Notes    string `json:"notes"`
}

type ReviewInput struct {
	Approve         bool   `json:"approve"`
	RejectionReason string `json:"rejection_reason"`
}

type VerificationService interface {
	Queue() ([]model.Venue, error)
	RecordVisit(caller Caller, venueID uint, input VisitInput) (*model.FieldVerification, error)
	Review(caller Caller, venueID uint, input ReviewInput) (*model.FieldVerification, error)
	GetByVenue(venueID uint) (*model.FieldVerification, error)
}

type verificationService struct {
	verificationRepo repository.VerificationRepository
	venueRepo        repository.VenueRepository
	activity         ActivityService
}

func NewVerificationService(
	verificationRepo repository.VerificationRepository,
	venueRepo repository.VenueRepository,
	activity ActivityService,
) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		venueRepo:        venueRepo,
		activity:         activity,
	}
}

// Queue lists venues still waiting for an approved on-site check,
// oldest registration first.
func (s *verificationService) Queue() ([]model.Venue, error) {
	return s.venueRepo.FindUnverified()
}

// RecordVisit files the surveyor's on-site report for a venue. A venue has at
// most one verification; a rejected one is re-submitted in place.
func (s *verificationService) RecordVisit(caller Caller, venueID uint, input VisitInput) (*model.FieldVerification, error) {
	venue, err := s.venueRepo.FindByID(venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	now := time.Now()
	existing, err := s.verificationRepo.FindByVenueID(venueID)
	switch {
	case err == nil:
		if existing.Status == model.VerificationStatusApproved {
			return nil, ErrVerificationExists
		}
		// rejected or pending: replace the report and reset review state
		existing.SurveyorID = caller.UserID
		existing.PhotoURL = input.PhotoURL
		existing.Notes = input.Notes
		existing.Status = model.VerificationStatusPending
		existing.VisitedAt = &now
		existing.ReviewedAt = nil
		existing.ReviewedBy = nil
		existing.RejectionReason = ""
		if err := s.verificationRepo.Update(existing); err != nil {
			return nil, err
		}
		s.recordVisitActivity(caller, venue)
		return existing, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		verification := &model.FieldVerification{
			VenueID:    venueID,
			SurveyorID: caller.UserID,
			PhotoURL:   input.PhotoURL,
			Notes:      input.Notes,
			Status:     model.VerificationStatusPending,
			VisitedAt:  &now,
		}
		if err := s.verificationRepo.Create(verification); err != nil {
			return nil, err
		}
		s.recordVisitActivity(caller, venue)
		return verification, nil

	default:
		return nil, err
	}
}

func (s *verificationService) recordVisitActivity(caller Caller, venue *model.Venue) {
	s.activity.Record(caller.Email, model.ActionVerificationVisited,
		fmt.Sprintf("Field visit recorded for %s (%s)", venue.BusinessName, venue.Code),
		map[string]interface{}{
			"venue_id": venue.ID,
			"code":     venue.Code,
		})
}

// Review approves or rejects a pending verification. Reviews are final; a
// rejection reopens the venue for a fresh surveyor visit instead.
func (s *verificationService) Review(caller Caller, venueID uint, input ReviewInput) (*model.FieldVerification, error) {
	verification, err := s.verificationRepo.FindByVenueID(venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	if verification.Status != model.VerificationStatusPending {
		return nil, ErrVerificationAlreadyReviewed
	}

	now := time.Now()
	verification.ReviewedAt = &now
	verification.ReviewedBy = &caller.UserID
	if input.Approve {
		verification.Status = model.VerificationStatusApproved
	} else {
		verification.Status = model.VerificationStatusRejected
		verification.RejectionReason = input.RejectionReason
	}

	if err := s.verificationRepo.Update(verification); err != nil {
		return nil, err
	}

	s.activity.Record(caller.Email, model.ActionVerificationReviewed,
		fmt.Sprintf("Field verification %s for venue %d", verification.Status, venueID),
		map[string]interface{}{
			"venue_id": venueID,
			"status":   verification.Status,
		})

	return verification, nil
}

func (s *verificationService) GetByVenue(venueID uint) (*model.FieldVerification, error) {
	verification, err := s.verificationRepo.FindByVenueID(venueID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVerificationNotFound
		}
		return nil, err
	}
	return verification, nil
}
