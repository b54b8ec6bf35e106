package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nobarid/nobar-backend/internal/errors"

	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/internal/middleware"
)

type VerificationController struct {
	verificationService service.VerificationService
}

func NewVerificationController(verificationService service.VerificationService) *VerificationController {
	return &VerificationController{
		verificationService: verificationService,
	}
}

// Queue lists venues awaiting an approved field verification
// GET /api/v1/verifications/queue
func (ctrl *VerificationController) Queue(c *gin.Context) {
	venues, err := ctrl.verificationService.Queue()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venues": venues,
		"count":  len(venues),
	})
}

// RecordVisit files an on-site verification report for a venue
// POST /api/v1/verifications/:venueId
func (ctrl *VerificationController) RecordVisit(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	venueID, ok := parseIDParam(c, "venueId")
	if !ok {
		return
	}

	var input service.VisitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	verification, err := ctrl.verificationService.RecordVisit(caller, venueID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVenueNotFound):
			apperrors.NotFound(c, apperrors.VenueNotFound, "venue not found")
		case errors.Is(err, service.ErrVerificationExists):
			apperrors.Conflict(c, apperrors.ResourceAlreadyExists, "venue has already been verified")
		default:
			log.Error("Failed to record field visit", err, map[string]interface{}{
				"venue_id":    venueID,
				"surveyor_id": caller.UserID,
			})
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"verification": verification})
}

// Review approves or rejects a pending verification
// PUT /api/v1/verifications/:venueId/review
func (ctrl *VerificationController) Review(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	venueID, ok := parseIDParam(c, "venueId")
	if !ok {
		return
	}

	var input service.ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	verification, err := ctrl.verificationService.Review(caller, venueID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVerificationNotFound):
			apperrors.NotFound(c, apperrors.VerificationNotFound, "no verification for this venue")
		case errors.Is(err, service.ErrVerificationAlreadyReviewed):
			apperrors.Conflict(c, apperrors.VerificationAlreadyReviewed, "verification has already been reviewed")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"verification": verification})
}

// GetByVenue returns the verification state of a venue
// GET /api/v1/verifications/:venueId
func (ctrl *VerificationController) GetByVenue(c *gin.Context) {
	venueID, ok := parseIDParam(c, "venueId")
	if !ok {
		return
	}

	verification, err := ctrl.verificationService.GetByVenue(venueID)
	if err != nil {
		if errors.Is(err, service.ErrVerificationNotFound) {
			apperrors.NotFound(c, apperrors.VerificationNotFound, "no verification for this venue")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"verification": verification})
}
