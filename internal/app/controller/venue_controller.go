package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nobarid/nobar-backend/internal/errors"

	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/internal/middleware"
)

type VenueController struct {
	venueService service.VenueService
}

func NewVenueController(venueService service.VenueService) *VenueController {
	return &VenueController{
		venueService: venueService,
	}
}

// Register creates a venue for the authenticated merchant
// POST /api/v1/venues
func (ctrl *VenueController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	var input service.VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	venue, err := ctrl.venueService.Register(caller, input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTier) {
			apperrors.BadRequest(c, apperrors.VenueInvalidTier, "capacity tier must be between 1 and 5")
			return
		}
		log.Error("Failed to register venue", err, map[string]interface{}{
			"user_id": caller.UserID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"venue": venue})
}

// List returns venues. Merchants see their own; admins and surveyors may
// filter across all venues.
// GET /api/v1/venues
func (ctrl *VenueController) List(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	if caller.Role != model.RoleAdmin && caller.Role != model.RoleSurveyor {
		venues, err := ctrl.venueService.ListOwn(caller)
		if err != nil {
			apperrors.InternalError(c, "")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"venues": venues,
			"count":  len(venues),
		})
		return
	}

	opts := repository.VenueListOptions{
		Province: c.Query("province"),
		City:     c.Query("city"),
	}
	if limit, err := strconv.Atoi(c.DefaultQuery("limit", "50")); err == nil {
		opts.Limit = limit
	}
	if offset, err := strconv.Atoi(c.DefaultQuery("offset", "0")); err == nil {
		opts.Offset = offset
	}
	if licensed := c.Query("licensed"); licensed != "" {
		val := licensed == "true"
		opts.Licensed = &val
	}

	venues, total, err := ctrl.venueService.List(opts)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"venues": venues,
		"total":  total,
	})
}

// Get returns a single venue
// GET /api/v1/venues/:id
func (ctrl *VenueController) Get(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	venue, err := ctrl.venueService.Get(caller, venueID)
	if err != nil {
		respondVenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"venue": venue})
}

// Update edits a venue; rejected once a paid license exists
// PUT /api/v1/venues/:id
func (ctrl *VenueController) Update(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	venueID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.VenueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	venue, err := ctrl.venueService.Update(caller, venueID, input)
	if err != nil {
		if errors.Is(err, service.ErrVenueLocked) {
			apperrors.Conflict(c, apperrors.VenueLocked, "venue is locked by a paid license")
			return
		}
		if errors.Is(err, service.ErrInvalidTier) {
			apperrors.BadRequest(c, apperrors.VenueInvalidTier, "capacity tier must be between 1 and 5")
			return
		}
		log.Debug("Venue update rejected", map[string]interface{}{
			"venue_id": venueID,
			"error":    err.Error(),
		})
		respondVenueError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"venue": venue})
}

func respondVenueError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVenueNotFound):
		apperrors.NotFound(c, apperrors.VenueNotFound, "venue not found")
	case errors.Is(err, service.ErrAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAccessDenied, "you do not have access to this venue")
	default:
		apperrors.InternalError(c, "")
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	idStr := c.Param(name)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid id parameter")
		return 0, false
	}
	return uint(id), true
}
