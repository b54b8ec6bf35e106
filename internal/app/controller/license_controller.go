package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nobarid/nobar-backend/internal/errors"

	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/internal/middleware"
)

type LicenseController struct {
	licenseService service.LicenseService
}

func NewLicenseController(licenseService service.LicenseService) *LicenseController {
	return &LicenseController{
		licenseService: licenseService,
	}
}

type ConfirmPaymentRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

type CancelOrderRequest struct {
	OrderID string `json:"order_id" binding:"required"`
}

// CreateOrder starts a payment for the venue's license tier
// POST /api/v1/licenses/:venueId/order
func (ctrl *LicenseController) CreateOrder(c *gin.Context) {
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

	result, err := ctrl.licenseService.CreateOrder(c.Request.Context(), caller, venueID)
	if err != nil {
		ctrl.respondLicenseError(c, err)
		return
	}

	log.Info("Payment order created", map[string]interface{}{
		"venue_id": venueID,
		"order_id": result.OrderID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"order":   result,
	})
}

// ConfirmPayment reconciles the payment state with the gateway and issues
// the license when settled
// POST /api/v1/licenses/:venueId/confirm
func (ctrl *LicenseController) ConfirmPayment(c *gin.Context) {
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

	var req ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "order_id is required")
		return
	}

	license, err := ctrl.licenseService.ConfirmPayment(c.Request.Context(), caller, venueID, req.OrderID)
	if err != nil {
		log.Warn("Payment confirmation rejected", map[string]interface{}{
			"venue_id": venueID,
			"order_id": req.OrderID,
			"error":    err.Error(),
		})
		ctrl.respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"license": license,
	})
}

// CancelOrder abandons a pending payment attempt
// POST /api/v1/licenses/:venueId/cancel
func (ctrl *LicenseController) CancelOrder(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	venueID, ok := parseIDParam(c, "venueId")
	if !ok {
		return
	}

	var req CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "order_id is required")
		return
	}

	if err := ctrl.licenseService.CancelOrder(c.Request.Context(), caller, venueID, req.OrderID); err != nil {
		ctrl.respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "payment order cancelled",
	})
}

// GetLicense returns the venue's current license
// GET /api/v1/licenses/:venueId
func (ctrl *LicenseController) GetLicense(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		apperrors.Unauthorized(c, "")
		return
	}

	venueID, ok := parseIDParam(c, "venueId")
	if !ok {
		return
	}

	license, err := ctrl.licenseService.GetLicense(caller, venueID)
	if err != nil {
		ctrl.respondLicenseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"license": license})
}

func (ctrl *LicenseController) respondLicenseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVenueNotFound):
		apperrors.NotFound(c, apperrors.VenueNotFound, "venue not found")
	case errors.Is(err, service.ErrLicenseNotFound):
		apperrors.NotFound(c, apperrors.LicenseNotFound, "no license for this venue")
	case errors.Is(err, service.ErrAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAccessDenied, "you do not have access to this venue")
	case errors.Is(err, service.ErrInvalidOrder):
		apperrors.BadRequest(c, apperrors.OrderInvalid, "order id is malformed or does not match the venue")
	case errors.Is(err, service.ErrInvalidTier):
		apperrors.BadRequest(c, apperrors.VenueInvalidTier, "capacity tier must be between 1 and 5")
	case errors.Is(err, service.ErrLicenseAlreadyPaid):
		apperrors.Conflict(c, apperrors.LicenseAlreadyPaid, "license has already been paid")
	case errors.Is(err, service.ErrPaymentNotConfirmed):
		resp := gin.H{
			"success": false,
			"error":   apperrors.PaymentNotConfirmed,
			"message": "payment has not been confirmed by the gateway",
		}
		// Surface the gateway's own verdict (deny, expire, ...) when it gave one.
		var notConfirmed *service.PaymentNotConfirmedError
		if errors.As(err, &notConfirmed) && notConfirmed.Status != "" {
			resp["status"] = notConfirmed.Status
		}
		c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.Is(err, service.ErrGatewayUnavailable):
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.GatewayUnavailable, "payment gateway is unavailable, please retry")
	default:
		apperrors.InternalError(c, "")
	}
}
