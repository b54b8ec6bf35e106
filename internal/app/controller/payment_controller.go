package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/internal/middleware"
	"github.com/nobarid/nobar-backend/pkg/payment/midtrans"
)

type PaymentController struct {
	licenseService service.LicenseService
}

func NewPaymentController(licenseService service.LicenseService) *PaymentController {
	return &PaymentController{
		licenseService: licenseService,
	}
}

// HandleNotification receives payment status webhooks from the gateway.
// The gateway retries on non-2xx, so this endpoint always acknowledges;
// processing failures are logged and reconciled by later notifications or
// by the merchant's own confirm call.
// POST /api/v1/payments/notification
func (ctrl *PaymentController) HandleNotification(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var payload midtrans.NotificationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Warn("Unparseable payment notification", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	if err := ctrl.licenseService.HandleNotification(c.Request.Context(), &payload); err != nil {
		log.Warn("Payment notification not processed", map[string]interface{}{
			"order_id": payload.OrderID,
			"status":   payload.TransactionStatus,
			"error":    err.Error(),
		})
	} else {
		log.Info("Payment notification processed", map[string]interface{}{
			"order_id": payload.OrderID,
			"status":   payload.TransactionStatus,
		})
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
