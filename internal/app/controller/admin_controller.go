package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/nobarid/nobar-backend/internal/errors"
	ws "github.com/nobarid/nobar-backend/internal/websocket"

	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/internal/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth happens in middleware before the upgrade; origin checks belong
	// to the reverse proxy in this deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type AdminController struct {
	exportService   service.ExportService
	activityService service.ActivityService
	hub             *ws.Hub
}

func NewAdminController(exportService service.ExportService, activityService service.ActivityService, hub *ws.Hub) *AdminController {
	return &AdminController{
		exportService:   exportService,
		activityService: activityService,
		hub:             hub,
	}
}

// ExportLicenses streams all paid licenses as an xlsx download
// GET /api/v1/admin/licenses/export
func (ctrl *AdminController) ExportLicenses(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	buf, filename, err := ctrl.exportService.ExportLicensesXLSX()
	if err != nil {
		log.Error("Failed to export licenses", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// Activities returns the most recent audit trail entries
// GET /api/v1/admin/activities
func (ctrl *AdminController) Activities(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	entries, err := ctrl.activityService.Recent(limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activities": entries,
		"count":      len(entries),
	})
}

// LiveActivities upgrades to a websocket subscribed to the activity feed
// GET /api/v1/admin/activities/live
func (ctrl *AdminController) LiveActivities(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := ws.NewClient(ctrl.hub, conn, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
