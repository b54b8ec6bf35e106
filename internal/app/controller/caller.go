package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/nobarid/nobar-backend/internal/app/service"
	"github.com/nobarid/nobar-backend/internal/middleware"
)

// callerFromContext assembles the authenticated caller identity that service
// operations take explicitly.
func callerFromContext(c *gin.Context) (service.Caller, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return service.Caller{}, false
	}
	email, _ := middleware.GetUserEmail(c)
	role, _ := middleware.GetUserRole(c)
	return service.Caller{UserID: userID, Email: email, Role: role}, true
}
