package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/nobarid/nobar-backend/internal/errors"

	"github.com/nobarid/nobar-backend/internal/middleware"
	"github.com/nobarid/nobar-backend/internal/storage"
)

// Evidence photos only; the bucket is not a general file drop.
var allowedUploadTypes = []string{"image/jpeg", "image/png", "image/webp"}

const maxUploadSize = 10 * 1024 * 1024 // 10MB

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type PresignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required"`
}

// Presign issues a presigned S3 PUT URL for a verification photo
// POST /api/v1/uploads/presign
func (ctrl *UploadController) Presign(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req PresignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedUploadTypes); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}
	if err := ctrl.storage.ValidateFileSize(req.Size, maxUploadSize); err != nil {
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
		return
	}

	resp, err := ctrl.storage.PresignUpload(req.Filename, req.ContentType, "verifications")
	if err != nil {
		log.Error("Failed to generate presigned upload URL", err, map[string]interface{}{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, resp)
}
