package repository

import (
	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"gorm.io/gorm"
)

type ActivityRepository interface {
	Create(entry *model.ActivityLog) error
	FindRecent(limit int) ([]model.ActivityLog, error)
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(entry *model.ActivityLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		logger.Error("Failed to create activity log entry", err, map[string]interface{}{
			"action": entry.Action,
		})
		return err
	}
	return nil
}

func (r *activityRepository) FindRecent(limit int) ([]model.ActivityLog, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []model.ActivityLog
	if err := r.db.Order("created_at DESC").Limit(limit).Find(&entries).Error; err != nil {
		logger.Error("Failed to find recent activity log entries", err)
		return nil, err
	}
	return entries, nil
}
