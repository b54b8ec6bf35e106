package service

import (
	"github.com/nobarid/nobar-backend/internal/app/model"
	"github.com/nobarid/nobar-backend/internal/app/repository"
	"github.com/nobarid/nobar-backend/pkg/logger"
	"gorm.io/datatypes"
)

// ActivityPublisher pushes a freshly recorded entry to live subscribers.
// The websocket hub implements it; a nil publisher disables the feed.
type ActivityPublisher interface {
	Publish(entry *model.ActivityLog)
}

type ActivityService interface {
	Record(userEmail string, action model.ActivityAction, description string, metadata map[string]interface{})
	Recent(limit int) ([]model.ActivityLog, error)
	SetPublisher(publisher ActivityPublisher)
}

type activityService struct {
	activityRepo repository.ActivityRepository
	publisher    ActivityPublisher
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) SetPublisher(publisher ActivityPublisher) {
	s.publisher = publisher
}

// Record appends an audit trail entry. Recording is best-effort: a failed
// append is logged and dropped, it never fails or rolls back the operation
// being recorded.
func (s *activityService) Record(userEmail string, action model.ActivityAction, description string, metadata map[string]interface{}) {
	entry := &model.ActivityLog{
		UserEmail:   userEmail,
		Action:      action,
		Description: description,
		Metadata:    datatypes.JSONMap(metadata),
	}

	if err := s.activityRepo.Create(entry); err != nil {
		logger.Warn("Failed to record activity", map[string]interface{}{
			"action":     action,
			"user_email": userEmail,
			"error":      err.Error(),
		})
		return
	}

	if s.publisher != nil {
		s.publisher.Publish(entry)
	}
}

func (s *activityService) Recent(limit int) ([]model.ActivityLog, error) {
	return s.activityRepo.FindRecent(limit)
}
