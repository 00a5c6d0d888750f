package services

import (
	"time"

	"github.com/geoincidents/backend/internal/apperr"
	"github.com/geoincidents/backend/internal/dto"
	"github.com/geoincidents/backend/internal/models"
	"github.com/geoincidents/backend/internal/repository"
	"github.com/google/uuid"
)

type NotificationService struct {
	notifications repository.NotificationRepository
}

func NewNotificationService(notifications repository.NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(userID uuid.UUID, unreadOnly bool, page, limit int) ([]models.Notification, *dto.Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	notifications, total, err := s.notifications.ListByUser(userID, unreadOnly, page, limit)
	if err != nil {
		return nil, nil, err
	}
	return notifications, dto.NewPagination(page, limit, total), nil
}

// MarkRead flags a notification as read. Another user's notification reads as
// not found so the endpoint never confirms a foreign ID exists.
func (s *NotificationService) MarkRead(id, userID uuid.UUID) (*models.Notification, error) {
	notification, err := s.notifications.FindByID(id)
	if err != nil {
		return nil, err
	}
	if notification == nil || notification.UserID != userID {
		return nil, apperr.NotFound("notification not found")
	}

	if !notification.IsRead {
		now := time.Now()
		notification.IsRead = true
		notification.ReadAt = &now
		if err := s.notifications.Save(notification); err != nil {
			return nil, err
		}
	}
	return notification, nil
}

func (s *NotificationService) MarkAllRead(userID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(userID, time.Now())
}

func (s *NotificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.notifications.CountUnread(userID)
}
