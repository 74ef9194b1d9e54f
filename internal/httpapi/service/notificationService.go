package service

import (
	"context"

	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"
)

type NotificationService interface {
	GetUnread(ctx context.Context, user *models.User) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, user *models.User, notificationID int64) error
	MarkAllAsRead(ctx context.Context, user *models.User) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetUnread(ctx context.Context, user *models.User) ([]models.Notification, error) {
	return s.repo.GetUnreadByUser(ctx, user.ID)
}

// MarkAsRead flips a single notification. Ownership is checked against the
// caller's unread set so one user cannot ack another's inbox.
func (s *notificationService) MarkAsRead(ctx context.Context, user *models.User, notificationID int64) error {
	unread, err := s.repo.GetUnreadByUser(ctx, user.ID)
	if err != nil {
		return err
	}
	for _, n := range unread {
		if n.ID == notificationID {
			return s.repo.MarkAsRead(ctx, notificationID)
		}
	}
	return ErrNotificationNotFound
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, user *models.User) error {
	return s.repo.MarkAllAsRead(ctx, user.ID)
}
