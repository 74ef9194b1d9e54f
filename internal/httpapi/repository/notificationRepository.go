package repository

import (
	"context"

	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/notify"

	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, notificationID int64) error
	MarkAllAsRead(ctx context.Context, userID string) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND read = false", userID).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, notificationID int64) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ?", notificationID).
		Update("read", true).Error
}

func (r *notificationRepository) MarkAllAsRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("read", true).Error
}

// notificationStore adapts the repository to the dispatcher's Store so every
// delivered event also lands in the recipient's inbox.
type notificationStore struct {
	repo NotificationRepository
}

func NewNotificationStore(repo NotificationRepository) notify.Store {
	return &notificationStore{repo: repo}
}

func (s *notificationStore) Save(ctx context.Context, event notify.Event) error {
	return s.repo.Create(ctx, &models.Notification{
		UserID:     event.ToUserID,
		Type:       event.Type,
		BookingID:  event.BookingID,
		FromUserID: event.FromUserID,
		Message:    event.Message,
	})
}
