package models

import "time"

// Notification is the stored copy of a dispatched lifecycle event, kept so
// users who were offline when it fired can still see it.
type Notification struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       string    `gorm:"not null" json:"type"`
	BookingID  string    `gorm:"type:uuid" json:"booking_id"`
	FromUserID string    `gorm:"type:uuid" json:"from_user_id"`
	Message    string    `json:"message"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Associations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
