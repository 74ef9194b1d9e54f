package models

import "time"

type Rating struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	BookingID     string `gorm:"type:uuid;not null;uniqueIndex" json:"booking_id"`
	RatedByUserID string `gorm:"type:uuid;not null;index" json:"rated_by_user_id"`
	RatedCookID   string `gorm:"column:rated_cook_user_id;type:uuid;not null;index" json:"rated_cook_id"`

	RatingValue int       `gorm:"not null;check:rating_value >= 1 AND rating_value <= 5" json:"rating_value"`
	Comment     string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Associations
	Booking     *Booking `gorm:"foreignKey:BookingID" json:"booking,omitempty"`
	RatedByUser *User    `gorm:"foreignKey:RatedByUserID" json:"rated_by_user,omitempty"`
	RatedCook   *User    `gorm:"foreignKey:RatedCookID" json:"rated_cook,omitempty"`
}

func (Rating) TableName() string {
	return "ratings"
}
