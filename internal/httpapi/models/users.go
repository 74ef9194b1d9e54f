package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive             = "ACTIVE"
	StatusPendingCookProfile = "PENDING_COOK_PROFILE"
)

type User struct {
	ID       string  `gorm:"primaryKey;type:uuid" json:"id"`
	Username string  `gorm:"uniqueIndex;not null" json:"username"`
	Email    string  `gorm:"uniqueIndex;not null" json:"email"`
	Password string  `gorm:"column:password_hash;not null" json:"-"` // Not shown in JSON
	Roles    RoleSet `gorm:"type:text;default:'ROLE_USER';not null" json:"roles"`
	Status   string  `gorm:"default:'PENDING_COOK_PROFILE';not null" json:"status"`

	// Cook profile, unset until the cook completes setup
	Cookname           string     `json:"cookname,omitempty"`
	Phone              string     `json:"phone,omitempty"`
	Expertise          StringList `gorm:"type:text" json:"expertise,omitempty"`
	AvailabilityStatus string     `json:"availability_status,omitempty"`
	ProfilePicture     string     `gorm:"column:profile_picture" json:"profile_picture,omitempty"`
	ChargesPerMeal     *float64   `json:"charges_per_meal,omitempty"`
	Latitude           *float64   `json:"latitude,omitempty"`
	Longitude          *float64   `json:"longitude,omitempty"`
	PlaceName          string     `json:"place_name,omitempty"`

	// Aggregate rating stats, recomputed from the ratings table
	AverageRating   float64 `gorm:"default:0" json:"average_rating"`
	NumberOfRatings int     `gorm:"default:0" json:"number_of_ratings"`

	// One-time credential gating cook profile completion
	SetupToken       *string    `gorm:"uniqueIndex" json:"-"`
	SetupTokenExpiry *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating a User
func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return
}

func (User) TableName() string {
	return "users"
}

// IsEnabled reports whether the account may log in.
func (user *User) IsEnabled() bool {
	return user.Status == StatusActive || user.Status == StatusPendingCookProfile
}

// IsActiveCook reports whether the user is a bookable cook.
func (user *User) IsActiveCook() bool {
	return user.Roles.Has(RoleCook) && user.Status == StatusActive
}
