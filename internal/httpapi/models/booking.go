package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingAccepted  BookingStatus = "ACCEPTED"
	BookingRejected  BookingStatus = "REJECTED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type Booking struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	CustomerID string `gorm:"type:uuid;not null;index" json:"customer_id"`
	CookID     string `gorm:"type:uuid;not null;index" json:"cook_id"`

	BookingDetails    string        `gorm:"type:text" json:"booking_details"`
	Status            BookingStatus `gorm:"default:'PENDING';not null" json:"status"`
	RequestedDateTime time.Time     `json:"requested_date_time"`

	// Charge snapshot, fixed at acceptance and immune to later rate changes
	TotalCharges       *float64   `json:"total_charges,omitempty"`
	ServiceCompletedAt *time.Time `json:"service_completed_at,omitempty"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Customer *User `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Cook     *User `gorm:"foreignKey:CookID" json:"cook,omitempty"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	return
}

func (Booking) TableName() string {
	return "bookings"
}

// IsTerminal reports whether status transitions (and deletion) are closed off.
func (booking *Booking) IsTerminal() bool {
	return booking.Status == BookingCompleted || booking.Status == BookingRejected
}
