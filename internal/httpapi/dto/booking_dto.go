package dto

import (
	"fmt"
	"strings"
	"time"

	"cookedhub/internal/httpapi/models"
)

// CreateBookingRequest: payload for a customer booking a cook
type CreateBookingRequest struct {
	CookID            string    `json:"cook_id" binding:"required,uuid"`
	CustomerName      string    `json:"customer_name" binding:"required"`
	CustomerAddress   string    `json:"customer_address" binding:"required"`
	MealPreference    string    `json:"meal_preference"`
	RequestedDateTime time.Time `json:"requested_date_time" binding:"required"`
}

// BookingStatusUpdateRequest: cook accepting or rejecting a pending booking
type BookingStatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// BookingResponse: a booking annotated with whether its customer has rated it
type BookingResponse struct {
	ID                 string     `json:"id"`
	CustomerID         string     `json:"customer_id"`
	CustomerUsername   string     `json:"customer_username"`
	CookID             string     `json:"cook_id"`
	CookUsername       string     `json:"cook_username"`
	BookingDetails     string     `json:"booking_details"`
	CustomerName       string     `json:"customer_name"`
	CustomerAddress    string     `json:"customer_address"`
	MealPreference     string     `json:"meal_preference"`
	Status             string     `json:"status"`
	RequestedDateTime  time.Time  `json:"requested_date_time"`
	TotalCharges       *float64   `json:"total_charges,omitempty"`
	ServiceCompletedAt *time.Time `json:"service_completed_at,omitempty"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	RatedByCustomer    bool       `json:"rated_by_customer"`
}

// FormatBookingDetails joins the free-text request fields into the stored
// details line.
func FormatBookingDetails(name, address, mealPreference string) string {
	return fmt.Sprintf("Name: %s, Address: %s, Meal Preference: %s", name, address, mealPreference)
}

// ParseBookingDetails splits a stored details line back into its fields.
// Unrecognized segments are ignored.
func ParseBookingDetails(details string) (name, address, mealPreference string) {
	for _, part := range strings.Split(details, ", ") {
		switch {
		case strings.HasPrefix(part, "Name: "):
			name = strings.TrimPrefix(part, "Name: ")
		case strings.HasPrefix(part, "Address: "):
			address = strings.TrimPrefix(part, "Address: ")
		case strings.HasPrefix(part, "Meal Preference: "):
			mealPreference = strings.TrimPrefix(part, "Meal Preference: ")
		}
	}
	return
}

func FromModelToBookingResponse(booking *models.Booking, rated bool) *BookingResponse {
	resp := &BookingResponse{
		ID:                 booking.ID,
		CustomerID:         booking.CustomerID,
		CookID:             booking.CookID,
		BookingDetails:     booking.BookingDetails,
		Status:             string(booking.Status),
		RequestedDateTime:  booking.RequestedDateTime,
		TotalCharges:       booking.TotalCharges,
		ServiceCompletedAt: booking.ServiceCompletedAt,
		PaymentCompletedAt: booking.PaymentCompletedAt,
		CreatedAt:          booking.CreatedAt,
		UpdatedAt:          booking.UpdatedAt,
		RatedByCustomer:    rated,
	}
	resp.CustomerName, resp.CustomerAddress, resp.MealPreference = ParseBookingDetails(booking.BookingDetails)
	if booking.Customer != nil {
		resp.CustomerUsername = booking.Customer.Username
	}
	if booking.Cook != nil {
		resp.CookUsername = booking.Cook.Username
	}
	return resp
}
