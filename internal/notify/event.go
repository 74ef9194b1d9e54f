package notify

import "time"

// Event types, one per booking lifecycle transition.
const (
	EventNewBookingRequest          = "NEW_BOOKING_REQUEST"
	EventBookingAccepted            = "BOOKING_ACCEPTED"
	EventBookingRejected            = "BOOKING_REJECTED"
	EventServiceCompletedPaymentDue = "SERVICE_COMPLETED_PAYMENT_DUE"
	EventPaymentCompletedRate       = "PAYMENT_COMPLETED_RATE_SERVICE"
	EventBookingCancelledByUser     = "BOOKING_CANCELLED_BY_USER"
	EventNewRatingReceived          = "NEW_RATING_RECEIVED"
)

// Event describes a single booking lifecycle transition. An event only ever
// follows a committed transition; delivery and inbox storage are both
// best-effort.
type Event struct {
	Message    string    `json:"message"`
	BookingID  string    `json:"booking_id"`
	Type       string    `json:"type"`
	Timestamp  time.Time `json:"timestamp"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
}
