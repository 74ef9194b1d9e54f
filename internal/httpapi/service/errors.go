package service

import "errors"

// Business-rule violations surfaced to the boundary layer, which maps each to
// a transport status. Notification and geocoding failures never appear here.
var (
	// Conflicts on registration
	ErrUsernameTaken = errors.New("username already in use")
	ErrEmailTaken    = errors.New("email already in use")

	// Login
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("user account is disabled")

	// Cook profile setup
	ErrInvalidSetupToken = errors.New("invalid or expired setup token")
	ErrNoPendingProfile  = errors.New("account has no pending cook profile")

	// Entity lookups
	ErrUserNotFound         = errors.New("user not found")
	ErrCookNotFound         = errors.New("cook not found or not active")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrNotificationNotFound = errors.New("notification not found or already read")

	// Authorization over a booking
	ErrNotBookingCook     = errors.New("caller is not the booking's cook")
	ErrNotBookingCustomer = errors.New("caller is not the booking's customer")

	// Malformed input
	ErrInvalidStatusValue = errors.New("invalid status update value")
	ErrInvalidRatingValue = errors.New("rating value must be between 1 and 5")

	// Lifecycle state violations, including all idempotency guards
	ErrInvalidTransition      = errors.New("status transition not allowed from current state")
	ErrBookingNotAccepted     = errors.New("booking must be accepted to mark service as complete")
	ErrServiceAlreadyComplete = errors.New("service has already been marked as complete")
	ErrServiceNotComplete     = errors.New("service must be complete before payment")
	ErrPaymentAlreadyReceived = errors.New("payment has already been marked as received")
	ErrPaymentNotComplete     = errors.New("booking payment must be completed before rating")
	ErrBookingNotCompleted    = errors.New("booking must be completed to be rated")
	ErrAlreadyRated           = errors.New("booking has already been rated")
	ErrBookingFinished        = errors.New("cannot delete a finished booking")
)
