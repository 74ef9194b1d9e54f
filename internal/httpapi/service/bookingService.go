package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"cookedhub/internal/httpapi/dto"
	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"
	"cookedhub/internal/notify"

	"gorm.io/gorm"
)

// statusTransitions is the authoritative state machine definition for the
// cook-driven status update. Service completion and payment are separate
// operations with their own guards.
var statusTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.BookingPending: {models.BookingAccepted, models.BookingRejected},
}

func transitionAllowed(from, to models.BookingStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type BookingService interface {
	Create(customer *models.User, req dto.CreateBookingRequest) (*dto.BookingResponse, error)
	UpdateStatus(cook *models.User, bookingID, newStatus string) (*dto.BookingResponse, error)
	MarkServiceComplete(cook *models.User, bookingID string) (*dto.BookingResponse, error)
	MarkPaymentReceived(cook *models.User, bookingID string) (*dto.BookingResponse, error)
	Delete(customer *models.User, bookingID string) error
	ListForCook(cook *models.User) ([]dto.BookingResponse, error)
	ListForCustomer(customer *models.User) ([]dto.BookingResponse, error)
}

type bookingService struct {
	repos    *repository.Repositories
	tx       repository.TxManager
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewBookingService(repos *repository.Repositories, tx repository.TxManager, notifier notify.Notifier, logger *slog.Logger) BookingService {
	return &bookingService{repos: repos, tx: tx, notifier: notifier, logger: logger}
}

// Create opens a PENDING booking against an active cook and notifies them.
func (s *bookingService) Create(customer *models.User, req dto.CreateBookingRequest) (*dto.BookingResponse, error) {
	cook, err := s.repos.Users.FindByID(req.CookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCookNotFound
		}
		return nil, err
	}
	if !cook.IsActiveCook() {
		return nil, ErrCookNotFound
	}

	booking := &models.Booking{
		CustomerID:        customer.ID,
		CookID:            cook.ID,
		BookingDetails:    dto.FormatBookingDetails(req.CustomerName, req.CustomerAddress, req.MealPreference),
		Status:            models.BookingPending,
		RequestedDateTime: req.RequestedDateTime,
	}
	if err := s.repos.Bookings.Create(booking); err != nil {
		return nil, err
	}
	s.logger.Info("booking created", "booking_id", booking.ID, "customer", customer.Username, "cook", cook.Username)

	s.notifier.Dispatch(cook.ID, notify.Event{
		Message:    fmt.Sprintf("You have a new booking request from %s", customer.Username),
		BookingID:  booking.ID,
		Type:       notify.EventNewBookingRequest,
		FromUserID: customer.ID,
	})

	booking.Customer = customer
	booking.Cook = cook
	return dto.FromModelToBookingResponse(booking, false), nil
}

// UpdateStatus lets the booking's cook accept or reject a pending booking.
// On acceptance the total charge is snapshotted from the cook's current rate
// so later rate changes cannot alter an in-flight booking's price.
func (s *bookingService) UpdateStatus(cook *models.User, bookingID, newStatus string) (*dto.BookingResponse, error) {
	target := models.BookingStatus(strings.ToUpper(newStatus))
	if target != models.BookingAccepted && target != models.BookingRejected {
		return nil, ErrInvalidStatusValue
	}

	err := s.tx.InTx(func(r *repository.Repositories) error {
		booking, err := s.lockOwnBooking(r, cook, bookingID)
		if err != nil {
			return err
		}
		if !transitionAllowed(booking.Status, target) {
			return ErrInvalidTransition
		}

		if target == models.BookingAccepted {
			if cook.ChargesPerMeal != nil {
				booking.TotalCharges = cook.ChargesPerMeal
			} else {
				s.logger.Warn("booking accepted but cook has no charge per meal set",
					"booking_id", booking.ID, "cook", cook.Username)
				zero := 0.0
				booking.TotalCharges = &zero
			}
		}
		booking.Status = target
		return r.Bookings.Save(booking)
	})
	if err != nil {
		return nil, err
	}

	booking, err := s.repos.Bookings.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking status updated", "booking_id", booking.ID, "status", booking.Status, "cook", cook.Username)

	eventType := notify.EventBookingAccepted
	if target == models.BookingRejected {
		eventType = notify.EventBookingRejected
	}
	s.notifier.Dispatch(booking.CustomerID, notify.Event{
		Message: fmt.Sprintf("Your booking request (ID: %s) with cook %s has been %s.",
			booking.ID, cook.Username, strings.ToLower(string(target))),
		BookingID:  booking.ID,
		Type:       eventType,
		FromUserID: cook.ID,
	})

	return s.respond(booking)
}

// MarkServiceComplete records that the cook performed the service. It runs at
// most once per booking; the charge is backfilled here if acceptance somehow
// missed it.
func (s *bookingService) MarkServiceComplete(cook *models.User, bookingID string) (*dto.BookingResponse, error) {
	err := s.tx.InTx(func(r *repository.Repositories) error {
		booking, err := s.lockOwnBooking(r, cook, bookingID)
		if err != nil {
			return err
		}
		if booking.Status != models.BookingAccepted {
			return ErrBookingNotAccepted
		}
		if booking.ServiceCompletedAt != nil {
			return ErrServiceAlreadyComplete
		}
		if booking.TotalCharges == nil {
			if cook.ChargesPerMeal != nil {
				booking.TotalCharges = cook.ChargesPerMeal
			} else {
				s.logger.Warn("service complete with no charge on record",
					"booking_id", booking.ID, "cook", cook.Username)
				zero := 0.0
				booking.TotalCharges = &zero
			}
		}
		now := time.Now()
		booking.ServiceCompletedAt = &now
		return r.Bookings.Save(booking)
	})
	if err != nil {
		return nil, err
	}

	booking, err := s.repos.Bookings.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("service marked complete", "booking_id", booking.ID, "cook", cook.Username)

	charge := 0.0
	if booking.TotalCharges != nil {
		charge = *booking.TotalCharges
	}
	s.notifier.Dispatch(booking.CustomerID, notify.Event{
		Message: fmt.Sprintf("Service for your booking (ID: %s) with %s is complete. Please pay %.2f.",
			booking.ID, cook.Cookname, charge),
		BookingID:  booking.ID,
		Type:       notify.EventServiceCompletedPaymentDue,
		FromUserID: cook.ID,
	})

	return s.respond(booking)
}

// MarkPaymentReceived closes the booking. Service must precede payment and
// payment runs at most once; concurrent calls resolve to exactly one success
// because the booking row stays locked for the check and the write.
func (s *bookingService) MarkPaymentReceived(cook *models.User, bookingID string) (*dto.BookingResponse, error) {
	err := s.tx.InTx(func(r *repository.Repositories) error {
		booking, err := s.lockOwnBooking(r, cook, bookingID)
		if err != nil {
			return err
		}
		if booking.ServiceCompletedAt == nil {
			return ErrServiceNotComplete
		}
		if booking.PaymentCompletedAt != nil {
			return ErrPaymentAlreadyReceived
		}
		now := time.Now()
		booking.PaymentCompletedAt = &now
		booking.Status = models.BookingCompleted
		return r.Bookings.Save(booking)
	})
	if err != nil {
		return nil, err
	}

	booking, err := s.repos.Bookings.FindByID(bookingID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("payment marked received", "booking_id", booking.ID, "cook", cook.Username)

	s.notifier.Dispatch(booking.CustomerID, notify.Event{
		Message: fmt.Sprintf("Payment for booking (ID: %s) with %s confirmed. Thank you! Please consider rating your experience.",
			booking.ID, cook.Cookname),
		BookingID:  booking.ID,
		Type:       notify.EventPaymentCompletedRate,
		FromUserID: cook.ID,
	})

	return s.respond(booking)
}

// Delete removes a booking on the owning customer's request. Finished
// bookings cannot be deleted; cancelling an accepted one notifies the cook.
func (s *bookingService) Delete(customer *models.User, bookingID string) error {
	var wasAccepted bool
	var cookID string

	err := s.tx.InTx(func(r *repository.Repositories) error {
		booking, err := r.Bookings.FindByIDForUpdate(bookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.CustomerID != customer.ID {
			return ErrNotBookingCustomer
		}
		if booking.IsTerminal() {
			return ErrBookingFinished
		}
		wasAccepted = booking.Status == models.BookingAccepted
		cookID = booking.CookID
		return r.Bookings.Delete(booking)
	})
	if err != nil {
		return err
	}
	s.logger.Info("booking deleted", "booking_id", bookingID, "customer", customer.Username)

	if wasAccepted {
		s.notifier.Dispatch(cookID, notify.Event{
			Message: fmt.Sprintf("Booking ID %s with customer %s has been cancelled by the customer.",
				bookingID, customer.Username),
			BookingID:  bookingID,
			Type:       notify.EventBookingCancelledByUser,
			FromUserID: customer.ID,
		})
	}
	return nil
}

func (s *bookingService) ListForCook(cook *models.User) ([]dto.BookingResponse, error) {
	bookings, err := s.repos.Bookings.FindByCook(cook.ID)
	if err != nil {
		return nil, err
	}
	return s.annotate(bookings)
}

func (s *bookingService) ListForCustomer(customer *models.User) ([]dto.BookingResponse, error) {
	bookings, err := s.repos.Bookings.FindByCustomer(customer.ID)
	if err != nil {
		return nil, err
	}
	return s.annotate(bookings)
}

// annotate marks each booking with whether its customer has already rated it.
func (s *bookingService) annotate(bookings []models.Booking) ([]dto.BookingResponse, error) {
	ids := make([]string, 0, len(bookings))
	for _, b := range bookings {
		ids = append(ids, b.ID)
	}
	rated, err := s.repos.Ratings.BookingIDsWithRatings(ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		out = append(out, *dto.FromModelToBookingResponse(&bookings[i], rated[bookings[i].ID]))
	}
	return out, nil
}

// lockOwnBooking fetches the booking under a row lock and checks the caller
// is its cook.
func (s *bookingService) lockOwnBooking(r *repository.Repositories, cook *models.User, bookingID string) (*models.Booking, error) {
	booking, err := r.Bookings.FindByIDForUpdate(bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if booking.CookID != cook.ID {
		return nil, ErrNotBookingCook
	}
	return booking, nil
}

func (s *bookingService) respond(booking *models.Booking) (*dto.BookingResponse, error) {
	rated, err := s.repos.Ratings.ExistsByBookingAndUser(booking.ID, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToBookingResponse(booking, rated), nil
}
