package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"cookedhub/internal/httpapi/dto"
	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"
	"cookedhub/internal/notify"

	"gorm.io/gorm"
)

type RatingService interface {
	SubmitRating(customer *models.User, req dto.RatingRequest) (*dto.RatingResponse, error)
	GetRatingsForCook(cookID string) ([]dto.RatingResponse, error)
}

type ratingService struct {
	repos    *repository.Repositories
	tx       repository.TxManager
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewRatingService(repos *repository.Repositories, tx repository.TxManager, notifier notify.Notifier, logger *slog.Logger) RatingService {
	return &ratingService{repos: repos, tx: tx, notifier: notifier, logger: logger}
}

// SubmitRating records a customer's one-time rating of a completed booking
// and recomputes the cook's aggregate from a full rescan inside the same
// transaction. The cook row is locked so concurrent submissions for the same
// cook serialize instead of losing an update.
func (s *ratingService) SubmitRating(customer *models.User, req dto.RatingRequest) (*dto.RatingResponse, error) {
	if req.RatingValue < 1 || req.RatingValue > 5 {
		return nil, ErrInvalidRatingValue
	}

	var rating *models.Rating
	var cook *models.User

	err := s.tx.InTx(func(r *repository.Repositories) error {
		booking, err := r.Bookings.FindByIDForUpdate(req.BookingID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return err
		}
		if booking.CustomerID != customer.ID {
			return ErrNotBookingCustomer
		}
		if booking.PaymentCompletedAt == nil {
			return ErrPaymentNotComplete
		}
		if booking.Status != models.BookingCompleted {
			return ErrBookingNotCompleted
		}
		if exists, err := r.Ratings.ExistsByBookingAndUser(booking.ID, customer.ID); err != nil {
			return err
		} else if exists {
			return ErrAlreadyRated
		}

		cook, err = r.Users.FindByIDForUpdate(booking.CookID)
		if err != nil {
			return err
		}

		rating = &models.Rating{
			BookingID:     booking.ID,
			RatedByUserID: customer.ID,
			RatedCookID:   cook.ID,
			RatingValue:   req.RatingValue,
			Comment:       req.Comment,
		}
		if err := r.Ratings.Create(rating); err != nil {
			return err
		}

		avg, count, err := r.Ratings.CalculateAverage(cook.ID)
		if err != nil {
			return err
		}
		cook.AverageRating = roundToOneDecimal(avg)
		cook.NumberOfRatings = int(count)
		return r.Users.Save(cook)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("rating submitted",
		"rating_id", rating.ID, "booking_id", rating.BookingID,
		"cook", cook.Username, "value", rating.RatingValue)

	s.notifier.Dispatch(cook.ID, notify.Event{
		Message: fmt.Sprintf("%s has rated your service for booking ID %s: %d stars.",
			customer.Username, rating.BookingID, rating.RatingValue),
		BookingID:  rating.BookingID,
		Type:       notify.EventNewRatingReceived,
		FromUserID: customer.ID,
	})

	rating.RatedByUser = customer
	rating.RatedCook = cook
	return dto.FromModelToRatingResponse(rating), nil
}

// GetRatingsForCook returns every rating the cook has received, in the
// repository's stable order.
func (s *ratingService) GetRatingsForCook(cookID string) ([]dto.RatingResponse, error) {
	cook, err := s.repos.Users.FindByID(cookID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCookNotFound
		}
		return nil, err
	}

	ratings, err := s.repos.Ratings.FindByCook(cook.ID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		resp := dto.FromModelToRatingResponse(&ratings[i])
		resp.RatedCookUsername = cook.Username
		out = append(out, *resp)
	}
	return out, nil
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
