package service

import (
	"errors"
	"sync"
	"testing"

	"cookedhub/internal/httpapi/dto"
	"cookedhub/internal/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// completeBooking walks a fresh booking through accept, service and payment so
// it becomes ratable.
func (env *bookingTestEnv) completeBooking(t *testing.T) string {
	t.Helper()
	booking := env.createBooking(t)
	_, err := env.bookingSvc.UpdateStatus(env.cook, booking.ID, "ACCEPTED")
	require.NoError(t, err)
	_, err = env.bookingSvc.MarkServiceComplete(env.cook, booking.ID)
	require.NoError(t, err)
	_, err = env.bookingSvc.MarkPaymentReceived(env.cook, booking.ID)
	require.NoError(t, err)
	return booking.ID
}

func TestRatingService_SubmitRating(t *testing.T) {
	env := newBookingTestEnv(t)
	bookingID := env.completeBooking(t)

	resp, err := env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{
		BookingID:   bookingID,
		RatingValue: 4,
		Comment:     "Great food",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.RatingValue)
	assert.Equal(t, "Great food", resp.Comment)
	assert.Equal(t, bookingID, resp.BookingID)

	cook, err := env.users.FindByID(env.cook.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, cook.AverageRating)
	assert.Equal(t, 1, cook.NumberOfRatings)

	events := env.notifier.Events()
	last := events[len(events)-1]
	assert.Equal(t, notify.EventNewRatingReceived, last.Type)
	assert.Equal(t, env.cook.ID, last.ToUserID)
	assert.Contains(t, last.Message, "4 stars")
}

func TestRatingService_AverageRoundsToOneDecimal(t *testing.T) {
	env := newBookingTestEnv(t)

	// 4, 5, 5 averages to 4.666..., stored as 4.7.
	for _, value := range []int{4, 5, 5} {
		bookingID := env.completeBooking(t)
		_, err := env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{
			BookingID:   bookingID,
			RatingValue: value,
		})
		require.NoError(t, err)
	}

	cook, err := env.users.FindByID(env.cook.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.7, cook.AverageRating)
	assert.Equal(t, 3, cook.NumberOfRatings)
}

func TestRatingService_SubmitRating_Guards(t *testing.T) {
	env := newBookingTestEnv(t)

	_, err := env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{BookingID: "x", RatingValue: 0})
	assert.ErrorIs(t, err, ErrInvalidRatingValue)
	_, err = env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{BookingID: "x", RatingValue: 6})
	assert.ErrorIs(t, err, ErrInvalidRatingValue)

	_, err = env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{BookingID: "missing", RatingValue: 3})
	assert.ErrorIs(t, err, ErrBookingNotFound)

	booking := env.createBooking(t)
	_, err = env.ratingSvc.SubmitRating(env.cook, dto.RatingRequest{BookingID: booking.ID, RatingValue: 3})
	assert.ErrorIs(t, err, ErrNotBookingCustomer)

	// Unpaid bookings cannot be rated regardless of status.
	_, err = env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{BookingID: booking.ID, RatingValue: 3})
	assert.ErrorIs(t, err, ErrPaymentNotComplete)
}

func TestRatingService_SubmitRating_OncePerBooking(t *testing.T) {
	env := newBookingTestEnv(t)
	bookingID := env.completeBooking(t)

	_, err := env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{BookingID: bookingID, RatingValue: 5})
	require.NoError(t, err)

	_, err = env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{BookingID: bookingID, RatingValue: 1})
	assert.ErrorIs(t, err, ErrAlreadyRated)

	cook, err := env.users.FindByID(env.cook.ID)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cook.AverageRating)
	assert.Equal(t, 1, cook.NumberOfRatings)
}

func TestRatingService_SubmitRating_ConcurrentDuplicate(t *testing.T) {
	env := newBookingTestEnv(t)
	bookingID := env.completeBooking(t)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{
				BookingID:   bookingID,
				RatingValue: 5,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrAlreadyRated):
			duplicates++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)

	cook, err := env.users.FindByID(env.cook.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, cook.NumberOfRatings)
}

func TestRatingService_SubmitRating_ConcurrentSameCook(t *testing.T) {
	env := newBookingTestEnv(t)
	requests := []dto.RatingRequest{
		{BookingID: env.completeBooking(t), RatingValue: 4},
		{BookingID: env.completeBooking(t), RatingValue: 5},
	}

	errs := make(chan error, len(requests))
	var wg sync.WaitGroup
	for _, req := range requests {
		wg.Add(1)
		go func(req dto.RatingRequest) {
			defer wg.Done()
			_, err := env.ratingSvc.SubmitRating(env.customer, req)
			errs <- err
		}(req)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	cook, err := env.users.FindByID(env.cook.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, cook.AverageRating)
	assert.Equal(t, 2, cook.NumberOfRatings)
}

func TestRatingService_GetRatingsForCook(t *testing.T) {
	env := newBookingTestEnv(t)
	bookingID := env.completeBooking(t)
	_, err := env.ratingSvc.SubmitRating(env.customer, dto.RatingRequest{
		BookingID:   bookingID,
		RatingValue: 5,
		Comment:     "Excellent",
	})
	require.NoError(t, err)

	ratings, err := env.ratingSvc.GetRatingsForCook(env.cook.ID)
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].RatingValue)
	assert.Equal(t, "chef_bob", ratings[0].RatedCookUsername)

	_, err = env.ratingSvc.GetRatingsForCook("missing")
	assert.ErrorIs(t, err, ErrCookNotFound)
}
