package service

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"cookedhub/internal/httpapi/dto"
	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// LifecycleIsolationSuite runs the booking and rating services against a real
// Postgres instance, so the SELECT ... FOR UPDATE row locks inside the
// transaction manager are what serializes the concurrent callers. Point
// TEST_DATABASE_URL at a disposable database to enable it.
type LifecycleIsolationSuite struct {
	suite.Suite
	db *gorm.DB

	users      repository.UserRepository
	bookingSvc BookingService
	ratingSvc  RatingService

	customer *models.User
	cook     *models.User
}

func (s *LifecycleIsolationSuite) SetupSuite() {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		s.T().Skip("TEST_DATABASE_URL not set, skipping database isolation tests")
		return
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		s.T().Skip("Postgres not available, skipping database isolation tests")
		return
	}
	s.Require().NoError(db.AutoMigrate(&models.User{}, &models.Booking{}, &models.Rating{}, &models.Notification{}))
	s.db = db
}

func (s *LifecycleIsolationSuite) SetupTest() {
	repos := repository.NewRepositories(s.db)
	tx := repository.NewTxManager(s.db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s.users = repos.Users
	s.bookingSvc = NewBookingService(repos, tx, &recordingNotifier{}, logger)
	s.ratingSvc = NewRatingService(repos, tx, &recordingNotifier{}, logger)

	suffix := uuid.New().String()[:8]
	charge := 150.0
	s.customer = &models.User{
		Username: "customer_" + suffix,
		Email:    "customer_" + suffix + "@example.com",
		Password: "not-a-real-hash",
		Roles:    models.DefaultRoles(),
		Status:   models.StatusActive,
	}
	s.cook = &models.User{
		Username:       "cook_" + suffix,
		Email:          "cook_" + suffix + "@example.com",
		Password:       "not-a-real-hash",
		Roles:          models.RoleSet{models.RoleUser, models.RoleCook},
		Status:         models.StatusActive,
		Cookname:       "Kitchen " + suffix,
		ChargesPerMeal: &charge,
	}
	s.Require().NoError(s.users.Create(s.customer))
	s.Require().NoError(s.users.Create(s.cook))
}

func (s *LifecycleIsolationSuite) TearDownTest() {
	if s.db == nil {
		return
	}
	for _, table := range []string{"ratings", "notifications", "bookings", "users"} {
		s.Require().NoError(s.db.Exec("DELETE FROM " + table).Error)
	}
}

// serviceCompleteBooking walks a fresh booking up to the point where payment
// becomes the next step.
func (s *LifecycleIsolationSuite) serviceCompleteBooking() string {
	resp, err := s.bookingSvc.Create(s.customer, dto.CreateBookingRequest{
		CookID:            s.cook.ID,
		CustomerName:      "Customer",
		CustomerAddress:   "12 Main St",
		MealPreference:    "Vegetarian",
		RequestedDateTime: time.Now().Add(24 * time.Hour),
	})
	s.Require().NoError(err)
	_, err = s.bookingSvc.UpdateStatus(s.cook, resp.ID, "ACCEPTED")
	s.Require().NoError(err)
	_, err = s.bookingSvc.MarkServiceComplete(s.cook, resp.ID)
	s.Require().NoError(err)
	return resp.ID
}

func (s *LifecycleIsolationSuite) paidBooking() string {
	bookingID := s.serviceCompleteBooking()
	_, err := s.bookingSvc.MarkPaymentReceived(s.cook, bookingID)
	s.Require().NoError(err)
	return bookingID
}

func (s *LifecycleIsolationSuite) TestConcurrentPaymentResolvesOnce() {
	bookingID := s.serviceCompleteBooking()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.bookingSvc.MarkPaymentReceived(s.cook, bookingID)
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
		case errors.Is(err, ErrPaymentAlreadyReceived):
			duplicates++
		default:
			s.Require().NoError(err)
		}
	}
	s.Equal(1, successes)
	s.Equal(1, duplicates)

	booking := &models.Booking{}
	s.Require().NoError(s.db.First(booking, "id = ?", bookingID).Error)
	s.Equal(models.BookingCompleted, booking.Status)
	s.NotNil(booking.PaymentCompletedAt)
}

func (s *LifecycleIsolationSuite) TestConcurrentRatingOfSameBookingResolvesOnce() {
	bookingID := s.paidBooking()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ratingSvc.SubmitRating(s.customer, dto.RatingRequest{
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
			s.Require().NoError(err)
		}
	}
	s.Equal(1, successes)
	s.Equal(1, duplicates)

	cook, err := s.users.FindByID(s.cook.ID)
	s.Require().NoError(err)
	s.Equal(1, cook.NumberOfRatings)
	s.Equal(5.0, cook.AverageRating)
}

func (s *LifecycleIsolationSuite) TestConcurrentRatingsKeepAggregateConsistent() {
	requests := []dto.RatingRequest{
		{BookingID: s.paidBooking(), RatingValue: 4},
		{BookingID: s.paidBooking(), RatingValue: 5},
	}

	errs := make(chan error, len(requests))
	var wg sync.WaitGroup
	for _, req := range requests {
		wg.Add(1)
		go func(req dto.RatingRequest) {
			defer wg.Done()
			_, err := s.ratingSvc.SubmitRating(s.customer, req)
			errs <- err
		}(req)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	cook, err := s.users.FindByID(s.cook.ID)
	s.Require().NoError(err)
	s.Equal(2, cook.NumberOfRatings)
	s.Equal(4.5, cook.AverageRating)
}

func TestLifecycleIsolationSuite(t *testing.T) {
	suite.Run(t, new(LifecycleIsolationSuite))
}
