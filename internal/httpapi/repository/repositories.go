package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repositories provides access to all repository instances
type Repositories struct {
	Users         UserRepository
	Bookings      BookingRepository
	Ratings       RatingRepository
	Notifications NotificationRepository
}

// NewRepositories creates a new repositories container
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Bookings:      NewBookingRepository(db),
		Ratings:       NewRatingRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}

// TxManager runs a function against a transaction-scoped set of repositories.
// Lifecycle transitions use it together with the ForUpdate lookups so that
// concurrent transitions on the same row serialize.
type TxManager interface {
	InTx(fn func(r *Repositories) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) InTx(fn func(r *Repositories) error) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}

// IsUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505). The uniqueness checks in the services are
// advisory; the index is what actually holds under concurrent registration.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
