package repository

import (
	"cookedhub/internal/httpapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository interface {
	Create(booking *models.Booking) error
	FindByID(id string) (*models.Booking, error)
	FindByIDForUpdate(id string) (*models.Booking, error)
	FindByCook(cookID string) ([]models.Booking, error)
	FindByCustomer(customerID string) ([]models.Booking, error)
	Save(booking *models.Booking) error
	Delete(booking *models.Booking) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(booking *models.Booking) error {
	return r.db.Create(booking).Error
}

func (r *bookingRepository) FindByID(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.
		Preload("Customer").
		Preload("Cook").
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// FindByIDForUpdate locks the booking row so a concurrent transition on the
// same booking waits for this transaction to finish. The idempotency checks
// in the services are only sufficient under this isolation.
func (r *bookingRepository) FindByIDForUpdate(id string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&booking, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) FindByCook(cookID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.
		Where("cook_id = ?", cookID).
		Preload("Customer").
		Preload("Cook").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) FindByCustomer(customerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.
		Where("customer_id = ?", customerID).
		Preload("Customer").
		Preload("Cook").
		Order("created_at DESC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepository) Save(booking *models.Booking) error {
	return r.db.Save(booking).Error
}

func (r *bookingRepository) Delete(booking *models.Booking) error {
	return r.db.Delete(booking).Error
}
