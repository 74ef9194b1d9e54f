package repository

import (
	"cookedhub/internal/httpapi/models"

	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(rating *models.Rating) error
	ExistsByBookingAndUser(bookingID, userID string) (bool, error)
	FindByCook(cookID string) ([]models.Rating, error)
	BookingIDsWithRatings(bookingIDs []string) (map[string]bool, error)
	CalculateAverage(cookID string) (avg float64, count int64, err error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(rating *models.Rating) error {
	return r.db.Create(rating).Error
}

func (r *ratingRepository) ExistsByBookingAndUser(bookingID, userID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Rating{}).
		Where("booking_id = ? AND rated_by_user_id = ?", bookingID, userID).
		Count(&count).Error
	return count > 0, err
}

// FindByCook returns every rating received by the cook in a stable order.
func (r *ratingRepository) FindByCook(cookID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.
		Where("rated_cook_user_id = ?", cookID).
		Preload("RatedByUser").
		Order("created_at DESC, id DESC").
		Find(&ratings).Error
	return ratings, err
}

// BookingIDsWithRatings returns which of the given bookings already carry a
// rating. Ratings are unique per booking and only the booking's customer may
// author one, so existence alone answers "rated by the customer".
func (r *ratingRepository) BookingIDsWithRatings(bookingIDs []string) (map[string]bool, error) {
	if len(bookingIDs) == 0 {
		return map[string]bool{}, nil
	}
	var ids []string
	err := r.db.Model(&models.Rating{}).
		Where("booking_id IN ?", bookingIDs).
		Pluck("booking_id", &ids).Error
	if err != nil {
		return nil, err
	}
	rated := make(map[string]bool, len(ids))
	for _, id := range ids {
		rated[id] = true
	}
	return rated, nil
}

// CalculateAverage does a full rescan of the cook's ratings. Rounding to one
// decimal happens in the service; this just aggregates.
func (r *ratingRepository) CalculateAverage(cookID string) (float64, int64, error) {
	var result struct {
		Average float64
		Count   int64
	}
	err := r.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating_value), 0) as average, COUNT(*) as count").
		Where("rated_cook_user_id = ?", cookID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Average, result.Count, nil
}
