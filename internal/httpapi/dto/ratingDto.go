package dto

import (
	"time"

	"cookedhub/internal/httpapi/models"
)

// RatingRequest: a customer rating a completed booking
type RatingRequest struct {
	BookingID   string `json:"booking_id" binding:"required,uuid"`
	RatingValue int    `json:"rating_value" binding:"required,min=1,max=5"`
	Comment     string `json:"comment"`
}

// RatingResponse: a submitted rating
type RatingResponse struct {
	ID                int64     `json:"id"`
	BookingID         string    `json:"booking_id"`
	RatedByUserID     string    `json:"rated_by_user_id"`
	RatedByUsername   string    `json:"rated_by_username,omitempty"`
	RatedCookID       string    `json:"rated_cook_id"`
	RatedCookUsername string    `json:"rated_cook_username,omitempty"`
	RatingValue       int       `json:"rating_value"`
	Comment           string    `json:"comment,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func FromModelToRatingResponse(rating *models.Rating) *RatingResponse {
	resp := &RatingResponse{
		ID:            rating.ID,
		BookingID:     rating.BookingID,
		RatedByUserID: rating.RatedByUserID,
		RatedCookID:   rating.RatedCookID,
		RatingValue:   rating.RatingValue,
		Comment:       rating.Comment,
		CreatedAt:     rating.CreatedAt,
	}
	if rating.RatedByUser != nil {
		resp.RatedByUsername = rating.RatedByUser.Username
	}
	if rating.RatedCook != nil {
		resp.RatedCookUsername = rating.RatedCook.Username
	}
	return resp
}
