package dto

import "cookedhub/internal/httpapi/models"

// CookProfileRequest: payload for cook profile setup and updates
type CookProfileRequest struct {
	Cookname           string   `json:"cookname" binding:"required"`
	Phone              string   `json:"phone" binding:"required"`
	Expertise          []string `json:"expertise"`
	AvailabilityStatus string   `json:"availability_status"`
	ChargesPerMeal     *float64 `json:"charges_per_meal"`
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
}

// CookProfileResponse: a cook's public profile
type CookProfileResponse struct {
	ID                 string   `json:"id"`
	Username           string   `json:"username"`
	Cookname           string   `json:"cookname"`
	Phone              string   `json:"phone,omitempty"`
	Expertise          []string `json:"expertise,omitempty"`
	AvailabilityStatus string   `json:"availability_status,omitempty"`
	ProfilePicture     string   `json:"profile_picture,omitempty"`
	ChargesPerMeal     *float64 `json:"charges_per_meal,omitempty"`
	Latitude           *float64 `json:"latitude,omitempty"`
	Longitude          *float64 `json:"longitude,omitempty"`
	PlaceName          string   `json:"place_name,omitempty"`
	AverageRating      float64  `json:"average_rating"`
	NumberOfRatings    int      `json:"number_of_ratings"`
	DistanceKm         *float64 `json:"distance_km,omitempty"`
}

func FromModelToCookProfileResponse(user *models.User) *CookProfileResponse {
	return &CookProfileResponse{
		ID:                 user.ID,
		Username:           user.Username,
		Cookname:           user.Cookname,
		Phone:              user.Phone,
		Expertise:          user.Expertise,
		AvailabilityStatus: user.AvailabilityStatus,
		ProfilePicture:     user.ProfilePicture,
		ChargesPerMeal:     user.ChargesPerMeal,
		Latitude:           user.Latitude,
		Longitude:          user.Longitude,
		PlaceName:          user.PlaceName,
		AverageRating:      user.AverageRating,
		NumberOfRatings:    user.NumberOfRatings,
	}
}

// ProfilePictureRequest: stored reference only, upload mechanics live at the
// boundary
type ProfilePictureRequest struct {
	Reference string `json:"reference" binding:"required"`
}
