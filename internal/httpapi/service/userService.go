package service

import (
	"context"
	"log/slog"
	"time"

	"cookedhub/internal/geo"
	"cookedhub/internal/httpapi/dto"
	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"
)

type UserService interface {
	GetProfile(user *models.User) *dto.CookProfileResponse
	UpdateProfile(user *models.User, profile dto.CookProfileRequest) (*models.User, error)
	UpdateProfilePicture(user *models.User, reference string) (*models.User, error)
	FindNearbyCooks(lat, lon, radiusKm float64) ([]dto.CookProfileResponse, error)
}

type userService struct {
	users    repository.UserRepository
	geocoder geo.Geocoder
	logger   *slog.Logger
}

func NewUserService(users repository.UserRepository, geocoder geo.Geocoder, logger *slog.Logger) UserService {
	return &userService{users: users, geocoder: geocoder, logger: logger}
}

func (s *userService) GetProfile(user *models.User) *dto.CookProfileResponse {
	return dto.FromModelToCookProfileResponse(user)
}

// UpdateProfile applies cook profile fields and re-resolves the place name
// best-effort. A failed geocoding lookup clears the place name instead of
// failing the update.
func (s *userService) UpdateProfile(user *models.User, profile dto.CookProfileRequest) (*models.User, error) {
	user.Cookname = profile.Cookname
	user.Phone = profile.Phone
	user.AvailabilityStatus = profile.AvailabilityStatus
	if profile.ChargesPerMeal != nil {
		user.ChargesPerMeal = profile.ChargesPerMeal
	}
	if profile.Expertise != nil {
		user.Expertise = models.StringList(profile.Expertise)
	}
	if profile.Latitude != nil && profile.Longitude != nil {
		user.Latitude = profile.Latitude
		user.Longitude = profile.Longitude

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if place, ok := s.geocoder.ResolvePlaceName(ctx, *profile.Latitude, *profile.Longitude); ok {
			user.PlaceName = place
		} else {
			user.PlaceName = ""
		}
	}

	user.Status = models.StatusActive
	user.Roles = user.Roles.Add(models.RoleCook)

	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	s.logger.Info("cook profile updated", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// UpdateProfilePicture stores the picture reference; upload and storage
// mechanics belong to the boundary.
func (s *userService) UpdateProfilePicture(user *models.User, reference string) (*models.User, error) {
	user.ProfilePicture = reference
	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// FindNearbyCooks returns active cooks within radiusKm, closest first.
func (s *userService) FindNearbyCooks(lat, lon, radiusKm float64) ([]dto.CookProfileResponse, error) {
	nearby, err := s.users.FindActiveCooksNearby(lat, lon, radiusKm)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CookProfileResponse, 0, len(nearby))
	for i := range nearby {
		profile := dto.FromModelToCookProfileResponse(&nearby[i].User)
		d := nearby[i].DistanceKm
		profile.DistanceKm = &d
		out = append(out, *profile)
	}
	return out, nil
}
