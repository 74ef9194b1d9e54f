package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"cookedhub/internal/config"
	"cookedhub/internal/geo"
	"cookedhub/internal/httpapi/dto"
	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"
	"cookedhub/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// Claims carried by a session token. The subject is the user's stable id;
// everything else about the caller is resolved fresh on each request.
type Claims struct {
	jwt.RegisteredClaims
}

type AuthService interface {
	CheckIdentifierExists(email string) (bool, error)
	CheckUsernameExists(username string) (bool, error)
	RegisterStandardUser(username, email, password string) (*dto.AuthResponse, error)
	RegisterCookInitiate(username, email, password string) (*dto.AuthResponse, error)
	CompleteCookProfile(setupToken string, profile dto.CookProfileRequest) (*models.User, error)
	CompleteCookProfileForUser(user *models.User, profile dto.CookProfileRequest) (*models.User, error)
	Login(identifier, password string) (*dto.AuthResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	users     repository.UserRepository
	geocoder  geo.Geocoder
	logger    *slog.Logger
	jwtSecret string
	jwtExpiry time.Duration
	setupTTL  time.Duration
}

func NewAuthService(users repository.UserRepository, geocoder geo.Geocoder, logger *slog.Logger, cfg *config.Config) AuthService {
	return &authService{
		users:     users,
		geocoder:  geocoder,
		logger:    logger,
		jwtSecret: cfg.JWTSecret,
		jwtExpiry: cfg.JWTExpiry,
		setupTTL:  cfg.SetupTokenTTL,
	}
}

func (s *authService) CheckIdentifierExists(email string) (bool, error) {
	return s.users.ExistsByEmail(email)
}

func (s *authService) CheckUsernameExists(username string) (bool, error) {
	return s.users.ExistsByUsername(username)
}

// RegisterStandardUser creates an active customer account and issues a
// session token.
func (s *authService) RegisterStandardUser(username, email, password string) (*dto.AuthResponse, error) {
	if err := s.validateRegistration(username, email); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		Roles:    models.DefaultRoles(),
		Status:   models.StatusActive,
	}
	if err := s.users.Create(user); err != nil {
		return s.mapCreateError(err)
	}

	return s.authResponse(user, "User registered successfully")
}

// RegisterCookInitiate creates a pending cook account. The session token it
// issues is scoped to profile completion; general resources stay closed until
// the profile is done and the account turns ACTIVE. A one-time setup token is
// also minted for clients that complete the profile out of session.
func (s *authService) RegisterCookInitiate(username, email, password string) (*dto.AuthResponse, error) {
	if err := s.validateRegistration(username, email); err != nil {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	setupToken := uuid.New().String()
	expiry := time.Now().Add(s.setupTTL)
	user := &models.User{
		Username:         username,
		Email:            email,
		Password:         hashedPassword,
		Roles:            models.DefaultRoles(),
		Status:           models.StatusPendingCookProfile,
		SetupToken:       &setupToken,
		SetupTokenExpiry: &expiry,
	}
	if err := s.users.Create(user); err != nil {
		return s.mapCreateError(err)
	}

	return s.authResponse(user, "Cook registration initiated. Please complete profile.")
}

func (s *authService) validateRegistration(username, email string) error {
	if taken, err := s.users.ExistsByUsername(username); err != nil {
		return err
	} else if taken {
		return ErrUsernameTaken
	}
	if taken, err := s.users.ExistsByEmail(email); err != nil {
		return err
	} else if taken {
		return ErrEmailTaken
	}
	return nil
}

// mapCreateError folds races past the advisory existence checks into the
// same conflict error the checks produce.
func (s *authService) mapCreateError(err error) (*dto.AuthResponse, error) {
	if repository.IsUniqueViolation(err) {
		return nil, ErrEmailTaken
	}
	return nil, err
}

// CompleteCookProfile resolves the pending user via the one-time setup token.
func (s *authService) CompleteCookProfile(setupToken string, profile dto.CookProfileRequest) (*models.User, error) {
	user, err := s.users.FindBySetupToken(setupToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSetupToken
		}
		return nil, err
	}
	if user.SetupTokenExpiry == nil || user.SetupTokenExpiry.Before(time.Now()) {
		return nil, ErrInvalidSetupToken
	}
	return s.activateCookProfile(user, profile)
}

// CompleteCookProfileForUser is the session-based variant: the authenticated
// principal itself is the pending user. Accounts that are already active
// cannot use it to pick up the cook role.
func (s *authService) CompleteCookProfileForUser(user *models.User, profile dto.CookProfileRequest) (*models.User, error) {
	if user.Status != models.StatusPendingCookProfile {
		return nil, ErrNoPendingProfile
	}
	return s.activateCookProfile(user, profile)
}

func (s *authService) activateCookProfile(user *models.User, profile dto.CookProfileRequest) (*models.User, error) {
	user.Cookname = profile.Cookname
	user.Phone = profile.Phone
	user.AvailabilityStatus = profile.AvailabilityStatus
	user.ChargesPerMeal = profile.ChargesPerMeal
	user.Latitude = profile.Latitude
	user.Longitude = profile.Longitude
	if profile.Expertise != nil {
		user.Expertise = models.StringList(profile.Expertise)
	}

	// Geocoding is best-effort; a failed lookup leaves the place name empty
	// rather than failing the profile update.
	if profile.Latitude != nil && profile.Longitude != nil {
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
	user.SetupToken = nil
	user.SetupTokenExpiry = nil

	if err := s.users.Save(user); err != nil {
		return nil, err
	}
	s.logger.Info("cook profile completed", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues a session token.
func (s *authService) Login(identifier, password string) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Dummy compare to keep timing roughly constant for unknown users
			auth.VerifyPassword(auth.DummyHash, password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := auth.VerifyPassword(user.Password, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsEnabled() {
		return nil, ErrAccountDisabled
	}

	return s.authResponse(user, "Login successful")
}

func (s *authService) authResponse(user *models.User, message string) (*dto.AuthResponse, error) {
	token, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		UserID:          user.ID,
		Message:         message,
		Username:        user.Username,
		Token:           token,
		Roles:           []string(user.Roles),
		Status:          user.Status,
		AverageRating:   user.AverageRating,
		NumberOfRatings: user.NumberOfRatings,
	}, nil
}

func (s *authService) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken recomputes the signature and expiry; no session state is kept
// server side.
func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
