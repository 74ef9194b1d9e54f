package repository

import (
	"math"
	"sort"

	"cookedhub/internal/httpapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NearbyCook is a cook together with their haversine distance from the
// query point.
type NearbyCook struct {
	User       models.User
	DistanceKm float64
}

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(user *models.User) error
	FindByID(id string) (*models.User, error)
	FindByIDForUpdate(id string) (*models.User, error)
	FindByEmail(email string) (*models.User, error)
	FindByUsername(username string) (*models.User, error)
	ExistsByEmail(email string) (bool, error)
	ExistsByUsername(username string) (bool, error)
	FindBySetupToken(token string) (*models.User, error)
	Save(user *models.User) error
	FindActiveCooksNearby(lat, lon, radiusKm float64) ([]NearbyCook, error)
}

// userRepository is the GORM implementation of UserRepository.
type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) FindByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIDForUpdate locks the user row for the remainder of the enclosing
// transaction. Only meaningful inside TxManager.InTx.
func (r *userRepository) FindByIDForUpdate(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) FindBySetupToken(token string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("setup_token = ?", token).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Save(user *models.User) error {
	return r.db.Save(user).Error
}

// FindActiveCooksNearby returns active cooks with a known location within
// radiusKm of the point, closest first. Candidates are narrowed in SQL and
// ranked in Go; cook counts are small enough that the scan stays cheap.
func (r *userRepository) FindActiveCooksNearby(lat, lon, radiusKm float64) ([]NearbyCook, error) {
	var cooks []models.User
	err := r.db.
		Where("status = ?", models.StatusActive).
		Where("roles LIKE ?", "%"+models.RoleCook+"%").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Find(&cooks).Error
	if err != nil {
		return nil, err
	}

	nearby := make([]NearbyCook, 0, len(cooks))
	for _, cook := range cooks {
		d := HaversineKm(lat, lon, *cook.Latitude, *cook.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, NearbyCook{User: cook, DistanceKm: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})
	return nearby, nil
}

// HaversineKm computes the great-circle distance between two coordinates.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return R * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
