package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"cookedhub/internal/httpapi/models"
	"cookedhub/internal/httpapi/repository"
	"cookedhub/internal/notify"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// In-memory repositories for service tests

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*models.User)}
}

func (m *memUserRepo) Create(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) FindByID(id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) FindByIDForUpdate(id string) (*models.User, error) {
	return m.FindByID(id)
}

func (m *memUserRepo) FindByEmail(email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) FindByUsername(username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) ExistsByEmail(email string) (bool, error) {
	_, err := m.FindByEmail(email)
	return err == nil, nil
}

func (m *memUserRepo) ExistsByUsername(username string) (bool, error) {
	_, err := m.FindByUsername(username)
	return err == nil, nil
}

func (m *memUserRepo) FindBySetupToken(token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.SetupToken != nil && *u.SetupToken == token {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memUserRepo) Save(user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) FindActiveCooksNearby(lat, lon, radiusKm float64) ([]repository.NearbyCook, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var nearby []repository.NearbyCook
	for _, u := range m.users {
		if !u.IsActiveCook() || u.Latitude == nil || u.Longitude == nil {
			continue
		}
		d := repository.HaversineKm(lat, lon, *u.Latitude, *u.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, repository.NearbyCook{User: *u, DistanceKm: d})
		}
	}
	sort.Slice(nearby, func(i, j int) bool { return nearby[i].DistanceKm < nearby[j].DistanceKm })
	return nearby, nil
}

type memBookingRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	users    *memUserRepo
}

func newMemBookingRepo(users *memUserRepo) *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking), users: users}
}

func (m *memBookingRepo) Create(booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	m.bookings[booking.ID] = booking
	return nil
}

func (m *memBookingRepo) FindByID(id string) (*models.Booking, error) {
	m.mu.Lock()
	b, ok := m.bookings[id]
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if u, err := m.users.FindByID(b.CustomerID); err == nil {
		b.Customer = u
	}
	if u, err := m.users.FindByID(b.CookID); err == nil {
		b.Cook = u
	}
	return b, nil
}

func (m *memBookingRepo) FindByIDForUpdate(id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.bookings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memBookingRepo) FindByCook(cookID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.CookID == cookID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookingRepo) FindByCustomer(customerID string) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookingRepo) Save(booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking.UpdatedAt = time.Now()
	m.bookings[booking.ID] = booking
	return nil
}

func (m *memBookingRepo) Delete(booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bookings, booking.ID)
	return nil
}

type memRatingRepo struct {
	mu      sync.Mutex
	nextID  int64
	ratings []*models.Rating
}

func newMemRatingRepo() *memRatingRepo {
	return &memRatingRepo{nextID: 1}
}

func (m *memRatingRepo) Create(rating *models.Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rating.ID = m.nextID
	m.nextID++
	rating.CreatedAt = time.Now()
	m.ratings = append(m.ratings, rating)
	return nil
}

func (m *memRatingRepo) ExistsByBookingAndUser(bookingID, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.ratings {
		if r.BookingID == bookingID && r.RatedByUserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRatingRepo) FindByCook(cookID string) ([]models.Rating, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Rating
	for _, r := range m.ratings {
		if r.RatedCookID == cookID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *memRatingRepo) BookingIDsWithRatings(bookingIDs []string) (map[string]bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	wanted := make(map[string]bool, len(bookingIDs))
	for _, id := range bookingIDs {
		wanted[id] = true
	}
	rated := make(map[string]bool)
	for _, r := range m.ratings {
		if wanted[r.BookingID] {
			rated[r.BookingID] = true
		}
	}
	return rated, nil
}

func (m *memRatingRepo) CalculateAverage(cookID string) (float64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var sum, count int64
	for _, r := range m.ratings {
		if r.RatedCookID == cookID {
			sum += int64(r.RatingValue)
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type memNotificationRepo struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*models.Notification
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{nextID: 1}
}

func (m *memNotificationRepo) Create(ctx context.Context, notification *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	notification.ID = m.nextID
	m.nextID++
	notification.CreatedAt = time.Now()
	m.notifications = append(m.notifications, notification)
	return nil
}

func (m *memNotificationRepo) GetUnreadByUser(ctx context.Context, userID string) ([]models.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID && !n.Read {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (m *memNotificationRepo) MarkAsRead(ctx context.Context, notificationID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == notificationID {
			n.Read = true
		}
	}
	return nil
}

func (m *memNotificationRepo) MarkAllAsRead(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.UserID == userID {
			n.Read = true
		}
	}
	return nil
}

// memTxManager runs the function against the same shared repositories. A
// mutex keeps transactions mutually exclusive, mirroring how the row locks
// taken inside a real transaction serialize writers; the row-lock path itself
// is covered by the suite in lifecycle_isolation_test.go.
type memTxManager struct {
	mu    sync.Mutex
	repos *repository.Repositories
}

func (m *memTxManager) InTx(fn func(r *repository.Repositories) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(m.repos)
}

// recordingNotifier captures dispatched events synchronously.
type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.Event
}

func (n *recordingNotifier) Dispatch(recipientID string, event notify.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	event.ToUserID = recipientID
	n.events = append(n.events, event)
}

func (n *recordingNotifier) Events() []notify.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]notify.Event, len(n.events))
	copy(out, n.events)
	return out
}

// stubGeocoder returns a fixed place name, or nothing when empty.
type stubGeocoder struct {
	place string
}

func (g *stubGeocoder) ResolvePlaceName(ctx context.Context, lat, lon float64) (string, bool) {
	if g.place == "" {
		return "", false
	}
	return g.place, true
}
