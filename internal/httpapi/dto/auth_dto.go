package dto

// Data Transfer Objects for authentication requests and responses

// RegisterRequest: payload for customer or cook registration
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest: payload for user login. The identifier is always the email;
// it is the single canonical external identifier.
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
}

// AuthResponse: response payload after successful registration or login
type AuthResponse struct {
	UserID          string   `json:"user_id"`
	Message         string   `json:"message"`
	Username        string   `json:"username"`
	Token           string   `json:"token"`
	Roles           []string `json:"roles"`
	Status          string   `json:"status"`
	AverageRating   float64  `json:"average_rating"`
	NumberOfRatings int      `json:"number_of_ratings"`
}

// IdentifierCheckRequest: payload for availability checks
type IdentifierCheckRequest struct {
	Identifier string `json:"identifier" binding:"required"`
}

// IdentifierCheckResponse: whether the identifier is already registered
type IdentifierCheckResponse struct {
	Exists bool `json:"exists"`
}

// CookProfileSetupRequest: payload completing a pending cook registration.
// The setup token is optional; when absent the authenticated principal is
// used instead.
type CookProfileSetupRequest struct {
	SetupToken string             `json:"setup_token"`
	Profile    CookProfileRequest `json:"profile" binding:"required"`
}
