package handler

import (
	"net/http"

	"cookedhub/internal/httpapi/dto"
	"cookedhub/internal/httpapi/middleware"
	"cookedhub/internal/httpapi/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.RegisterStandardUser(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) RegisterCook(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.RegisterCookInitiate(req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) CheckIdentifier(c *gin.Context) {
	var req dto.IdentifierCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.authService.CheckIdentifierExists(req.Identifier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IdentifierCheckResponse{Exists: exists})
}

func (h *AuthHandler) CheckUsername(c *gin.Context) {
	var req dto.IdentifierCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	exists, err := h.authService.CheckUsernameExists(req.Identifier)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.IdentifierCheckResponse{Exists: exists})
}

// SetupCookProfile completes a pending cook registration. Callers either
// present the one-time setup token or, when authenticated, complete their own
// profile in session.
func (h *AuthHandler) SetupCookProfile(c *gin.Context) {
	var req dto.CookProfileSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.SetupToken != "" {
		user, err := h.authService.CompleteCookProfile(req.SetupToken, req.Profile)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.FromModelToCookProfileResponse(user))
		return
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "setup token or authentication required"})
		return
	}
	activated, err := h.authService.CompleteCookProfileForUser(user, req.Profile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FromModelToCookProfileResponse(activated))
}
