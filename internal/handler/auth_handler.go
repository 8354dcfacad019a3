package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/gtd_storefront/internal/middleware"
	"github.com/GTDGit/gtd_storefront/internal/service"
	"github.com/GTDGit/gtd_storefront/internal/utils"
)

// AuthHandler handles admin login.
type AuthHandler struct {
	auth        *service.AdminAuthService
	rateLimiter *middleware.InvalidAuthRateLimiter
}

// NewAuthHandler constructs an AuthHandler. Failed logins count against
// rateLimiter when it is set.
func NewAuthHandler(auth *service.AdminAuthService, rateLimiter *middleware.InvalidAuthRateLimiter) *AuthHandler {
	return &AuthHandler{auth: auth, rateLimiter: rateLimiter}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	if h.rateLimiter != nil && h.rateLimiter.Blocked(c.ClientIP()) {
		utils.Error(c, 429, "TOO_MANY_REQUESTS", "Too many invalid authentication attempts")
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "email and password are required")
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) && h.rateLimiter != nil {
			h.rateLimiter.Allow(c.ClientIP())
		}
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Login successful", gin.H{"token": token, "tokenType": "Bearer"})
}
