package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/service"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
)

// AuthController handles the passwordless admin sign-in.
type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{
		authService: authService,
	}
}

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,lfsemail"`
}

type ExchangeRequest struct {
	Token string `json:"token" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RequestMagicLink emails a one-time sign-in link to the admin
// POST /api/v1/admin/auth/magic-link
func (ctrl *AuthController) RequestMagicLink(c *gin.Context) {
	var req MagicLinkRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := ctrl.authService.RequestMagicLink(c.Request.Context(), req.Email); err != nil {
		respondServiceError(c, err, "magic link")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Check your email for a sign-in link",
	})
}

// Exchange trades a magic link token for a session
// POST /api/v1/admin/auth/exchange
func (ctrl *AuthController) Exchange(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ExchangeRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := ctrl.authService.ExchangeMagicLink(c.Request.Context(), req.Token)
	if err != nil {
		respondServiceError(c, err, "magic link exchange")
		return
	}

	log.Info("Admin signed in")
	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// Refresh rotates the refresh token
// POST /api/v1/admin/auth/refresh
func (ctrl *AuthController) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := ctrl.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondServiceError(c, err, "token refresh")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"tokens": tokens,
	})
}

// Me returns the signed-in admin
// GET /api/v1/admin/auth/me
func (ctrl *AuthController) Me(c *gin.Context) {
	email, ok := middleware.GetAdminEmail(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"email": email,
		"role":  service.AdminRole,
	})
}

// Logout revokes the refresh token
// POST /api/v1/admin/auth/logout
func (ctrl *AuthController) Logout(c *gin.Context) {
	var req RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := ctrl.authService.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		respondServiceError(c, err, "logout")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out",
	})
}
