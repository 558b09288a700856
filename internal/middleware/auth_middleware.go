package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
)

// Context keys for the authenticated admin
const (
	AdminEmailKey = "admin_email"
	AdminRoleKey  = "admin_role"
	TokenIDKey    = "token_id"
)

// RevocationChecker reports whether a token id has been revoked. pkg/redis.Store implements it.
type RevocationChecker interface {
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthMiddleware struct {
	jwtSecret  string
	adminEmail string
	revocation RevocationChecker
}

// NewAuthMiddleware guards the admin API. revocation may be nil.
func NewAuthMiddleware(jwtSecret, adminEmail string, revocation RevocationChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtSecret:  jwtSecret,
		adminEmail: strings.TrimSpace(adminEmail),
		revocation: revocation,
	}
}

// RequireAdmin validates an access token and checks its email against ADMIN_EMAIL.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, ok := bearerToken(c)
		if !ok {
			log.Warn("Missing or malformed authorization", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			errors.Unauthorized(c, "")
			c.Abort()
			return
		}

		claims, err := util.ValidateTokenPurpose(token, m.jwtSecret, util.PurposeAccess)
		if err != nil {
			log.Warn("Token validation failed", map[string]interface{}{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			if err == util.ErrExpiredToken {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenExpired, "Session expired")
			} else {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenInvalid, "Invalid token")
			}
			c.Abort()
			return
		}

		if m.adminEmail == "" || !strings.EqualFold(claims.Email, m.adminEmail) {
			log.Warn("Non-admin token on admin route", map[string]interface{}{
				"email": claims.Email,
				"path":  c.Request.URL.Path,
			})
			errors.RespondWithError(c, http.StatusForbidden, errors.AuthzAdminOnly, "Access denied")
			c.Abort()
			return
		}

		if m.revocation != nil && claims.ID != "" {
			revoked, err := m.revocation.IsTokenRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				// fail open, a Redis outage should not lock the admin out
				log.Warn("Token revocation check failed", map[string]interface{}{
					"error": err.Error(),
				})
			} else if revoked {
				errors.RespondWithError(c, http.StatusUnauthorized, errors.AuthTokenRevoked, "Token revoked")
				c.Abort()
				return
			}
		}

		c.Set(AdminEmailKey, claims.Email)
		c.Set(AdminRoleKey, claims.Role)
		c.Set(TokenIDKey, claims.ID)

		log.Debug("Admin authenticated", map[string]interface{}{
			"email": claims.Email,
		})

		c.Next()
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to ?token=
// for the websocket handshake where browsers cannot set headers.
func bearerToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			return "", false
		}
		return strings.TrimSpace(parts[1]), true
	}
	if token := c.Query("token"); token != "" {
		return token, true
	}
	return "", false
}

// GetAdminEmail extracts the admin email set by RequireAdmin
func GetAdminEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(AdminEmailKey)
	if !exists {
		return "", false
	}
	s, ok := email.(string)
	return s, ok
}
