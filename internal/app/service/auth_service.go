package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/mailer"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
)

const AdminRole = "admin"

// TokenRevoker remembers spent token ids. pkg/redis.Store implements it.
type TokenRevoker interface {
	RevokeToken(ctx context.Context, tokenID string, expiry time.Duration) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthConfig struct {
	AllowedEmail    string
	JWTSecret       string
	AccessExpiry    time.Duration
	RefreshExpiry   time.Duration
	MagicLinkExpiry time.Duration
	SiteURL         string
}

type AuthService interface {
	IsAdmin(email string) bool
	RequestMagicLink(ctx context.Context, email string) error
	ExchangeMagicLink(ctx context.Context, token string) (*util.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	cfg     AuthConfig
	mail    mailer.Sender
	revoker TokenRevoker
}

// NewAuthService builds passwordless admin auth. revoker may be nil, in which
// case magic links stay valid until they expire and logout is client-side only.
func NewAuthService(cfg AuthConfig, mail mailer.Sender, revoker TokenRevoker) AuthService {
	if cfg.MagicLinkExpiry <= 0 {
		cfg.MagicLinkExpiry = 15 * time.Minute
	}
	return &authService{cfg: cfg, mail: mail, revoker: revoker}
}

func (s *authService) IsAdmin(email string) bool {
	allowed := strings.TrimSpace(s.cfg.AllowedEmail)
	return allowed != "" && strings.EqualFold(strings.TrimSpace(email), allowed)
}

func (s *authService) RequestMagicLink(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !s.IsAdmin(email) {
		logger.Warn("Magic link requested for non-admin email", map[string]interface{}{
			"email": email,
		})
		return ErrAdminOnly
	}

	token, err := util.GenerateMagicLinkToken(email, AdminRole, s.cfg.JWTSecret, s.cfg.MagicLinkExpiry)
	if err != nil {
		logger.Error("Failed to sign magic link", err)
		return err
	}

	loginURL := s.cfg.SiteURL + "/admin/login?token=" + url.QueryEscape(token)
	subject, body := mailer.AdminMagicLink(loginURL)
	if s.mail != nil {
		if err := s.mail.Send(ctx, mailer.Message{To: []string{email}, Subject: subject, HTML: body}); err != nil {
			logger.Error("Failed to send magic link", err)
			return err
		}
	}
	logger.Info("Magic link sent", map[string]interface{}{
		"email": email,
	})
	return nil
}

func (s *authService) ExchangeMagicLink(ctx context.Context, token string) (*util.TokenPair, error) {
	claims, err := s.validate(ctx, token, util.PurposeMagicLink)
	if err != nil {
		return nil, err
	}
	// single use
	s.revoke(ctx, claims)

	return s.issue(claims.Email)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.validate(ctx, refreshToken, util.PurposeRefresh)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)
	return s.issue(claims.Email)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := util.ValidateTokenPurpose(refreshToken, s.cfg.JWTSecret, util.PurposeRefresh)
	if err != nil {
		// an unusable token is already logged out
		return nil
	}
	s.revoke(ctx, claims)
	logger.Info("Admin logged out", map[string]interface{}{
		"email": claims.Email,
	})
	return nil
}

func (s *authService) issue(email string) (*util.TokenPair, error) {
	pair, err := util.GenerateTokenPair(email, AdminRole, s.cfg.JWTSecret, s.cfg.AccessExpiry, s.cfg.RefreshExpiry)
	if err != nil {
		logger.Error("Failed to issue admin tokens", err)
		return nil, err
	}
	return pair, nil
}

func (s *authService) validate(ctx context.Context, token, purpose string) (*util.Claims, error) {
	claims, err := util.ValidateTokenPurpose(strings.TrimSpace(token), s.cfg.JWTSecret, purpose)
	if err != nil {
		logger.Warn("Admin token rejected", map[string]interface{}{
			"purpose": purpose,
			"error":   err.Error(),
		})
		return nil, ErrInvalidToken
	}
	if !s.IsAdmin(claims.Email) {
		return nil, ErrAdminOnly
	}
	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsTokenRevoked(ctx, claims.ID)
		if err != nil {
			// fail open, same as RequireAdmin
			logger.Warn("Token revocation check failed", map[string]interface{}{
				"purpose": purpose,
				"error":   err.Error(),
			})
		} else if revoked {
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

func (s *authService) revoke(ctx context.Context, claims *util.Claims) {
	if s.revoker == nil || claims.ID == "" || claims.ExpiresAt == nil {
		return
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return
	}
	if err := s.revoker.RevokeToken(ctx, claims.ID, ttl); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Failed to revoke token", err)
	}
}
