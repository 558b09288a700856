package util

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrWrongPurpose = errors.New("token used for the wrong purpose")
)

// Token purposes. An access token cannot be replayed as a magic link and vice versa.
const (
	PurposeAccess    = "access"
	PurposeRefresh   = "refresh"
	PurposeMagicLink = "magic"
)

type Claims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func signToken(email, role, purpose, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Email:   email,
		Role:    role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   email,
			Issuer:    "lfsdirectory",
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// GenerateTokenPair issues an access and a refresh token for the given identity.
func GenerateTokenPair(email, role, secret string, accessExpiry, refreshExpiry time.Duration) (*TokenPair, error) {
	access, err := signToken(email, role, PurposeAccess, secret, accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := signToken(email, role, PurposeRefresh, secret, refreshExpiry)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(accessExpiry.Seconds()),
	}, nil
}

// GenerateMagicLinkToken issues a short-lived single-purpose login token.
func GenerateMagicLinkToken(email, role, secret string, expiry time.Duration) (string, error) {
	return signToken(email, role, PurposeMagicLink, secret, expiry)
}

// ValidateToken parses and verifies a token of any purpose.
func ValidateToken(tokenString, secret string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ValidateTokenPurpose validates the token and checks it was issued for purpose.
func ValidateTokenPurpose(tokenString, secret, purpose string) (*Claims, error) {
	claims, err := ValidateToken(tokenString, secret)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != purpose {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}
