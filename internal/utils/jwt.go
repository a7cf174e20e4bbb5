package utils

import (
	"errors"
	"time"

	"vending/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "vending-api"

// TokenConfig holds the signing secrets and lifetimes of issued tokens.
// Access and refresh tokens are signed with different secrets so one can
// never be replayed as the other.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// GenerateTokens issues an access token and a refresh token for identity.
func GenerateTokens(cfg TokenConfig, identity models.Identity) (accessToken string, refreshToken string, err error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return "", "", errors.New("token secrets not configured")
	}

	accessToken, err = signToken(cfg.AccessSecret, cfg.AccessTTL, identity)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = signToken(cfg.RefreshSecret, cfg.RefreshTTL, identity)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

func signToken(secret string, ttl time.Duration, identity models.Identity) (string, error) {
	now := time.Now()
	claims := models.UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   identity.UserID.String(),
		},
		Role: identity.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken parses and validates a JWT token string signed with secret.
// It returns the token if valid, or an error if something is wrong.
func ParseToken(tokenStr, secret string) (*jwt.Token, *models.UserClaims, error) {
	if secret == "" {
		return nil, nil, errors.New("token secret not configured")
	}

	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, nil, err
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, nil, errors.New("invalid token claims")
	}
	if !claims.Role.Valid() {
		return nil, nil, errors.New("invalid role claim")
	}

	return token, claims, nil
}
