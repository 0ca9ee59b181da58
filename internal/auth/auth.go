package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/frahmantamala/onboarding-tracker/internal"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenGenerator creates and verifies signed tokens.
type TokenGenerator interface {
	GenerateAccessToken(identity *internal.Identity) (string, error)
	GenerateRefreshToken(identity *internal.Identity) (string, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Claims represents JWT token claims
type Claims struct {
	UserID    int64  `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

func (c *Claims) Identity() *internal.Identity {
	return &internal.Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
}

// Credentials is what login needs to know about an account.
type Credentials struct {
	UserID       int64
	Email        string
	Role         string
	PasswordHash string
	IsActive     bool
}

func (c *Credentials) Identity() *internal.Identity {
	return &internal.Identity{
		UserID: c.UserID,
		Email:  c.Email,
		Role:   c.Role,
	}
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	now                func() time.Time
}
