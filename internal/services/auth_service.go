package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"vagondeck/internal/config"
)

// ErrInvalidPassword is returned when the supplied password does not match
// the configured hash.
var ErrInvalidPassword = errors.New("invalid password")

const sessionTTL = 24 * time.Hour

// AuthService guards the dashboard with a single env-configured bcrypt hash.
// It is stateless: sessions are signed JWTs, nothing is stored server-side.
// With no hash configured the dashboard stays open.
type AuthService struct {
	passwordHash []byte
	secret       []byte
}

func NewAuthService(cfg config.Config) *AuthService {
	return &AuthService{
		passwordHash: []byte(cfg.PasswordHash),
		secret:       []byte(cfg.SessionSecret),
	}
}

// Enabled reports whether the login wall is configured.
func (s *AuthService) Enabled() bool {
	return len(s.passwordHash) > 0
}

// Login checks the password against the configured hash and issues a session
// token.
func (s *AuthService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", errors.New("login is not configured")
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "dashboard",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies a session token's signature and expiry.
func (s *AuthService) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return fmt.Errorf("parse session token: %w", err)
	}
	if !token.Valid {
		return errors.New("invalid session token")
	}
	return nil
}
