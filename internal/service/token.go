package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/cineview/movie-api/internal/model"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService issues and verifies the three token kinds: signed access
// tokens, signed refresh tokens, and random password-reset tokens whose
// sha256 is what gets stored.
type TokenService struct {
	secretKey  string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(secretKey string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// GenerateAccessToken creates a short-lived JWT carrying the user's identity
// claims
func (s *TokenService) GenerateAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":   user.ID,
		"user_name": user.UserName,
		"email":     user.Email,
		"is_admin":  user.IsAdmin,
		"iat":       now.Unix(),
		"exp":       now.Add(s.accessTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a longer-lived JWT carrying only the user id
func (s *TokenService) GenerateRefreshToken(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.refreshTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates a signed token (access or refresh) and returns the
// claims
func (s *TokenService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// UserIDFromClaims extracts the user id claim. JSON numbers decode as
// float64, so conversion goes through that.
func UserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	idFloat, ok := claims["user_id"].(float64)
	if !ok {
		return 0, false
	}
	return uint(idFloat), true
}

// GenerateResetToken creates a random 32-byte reset token, hex encoded. The
// raw value goes out by email; only HashResetToken of it is stored.
func (s *TokenService) GenerateResetToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}

// HashResetToken hashes a raw reset token for storage and lookup
func (s *TokenService) HashResetToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
