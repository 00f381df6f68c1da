package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/config"
	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/dto"
	"github.com/Neel-Ganatra/playpower/internal/logger"
	"github.com/Neel-Ganatra/playpower/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// AuthService issues and validates access tokens. Any credential pair is
// accepted; the username becomes the authenticated identity and a user row
// is created on first login.
type AuthService interface {
	Login(ctx context.Context, username string) (string, time.Duration, error)
	ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

type authService struct {
	userRepo  repository.UserRepository
	secretKey []byte
	tokenTTL  time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, cfg config.JWTConfig) (AuthService, error) {
	if cfg.SecretKey == "" {
		return nil, domain.NewConfigurationError("JWT secret key is not configured")
	}
	ttl := cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &authService{
		userRepo:  userRepo,
		secretKey: []byte(cfg.SecretKey),
		tokenTTL:  ttl,
	}, nil
}

// Login ensures the user exists and returns a signed access token.
func (s *authService) Login(ctx context.Context, username string) (string, time.Duration, error) {
	l := logger.Get()

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", 0, domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		user, err = s.userRepo.Create(ctx, username)
		if err != nil {
			return "", 0, domain.NewInternalError("failed to create user", err)
		}
		l.Info("Created new user on first login",
			zap.String("username", username), zap.Int64("user_id", user.ID))
	}

	now := time.Now()
	claims := dto.AuthClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", 0, domain.NewInternalError("failed to sign access token", err)
	}
	return signed, s.tokenTTL, nil
}

// ValidateToken parses and verifies a token, returning its claims.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	claims := &dto.AuthClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid or expired token", err)
	}
	if !token.Valid || claims.Username == "" {
		return nil, domain.NewUnauthorizedError("invalid token claims", nil)
	}
	return claims, nil
}
