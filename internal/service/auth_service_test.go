package service

import (
	"context"
	"testing"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/config"
	"github.com/Neel-Ganatra/playpower/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, userRepo *MockUserRepository) AuthService {
	t.Helper()
	svc, err := NewAuthService(userRepo, config.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)
	return svc
}

func TestNewAuthService_RequiresSecret(t *testing.T) {
	_, err := NewAuthService(new(MockUserRepository), config.JWTConfig{})

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeConfiguration, domainErr.Code)
}

func TestLogin_IssuesValidToken(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", ctx, "alice").Return(&domain.User{ID: 1, Username: "alice"}, nil)

	svc := newAuthService(t, userRepo)

	token, ttl, err := svc.Login(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, time.Hour, ttl)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_CreatesUserOnFirstLogin(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", ctx, "newcomer").Return(nil, nil)
	userRepo.On("Create", ctx, "newcomer").Return(&domain.User{ID: 2, Username: "newcomer"}, nil)

	svc := newAuthService(t, userRepo)

	token, _, err := svc.Login(ctx, "newcomer")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	userRepo.AssertCalled(t, "Create", ctx, "newcomer")
}

func TestValidateToken_RejectsTampered(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", ctx, "alice").Return(&domain.User{ID: 1, Username: "alice"}, nil)

	svc := newAuthService(t, userRepo)
	token, _, err := svc.Login(ctx, "alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, token+"x")
	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeUnauthorized, domainErr.Code)
}

func TestValidateToken_RejectsForeignSecret(t *testing.T) {
	ctx := context.Background()
	userRepo := new(MockUserRepository)
	userRepo.On("GetByUsername", ctx, "alice").Return(&domain.User{ID: 1, Username: "alice"}, nil)

	issuer := newAuthService(t, userRepo)
	token, _, err := issuer.Login(ctx, "alice")
	require.NoError(t, err)

	verifier, err := NewAuthService(new(MockUserRepository), config.JWTConfig{
		SecretKey:      "different-secret",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	_, err = verifier.ValidateToken(ctx, token)
	assert.Error(t, err)
}
