package handler_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Neel-Ganatra/playpower/internal/domain"
	"github.com/Neel-Ganatra/playpower/internal/dto"
	"github.com/Neel-Ganatra/playpower/internal/handler"
	"github.com/Neel-Ganatra/playpower/internal/middleware"
	"github.com/Neel-Ganatra/playpower/internal/service"
	"github.com/Neel-Ganatra/playpower/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockAuthService
type MockAuthService struct {
	LoginFunc         func(ctx context.Context, username string) (string, time.Duration, error)
	ValidateTokenFunc func(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
}

func (m *MockAuthService) Login(ctx context.Context, username string) (string, time.Duration, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, username)
	}
	panic("MockAuthService.LoginFunc not implemented")
}
func (m *MockAuthService) ValidateToken(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, tokenString)
	}
	panic("MockAuthService.ValidateTokenFunc not implemented")
}

var _ service.AuthService = (*MockAuthService)(nil)

func newAuthApp(svc service.AuthService) *fiber.App {
	authHandler := handler.NewAuthHandler(svc, validation.NewValidator())
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Post("/auth/login", authHandler.Login)
	return app
}

func TestLoginHandler(t *testing.T) {
	svc := &MockAuthService{}
	svc.LoginFunc = func(ctx context.Context, username string) (string, time.Duration, error) {
		assert.Equal(t, "alice", username)
		return "signed-token", 24 * time.Hour, nil
	}
	app := newAuthApp(svc)

	body, status, err := postJSON(app, "/auth/login", dto.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, status)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "Login successful", resp.Message)
	assert.Equal(t, "24h0m0s", resp.ExpiresIn)
}

func TestLoginHandler_MissingCredentials(t *testing.T) {
	app := newAuthApp(&MockAuthService{})

	body, status, err := postJSON(app, "/auth/login", dto.LoginRequest{})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, status)

	var resp middleware.ValidationErrorResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	assert.Equal(t, string(domain.CodeValidation), resp.Code)
	assert.Len(t, resp.Errors, 2)
}

func TestLoginHandler_ShortPassword(t *testing.T) {
	app := newAuthApp(&MockAuthService{})

	_, status, err := postJSON(app, "/auth/login", dto.LoginRequest{Username: "alice", Password: "123"})
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, status)
}
