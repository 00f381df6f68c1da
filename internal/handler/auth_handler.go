package handler

import (
	"github.com/Neel-Ganatra/playpower/internal/dto"
	"github.com/Neel-Ganatra/playpower/internal/logger"
	"github.com/Neel-Ganatra/playpower/internal/service"
	"github.com/Neel-Ganatra/playpower/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	authService service.AuthService
	validator   *validation.Validator
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authService service.AuthService, validator *validation.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

// Login godoc
// @Summary Authenticate and receive a token
// @Description Accepts any username/password pair and issues a JWT for it
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if errs := h.validator.ValidateLogin(req.Username, req.Password); len(errs) > 0 {
		return errs
	}

	token, ttl, err := h.authService.Login(c.Context(), req.Username)
	if err != nil {
		return err
	}

	logger.Get().Info("User logged in", zap.String("username", req.Username))

	return c.JSON(dto.LoginResponse{
		Token:     token,
		Message:   "Login successful",
		ExpiresIn: ttl.String(),
	})
}
