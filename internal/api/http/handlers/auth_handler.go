package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Juliussaint/gmianugerah/internal/api/dto"
	"github.com/Juliussaint/gmianugerah/internal/service"
	util "github.com/Juliussaint/gmianugerah/pkg/util"
)

// AuthHandler exposes operator login.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Login verifies credentials and issues a bearer token.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return util.NewValidationError("invalid request body", map[string]any{"body": err.Error()})
	}
	if details := dto.ValidateStruct(payload); details != nil {
		return util.NewValidationError("invalid login payload", details)
	}

	result, err := h.auth.Login(c.Context(), payload.Username, payload.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Operator:  dto.NewOperatorResponse(result.Operator),
	})
}
