package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/logistics-console/internal/api/dto"
	"github.com/spec-kit/logistics-console/internal/auth"
	"github.com/spec-kit/logistics-console/internal/service"
)

// AuthHandler exposes login and invitation acceptance endpoints.
type AuthHandler struct {
	authService         *service.AuthService
	collaboratorService *service.CollaboratorService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, collaboratorService *service.CollaboratorService) *AuthHandler {
	return &AuthHandler{authService: authService, collaboratorService: collaboratorService}
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Email == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "email and password required")
	}

	collaborator, token, exp, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"collaborator": collaboratorResponse(collaborator),
			"auth":         dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// AcceptInvitation handles POST /auth/invitations/accept.
func (h *AuthHandler) AcceptInvitation(c *fiber.Ctx) error {
	var req dto.AcceptInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.Token == "" || req.Password == "" {
		return fiber.NewError(http.StatusBadRequest, "token and password required")
	}

	collaborator, err := h.collaboratorService.AcceptInvitation(c.Context(), req.Token, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": collaboratorResponse(collaborator)})
}

// ChangePassword handles POST /auth/password/change.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	var req dto.PasswordChangeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		return fiber.NewError(http.StatusBadRequest, "current and new password required")
	}

	if err := h.authService.ChangePassword(c.Context(), principal.Collaborator, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "password_changed"}})
}
