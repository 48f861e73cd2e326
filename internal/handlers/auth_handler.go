package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/DevKor-github/onboarding-team2-be/internal/httpx"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input service.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	result, err := h.authService.Register(input)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input service.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	result, err := h.authService.Login(input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(result)
}
