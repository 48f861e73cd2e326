package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/DevKor-github/onboarding-team2-be/internal/httpx"
	"github.com/DevKor-github/onboarding-team2-be/internal/models"
	"github.com/DevKor-github/onboarding-team2-be/internal/service"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetMe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user.ToResponse())
}

func (h *UserHandler) UpdateMe(c *fiber.Ctx) error {
	userID, err := httpx.LocalUint(c, "userID")
	if err != nil {
		return httpx.Unauthorized(c, "unauthorized", "Authentication required")
	}

	var input service.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	user, err := h.userService.UpdateProfile(userID, input)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user.ToResponse())
}

func (h *UserHandler) CheckUsername(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		return httpx.BadRequest(c, "missing_username", "username query parameter is required")
	}

	available, err := h.userService.IsUsernameAvailable(username)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"available": available})
}

func (h *UserHandler) SearchUsers(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return httpx.BadRequest(c, "missing_query", "q query parameter is required")
	}

	limit := queryInt(c, "limit", 20)
	users, err := h.userService.SearchUsers(query, limit)
	if err != nil {
		return respondError(c, err)
	}

	responses := make([]models.UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, users[i].ToResponse())
	}
	return c.JSON(responses)
}

func (h *UserHandler) GetUserByUsername(c *fiber.Ctx) error {
	user, err := h.userService.GetUserByUsername(c.Params("username"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user.ToResponse())
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := paramUint(c, "id")
	if err != nil {
		return httpx.BadRequest(c, "invalid_user_id", "Invalid user ID")
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(user.ToResponse())
}
