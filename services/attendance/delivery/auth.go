package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/middleware"
	"attendance/services/attendance/usecase"
	"errors"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
)

type authHandler struct {
	uc domain.AuthUseCase
}

func NewAuthDelivery(app *fiber.App, uc domain.AuthUseCase) {
	handler := &authHandler{
		uc: uc,
	}

	route := app.Group("/login")
	route.Post("/user", handler.Login)
}

func (h *authHandler) Login(c *fiber.Ctx) error {
	var req domain.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(nil, fiber.StatusBadRequest, "Login")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
		})
	}

	if _, err := govalidator.ValidateStruct(&req); err != nil {
		config.PrintLogInfo(&req.Username, fiber.StatusBadRequest, "Login")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Username and password are required",
		})
	}

	user, err := h.uc.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			config.PrintLogInfo(&req.Username, fiber.StatusUnauthorized, "Login")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid username or password",
			})
		}
		config.PrintLogInfo(&req.Username, fiber.StatusInternalServerError, "Login")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to log in",
			"error":   err.Error(),
		})
	}

	token, err := middleware.GenerateJWT(user.UserID, user.Username, user.Role)
	if err != nil {
		config.PrintLogInfo(&req.Username, fiber.StatusInternalServerError, "Login")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to generate token",
		})
	}

	config.PrintLogInfo(&req.Username, fiber.StatusOK, "Login")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logged in successfully",
		"data": domain.LoginResponse{
			Token: token,
			Role:  user.Role,
		},
	})
}
