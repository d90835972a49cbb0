package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/middleware"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type rosterHandler struct {
	uc domain.RosterUseCase
}

func NewRosterDelivery(app *fiber.App, uc domain.RosterUseCase) {
	handler := &rosterHandler{
		uc: uc,
	}

	app.Get("/students", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.GetAllStudent)
	app.Get("/classes", middleware.AuthRequired(), middleware.RoleRequired("admin", "staff"), handler.GetAllClass)
}

func (rh *rosterHandler) GetAllStudent(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)

	students, err := rh.uc.GetAllStudent(c.UserContext())
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusInternalServerError, "GetAllStudent")
		log.Error(fmt.Sprintf("User: %s => Failed to get all students: %v", userToken.Username, err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve students",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetAllStudent")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Students retrieved successfully",
		"data":    students,
	})
}

func (rh *rosterHandler) GetAllClass(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)

	classes, err := rh.uc.GetAllClass(c.UserContext())
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusInternalServerError, "GetAllClass")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "Failed to retrieve classes",
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetAllClass")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Classes retrieved successfully",
		"data":    classes,
	})
}
