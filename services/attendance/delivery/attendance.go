package delivery

import (
	"attendance/config"
	"attendance/domain"
	"attendance/middleware"
	"attendance/services/attendance/usecase"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type attendanceHandler struct {
	uc domain.AttendanceUseCase
}

func NewAttendanceDelivery(app *fiber.App, uc domain.AttendanceUseCase) {
	handler := &attendanceHandler{
		uc: uc,
	}

	auth := middleware.AuthRequired()
	staff := middleware.RoleRequired("admin", "staff")

	app.Get("/attendance", auth, staff, handler.GetAttendance)
	app.Get("/attendance/summary", auth, staff, handler.GetSummary)
	app.Post("/attendance", auth, staff, handler.MarkAttendance)
	app.Post("/attendance/bulk", auth, staff, handler.MarkAttendanceBulk)
}

func parseFilter(c *fiber.Ctx) (domain.AttendanceFilter, error) {
	filter := domain.AttendanceFilter{
		Date: strings.TrimSpace(c.Query("date")),
	}
	if raw := strings.TrimSpace(c.Query("classId")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return filter, fmt.Errorf("invalid classId %q", raw)
		}
		filter.ClassID = id
	}
	return filter, nil
}

func (ah *attendanceHandler) GetAttendance(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)

	filter, err := parseFilter(c)
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "GetAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	records, err := ah.uc.GetAttendance(c.UserContext(), filter)
	if err != nil {
		status, message := failureFor(err, "Failed to retrieve attendance records")
		config.PrintLogInfo(&userToken.Username, status, "GetAttendance")
		log.Error(fmt.Sprintf("User: %s => Failed to get attendance: %v", userToken.Username, err))
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetAttendance")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance records retrieved successfully",
		"data":    records,
	})
}

func (ah *attendanceHandler) GetSummary(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)

	filter, err := parseFilter(c)
	if err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "GetSummary")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}

	summary, err := ah.uc.GetSummary(c.UserContext(), filter)
	if err != nil {
		status, message := failureFor(err, "Failed to retrieve attendance summary")
		config.PrintLogInfo(&userToken.Username, status, "GetSummary")
		log.Error(fmt.Sprintf("User: %s => Failed to get attendance summary: %v", userToken.Username, err))
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusOK, "GetSummary")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance summary retrieved successfully",
		"data":    summary,
	})
}

func (ah *attendanceHandler) MarkAttendance(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)

	var req domain.MarkPayload
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "MarkAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if errs := validatePayload(&req); len(errs) > 0 {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "MarkAttendance")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": strings.Join(errs, ", "),
			"error":   errs,
		})
	}

	record, err := ah.uc.MarkAttendance(c.UserContext(), &req, userToken.Username)
	if err != nil {
		status, message := failureFor(err, "Failed to mark attendance")
		config.PrintLogInfo(&userToken.Username, status, "MarkAttendance")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusCreated, "MarkAttendance")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Attendance marked successfully",
		"data":    record,
	})
}

func (ah *attendanceHandler) MarkAttendanceBulk(c *fiber.Ctx) error {
	userToken, _ := c.Locals("user").(*domain.Claims)

	var req domain.BulkPayload
	if err := c.BodyParser(&req); err != nil {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "MarkAttendanceBulk")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	var validatorResponse []string
	for i := range req.AttendanceRecords {
		for _, msg := range validatePayload(&req.AttendanceRecords[i]) {
			validatorResponse = append(validatorResponse, fmt.Sprintf("row %d: %s", i+1, msg))
		}
	}
	if len(validatorResponse) > 0 {
		config.PrintLogInfo(&userToken.Username, fiber.StatusBadRequest, "MarkAttendanceBulk")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": strings.Join(validatorResponse, ", "),
			"error":   validatorResponse,
		})
	}

	result, err := ah.uc.MarkAttendanceBulk(c.UserContext(), &req, userToken.Username)
	if err != nil {
		status, message := failureFor(err, "Failed to mark bulk attendance")
		config.PrintLogInfo(&userToken.Username, status, "MarkAttendanceBulk")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"message": message,
			"error":   err.Error(),
		})
	}

	config.PrintLogInfo(&userToken.Username, fiber.StatusCreated, "MarkAttendanceBulk")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("%d attendance records marked successfully", result.Created),
		"data":    result,
	})
}

func validatePayload(p *domain.MarkPayload) []string {
	var out []string
	if _, err := govalidator.ValidateStruct(p); err != nil {
		for _, msg := range govalidator.ErrorsByField(err) {
			out = append(out, msg)
		}
	}
	sort.Strings(out)
	return out
}

// failureFor maps use case errors to a status code and the user-facing message.
func failureFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, domain.ErrDuplicateRecord):
		return fiber.StatusConflict, "Duplicate record"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, usecase.ErrEmptyBatch):
		return fiber.StatusBadRequest, err.Error()
	default:
		return fiber.StatusInternalServerError, fallback
	}
}
