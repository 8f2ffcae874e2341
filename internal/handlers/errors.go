package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/wellpath/wellpath-api/internal/services"
)

// serviceError maps service-layer failures onto the API's error envelope:
// field-level validation messages as a 400, missing or foreign resources as
// 404/403, anything else as a 500.
func serviceError(c *fiber.Ctx, err error) error {
	var verrs services.ValidationErrors
	if errors.As(err, &verrs) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": verrs,
		})
	}
	if errors.Is(err, services.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}
	if errors.Is(err, services.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You don't have access to this goal",
		})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong",
	})
}
