package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/middleware"
	"github.com/wellpath/wellpath-api/internal/services"
)

// GetDashboard returns per-category goal counts for the current user,
// zero-filled so every category renders a card.
func GetDashboard(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	stats, err := services.CategoryStats(database.DB, userID, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"categories": stats})
}
