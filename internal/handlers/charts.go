package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wellpath/wellpath-api/internal/charts"
	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/middleware"
	"github.com/wellpath/wellpath-api/internal/services"
)

// GetGoalChart returns the bucketed progress series for a goal's detail
// page chart.
func GetGoalChart(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	goal, err := services.GetGoal(database.DB, goalID, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	if !goal.IsPublic && goal.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	entries, err := services.ListProgress(database.DB, goalID)
	if err != nil {
		return serviceError(c, err)
	}

	chartEntries := make([]charts.Entry, len(entries))
	for i, e := range entries {
		chartEntries[i] = charts.Entry{Date: e.Date, Value: e.Value}
	}

	unit := ""
	if goal.Unit != nil {
		unit = goal.Unit.Name
	}

	series := charts.Build(charts.Goal{
		CreatedAt:   goal.CreatedAt,
		Deadline:    goal.Deadline,
		TargetValue: goal.TargetValue,
		Unit:        unit,
	}, chartEntries, time.Now())

	return c.JSON(series)
}
