package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/middleware"
	"github.com/wellpath/wellpath-api/internal/models"
	"github.com/wellpath/wellpath-api/internal/services"
)

// AddProgress records today's progress for a goal. Accepts multipart form
// data: a "value" field, an optional "date" field (YYYY-MM-DD) and any
// number of "photos" attachments. Submitting twice on the same day
// overwrites the earlier value. The response says whether this submission
// completed the goal.
func AddProgress(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	value, err := strconv.ParseFloat(c.FormValue("value"), 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fiber.Map{"value": "Enter a numeric progress value"},
		})
	}

	date := time.Now()
	if raw := c.FormValue("date"); raw != "" {
		date, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": fiber.Map{"date": "Enter a valid date (YYYY-MM-DD)"},
			})
		}
	}

	var photos []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		photos = form.File["photos"]
	}

	result, err := services.RecordProgress(database.DB, userID, goalID, value, date,
		photos, savePhoto(c), time.Now())
	if err != nil {
		return serviceError(c, err)
	}

	if result.CompletedNow {
		// Only public goals announce completion on the feed.
		var goal models.Goal
		if database.DB.First(&goal, "id = ?", goalID).Error == nil && goal.IsPublic {
			FeedHub.Broadcast(userID, FeedEvent{
				Type:   EventGoalCompleted,
				GoalID: goalID.String(),
				UserID: userID.String(),
			})
		}
	}

	code := fiber.StatusOK
	if result.Created {
		code = fiber.StatusCreated
	}
	return c.Status(code).JSON(result)
}

// GetProgress returns a goal's progress entries, oldest first.
func GetProgress(c *fiber.Ctx) error {
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
	return c.JSON(entries)
}

// savePhoto stores an uploaded photo in the uploads directory and returns
// its URL path.
func savePhoto(c *fiber.Ctx) services.PhotoStore {
	return func(file *multipart.FileHeader, filename string) (string, error) {
		uploadsDir := os.Getenv("UPLOAD_DIR")
		if uploadsDir == "" {
			uploadsDir = "uploads"
		}
		if err := os.MkdirAll(uploadsDir, 0755); err != nil {
			return "", err
		}
		if err := c.SaveFile(file, filepath.Join(uploadsDir, filename)); err != nil {
			return "", err
		}
		return fmt.Sprintf("/uploads/%s", filename), nil
	}
}
