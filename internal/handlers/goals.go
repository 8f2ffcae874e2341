package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/middleware"
	"github.com/wellpath/wellpath-api/internal/models"
	"github.com/wellpath/wellpath-api/internal/services"
	"github.com/wellpath/wellpath-api/internal/status"
)

// GetGoals returns the current user's goals, optionally filtered by
// ?status=active|completed|overdue.
func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	filter := c.Query("status")
	if filter != "" && !status.Valid(filter) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be one of active, completed, overdue",
		})
	}

	goals, err := services.ListGoalsForUser(database.DB, userID, filter, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(goals)
}

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := services.CreateGoal(database.DB, userID, req, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(goal)
}

// GetGoal returns one goal with its derived fields plus like/comment counts
// for the detail page. Private goals are only visible to their owner.
func GetGoal(c *fiber.Ctx) error {
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

	var likesCount, commentsCount int64
	database.DB.Model(&models.Like{}).Where("goal_id = ?", goalID).Count(&likesCount)
	database.DB.Model(&models.Comment{}).Where("goal_id = ?", goalID).Count(&commentsCount)

	var likedByMe int64
	database.DB.Model(&models.Like{}).
		Where("goal_id = ? AND user_id = ?", goalID, userID).
		Count(&likedByMe)

	return c.JSON(fiber.Map{
		"goal":          goal,
		"likesCount":    likesCount,
		"commentsCount": commentsCount,
		"likedByMe":     likedByMe > 0,
	})
}

func UpdateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	goal, err := services.UpdateGoal(database.DB, userID, goalID, req, time.Now())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(goal)
}

func DeleteGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	if err := services.DeleteGoal(database.DB, userID, goalID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}
