package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/middleware"
	"github.com/wellpath/wellpath-api/internal/models"
)

// ToggleLike likes a goal, or removes the like if the user already liked
// it. The unique (user, goal) index backs the at-most-one rule.
func ToggleLike(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.First(&goal, "id = ?", goalID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}
	if !goal.IsPublic && goal.UserID != userID {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	var like models.Like
	liked := false
	if err := database.DB.Where("user_id = ? AND goal_id = ?", userID, goalID).
		First(&like).Error; err == nil {
		database.DB.Delete(&like)
	} else {
		like = models.Like{UserID: userID, GoalID: goalID}
		if err := database.DB.Create(&like).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to like goal",
			})
		}
		liked = true
	}

	var likesCount int64
	database.DB.Model(&models.Like{}).Where("goal_id = ?", goalID).Count(&likesCount)

	if liked && goal.UserID != userID {
		var liker models.User
		database.DB.First(&liker, userID)
		CreateNotification(goal.UserID, "like_received",
			"New like!",
			liker.Username+" liked \""+goal.Title+"\"",
			map[string]interface{}{"goalId": goalID.String(), "username": liker.Username},
		)
		FeedHub.Broadcast(userID, FeedEvent{
			Type:   EventLikeAdded,
			GoalID: goalID.String(),
			UserID: userID.String(),
			Data:   fiber.Map{"likesCount": likesCount},
		})
	}

	return c.JSON(fiber.Map{
		"liked":      liked,
		"likesCount": likesCount,
	})
}

// GetGoalLikes returns a goal's likes, newest first.
func GetGoalLikes(c *fiber.Ctx) error {
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var likes []models.Like
	database.DB.Where("goal_id = ?", goalID).
		Preload("User").
		Order("created_at DESC").
		Find(&likes)

	return c.JSON(likes)
}
