package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wellpath/wellpath-api/internal/database"
	"github.com/wellpath/wellpath-api/internal/middleware"
	"github.com/wellpath/wellpath-api/internal/models"
)

// AddComment adds a comment to a goal.
func AddComment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": fiber.Map{"text": "Comment text is required"},
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

	comment := models.Comment{
		GoalID: goalID,
		UserID: userID,
		Text:   req.Text,
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to add comment",
		})
	}

	// Preload user for response
	database.DB.Preload("User").First(&comment, comment.ID)

	if goal.UserID != userID {
		CreateNotification(goal.UserID, "comment_received",
			"New comment!",
			comment.User.Username+" commented on \""+goal.Title+"\"",
			map[string]interface{}{"goalId": goalID.String(), "username": comment.User.Username},
		)
	}

	FeedHub.Broadcast(userID, FeedEvent{
		Type:   EventCommentAdded,
		GoalID: goalID.String(),
		UserID: userID.String(),
		Data:   fiber.Map{"commentId": comment.ID.String()},
	})

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetGoalComments returns a goal's comments, oldest first.
func GetGoalComments(c *fiber.Ctx) error {
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

	var comments []models.Comment
	database.DB.Where("goal_id = ?", goalID).
		Preload("User").
		Order("created_at ASC").
		Find(&comments)

	return c.JSON(comments)
}

// DeleteComment deletes a comment (only by the comment author).
func DeleteComment(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	commentID, err := uuid.Parse(c.Params("commentId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid comment ID",
		})
	}

	var comment models.Comment
	if err := database.DB.First(&comment, "id = ?", commentID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Comment not found",
		})
	}

	if comment.UserID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You can only delete your own comments",
		})
	}

	database.DB.Delete(&comment)

	return c.JSON(fiber.Map{"success": true})
}
