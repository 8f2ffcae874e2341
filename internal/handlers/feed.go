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

// FeedItem is one card in the public feed: an annotated goal plus its
// social counts.
type FeedItem struct {
	services.AnnotatedGoal
	LikesCount    int64 `json:"likesCount"`
	CommentsCount int64 `json:"commentsCount"`
	LikedByMe     bool  `json:"likedByMe"`
}

// GetFeed returns public goals annotated with current value and status.
// Defaults to active goals; the same endpoint serves the card list the
// frontend re-renders when the status filter changes.
func GetFeed(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	filter := c.Query("status", string(status.Active))
	if !status.Valid(filter) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be one of active, completed, overdue",
		})
	}

	goals, err := services.ListPublicGoals(database.DB, filter, time.Now())
	if err != nil {
		return serviceError(c, err)
	}

	items := make([]FeedItem, len(goals))
	goalIDs := make([]uuid.UUID, len(goals))
	for i := range goals {
		items[i] = FeedItem{AnnotatedGoal: goals[i]}
		goalIDs[i] = goals[i].ID
	}

	if len(goalIDs) > 0 {
		attachSocialCounts(items, goalIDs, userID)
	}

	return c.JSON(items)
}

// attachSocialCounts batch-loads like/comment counts and the viewer's own
// likes for a set of goals.
func attachSocialCounts(items []FeedItem, goalIDs []uuid.UUID, userID uuid.UUID) {
	type countRow struct {
		GoalID uuid.UUID
		Count  int64
	}

	var likeCounts []countRow
	database.DB.Model(&models.Like{}).
		Select("goal_id, COUNT(*) as count").
		Where("goal_id IN ?", goalIDs).
		Group("goal_id").
		Find(&likeCounts)

	var commentCounts []countRow
	database.DB.Model(&models.Comment{}).
		Select("goal_id, COUNT(*) as count").
		Where("goal_id IN ?", goalIDs).
		Group("goal_id").
		Find(&commentCounts)

	var myLikes []uuid.UUID
	database.DB.Model(&models.Like{}).
		Where("goal_id IN ? AND user_id = ?", goalIDs, userID).
		Pluck("goal_id", &myLikes)

	likeMap := make(map[uuid.UUID]int64, len(likeCounts))
	for _, r := range likeCounts {
		likeMap[r.GoalID] = r.Count
	}
	commentMap := make(map[uuid.UUID]int64, len(commentCounts))
	for _, r := range commentCounts {
		commentMap[r.GoalID] = r.Count
	}
	likedMap := make(map[uuid.UUID]bool, len(myLikes))
	for _, id := range myLikes {
		likedMap[id] = true
	}

	for i := range items {
		items[i].LikesCount = likeMap[items[i].ID]
		items[i].CommentsCount = commentMap[items[i].ID]
		items[i].LikedByMe = likedMap[items[i].ID]
	}
}
