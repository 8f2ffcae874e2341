package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/wellpath/wellpath-api/internal/handlers"
	"github.com/wellpath/wellpath-api/internal/middleware"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)

	goals := protected.Group("/goals")
	goals.Get("/", handlers.GetGoals)
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/:id", handlers.GetGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Delete("/:id", handlers.DeleteGoal)

	goals.Post("/:id/progress", handlers.AddProgress)
	goals.Get("/:id/progress", handlers.GetProgress)
	goals.Get("/:id/chart", handlers.GetGoalChart)

	// Social
	goals.Post("/:id/like", handlers.ToggleLike)
	goals.Get("/:id/likes", handlers.GetGoalLikes)
	goals.Post("/:id/comments", handlers.AddComment)
	goals.Get("/:id/comments", handlers.GetGoalComments)
	protected.Delete("/comments/:commentId", handlers.DeleteComment)

	// Public feed (also serves the status-filter card refresh)
	protected.Get("/feed", handlers.GetFeed)

	// Dashboard category overview
	protected.Get("/dashboard", handlers.GetDashboard)

	// Taxonomy
	protected.Get("/categories", handlers.GetCategories)
	protected.Get("/categories/:slug/goals", handlers.GetCategoryGoals)
	protected.Get("/ajax/units", handlers.LoadUnits)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
	notifications.Post("/read-all", handlers.MarkAllRead)

	// WebSocket for real-time feed events
	app.Use("/ws", handlers.WebSocketUpgrade())
	app.Get("/ws/feed", websocket.New(handlers.HandleFeedSocket))
}
