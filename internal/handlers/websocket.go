package handlers

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/wellpath/wellpath-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventGoalCompleted = "goal_completed"
	EventLikeAdded     = "like_added"
	EventCommentAdded  = "comment_added"
)

// FeedEvent is the JSON message pushed to clients watching the feed
type FeedEvent struct {
	Type   string      `json:"type"`
	GoalID string      `json:"goalId"`
	UserID string      `json:"userId"`
	Data   interface{} `json:"data,omitempty"`
}

// connection wraps a websocket connection with its user ID
type connection struct {
	conn   *websocket.Conn
	userID uuid.UUID
}

// Hub manages the WebSocket connections subscribed to the feed
type Hub struct {
	mu    sync.RWMutex
	conns map[*connection]bool
}

// Global hub instance
var FeedHub = &Hub{
	conns: make(map[*connection]bool),
}

func (h *Hub) register(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[conn] = true
	log.Printf("WS register: user %s joined feed (total: %d)", conn.userID, len(h.conns))
}

func (h *Hub) unregister(conn *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns, conn)
	log.Printf("WS unregister: user %s left feed (remaining: %d)", conn.userID, len(h.conns))
}

// Broadcast sends an event to all feed watchers except the acting user
func (h *Hub) Broadcast(excludeUserID uuid.UUID, event FeedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.conns) == 0 {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS broadcast marshal error: %v", err)
		return
	}
	log.Printf("WS broadcast: %s to %d connection(s)", event.Type, len(h.conns))

	for c := range h.conns {
		// Don't send to the user who triggered the event
		if c.userID == excludeUserID {
			continue
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("WS write error: %v", err)
		}
	}
}

// WebSocketUpgrade is the middleware that checks the upgrade request and validates JWT
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Authenticate via query param: ?token=<jwt>
		tokenString := c.Query("token")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// HandleFeedSocket keeps a feed subscription open until the client drops
func HandleFeedSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	conn := &connection{conn: c, userID: userID}
	FeedHub.register(conn)
	defer FeedHub.unregister(conn)

	// Keep connection alive — read messages (client sends pings/keepalives)
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
