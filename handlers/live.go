package handlers

import (
	"encoding/json"
	"log"
	"strconv"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"hearth/config"
	"hearth/database"
	"hearth/middleware"
	"hearth/models"
)

type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type CheckData struct {
	ItemID  uint `json:"item_id"`
	Checked bool `json:"checked"`
}

// Open connections per grocery list
var (
	listConns   = make(map[uint]map[*websocket.Conn]bool)
	listConnsMu sync.RWMutex
)

// ListWebSocketUpgrade upgrades HTTP to WebSocket. Browsers cannot set
// an Authorization header on a websocket, so the JWT rides in a query
// parameter instead.
func ListWebSocketUpgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		tokenString := c.Query("token")
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Token required",
			})
		}

		cfg := config.GetConfig()
		token, err := jwt.ParseWithClaims(tokenString, &middleware.Claims{}, func(token *jwt.Token) (interface{}, error) {
			return []byte(cfg.JWTSecret), nil
		})

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token",
			})
		}

		claims, ok := token.Claims.(*middleware.Claims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid token claims",
			})
		}

		c.Locals("userID", claims.UserID)
		c.Locals("username", claims.Username)

		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ListWebSocket keeps a grocery list live across phones: check-offs
// from any member are applied and pushed to everyone else on the same
// list.
func ListWebSocket(c *websocket.Conn) {
	listID64, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		sendWSError(c, "Invalid list ID")
		return
	}
	listID := uint(listID64)

	var list models.GroceryList
	if result := database.DB.First(&list, listID); result.Error != nil {
		sendWSError(c, "Grocery list not found")
		return
	}

	registerListConn(listID, c)
	defer unregisterListConn(listID, c)

	log.Printf("List WebSocket connected: list=%d", listID)
	sendWSMessage(c, "ready", nil)

	for {
		_, msg, err := c.ReadMessage()
		if err != nil {
			return
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			sendWSMessage(c, "error", fiber.Map{"error": "Invalid message"})
			continue
		}

		switch wsMsg.Type {
		case "check":
			var data CheckData
			if err := json.Unmarshal(wsMsg.Data, &data); err != nil {
				sendWSMessage(c, "error", fiber.Map{"error": "Invalid check payload"})
				continue
			}

			var item models.GroceryItem
			if result := database.DB.Where("list_id = ?", listID).First(&item, data.ItemID); result.Error != nil {
				sendWSMessage(c, "error", fiber.Map{"error": "Item not found"})
				continue
			}

			item.Checked = data.Checked
			if result := database.DB.Save(&item); result.Error != nil {
				sendWSMessage(c, "error", fiber.Map{"error": "Failed to save item"})
				continue
			}

			BroadcastListUpdate(listID, "item_updated", item)

		case "ping":
			sendWSMessage(c, "pong", nil)
		}
	}
}

// BroadcastListUpdate pushes an item change to every connection
// watching the list. Safe to call with no watchers.
func BroadcastListUpdate(listID uint, msgType string, data interface{}) {
	listConnsMu.RLock()
	defer listConnsMu.RUnlock()
	for conn := range listConns[listID] {
		sendWSMessage(conn, msgType, data)
	}
}

func registerListConn(listID uint, c *websocket.Conn) {
	listConnsMu.Lock()
	defer listConnsMu.Unlock()
	if listConns[listID] == nil {
		listConns[listID] = make(map[*websocket.Conn]bool)
	}
	listConns[listID][c] = true
}

func unregisterListConn(listID uint, c *websocket.Conn) {
	listConnsMu.Lock()
	defer listConnsMu.Unlock()
	delete(listConns[listID], c)
	if len(listConns[listID]) == 0 {
		delete(listConns, listID)
	}
}

func sendWSMessage(c *websocket.Conn, msgType string, data interface{}) {
	dataBytes, _ := json.Marshal(data)
	msg := WSMessage{
		Type: msgType,
		Data: dataBytes,
	}
	msgBytes, _ := json.Marshal(msg)
	c.WriteMessage(websocket.TextMessage, msgBytes)
}

func sendWSError(c *websocket.Conn, errMsg string) {
	sendWSMessage(c, "error", fiber.Map{"error": errMsg})
	c.Close()
}
