package websocket

import (
	"log"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler() *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub: hub,
	}
}

// HandleWebSocket upgrades the connection and joins the client to the audience
// named by the role query parameter. Unknown roles default to the tourist
// audience.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	audience := AudienceTourists
	if c.Query("role") == "responder" {
		audience = AudienceResponders
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, audience)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func (h *Handler) BroadcastToTourists(eventType string, data interface{}) {
	h.hub.Broadcast(AudienceTourists, eventType, data)
}

func (h *Handler) BroadcastToResponders(eventType string, data interface{}) {
	h.hub.Broadcast(AudienceResponders, eventType, data)
}

func (h *Handler) GetHub() *Hub {
	return h.hub
}
