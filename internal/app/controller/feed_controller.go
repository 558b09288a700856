package controller

import (
	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/errors"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/middleware"
	ws "github.com/lfsdirectory/lfsdirectory-backend/internal/websocket"
)

// FeedController upgrades admin sessions onto the moderation live feed.
type FeedController struct {
	hub      *ws.Hub
	upgrader *gorilla.Upgrader
}

func NewFeedController(hub *ws.Hub, allowedOrigins []string) *FeedController {
	return &FeedController{
		hub:      hub,
		upgrader: ws.NewUpgrader(allowedOrigins),
	}
}

// Connect GET /api/v1/admin/feed (websocket)
func (ctrl *FeedController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	email, ok := middleware.GetAdminEmail(c)
	if !ok {
		errors.Unauthorized(c, "")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err)
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, email)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Admin feed connected", map[string]interface{}{
		"email": email,
	})
}
