package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/ikkim/vendortrust-backend/internal/errors"
	"github.com/ikkim/vendortrust-backend/internal/middleware"
	ws "github.com/ikkim/vendortrust-backend/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		// 허용된 도메인 목록
		allowedOrigins := map[string]bool{
			"http://localhost:5173": true, // 개발 환경
			"http://localhost:3000": true, // 개발 환경
		}
		if origin == "" {
			// 비 브라우저 클라이언트 (CLI, 모니터링 도구)
			return true
		}
		return allowedOrigins[origin]
	},
}

type EventController struct {
	hub *ws.Hub
}

func NewEventController(hub *ws.Hub) *EventController {
	return &EventController{
		hub: hub,
	}
}

// StreamEvents upgrades the connection and streams verification events (Admin only)
// GET /ws/admin/events
func (ctrl *EventController) StreamEvents(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	// 미들웨어에서 이미 인증 완료
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "로그인이 필요합니다")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade to WebSocket", err, nil)
		return
	}

	client := &ws.Client{
		Hub:    ctrl.hub,
		Conn:   &ws.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("Admin connected to event feed", map[string]interface{}{
		"user_id": userID,
	})
}
