package websocket

import (
	"encoding/json"
	"sync"

	"github.com/ikkim/vendortrust-backend/internal/app/service"
	"github.com/ikkim/vendortrust-backend/pkg/logger"
)

// Client WebSocket 클라이언트 (관리자 세션)
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub 검증 이벤트 실시간 피드 관리자
// 연결된 모든 관리자 세션에 검증 상태 변경 이벤트를 브로드캐스트함
type Hub struct {
	// 등록된 클라이언트들 (UserID -> []*Client - 멀티 디바이스 지원)
	clients map[uint][]*Client

	// 클라이언트 등록
	register chan *Client

	// 클라이언트 등록 해제
	unregister chan *Client

	// 이벤트 브로드캐스트
	broadcast chan []byte

	mu sync.RWMutex
}

// NewHub Hub 생성
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run Hub 실행
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			// 멀티 디바이스 지원: 클라이언트 리스트에 추가
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Event feed client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}

				close(client.Send)
			}
			h.mu.Unlock()
			logger.Info("Event feed client unregistered", map[string]interface{}{
				"user_id": client.UserID,
			})

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				// 멀티 디바이스: 모든 세션에 전송
				for _, client := range clientList {
					select {
					case client.Send <- message:
						// 전송 성공
					default:
						// Send 채널이 막혀있음 - 비동기로 정리
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish 검증 이벤트를 연결된 모든 관리자에게 전송
// service.EventPublisher 구현
func (h *Hub) Publish(event service.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event", err, map[string]interface{}{
			"type":      event.Type,
			"vendor_id": event.VendorID,
		})
		return
	}

	select {
	case h.broadcast <- data:
	default:
		// 브로드캐스트 채널이 가득 차면 이벤트를 버림 (주요 로직에 영향 없음)
		logger.Warn("Broadcast channel full, event dropped", map[string]interface{}{
			"type":      event.Type,
			"vendor_id": event.VendorID,
		})
	}
}

// Register 클라이언트 등록
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 클라이언트 등록 해제
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// ConnectedAdmins 현재 연결된 관리자 수
func (h *Hub) ConnectedAdmins() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
