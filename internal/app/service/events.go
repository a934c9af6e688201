package service

import "time"

// Event 관리자 실시간 피드로 내보내는 검증 이벤트
type Event struct {
	Type       string      `json:"type"`
	VendorID   uint        `json:"vendor_id"`
	VendorName string      `json:"vendor_name,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// EventPublisher 이벤트 브로드캐스트 협력자 (websocket 허브가 구현)
// nil이면 이벤트 발행 없이 동작
type EventPublisher interface {
	Publish(event Event)
}
