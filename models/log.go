package models

import (
	"time"
)

// MissionLog - 임무 수행 로그
type MissionLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	EventType   string    `json:"event_type"` // "pose", "thought", "action", "speech", "navigation", etc.
	MessageType string    `json:"message_type"`

	// 임무/로봇 식별
	MissionID string `json:"mission_id"`
	RobotID   string `json:"robot_id"`

	// 포즈
	PositionX float64 `json:"position_x"`
	PositionZ float64 `json:"position_z"`
	Heading   float64 `json:"heading"`
	Speed     float64 `json:"speed"`
	State     string  `json:"state"`

	// 사고/행동 정보
	ThoughtKind string `json:"thought_kind"`
	ThoughtText string `gorm:"type:text" json:"thought_text"`
	ActionType  string `json:"action_type"`
	Result      string `gorm:"type:text" json:"result"` // actual-vs-intended 결과 요약

	// 항법 정보
	TargetX       float64 `json:"target_x"`
	TargetZ       float64 `json:"target_z"`
	PathWaypoints int     `json:"path_waypoints"`

	// 메타데이터
	DataJSON string `gorm:"type:text" json:"data_json"` // 원본 메시지 JSON
}
