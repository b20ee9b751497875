package models

// ========================================
// 메시지 타입 상수
// ========================================
const (
	// Robot → Server → Web
	MessageTypePosition   = "position"    // 로봇 위치 업데이트
	MessageTypeStatus     = "status"      // 로봇 상태 업데이트
	MessageTypePathUpdate = "path_update" // 현재 주행 경로
	MessageTypeMapUpdate  = "map_update"  // 점유 그리드 스냅샷

	// Web → Server
	MessageTypeMissionStart  = "mission_start"  // 사용자 발화로 임무 시작
	MessageTypeMissionCancel = "mission_cancel" // 현재 임무 취소
	MessageTypeEmergencyStop = "emergency_stop" // 긴급 정지

	// Server → Web
	MessageTypeSpeech        = "speech"         // 로봇 발화 (TTS 대용)
	MessageTypeThought       = "thought"        // 사고 히스토리 항목 중계
	MessageTypeMissionStatus = "mission_status" // 임무 상태 변경
	MessageTypeSystemInfo    = "system_info"    // 시스템 정보
)

// ========================================
// 공통 WebSocket 메시지 형식
// ========================================
type WebSocketMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"` // Unix timestamp (ms)
}

// ========================================
// 포즈 데이터
// ========================================
type PoseData struct {
	X         float64 `json:"x"`         // 현재 X 좌표 (미터)
	Z         float64 `json:"z"`         // 현재 Z 좌표 (미터)
	Heading   float64 `json:"heading"`   // 진행 방향 (도)
	Timestamp float64 `json:"timestamp"` // Unix timestamp (초)
}

// ========================================
// 명령 메시지
// ========================================

// MissionStartCommand - 임무 시작 (사람의 지시 텍스트)
type MissionStartCommand struct {
	Utterance string `json:"utterance"` // "내 노트북 어디 있어?" 등
}

// EmergencyStopCommand - 긴급 정지 명령
type EmergencyStopCommand struct {
	Reason string `json:"reason"` // 정지 사유
}

// ========================================
// 경로 데이터
// ========================================
type PathData struct {
	Points    []PoseData `json:"points"`    // 경로 포인트 리스트
	Length    float64    `json:"length"`    // 전체 경로 길이 (미터)
	Algorithm string     `json:"algorithm"` // "a_star"
}

// ========================================
// 발화 / 사고 중계 데이터
// ========================================

// SpeechData - 로봇 발화
type SpeechData struct {
	Text      string `json:"text"`
	Final     bool   `json:"final"` // FINAL_RESPONSE 여부
	Timestamp int64  `json:"timestamp"`
}

// ThoughtData - 사고 히스토리 항목 중계 (사진 제외)
type ThoughtData struct {
	Kind      string `json:"kind"`
	Text      string `json:"text"`
	NumPhotos int    `json:"num_photos"`
	Timestamp int64  `json:"timestamp"`
}

// MissionStatusData - 임무 상태 변경
type MissionStatusData struct {
	MissionID string `json:"mission_id"`
	State     string `json:"state"` // idle/listening/thinking/acting/speaking
	Utterance string `json:"utterance,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// ========================================
// 시스템 정보
// ========================================
type SystemInfo struct {
	ConnectedClients int    `json:"connected_clients"` // 연결된 클라이언트 수
	RobotConnected   bool   `json:"robot_connected"`   // 로봇 연결 상태
	MissionActive    bool   `json:"mission_active"`    // 임무 진행 여부
	ServerTime       string `json:"server_time"`       // 서버 시각
}
