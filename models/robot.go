package models

import "time"

// ========================================
// 로봇 상태 상수
// ========================================
const (
	StateIdle      = "idle"      // 대기 중
	StateMoving    = "moving"    // 이동 중
	StateTurning   = "turning"   // 제자리 회전 중
	StateScanning  = "scanning"  // 360도 스캔 중
	StateStopped   = "stopped"   // 정지 (장애물/타임아웃)
	StateEmergency = "emergency" // 긴급 정지
)

// RobotState - 로봇 상태 타입
type RobotState string

// ========================================
// 로봇 전체 상태
// ========================================
type RobotStatus struct {
	// 기본 정보
	ID         string    `json:"id"`          // 로봇 고유 ID
	Name       string    `json:"name"`        // 로봇 이름
	Connected  bool      `json:"connected"`   // 연결 상태
	LastUpdate time.Time `json:"last_update"` // 마지막 업데이트 시각

	// 포즈
	Position Vector3 `json:"position"` // 현재 위치 (미터)
	Forward  Vector3 `json:"forward"`  // 전방 벡터
	Heading  float64 `json:"heading"`  // 진행 방향 (도)

	// 운영 상태
	State RobotState `json:"state"` // 현재 상태
	Speed float64    `json:"speed"` // 현재 속도 (m/s)

	// 경로 정보
	CurrentPath *PathData `json:"current_path"` // 현재 경로 (없으면 nil)
	TargetPos   *Vector3  `json:"target_pos"`   // 목표 위치 (없으면 nil)
}

// ========================================
// 모터 제어 데이터
// ========================================
type MotorControl struct {
	LeftThrottle  float64 `json:"left_throttle"`  // 좌측 스로틀 (-1.0 ~ 1.0)
	RightThrottle float64 `json:"right_throttle"` // 우측 스로틀 (-1.0 ~ 1.0)
}

// ========================================
// 임무 통계
// ========================================
type MissionStats struct {
	TotalDistance  float64   `json:"total_distance"`  // 총 이동 거리 (m)
	TotalTime      int64     `json:"total_time"`      // 총 소요 시간 (초)
	ActionsRun     int       `json:"actions_run"`     // 실행한 행동 수
	ActionsFailed  int       `json:"actions_failed"`  // 실패한 행동 수
	PhotosTaken    int       `json:"photos_taken"`    // 촬영한 사진 수
	EngineRequests int       `json:"engine_requests"` // 결정 엔진 호출 수
	StartTime      time.Time `json:"start_time"`      // 시작 시각
}
