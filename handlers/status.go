package handlers

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"robart-backend/models"
	"robart-backend/services"
)

// 이 시간 동안 포즈 업데이트가 없으면 연결 끊김으로 본다
const robotStaleAfter = 5 * time.Second

// RobotTracker - 로봇 상태 추적기.
// 시뮬레이터 또는 실기 로봇의 포즈 메시지를 받아 최신 상태를 유지한다.
type RobotTracker struct {
	mu     sync.RWMutex
	status models.RobotStatus
}

// Tracker - 전역 로봇 추적기
var Tracker = &RobotTracker{
	status: models.RobotStatus{
		ID:   services.RobotID,
		Name: "로바트",
	},
}

// UpdatePose - 포즈 반영
func (t *RobotTracker) UpdatePose(position models.Vector3, heading float64, state string, speed float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status.Position = position
	t.status.Forward = models.HeadingToForward(heading)
	t.status.Heading = heading
	t.status.State = models.RobotState(state)
	t.status.Speed = speed
	t.status.LastUpdate = time.Now()
}

// UpdateFromMessage - position 메시지에서 포즈 추출
func (t *RobotTracker) UpdateFromMessage(msg models.WebSocketMessage) {
	data, ok := msg.Data.(map[string]interface{})
	if !ok {
		return
	}

	x, _ := data["x"].(float64)
	z, _ := data["z"].(float64)
	heading, _ := data["heading"].(float64)

	t.UpdatePose(models.Vector3{X: x, Z: z}, heading, models.StateMoving, 0)
}

// Status - 현재 로봇 상태 (신선도 판정 포함)
func (t *RobotTracker) Status() models.RobotStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()

	status := t.status
	status.Connected = !status.LastUpdate.IsZero() && time.Since(status.LastUpdate) < robotStaleAfter
	return status
}

// HandleGetRobotStatus - 로봇 상태 조회
func HandleGetRobotStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"robot":   Tracker.Status(),
	})
}

// HandleGetSystemInfo - 시스템 정보 조회
func HandleGetSystemInfo(c *fiber.Ctx) error {
	counts := Manager.GetClientCount()
	missionActive := BrainSvc != nil && BrainSvc.Active()

	return c.JSON(fiber.Map{
		"success": true,
		"info": models.SystemInfo{
			ConnectedClients: counts["robot"] + counts["web"],
			RobotConnected:   Tracker.Status().Connected || counts["robot"] > 0,
			MissionActive:    missionActive,
			ServerTime:       time.Now().Format(time.RFC3339),
		},
	})
}
