package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"robart-backend/models"
	"robart-backend/services"
)

// BrainSvc - 에이전트 루프 (main.go에서 초기화)
var BrainSvc *services.Brain

// NavigatorSvc - 내비게이터 (main.go에서 초기화)
var NavigatorSvc *services.Navigator

// DriveSvc - 주행 컨트롤러 (main.go에서 초기화)
var DriveSvc services.DriveController

// HandleStartMission - 임무 시작 (HTTP POST)
func HandleStartMission(c *fiber.Ctx) error {
	var cmd models.MissionStartCommand
	if err := c.BodyParser(&cmd); err != nil || cmd.Utterance == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "utterance 필드가 필요합니다",
		})
	}

	if BrainSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Brain 서비스가 초기화되지 않았습니다",
		})
	}

	missionID, err := BrainSvc.StartMission(cmd.Utterance)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("💬 임무 접수: %s", cmd.Utterance)

	return c.JSON(fiber.Map{
		"success":    true,
		"mission_id": missionID,
	})
}

// HandleCancelMission - 임무 취소 (HTTP DELETE)
func HandleCancelMission(c *fiber.Ctx) error {
	if BrainSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Brain 서비스가 초기화되지 않았습니다",
		})
	}

	BrainSvc.Cancel()
	return c.JSON(fiber.Map{
		"success": true,
	})
}

// HandleMissionStatus - 임무 상태 조회
func HandleMissionStatus(c *fiber.Ctx) error {
	if BrainSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Brain 서비스가 초기화되지 않았습니다",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"status":  BrainSvc.Status(),
		"stats":   BrainSvc.Stats(),
	})
}

// HandleSetMissionEnabled - 임무 접수 활성화/비활성화.
// 비활성화하면 진행 중인 임무도 함께 취소된다.
func HandleSetMissionEnabled(c *fiber.Ctx) error {
	if BrainSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Brain 서비스가 초기화되지 않았습니다",
		})
	}

	var cmd struct {
		Enabled bool `json:"enabled"`
	}
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "enabled 필드가 필요합니다",
		})
	}

	BrainSvc.SetEnabled(cmd.Enabled)
	return c.JSON(fiber.Map{
		"success": true,
		"enabled": cmd.Enabled,
	})
}

// HandleManualDrive - 수동 스로틀 주행 (디버그/텔레옵).
// 임무 진행 중에는 거부한다 (에이전트 루프와 충돌 방지).
func HandleManualDrive(c *fiber.Ctx) error {
	if DriveSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "주행 컨트롤러가 초기화되지 않았습니다",
		})
	}
	if BrainSvc != nil && BrainSvc.Active() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "임무 진행 중에는 수동 주행을 사용할 수 없습니다",
		})
	}

	var cmd models.MotorControl
	if err := c.BodyParser(&cmd); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "left_throttle/right_throttle 필드가 필요합니다",
		})
	}

	if cmd.LeftThrottle == 0 && cmd.RightThrottle == 0 {
		DriveSvc.Stop()
	} else {
		DriveSvc.Drive(cmd.LeftThrottle, cmd.RightThrottle)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"left":    cmd.LeftThrottle,
		"right":   cmd.RightThrottle,
	})
}

// HandleEmergencyStop - 긴급 정지 (HTTP POST)
func HandleEmergencyStop(c *fiber.Ctx) error {
	var cmd models.EmergencyStopCommand
	_ = c.BodyParser(&cmd)
	if cmd.Reason == "" {
		cmd.Reason = "api"
	}

	if BrainSvc != nil {
		BrainSvc.EmergencyStop(cmd.Reason)
	} else if DriveSvc != nil {
		DriveSvc.Stop()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"reason":  cmd.Reason,
	})
}
