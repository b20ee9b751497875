package main

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"robart-backend/handlers"
	"robart-backend/models"
	"robart-backend/services"
)

func main() {
	// .env 파일 로드
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env 파일을 찾을 수 없습니다.")
	}

	// MySQL 연결 (없으면 로그 영속화 없이 동작)
	if err := services.InitDatabase(); err != nil {
		log.Printf("⚠️ DB 없이 실행 (로그 영속화 비활성): %v", err)
	}

	// 로깅 시스템 초기화
	// flushSize: 50 (로그 50개마다 일괄 저장)
	// flushInterval: 10초 (매 10초마다 자동 저장)
	services.InitLogging(50, 10*time.Second)
	defer services.StopLogging() // 종료 시 남은 로그 저장

	go handlers.Manager.Start()

	// ========================================
	// 로봇 서브시스템 조립
	// ========================================

	drive := services.NewSimulatedDrive(100*time.Millisecond, handlers.Manager.BroadcastMessage)
	drive.Start()
	defer drive.Shutdown()

	// 시뮬레이션 월드: 원기둥 장애물 몇 개
	obstacles := []services.SimObstacle{
		{Center: models.Vector3{X: 2.0, Z: -3.0}, Radius: 0.4, Height: 1.2},
		{Center: models.Vector3{X: -2.5, Z: -1.5}, Radius: 0.5, Height: 0.9},
		{Center: models.Vector3{X: 0.5, Z: -5.0}, Radius: 0.3, Height: 1.5},
	}
	sensing := services.NewSimulatedSensing(drive, obstacles, 50*time.Millisecond)

	navCfg := services.DefaultNavigatorConfig()
	source := services.NewMeshEvidenceSource(navCfg)
	navigator := services.NewNavigator(navCfg, sensing, source, drive.Position())

	points := services.NewNavigablePointTable()
	camera := services.NewSimulatedCamera(drive, navigator, points)
	executor := services.NewNavigationExecutor(navigator, drive, camera)

	engine := services.NewLLMServiceFromEnv()
	brain := services.NewBrain(engine, executor, navigator, drive, camera, sensing, points,
		handlers.Manager.BroadcastMessage, services.DefaultBrainConfig())

	handlers.BrainSvc = brain
	handlers.NavigatorSvc = navigator
	handlers.DriveSvc = drive

	// 주기적 맵 스냅샷 브로드캐스트 + 포즈 샘플 로그
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			handlers.Manager.BroadcastMessage(models.WebSocketMessage{
				Type:      models.MessageTypeMapUpdate,
				Data:      navigator.MapMessage(drive.Position()),
				Timestamp: time.Now().UnixMilli(),
			})
			services.LogPose(brain.Status().MissionID, services.RobotID,
				drive.Position(), drive.Heading(), 0, brain.State())
		}
	}()

	// ========================================
	// HTTP / WebSocket 라우팅
	// ========================================

	app := fiber.New()

	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "http://localhost:5173, http://localhost:3000",
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("RoBart 내비게이션 서버가 실행 중입니다.")
	})

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "OK",
			"clients": handlers.Manager.GetClientCount(),
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// 임무 제어
	api.Post("/mission", handlers.HandleStartMission)
	api.Delete("/mission", handlers.HandleCancelMission)
	api.Get("/mission/status", handlers.HandleMissionStatus)
	api.Post("/mission/enabled", handlers.HandleSetMissionEnabled)
	api.Post("/emergency_stop", handlers.HandleEmergencyStop)
	api.Post("/drive", handlers.HandleManualDrive)

	// 로봇/맵 상태
	api.Get("/robot/status", handlers.HandleGetRobotStatus)
	api.Get("/system/info", handlers.HandleGetSystemInfo)
	api.Get("/map", handlers.HandleGetMap)

	// 경로 탐색 (디버그)
	api.Post("/pathfinding", handlers.HandlePathfinding)

	// 로그 조회 API
	logsAPI := api.Group("/logs")
	logsAPI.Get("/recent", handlers.HandleGetRecentLogs)     // 최근 로그
	logsAPI.Get("/range", handlers.HandleGetLogsByTimeRange) // 시간 범위
	logsAPI.Get("/type", handlers.HandleGetLogsByEventType)  // 이벤트 타입별
	logsAPI.Get("/stats", handlers.HandleGetLogStats)        // 통계

	// WebSocket
	app.Use("/websocket", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/websocket/robot", websocket.New(handlers.HandleRobotWebSocket))
	app.Get("/websocket/web", websocket.New(handlers.HandleWebClientWebSocket))

	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("🚀 서버 시작: http://localhost:%s", port)
	log.Printf("📡 WebSocket: ws://localhost:%s/websocket/web", port)
	log.Printf("💬 임무 API: POST http://localhost:%s/api/mission", port)
	log.Printf("💾 로그 API: GET http://localhost:%s/api/logs/*", port)
	log.Fatal(app.Listen(":" + port))
}
