package handlers

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"

	"robart-backend/models"
	"robart-backend/services"
)

type Client struct {
	Conn       *websocket.Conn
	ClientType string // "robot" 또는 "web"
}

// 클라이언트 관리자
type ClientManager struct {
	clients    map[*websocket.Conn]*Client
	broadcast  chan models.WebSocketMessage
	register   chan *Client
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
}

// 전역 클라이언트 관리자
var Manager = &ClientManager{
	clients:    make(map[*websocket.Conn]*Client),
	broadcast:  make(chan models.WebSocketMessage, 100),
	register:   make(chan *Client),
	unregister: make(chan *websocket.Conn),
}

// 클라이언트 관리 시작
func (manager *ClientManager) Start() {
	for {
		select {
		case client := <-manager.register:
			manager.mutex.Lock()
			manager.clients[client.Conn] = client
			manager.mutex.Unlock()
			log.Printf("클라이언트 등록: %s (%s)", client.ClientType, client.Conn.RemoteAddr())

		case conn := <-manager.unregister:
			manager.mutex.Lock()
			if client, ok := manager.clients[conn]; ok {
				delete(manager.clients, conn)
				_ = conn.Close()
				log.Printf("클라이언트 해제: %s (%s)", client.ClientType, conn.RemoteAddr())
			}
			manager.mutex.Unlock()
		case message := <-manager.broadcast:
			manager.handleBroadcast(message)
		}
	}
}

func (manager *ClientManager) handleBroadcast(message models.WebSocketMessage) {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	for conn, client := range manager.clients {
		// 메시지 타입에 따라 전송 대상 결정
		shouldSend := false

		switch message.Type {
		case models.MessageTypePosition,
			models.MessageTypeStatus,
			models.MessageTypePathUpdate,
			models.MessageTypeMapUpdate,
			models.MessageTypeSpeech,
			models.MessageTypeThought,
			models.MessageTypeMissionStatus,
			models.MessageTypeSystemInfo:
			// 로봇/서버에서 Web으로 전송
			if client.ClientType == "web" {
				shouldSend = true
			}
		case models.MessageTypeMissionStart,
			models.MessageTypeMissionCancel,
			models.MessageTypeEmergencyStop:
			// Web에서 로봇으로 전송 (실기 로봇이 붙는 경우)
			if client.ClientType == "robot" {
				shouldSend = true
			}
		}

		if shouldSend {
			err := conn.WriteJSON(message)
			if err != nil {
				log.Printf("전송 실패 (%s): %v", client.ClientType, err)
				// 같은 고루틴이 unregister를 소비하므로 직접 보내면 막힌다
				go func(c *websocket.Conn) { manager.unregister <- c }(conn)
			}
		}
	}
}

// 외부에서 호출할 수 있는 브로드캐스트 메서드
func (manager *ClientManager) BroadcastMessage(msg models.WebSocketMessage) {
	manager.broadcast <- msg
}

func (manager *ClientManager) GetClientCount() map[string]int {
	manager.mutex.RLock()
	defer manager.mutex.RUnlock()

	count := map[string]int{
		"robot": 0,
		"web":   0,
	}

	for _, client := range manager.clients {
		count[client.ClientType]++
	}

	return count
}

// 로봇 WebSocket Handler (실기 로봇의 텔레메트리 유입)
func HandleRobotWebSocket(c *websocket.Conn) {
	client := &Client{
		Conn:       c,
		ClientType: "robot",
	}

	Manager.register <- client

	defer func() {
		Manager.unregister <- c
	}()

	for {
		var msg models.WebSocketMessage
		err := c.ReadJSON(&msg)
		if err != nil {
			log.Printf("로봇 메시지 읽기 오류: %v", err)
			break
		}

		// 타임스탬프 추가
		if msg.Timestamp == 0 {
			msg.Timestamp = time.Now().UnixMilli()
		}

		go services.LogWebSocketMessage(services.RobotID, msg)

		// 포즈는 추적기에 반영하고 웹으로 중계한다
		if msg.Type == models.MessageTypePosition {
			Tracker.UpdateFromMessage(msg)
		}

		Manager.broadcast <- msg
	}
}

// Web 클라이언트 WebSocket Handler (임무 제어 + 상태 구독)
func HandleWebClientWebSocket(c *websocket.Conn) {
	client := &Client{
		Conn:       c,
		ClientType: "web",
	}

	Manager.register <- client

	defer func() {
		Manager.unregister <- c
	}()

	// 연결 확인 메시지 전송
	welcomeMsg := models.WebSocketMessage{
		Type: models.MessageTypeSystemInfo,
		Data: map[string]interface{}{
			"message":      "웹 클라이언트 연결됨",
			"connected_at": time.Now().Format(time.RFC3339),
		},
		Timestamp: time.Now().UnixMilli(),
	}
	_ = c.WriteJSON(welcomeMsg)

	for {
		var msg models.WebSocketMessage
		err := c.ReadJSON(&msg)
		if err != nil {
			log.Printf("웹 메시지 읽기 오류: %v", err)
			break
		}

		// 타임스탬프 추가
		if msg.Timestamp == 0 {
			msg.Timestamp = time.Now().UnixMilli()
		}

		go services.LogWebSocketMessage("web-user", msg)

		switch msg.Type {
		case models.MessageTypeMissionStart:
			handleMissionStartMessage(c, msg)

		case models.MessageTypeMissionCancel:
			if BrainSvc != nil {
				BrainSvc.Cancel()
			}
			Manager.broadcast <- msg

		case models.MessageTypeEmergencyStop:
			reason := "web client"
			if data, ok := msg.Data.(map[string]interface{}); ok {
				if r, ok := data["reason"].(string); ok && r != "" {
					reason = r
				}
			}
			if BrainSvc != nil {
				BrainSvc.EmergencyStop(reason)
			}
			Manager.broadcast <- msg

		default:
			log.Printf("알 수 없는 메시지 타입: %s", msg.Type)
		}
	}
}

// handleMissionStartMessage - WebSocket으로 들어온 임무 시작 처리
func handleMissionStartMessage(c *websocket.Conn, msg models.WebSocketMessage) {
	if BrainSvc == nil {
		log.Println("⚠️ Brain 서비스가 초기화되지 않음")
		return
	}

	var cmd models.MissionStartCommand
	raw, _ := json.Marshal(msg.Data)
	if err := json.Unmarshal(raw, &cmd); err != nil || cmd.Utterance == "" {
		log.Printf("⚠️ 잘못된 임무 시작 메시지: %v", msg.Data)
		return
	}

	missionID, err := BrainSvc.StartMission(cmd.Utterance)
	if err != nil {
		_ = c.WriteJSON(models.WebSocketMessage{
			Type: models.MessageTypeMissionStatus,
			Data: map[string]interface{}{
				"error": err.Error(),
			},
			Timestamp: time.Now().UnixMilli(),
		})
		return
	}

	log.Printf("💬 임무 접수 [%s]: %s", missionID[:8], cmd.Utterance)
}
