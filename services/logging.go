package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"robart-backend/models"
)

// 로깅 버퍼 (비동기 일괄 처리)
type LogBuffer struct {
	logs      []models.MissionLog
	mu        sync.Mutex
	flushSize int           // 일괄 저장 크기
	flushTime time.Duration // 자동 플러시 시간
	stopChan  chan bool
}

var logBuffer *LogBuffer

// InitLogging - 로깅 시스템 초기화
func InitLogging(flushSize int, flushInterval time.Duration) {
	logBuffer = &LogBuffer{
		logs:      make([]models.MissionLog, 0, flushSize*2),
		flushSize: flushSize,
		flushTime: flushInterval,
		stopChan:  make(chan bool),
	}

	// 자동 플러시 고루틴 시작
	go logBuffer.autoFlush()

	log.Printf("✅ 로깅 시스템 초기화 완료 (flushSize: %d, flushInterval: %v)", flushSize, flushInterval)
}

// autoFlush - 주기적 로그 저장
func (lb *LogBuffer) autoFlush() {
	ticker := time.NewTicker(lb.flushTime)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lb.Flush()
		case <-lb.stopChan:
			lb.Flush() // 종료 시 남은 로그 저장
			return
		}
	}
}

// AddLog - 로그 버퍼에 추가 (비동기)
func AddLog(logEntry models.MissionLog) {
	if logBuffer == nil {
		return
	}

	logBuffer.mu.Lock()
	logBuffer.logs = append(logBuffer.logs, logEntry)
	size := len(logBuffer.logs)
	logBuffer.mu.Unlock()

	// 버퍼 크기가 차면 즉시 플러시
	if size >= logBuffer.flushSize {
		go logBuffer.Flush()
	}
}

// Flush - 버퍼의 모든 로그를 DB에 저장
func (lb *LogBuffer) Flush() {
	lb.mu.Lock()
	if len(lb.logs) == 0 {
		lb.mu.Unlock()
		return
	}

	// 로그 복사 및 버퍼 초기화
	logsToSave := make([]models.MissionLog, len(lb.logs))
	copy(logsToSave, lb.logs)
	lb.logs = lb.logs[:0] // 버퍼 비우기
	lb.mu.Unlock()

	// DB 일괄 저장
	if db != nil {
		err := db.CreateInBatches(logsToSave, 100).Error
		if err != nil {
			log.Printf("❌ 로그 저장 실패: %v", err)
		} else {
			log.Printf("💾 로그 %d개 저장 완료", len(logsToSave))
		}
	}
}

// LogPose - 로봇 포즈 로그
func LogPose(missionID, robotID string, position models.Vector3, heading, speed float64, state string) {
	AddLog(models.MissionLog{
		CreatedAt:   time.Now(),
		EventType:   "pose",
		MessageType: models.MessageTypePosition,
		MissionID:   missionID,
		RobotID:     robotID,
		PositionX:   position.X,
		PositionZ:   position.Z,
		Heading:     heading,
		Speed:       speed,
		State:       state,
	})
}

// LogThought - 사고 히스토리 항목 로그
func LogThought(missionID, robotID, kind, text string) {
	AddLog(models.MissionLog{
		CreatedAt:   time.Now(),
		EventType:   "thought",
		MessageType: models.MessageTypeThought,
		MissionID:   missionID,
		RobotID:     robotID,
		ThoughtKind: kind,
		ThoughtText: text,
	})
}

// LogAction - 행동 실행 결과 로그 (의도 대비 실제)
func LogAction(missionID, robotID, actionType, result string) {
	AddLog(models.MissionLog{
		CreatedAt:   time.Now(),
		EventType:   "action",
		MessageType: "action",
		MissionID:   missionID,
		RobotID:     robotID,
		ActionType:  actionType,
		Result:      result,
	})
}

// LogSpeech - 로봇 발화 로그
func LogSpeech(missionID, robotID, text string, final bool) {
	eventType := "speech"
	if final {
		eventType = "speech_final"
	}
	AddLog(models.MissionLog{
		CreatedAt:   time.Now(),
		EventType:   eventType,
		MessageType: models.MessageTypeSpeech,
		MissionID:   missionID,
		RobotID:     robotID,
		ThoughtText: text,
	})
}

// LogNavigation - 내비게이션 시도 로그
func LogNavigation(missionID, robotID string, target models.Vector3, waypoints int, result string) {
	AddLog(models.MissionLog{
		CreatedAt:     time.Now(),
		EventType:     "navigation",
		MessageType:   models.MessageTypePathUpdate,
		MissionID:     missionID,
		RobotID:       robotID,
		TargetX:       target.X,
		TargetZ:       target.Z,
		PathWaypoints: waypoints,
		Result:        result,
	})
}

// LogEvent - 범용 이벤트 로그
func LogEvent(missionID, robotID, eventType, description string) {
	AddLog(models.MissionLog{
		CreatedAt:   time.Now(),
		EventType:   eventType,
		MessageType: eventType,
		MissionID:   missionID,
		RobotID:     robotID,
		Result:      description,
	})
}

// LogWebSocketMessage - WebSocket 메시지 로그 (범용)
func LogWebSocketMessage(robotID string, msg models.WebSocketMessage) {
	dataJSON, _ := json.Marshal(msg.Data)

	AddLog(models.MissionLog{
		CreatedAt:   time.Now(),
		EventType:   inferEventType(msg.Type),
		MessageType: msg.Type,
		RobotID:     robotID,
		DataJSON:    string(dataJSON),
	})
}

// inferEventType - 메시지 타입에서 이벤트 타입 추론
func inferEventType(msgType string) string {
	switch msgType {
	case models.MessageTypePosition:
		return "pose"
	case models.MessageTypeStatus:
		return "status_update"
	case models.MessageTypeMissionStart:
		return "mission_start"
	case models.MessageTypeMissionCancel:
		return "mission_cancel"
	case models.MessageTypeEmergencyStop:
		return "emergency_stop"
	case models.MessageTypeSpeech:
		return "speech"
	case models.MessageTypeThought:
		return "thought"
	default:
		return msgType
	}
}

// GetLogsByTimeRange - 시간 범위로 로그 조회
func GetLogsByTimeRange(missionID string, start, end time.Time, limit int) ([]models.MissionLog, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}

	var logs []models.MissionLog
	query := db.Where("mission_id = ? AND created_at BETWEEN ? AND ?", missionID, start, end)

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// GetLogsByEventType - 이벤트 타입별 로그 조회
func GetLogsByEventType(missionID string, eventType string, limit int) ([]models.MissionLog, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}

	var logs []models.MissionLog
	err := db.Where("mission_id = ? AND event_type = ?", missionID, eventType).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

// GetLogStats - 로그 통계
func GetLogStats(missionID string, hours int) (map[string]interface{}, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}

	since := time.Now().Add(-time.Duration(hours) * time.Hour)

	var totalLogs int64
	db.Model(&models.MissionLog{}).
		Where("mission_id = ? AND created_at >= ?", missionID, since).
		Count(&totalLogs)

	// 이벤트 타입별 카운트
	var eventCounts []struct {
		EventType string
		Count     int64
	}
	db.Model(&models.MissionLog{}).
		Select("event_type, COUNT(*) as count").
		Where("mission_id = ? AND created_at >= ?", missionID, since).
		Group("event_type").
		Scan(&eventCounts)

	eventMap := make(map[string]int64)
	for _, ec := range eventCounts {
		eventMap[ec.EventType] = ec.Count
	}

	return map[string]interface{}{
		"total_logs":   totalLogs,
		"event_counts": eventMap,
		"time_range":   fmt.Sprintf("Last %d hours", hours),
	}, nil
}

// StopLogging - 로깅 시스템 종료
func StopLogging() {
	if logBuffer != nil {
		logBuffer.stopChan <- true
		log.Println("🛑 로깅 시스템 종료")
	}
}
