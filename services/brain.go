package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"robart-backend/models"
)

// ========================================
// 에이전트 루프 (Brain)
// ========================================
//
// 사람의 지시 한 건을 임무로 받아, 결정 엔진과 관측-행동 루프를 돌린다.
// 엔진의 응답은 태그 블록 시퀀스이고, ACTIONS 블록의 행동들을 순서대로
// 실행한 뒤 실제로 일어난 일을 OBSERVATIONS로 되돌려준다.

// RobotID - 로봇 식별자 (로그/메시지용)
const RobotID = "robart-001"

// 루프 상태
const (
	BrainIdle      = "idle"      // 임무 없음
	BrainListening = "listening" // 지시 수신 직후
	BrainThinking  = "thinking"  // 결정 엔진 호출 중
	BrainActing    = "acting"    // 행동 실행 중
	BrainSpeaking  = "speaking"  // 발화 중
)

const (
	// BackOutSuccessFraction - backOut이 성공으로 치는 최소 후진 비율
	BackOutSuccessFraction = 0.5
	// FaceTurnAbortTolerance - 방향 정렬을 조기 종료하는 잔여각 비율
	FaceTurnAbortTolerance = 0.20
)

// BrainConfig - 에이전트 루프 파라미터
type BrainConfig struct {
	MaxIterations int         // 엔진 호출 상한 (무한 루프 방지)
	Prune         PrunePolicy // 히스토리 가지치기 정책

	BackOutDistance       float64 // backOut 후진 거리 (m)
	StuckDistanceFraction float64 // move가 이 비율도 못 가면 막힘 판정

	MoveSecondsPerMeter float64       // 직진 타임아웃 계수
	TurnSecondsPer90    float64       // 90도 회전 타임아웃 (초)
	MotionSlack         time.Duration // 모든 동작의 고정 여유
	MotionPollPeriod    time.Duration // 동작 완료 폴링 주기

	FollowDefaultSeconds float64 // followHuman 기본 지속 시간
	FollowStandoff       float64 // 사람과 유지할 거리 (m)
}

// DefaultBrainConfig - 기본 파라미터
func DefaultBrainConfig() BrainConfig {
	return BrainConfig{
		MaxIterations:         16,
		Prune:                 DefaultPrunePolicy(),
		BackOutDistance:       0.5,
		StuckDistanceFraction: 0.5,
		MoveSecondsPerMeter:   2.0,
		TurnSecondsPer90:      1.5,
		MotionSlack:           2 * time.Second,
		MotionPollPeriod:      50 * time.Millisecond,
		FollowDefaultSeconds:  5.0,
		FollowStandoff:        1.0,
	}
}

// Brain - 에이전트 루프 본체. 한 번에 하나의 임무만 실행한다.
type Brain struct {
	engine    DecisionEngine
	executor  *NavigationExecutor
	navigator *Navigator
	drive     DriveController
	camera    AnnotatingCamera
	sensing   SensingFeed
	points    *NavigablePointTable

	broadcastFunc func(models.WebSocketMessage)
	cfg           BrainConfig

	mu        sync.RWMutex
	enabled   bool
	state     string
	missionID string
	utterance string
	cancel    context.CancelFunc
	stats     models.MissionStats
}

// NewBrain - 에이전트 루프 생성
func NewBrain(
	engine DecisionEngine,
	executor *NavigationExecutor,
	navigator *Navigator,
	drive DriveController,
	camera AnnotatingCamera,
	sensing SensingFeed,
	points *NavigablePointTable,
	broadcastFunc func(models.WebSocketMessage),
	cfg BrainConfig,
) *Brain {
	return &Brain{
		engine:        engine,
		executor:      executor,
		navigator:     navigator,
		drive:         drive,
		camera:        camera,
		sensing:       sensing,
		points:        points,
		broadcastFunc: broadcastFunc,
		cfg:           cfg,
		enabled:       true,
		state:         BrainIdle,
	}
}

// SetEnabled - 임무 접수 활성화/비활성화. 비활성화 시 진행 중 임무는 취소된다.
func (b *Brain) SetEnabled(enabled bool) {
	b.mu.Lock()
	b.enabled = enabled
	b.mu.Unlock()

	if enabled {
		log.Println("✅ 임무 접수 활성화")
	} else {
		log.Println("🛑 임무 접수 비활성화")
		b.Cancel()
	}
}

// Enabled - 임무 접수 가능 여부
func (b *Brain) Enabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.enabled
}

// State - 현재 루프 상태
func (b *Brain) State() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

// Active - 임무 진행 여부
func (b *Brain) Active() bool {
	return b.State() != BrainIdle
}

// Status - 외부 조회용 임무 상태
func (b *Brain) Status() models.MissionStatusData {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return models.MissionStatusData{
		MissionID: b.missionID,
		State:     b.state,
		Utterance: b.utterance,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Stats - 마지막/현재 임무 통계
func (b *Brain) Stats() models.MissionStats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.stats
}

// StartMission - 새 임무 시작. 이미 진행 중이면 에러.
func (b *Brain) StartMission(utterance string) (string, error) {
	b.mu.Lock()
	if !b.enabled {
		b.mu.Unlock()
		return "", fmt.Errorf("임무 접수가 비활성화되어 있습니다")
	}
	if b.state != BrainIdle {
		b.mu.Unlock()
		return "", fmt.Errorf("이미 진행 중인 임무가 있습니다 (%s)", b.missionID)
	}

	missionID := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())
	b.missionID = missionID
	b.utterance = utterance
	b.cancel = cancel
	b.state = BrainListening
	b.stats = models.MissionStats{StartTime: time.Now()}
	b.mu.Unlock()

	log.Printf("🤖 임무 시작 [%s]: %q", missionID[:8], utterance)
	b.broadcastStatus()

	go b.runMission(ctx, missionID, utterance)
	return missionID, nil
}

// Cancel - 진행 중인 임무 취소
func (b *Brain) Cancel() {
	b.mu.Lock()
	cancel := b.cancel
	b.mu.Unlock()

	if cancel != nil {
		log.Println("🛑 임무 취소 요청")
		cancel()
	}
}

// EmergencyStop - 긴급 정지: 임무 취소 + 즉시 주행 정지
func (b *Brain) EmergencyStop(reason string) {
	log.Printf("🚨 긴급 정지: %s", reason)
	b.Cancel()
	b.drive.Stop()
	LogEvent(b.missionIDLocked(), RobotID, "emergency_stop", reason)
}

func (b *Brain) missionIDLocked() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.missionID
}

// ========================================
// 임무 실행
// ========================================

func (b *Brain) runMission(ctx context.Context, missionID, utterance string) {
	spokeFinal := false

	defer func() {
		// 어떤 경로로 끝나든 정지와 상태 정리는 보장한다
		b.drive.Stop()
		b.executor.Abort()

		b.mu.Lock()
		b.state = BrainIdle
		b.cancel = nil
		b.stats.TotalTime = int64(time.Since(b.stats.StartTime).Seconds())
		b.mu.Unlock()

		b.broadcastStatus()
		log.Printf("🤖 임무 종료 [%s]", missionID[:8])
	}()

	// 임무 경계: 지점 테이블과 점유 그리드를 새로 시작한다
	b.points.Clear()
	b.navigator.Clear()

	history := NewThoughtHistory()

	// 시작 시점의 시야를 함께 보낸다 (촬영 실패는 치명적이지 않음)
	seed := models.Thought{Kind: models.ThoughtHumanInput, Text: utterance}
	if photo, err := b.camera.TakePhoto(ctx); err == nil {
		seed.Photos = []models.Photo{*photo}
		b.countPhoto()
	}
	history.Append(seed)
	LogThought(missionID, RobotID, string(models.ThoughtHumanInput), utterance)

	for iteration := 0; iteration < b.cfg.MaxIterations; iteration++ {
		if ctx.Err() != nil {
			break
		}

		history.Prune(b.cfg.Prune)

		b.setState(BrainThinking)
		response, err := b.engine.Generate(ctx, brainSystemPrompt, history.Render(),
			history.Photos(), []string{"<" + string(models.ThoughtObservations) + ">"})
		b.mu.Lock()
		b.stats.EngineRequests++
		b.mu.Unlock()

		if err != nil {
			if ctx.Err() != nil {
				break
			}
			log.Printf("❌ 결정 엔진 호출 실패: %v", err)
			b.speak(missionID, "문제가 생겨서 임무를 계속할 수 없어요.", true)
			spokeFinal = true
			break
		}

		thoughts := usableThoughts(ParseThoughts(response))
		if len(thoughts) == 0 {
			// 쓸모 있는 블록이 하나도 없으면 암묵적 종료로 본다
			log.Println("⚠️ 엔진 응답에 해석 가능한 블록 없음, 임무 종료")
			b.speak(missionID, "지시하신 일을 마쳤어요.", true)
			spokeFinal = true
			break
		}

		done := false
		for _, thought := range thoughts {
			if ctx.Err() != nil {
				done = true
				break
			}

			history.Append(thought)
			b.broadcastThought(thought)
			LogThought(missionID, RobotID, string(thought.Kind), thought.Text)

			switch thought.Kind {
			case models.ThoughtIntermediateResponse:
				b.speak(missionID, thought.Text, false)

			case models.ThoughtFinalResponse:
				b.speak(missionID, thought.Text, true)
				spokeFinal = true
				done = true

			case models.ThoughtActions:
				b.setState(BrainActing)
				observation := b.executeActions(ctx, missionID, thought.Text, history)
				history.Append(observation)
				b.broadcastThought(observation)
				LogThought(missionID, RobotID, string(observation.Kind), observation.Text)
			}

			if done {
				break
			}
		}

		if done {
			break
		}
	}

	if !spokeFinal && ctx.Err() == nil {
		// 반복 상한에 걸렸다: 말없이 끝내지 않는다
		b.speak(missionID, "죄송해요, 주어진 시간 안에 끝내지 못했어요.", true)
	}
}

// usableThoughts - 엔진이 만들면 안 되는 블록(HUMAN_INPUT, OBSERVATIONS)을
// 걸러낸다. 그런 블록이 오면 무시하고 경고만 남긴다.
func usableThoughts(thoughts []models.Thought) []models.Thought {
	usable := make([]models.Thought, 0, len(thoughts))
	for _, thought := range thoughts {
		if thought.Kind == models.ThoughtHumanInput || thought.Kind == models.ThoughtObservations {
			log.Printf("⚠️ 엔진이 만들 수 없는 블록 무시: %s", thought.Kind)
			continue
		}
		usable = append(usable, thought)
	}
	return usable
}

// ========================================
// 행동 실행
// ========================================

// executeActions - ACTIONS 블록 실행 → OBSERVATIONS 사고 생성.
// JSON이 깨졌으면 실행 없이 오류 관측을 만들어 엔진이 스스로 고치게 한다.
func (b *Brain) executeActions(ctx context.Context, missionID, actionsText string, history *ThoughtHistory) models.Thought {
	actions, err := models.DecodeActions([]byte(ExtractActionsJSON(actionsText)))
	if err != nil {
		log.Printf("⚠️ 행동 디코드 실패: %v", err)
		return models.Thought{
			Kind: models.ThoughtObservations,
			Text: fmt.Sprintf("행동을 실행하지 못했습니다. %v. type/distance/pointNumber/degrees 필드를 가진 올바른 JSON 배열로 다시 작성하세요.", err),
		}
	}

	var lines []string
	var photos []models.Photo

	for i, action := range actions {
		if ctx.Err() != nil {
			lines = append(lines, fmt.Sprintf("[%d] %s: 임무가 취소되어 실행하지 않음", i+1, action.Describe()))
			break
		}

		before := b.drive.Position()
		result, actionPhotos := b.executeAction(ctx, action)
		lines = append(lines, fmt.Sprintf("[%d] %s: %s", i+1, action.Describe(), result))
		photos = append(photos, actionPhotos...)

		b.mu.Lock()
		b.stats.ActionsRun++
		b.stats.TotalDistance += before.XZDistanceTo(b.drive.Position())
		b.mu.Unlock()

		LogAction(missionID, RobotID, string(action.Type), result)
	}

	position := b.drive.Position()
	lines = append(lines, fmt.Sprintf("현재 위치: (%.2f, %.2f), 방향: %.0f도", position.X, position.Z, b.drive.Heading()))

	return models.Thought{
		Kind:   models.ThoughtObservations,
		Text:   strings.Join(lines, "\n"),
		Photos: photos,
	}
}

// executeAction - 단일 행동 실행. 실제로 일어난 일을 서술한 결과와
// 새로 찍힌 사진들을 반환한다.
func (b *Brain) executeAction(ctx context.Context, action models.Action) (string, []models.Photo) {
	switch action.Type {
	case models.ActionMove:
		return b.doMove(ctx, action.Distance), nil

	case models.ActionMoveTo:
		return b.doMoveTo(ctx, action.PointNumber), nil

	case models.ActionTurnInPlace:
		return b.doTurn(ctx, action.Degrees), nil

	case models.ActionFaceToward:
		point, ok := b.points.Lookup(action.PointNumber)
		if !ok {
			b.countFailure()
			return fmt.Sprintf("지점 %d을(를) 찾을 수 없습니다. 사진에 표시된 지점 번호만 사용하세요.", action.PointNumber), nil
		}
		direction := point.Position.Sub(b.drive.Position()).XZProjected().Normalized()
		return b.doFace(ctx, direction), nil

	case models.ActionFaceTowardHeading:
		return b.doFace(ctx, models.HeadingToForward(action.Degrees)), nil

	case models.ActionScan360:
		photos, err := b.executor.Scan360(ctx)
		b.countPhotos(len(photos))
		if err != nil {
			b.countFailure()
			return fmt.Sprintf("360도 스캔이 중단되었습니다 (사진 %d장 촬영)", len(photos)), photos
		}
		return fmt.Sprintf("360도 스캔 완료, 사진 %d장 촬영", len(photos)), photos

	case models.ActionTakePhoto:
		photo, err := b.camera.TakePhoto(ctx)
		if err != nil || photo == nil {
			b.countFailure()
			return "카메라가 오작동했습니다", nil
		}
		b.countPhoto()
		return fmt.Sprintf("사진 %s 촬영 (지점 %d개 표시)", photo.Name, len(photo.Points)), []models.Photo{*photo}

	case models.ActionBackOut:
		return b.doBackOut(ctx), nil

	case models.ActionFollowHuman:
		return b.doFollowHuman(ctx, action), nil
	}

	// DecodeActions가 걸렀어야 하는 경우
	b.countFailure()
	return fmt.Sprintf("알 수 없는 행동 타입: %s", action.Type), nil
}

// doMove - 직진/후진. 요청 거리와 실제 이동 거리를 함께 보고한다.
func (b *Brain) doMove(ctx context.Context, distance float64) string {
	before := b.drive.Position()
	b.drive.DriveForward(distance)
	b.waitForDrive(ctx, b.moveTimeout(distance))

	moved := before.XZDistanceTo(b.drive.Position())
	if moved < math.Abs(distance)*b.cfg.StuckDistanceFraction {
		b.countFailure()
		return fmt.Sprintf("요청한 %.2fm 중 %.2fm만 이동했습니다. 막힌 것 같습니다.", math.Abs(distance), moved)
	}
	return fmt.Sprintf("이동 완료 (요청 %.2fm, 실제 %.2fm)", math.Abs(distance), moved)
}

// doMoveTo - 번호가 붙은 지점으로 자율 주행
func (b *Brain) doMoveTo(ctx context.Context, pointNumber int) string {
	point, ok := b.points.Lookup(pointNumber)
	if !ok {
		b.countFailure()
		return fmt.Sprintf("지점 %d을(를) 찾을 수 없습니다. 사진에 표시된 지점 번호만 사용하세요.", pointNumber)
	}

	result := b.executor.NavigateTo(ctx, point.Position)
	if !result.Success {
		b.countFailure()
	}
	LogNavigation(b.missionIDLocked(), RobotID, point.Position, result.Segments, result.Description)
	return result.Description
}

// doTurn - 제자리 회전. 의도한 각도와 실제 회전량을 함께 보고한다.
func (b *Brain) doTurn(ctx context.Context, degrees float64) string {
	before := b.drive.Heading()
	b.drive.RotateInPlaceBy(degrees)
	b.waitForDrive(ctx, b.turnTimeout(degrees))

	turned := models.NormalizeDegrees(b.drive.Heading() - before)
	return fmt.Sprintf("회전 완료 (요청 %.0f도, 실제 %.0f도)", degrees, turned)
}

// doFace - 방향 정렬. 잔여각이 요청각의 일정 비율 아래로 내려오면
// 충분히 정렬된 것으로 보고 조기 종료한다.
func (b *Brain) doFace(ctx context.Context, direction models.Vector3) string {
	requested := models.AngleBetweenDegrees(b.drive.Forward(), direction)
	if math.Abs(requested) < 1.0 {
		return "이미 해당 방향을 보고 있습니다"
	}

	b.drive.Face(direction)

	deadline := time.Now().Add(b.turnTimeout(requested))
	ticker := time.NewTicker(b.cfg.MotionPollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.drive.Stop()
			return "방향 정렬이 취소되었습니다"
		case <-ticker.C:
			remaining := models.AngleBetweenDegrees(b.drive.Forward(), direction)
			if math.Abs(remaining) <= math.Abs(requested)*FaceTurnAbortTolerance || !b.drive.IsMoving() {
				b.drive.Stop()
				return fmt.Sprintf("방향 정렬 완료 (잔여 %.0f도)", remaining)
			}
			if time.Now().After(deadline) {
				b.drive.Stop()
				b.countFailure()
				return fmt.Sprintf("방향 정렬 시간 초과 (잔여 %.0f도)", remaining)
			}
		}
	}
}

// doBackOut - 막힌 곳에서 후진 탈출. 의도 거리의 절반 이상 빠져나오면
// 성공으로 친다.
func (b *Brain) doBackOut(ctx context.Context) string {
	distance := b.cfg.BackOutDistance
	before := b.drive.Position()

	b.drive.DriveForward(-distance)
	b.waitForDrive(ctx, b.moveTimeout(distance))

	moved := before.XZDistanceTo(b.drive.Position())
	if moved >= distance*BackOutSuccessFraction {
		return fmt.Sprintf("후진 탈출 성공 (%.2fm 후진)", moved)
	}
	b.countFailure()
	return fmt.Sprintf("후진 탈출 실패 (%.2fm만 후진, 뒤쪽도 막힌 것 같습니다)", moved)
}

// doFollowHuman - 사람 따라가기 (최선 노력).
// 지정 시간 동안 사람과의 거리를 유지하며 따라간다.
func (b *Brain) doFollowHuman(ctx context.Context, action models.Action) string {
	seconds := action.Seconds
	if seconds <= 0 {
		seconds = b.cfg.FollowDefaultSeconds
	}
	maxDistance := action.Distance // 0이면 무제한

	start := b.drive.Position()
	deadline := time.Now().Add(time.Duration(seconds * float64(time.Second)))
	ticker := time.NewTicker(b.cfg.MotionPollPeriod)
	defer ticker.Stop()
	defer b.drive.Stop()

	for {
		select {
		case <-ctx.Done():
			return "따라가기가 취소되었습니다"
		case <-ticker.C:
		}

		if time.Now().After(deadline) {
			return fmt.Sprintf("따라가기 종료 (%.0f초 경과, %.2fm 이동)", seconds, start.XZDistanceTo(b.drive.Position()))
		}

		human, visible := b.sensing.HumanPosition()
		if !visible {
			b.countFailure()
			return fmt.Sprintf("사람이 보이지 않아 따라가기를 멈췄습니다 (%.2fm 이동)", start.XZDistanceTo(b.drive.Position()))
		}

		traveled := start.XZDistanceTo(b.drive.Position())
		if maxDistance > 0 && traveled >= maxDistance {
			return fmt.Sprintf("따라가기 종료 (이동 한도 %.1fm 도달)", maxDistance)
		}

		position := b.drive.Position()
		if position.XZDistanceTo(human) > b.cfg.FollowStandoff {
			// 사람 바로 앞이 아니라 일정 거리 떨어진 지점을 목표로 한다
			direction := human.Sub(position).XZProjected().Normalized()
			target := human.Sub(direction.Scale(b.cfg.FollowStandoff))
			b.drive.DriveTo(target)
		} else {
			b.drive.Stop()
		}
	}
}

// ========================================
// 보조 메서드
// ========================================

// waitForDrive - 주행 완료 폴링. 취소되면 즉시 정지시킨다.
func (b *Brain) waitForDrive(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(b.cfg.MotionPollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			b.drive.Stop()
			return false
		case <-ticker.C:
			if !b.drive.IsMoving() {
				return true
			}
			if time.Now().After(deadline) {
				b.drive.Stop()
				return false
			}
		}
	}
}

func (b *Brain) moveTimeout(distance float64) time.Duration {
	return time.Duration(math.Abs(distance)*b.cfg.MoveSecondsPerMeter*float64(time.Second)) + b.cfg.MotionSlack
}

func (b *Brain) turnTimeout(degrees float64) time.Duration {
	return time.Duration(math.Abs(degrees)/90.0*b.cfg.TurnSecondsPer90*float64(time.Second)) + b.cfg.MotionSlack
}

// speak - 로봇 발화. TTS 대신 웹 클라이언트로 브로드캐스트한다.
func (b *Brain) speak(missionID, text string, final bool) {
	b.setState(BrainSpeaking)
	log.Printf("🗣️ 발화 (final=%v): %s", final, text)

	if b.broadcastFunc != nil {
		b.broadcastFunc(models.WebSocketMessage{
			Type: models.MessageTypeSpeech,
			Data: models.SpeechData{
				Text:      text,
				Final:     final,
				Timestamp: time.Now().UnixMilli(),
			},
			Timestamp: time.Now().UnixMilli(),
		})
	}

	LogSpeech(missionID, RobotID, text, final)
}

func (b *Brain) setState(state string) {
	b.mu.Lock()
	changed := b.state != state
	b.state = state
	b.mu.Unlock()

	if changed {
		b.broadcastStatus()
	}
}

func (b *Brain) broadcastStatus() {
	if b.broadcastFunc == nil {
		return
	}
	b.broadcastFunc(models.WebSocketMessage{
		Type:      models.MessageTypeMissionStatus,
		Data:      b.Status(),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (b *Brain) broadcastThought(thought models.Thought) {
	if b.broadcastFunc == nil {
		return
	}
	b.broadcastFunc(models.WebSocketMessage{
		Type: models.MessageTypeThought,
		Data: models.ThoughtData{
			Kind:      string(thought.Kind),
			Text:      thought.Text,
			NumPhotos: len(thought.Photos),
			Timestamp: time.Now().UnixMilli(),
		},
		Timestamp: time.Now().UnixMilli(),
	})
}

func (b *Brain) countPhoto() { b.countPhotos(1) }

func (b *Brain) countPhotos(n int) { b.mu.Lock(); b.stats.PhotosTaken += n; b.mu.Unlock() }

func (b *Brain) countFailure() { b.mu.Lock(); b.stats.ActionsFailed++; b.mu.Unlock() }

// brainSystemPrompt - 결정 엔진 시스템 프롬프트.
// 응답 형식(태그 블록)과 행동 JSON 스키마를 설명한다.
const brainSystemPrompt = `당신은 실내 자율주행 로봇 "로바트"의 두뇌입니다.
사람의 지시를 받아 로봇을 움직여 임무를 수행합니다.

응답은 다음 태그 블록들로만 작성하세요 (블록 중첩 금지):

<PLAN>현재 계획. 매 턴 갱신하세요.</PLAN>
<MEMORY>나중에 필요할 관찰 사실. 한 블록에 하나씩.</MEMORY>
<INTERMEDIATE_RESPONSE>진행 중 사람에게 할 짧은 말.</INTERMEDIATE_RESPONSE>
<ACTIONS>실행할 행동의 JSON 배열.</ACTIONS>
<FINAL_RESPONSE>임무를 끝내며 사람에게 할 말. 이 블록을 쓰면 임무가 종료됩니다.</FINAL_RESPONSE>

ACTIONS 블록의 JSON 배열 원소 형식:
  {"type": "move", "distance": 1.5}            순수 전진/후진 (미터, 음수 = 후진)
  {"type": "moveTo", "pointNumber": 7}         사진에 표시된 지점 번호로 이동
  {"type": "turnInPlace", "degrees": 90}       제자리 회전 (반시계 양수)
  {"type": "faceToward", "pointNumber": 7}     지점을 바라보기
  {"type": "faceTowardHeading", "degrees": 180} 특정 방위를 바라보기
  {"type": "scan360"}                          한 바퀴 돌며 사진 촬영
  {"type": "takePhoto"}                        사진 한 장 촬영
  {"type": "backOut"}                          막힌 곳에서 후진 탈출
  {"type": "followHuman", "seconds": 10}       사람 따라가기

규칙:
- 사진 속 지점 번호는 moveTo/faceToward에서만 사용하세요. 사진에 없는 번호는 쓰지 마세요.
- 행동 실행 결과는 OBSERVATIONS 블록으로 돌아옵니다. OBSERVATIONS는 직접 작성하지 마세요.
- 이동이 막히면 backOut 후 다른 경로를 시도하세요.
- 임무가 끝나면 반드시 FINAL_RESPONSE로 한 번만 마무리하세요.`
