package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

// scriptedEngine - 준비된 응답을 순서대로 돌려주는 결정 엔진 (테스트용)
type scriptedEngine struct {
	mu        sync.Mutex
	responses []string
	delay     time.Duration
	calls     int
}

func (e *scriptedEngine) Generate(ctx context.Context, systemPrompt, prompt string, photos []models.Photo, stop []string) (string, error) {
	if e.delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(e.delay):
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	i := e.calls
	e.calls++
	if i >= len(e.responses) {
		i = len(e.responses) - 1
	}
	return e.responses[i], nil
}

func (e *scriptedEngine) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// blockingEngine - 취소될 때까지 블로킹하는 결정 엔진 (취소 테스트용)
type blockingEngine struct{}

func (blockingEngine) Generate(ctx context.Context, systemPrompt, prompt string, photos []models.Photo, stop []string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

// messageRecorder - 브로드캐스트 수집기 (테스트용)
type messageRecorder struct {
	mu       sync.Mutex
	messages []models.WebSocketMessage
}

func (r *messageRecorder) record(msg models.WebSocketMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *messageRecorder) speeches(finalOnly bool) []models.SpeechData {
	r.mu.Lock()
	defer r.mu.Unlock()

	var speeches []models.SpeechData
	for _, msg := range r.messages {
		speech, ok := msg.Data.(models.SpeechData)
		if !ok {
			continue
		}
		if finalOnly && !speech.Final {
			continue
		}
		speeches = append(speeches, speech)
	}
	return speeches
}

func (r *messageRecorder) observationTexts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var texts []string
	for _, msg := range r.messages {
		thought, ok := msg.Data.(models.ThoughtData)
		if ok && thought.Kind == string(models.ThoughtObservations) {
			texts = append(texts, thought.Text)
		}
	}
	return texts
}

func newTestBrain(t *testing.T, engine DecisionEngine, recorder *messageRecorder) (*Brain, *SimulatedDrive) {
	t.Helper()

	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	drive.Start()
	t.Cleanup(drive.Shutdown)

	return newTestBrainWithDrive(t, engine, recorder, drive), drive
}

func newTestBrainWithDrive(t *testing.T, engine DecisionEngine, recorder *messageRecorder, drive DriveController) *Brain {
	t.Helper()

	cfg := DefaultNavigatorConfig()
	navigator := NewNavigatorWithGrid(cfg, emptyFeed{}, NewMeshEvidenceSource(cfg), emptyGrid())
	points := NewNavigablePointTable()
	camera := NewSimulatedCamera(drive, navigator, points)

	executor := NewNavigationExecutor(navigator, drive, camera)
	executor.SetTimings(2.0, 500*time.Millisecond, 5*time.Millisecond)

	brainCfg := DefaultBrainConfig()
	brainCfg.MaxIterations = 8
	brainCfg.MotionSlack = 500 * time.Millisecond
	brainCfg.MotionPollPeriod = 5 * time.Millisecond
	brainCfg.FollowDefaultSeconds = 0.3

	return NewBrain(engine, executor, navigator, drive, camera, emptyFeed{}, points, recorder.record, brainCfg)
}

// stuckDrive - 요청 이동량의 일부만 실제로 움직이는 주행 스텁.
// 장애물에 걸려 헛도는 로봇을 흉내 낸다.
type stuckDrive struct {
	mu       sync.Mutex
	position models.Vector3
	heading  float64
	fraction float64 // 요청 대비 실제 이동 비율
}

func (d *stuckDrive) DriveForward(distance float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	forward := models.HeadingToForward(d.heading)
	d.position = d.position.Add(forward.Scale(distance * d.fraction))
}

func (d *stuckDrive) DriveTo(position models.Vector3) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delta := position.Sub(d.position).XZProjected()
	d.position = d.position.Add(delta.Scale(d.fraction))
}

func (d *stuckDrive) DriveToFacing(position, forward models.Vector3) {
	d.DriveTo(position)
}

func (d *stuckDrive) Face(forward models.Vector3) {}

func (d *stuckDrive) RotateInPlaceBy(degrees float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.heading = models.NormalizeDegrees(d.heading + degrees)
}

func (d *stuckDrive) Drive(leftThrottle, rightThrottle float64) {}
func (d *stuckDrive) Stop()                                     {}
func (d *stuckDrive) IsMoving() bool                            { return false }

func (d *stuckDrive) Position() models.Vector3 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.position
}

func (d *stuckDrive) Forward() models.Vector3 {
	return models.HeadingToForward(d.Heading())
}

func (d *stuckDrive) Heading() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.heading
}

func waitForMissionEnd(t *testing.T, brain *Brain, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !brain.Active() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("임무가 %v 안에 끝나지 않음", timeout)
}

func TestMissionCompletesWithFinalResponse(t *testing.T) {
	engine := &scriptedEngine{responses: []string{
		"<PLAN>주변을 살핀다</PLAN>\n<ACTIONS>[{\"type\":\"turnInPlace\",\"degrees\":45}]</ACTIONS>",
		"<FINAL_RESPONSE>다 둘러봤어요</FINAL_RESPONSE>",
	}}
	recorder := &messageRecorder{}
	brain, _ := newTestBrain(t, engine, recorder)

	missionID, err := brain.StartMission("주변 좀 둘러봐")
	require.NoError(t, err)
	require.NotEmpty(t, missionID)

	waitForMissionEnd(t, brain, 15*time.Second)

	assert.Equal(t, 2, engine.callCount())

	finals := recorder.speeches(true)
	require.Len(t, finals, 1)
	assert.Equal(t, "다 둘러봤어요", finals[0].Text)

	observations := recorder.observationTexts()
	require.NotEmpty(t, observations)
	assert.Contains(t, observations[0], "회전 완료")
	assert.Contains(t, observations[0], "현재 위치")

	stats := brain.Stats()
	assert.Equal(t, 2, stats.EngineRequests)
	assert.Equal(t, 1, stats.ActionsRun)
}

func TestMissionMoveActionReportsDistance(t *testing.T) {
	engine := &scriptedEngine{responses: []string{
		"<ACTIONS>[{\"type\":\"move\",\"distance\":0.5}]</ACTIONS>",
		"<FINAL_RESPONSE>이동했어요</FINAL_RESPONSE>",
	}}
	recorder := &messageRecorder{}
	brain, drive := newTestBrain(t, engine, recorder)
	drive.SetPose(models.Vector3{}, 0)

	_, err := brain.StartMission("앞으로 조금 가봐")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 15*time.Second)

	observations := recorder.observationTexts()
	require.NotEmpty(t, observations)
	assert.Contains(t, observations[0], "이동 완료")
	assert.InDelta(t, -0.5, drive.Position().Z, 0.15)
}

func TestMissionUnknownPointDoesNotAbort(t *testing.T) {
	engine := &scriptedEngine{responses: []string{
		"<ACTIONS>[{\"type\":\"moveTo\",\"pointNumber\":99}]</ACTIONS>",
		"<FINAL_RESPONSE>그 지점은 못 찾았어요</FINAL_RESPONSE>",
	}}
	recorder := &messageRecorder{}
	brain, _ := newTestBrain(t, engine, recorder)

	_, err := brain.StartMission("99번 지점으로 가")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 15*time.Second)

	// 모르는 지점 번호는 관측으로 보고될 뿐 임무를 끝내지 않는다
	observations := recorder.observationTexts()
	require.NotEmpty(t, observations)
	assert.Contains(t, observations[0], "지점 99")

	finals := recorder.speeches(true)
	require.Len(t, finals, 1)
	assert.GreaterOrEqual(t, brain.Stats().ActionsFailed, 1)
}

func TestMissionMalformedActionsRecovers(t *testing.T) {
	engine := &scriptedEngine{responses: []string{
		"<ACTIONS>이건 JSON이 아닙니다</ACTIONS>",
		"<FINAL_RESPONSE>다시 해볼게요</FINAL_RESPONSE>",
	}}
	recorder := &messageRecorder{}
	brain, _ := newTestBrain(t, engine, recorder)

	_, err := brain.StartMission("뭐든 해봐")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 15*time.Second)

	// 깨진 JSON은 실행 없이 교정 관측만 만든다
	observations := recorder.observationTexts()
	require.NotEmpty(t, observations)
	assert.Contains(t, observations[0], "행동을 실행하지 못했습니다")
	assert.Equal(t, 0, brain.Stats().ActionsRun)

	require.Len(t, recorder.speeches(true), 1)
}

func TestMissionNoUsableBlocksEndsPolitely(t *testing.T) {
	engine := &scriptedEngine{responses: []string{"태그 없는 평문 응답입니다."}}
	recorder := &messageRecorder{}
	brain, _ := newTestBrain(t, engine, recorder)

	_, err := brain.StartMission("아무거나")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 10*time.Second)

	assert.Equal(t, 1, engine.callCount())
	require.Len(t, recorder.speeches(true), 1)
}

func TestMissionRejectsConcurrentStart(t *testing.T) {
	engine := &scriptedEngine{
		responses: []string{"<FINAL_RESPONSE>끝</FINAL_RESPONSE>"},
		delay:     200 * time.Millisecond,
	}
	recorder := &messageRecorder{}
	brain, _ := newTestBrain(t, engine, recorder)

	_, err := brain.StartMission("첫 번째 임무")
	require.NoError(t, err)

	_, err = brain.StartMission("두 번째 임무")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "진행 중"))

	waitForMissionEnd(t, brain, 10*time.Second)
}

func TestMissionStuckMoveAndBackOutReported(t *testing.T) {
	engine := &scriptedEngine{responses: []string{
		"<ACTIONS>[{\"type\": \"move\", \"distance\": 1.0}, {\"type\": \"backOut\"}]</ACTIONS>",
		"<FINAL_RESPONSE>지금은 지나갈 수 없어요</FINAL_RESPONSE>",
	}}
	recorder := &messageRecorder{}
	drive := &stuckDrive{fraction: 0.1}
	brain := newTestBrainWithDrive(t, engine, recorder, drive)

	_, err := brain.StartMission("앞으로 1미터 가 줘")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 10*time.Second)

	joined := strings.Join(recorder.observationTexts(), "\n")
	assert.Contains(t, joined, "막힌 것 같습니다")
	assert.Contains(t, joined, "후진 탈출 실패")

	// 이동과 후진 탈출이 각각 실패로 집계된다
	assert.GreaterOrEqual(t, brain.Stats().ActionsFailed, 2)
}

func TestMissionDisabledRejectsStart(t *testing.T) {
	engine := &scriptedEngine{responses: []string{"<FINAL_RESPONSE>끝</FINAL_RESPONSE>"}}
	recorder := &messageRecorder{}
	brain, _ := newTestBrain(t, engine, recorder)

	brain.SetEnabled(false)
	_, err := brain.StartMission("거부될 임무")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "비활성화"))

	// 재활성화하면 정상 접수
	brain.SetEnabled(true)
	_, err = brain.StartMission("정상 임무")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 10*time.Second)
}

func TestMissionCancelStopsWithoutFinalSpeech(t *testing.T) {
	recorder := &messageRecorder{}
	brain, drive := newTestBrain(t, blockingEngine{}, recorder)

	_, err := brain.StartMission("오래 걸리는 임무")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	brain.Cancel()
	waitForMissionEnd(t, brain, 5*time.Second)

	assert.Empty(t, recorder.speeches(true))
	assert.False(t, drive.IsMoving())
}

func TestMissionClearsPointTable(t *testing.T) {
	engine := &scriptedEngine{responses: []string{"<FINAL_RESPONSE>끝</FINAL_RESPONSE>"}}
	recorder := &messageRecorder{}
	brain, _ := newTestBrain(t, engine, recorder)

	_, err := brain.StartMission("첫 임무")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 10*time.Second)

	// 시작 사진이 지점을 등록했고, 번호는 1부터 매겨진다
	points := brain.points.All()
	require.NotEmpty(t, points)
	assert.Equal(t, 1, points[0].ID)

	// 새 임무는 지점 테이블을 새로 시작한다
	engine.mu.Lock()
	engine.calls = 0
	engine.mu.Unlock()

	_, err = brain.StartMission("두 번째 임무")
	require.NoError(t, err)
	waitForMissionEnd(t, brain, 10*time.Second)

	points = brain.points.All()
	require.NotEmpty(t, points)
	assert.Equal(t, 1, points[0].ID)
}
