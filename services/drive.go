package services

import (
	"log"
	"math"
	"sync"
	"time"

	"robart-backend/models"
)

// ========================================
// 주행 명령 채널
// ========================================

// DriveController - 저수준 주행 명령 인터페이스.
// 단일 소유자 명령 채널이다: 새 명령을 보내면 진행 중이던 명령은
// 선점되어 버려진다.
type DriveController interface {
	DriveForward(distance float64)                          // 전진/후진 (미터, 음수 = 후진)
	DriveTo(position models.Vector3)                        // 지점으로 주행
	DriveToFacing(position models.Vector3, forward models.Vector3) // 주행 후 방향 정렬
	Face(forward models.Vector3)                            // 제자리에서 방향 정렬
	RotateInPlaceBy(degrees float64)                        // 제자리 회전 (반시계 양수)
	Drive(leftThrottle, rightThrottle float64)              // 수동 스로틀
	Stop()                                                  // 즉시 정지 (스로틀 0)
	IsMoving() bool
	Position() models.Vector3
	Forward() models.Vector3
	Heading() float64 // 도 단위
}

// 시뮬레이터 주행 파라미터
const (
	simDriveSpeed     = 1.5   // 직진 속도 (m/s)
	simTurnRate       = 120.0 // 회전 속도 (deg/s)
	simArriveDistance = 0.05  // 도착 판정 거리 (m)
)

// SimulatedDrive - 주행 시뮬레이터.
// 실제 모터 드라이버 대신 명령을 운동학적으로 적분하며, 위치/상태를
// 주기적으로 브로드캐스트한다.
type SimulatedDrive struct {
	IsRunning     bool
	broadcastFunc func(models.WebSocketMessage)

	// 시뮬레이션 상태
	position models.Vector3
	heading  float64 // 도
	speed    float64
	state    models.RobotState

	// 진행 중인 명령
	targetPos     *models.Vector3
	targetHeading *float64
	pendingFacing *float64 // DriveToFacing 도착 후 적용할 방향
	leftThrottle  float64
	rightThrottle float64

	// 제어
	tick     time.Duration
	stopChan chan bool
	mu       sync.RWMutex
}

// NewSimulatedDrive - 주행 시뮬레이터 생성
func NewSimulatedDrive(tick time.Duration, broadcastFunc func(models.WebSocketMessage)) *SimulatedDrive {
	if tick <= 0 {
		tick = 100 * time.Millisecond // 10Hz 업데이트
	}
	return &SimulatedDrive{
		broadcastFunc: broadcastFunc,
		position:      models.Vector3{},
		heading:       0,
		state:         models.StateIdle,
		tick:          tick,
		stopChan:      make(chan bool),
	}
}

// Start - 시뮬레이션 시작
func (d *SimulatedDrive) Start() {
	d.mu.Lock()
	if d.IsRunning {
		d.mu.Unlock()
		return
	}
	d.IsRunning = true
	d.mu.Unlock()

	log.Println("🚗 주행 시뮬레이터 시작")
	go d.run()
}

// Shutdown - 시뮬레이션 종료
func (d *SimulatedDrive) Shutdown() {
	d.mu.Lock()
	if !d.IsRunning {
		d.mu.Unlock()
		return
	}
	d.IsRunning = false
	d.mu.Unlock()

	d.stopChan <- true
	log.Println("🛑 주행 시뮬레이터 종료")
}

func (d *SimulatedDrive) run() {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-d.stopChan:
			return
		case <-ticker.C:
			d.update()
		}
	}
}

// update - 시뮬레이션 한 틱 적분
func (d *SimulatedDrive) update() {
	d.mu.Lock()

	dt := d.tick.Seconds()

	switch {
	case d.targetHeading != nil:
		d.updateTurn(dt)
	case d.targetPos != nil:
		d.updateDrive(dt)
	case d.leftThrottle != 0 || d.rightThrottle != 0:
		d.updateThrottle(dt)
	default:
		d.state = models.StateIdle
		d.speed = 0
	}

	d.mu.Unlock()

	d.broadcastPosition()
}

func (d *SimulatedDrive) updateTurn(dt float64) {
	delta := models.NormalizeDegrees(*d.targetHeading - d.heading)
	step := simTurnRate * dt

	d.state = models.StateTurning
	d.speed = 0

	if math.Abs(delta) <= step {
		d.heading = models.NormalizeDegrees(*d.targetHeading)
		d.targetHeading = nil
		if d.targetPos == nil {
			d.state = models.StateIdle
		}
		return
	}

	if delta > 0 {
		d.heading = models.NormalizeDegrees(d.heading + step)
	} else {
		d.heading = models.NormalizeDegrees(d.heading - step)
	}
}

func (d *SimulatedDrive) updateDrive(dt float64) {
	toTarget := d.targetPos.Sub(d.position).XZProjected()
	distance := toTarget.Length()

	if distance < simArriveDistance {
		d.position = models.Vector3{X: d.targetPos.X, Y: 0, Z: d.targetPos.Z}
		d.targetPos = nil
		d.speed = 0
		d.state = models.StateIdle

		// 도착 후 방향 정렬이 예약되어 있으면 이어서 회전
		if d.pendingFacing != nil {
			d.targetHeading = d.pendingFacing
			d.pendingFacing = nil
		}
		return
	}

	d.state = models.StateMoving
	d.speed = simDriveSpeed

	direction := toTarget.Normalized()
	step := math.Min(simDriveSpeed*dt, distance)
	d.position = d.position.Add(direction.Scale(step))
	d.heading = models.ForwardToHeading(direction)
}

func (d *SimulatedDrive) updateThrottle(dt float64) {
	d.state = models.StateMoving
	forwardAmount := (d.leftThrottle + d.rightThrottle) * 0.5 * simDriveSpeed
	turnAmount := (d.leftThrottle - d.rightThrottle) * simTurnRate

	d.speed = math.Abs(forwardAmount)
	d.heading = models.NormalizeDegrees(d.heading + turnAmount*dt)
	forward := models.HeadingToForward(d.heading)
	d.position = d.position.Add(forward.Scale(forwardAmount * dt))
}

// ========================================
// DriveController 구현
// ========================================

// DriveForward - 현재 방향으로 전진/후진 (음수 = 후진)
func (d *SimulatedDrive) DriveForward(distance float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	forward := models.HeadingToForward(d.heading)
	target := d.position.Add(forward.Scale(distance))
	d.preemptLocked()
	d.targetPos = &target
}

// DriveTo - 지점으로 주행 (직선 주행, 경로 계획은 상위 레이어 몫)
func (d *SimulatedDrive) DriveTo(position models.Vector3) {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := position.XZProjected()
	d.preemptLocked()
	d.targetPos = &target
}

// DriveToFacing - 지점으로 주행 후 지정 방향으로 정렬
func (d *SimulatedDrive) DriveToFacing(position models.Vector3, forward models.Vector3) {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := position.XZProjected()
	facing := models.ForwardToHeading(forward)
	d.preemptLocked()
	d.targetPos = &target
	d.pendingFacing = &facing
}

// Face - 제자리에서 지정 방향으로 정렬
func (d *SimulatedDrive) Face(forward models.Vector3) {
	d.mu.Lock()
	defer d.mu.Unlock()

	facing := models.ForwardToHeading(forward)
	d.preemptLocked()
	d.targetHeading = &facing
}

// RotateInPlaceBy - 제자리 회전 (도, 반시계 양수)
func (d *SimulatedDrive) RotateInPlaceBy(degrees float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := models.NormalizeDegrees(d.heading + degrees)
	d.preemptLocked()
	d.targetHeading = &target
}

// Drive - 수동 스로틀 (-1.0 ~ 1.0)
func (d *SimulatedDrive) Drive(leftThrottle, rightThrottle float64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.preemptLocked()
	d.leftThrottle = clampThrottle(leftThrottle)
	d.rightThrottle = clampThrottle(rightThrottle)
}

// Stop - 모든 명령 취소 + 스로틀 0
func (d *SimulatedDrive) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.preemptLocked()
	d.speed = 0
	d.state = models.StateIdle
}

// preemptLocked - 진행 중인 명령 폐기 (새 명령이 기존 명령을 선점)
func (d *SimulatedDrive) preemptLocked() {
	d.targetPos = nil
	d.targetHeading = nil
	d.pendingFacing = nil
	d.leftThrottle = 0
	d.rightThrottle = 0
}

func (d *SimulatedDrive) IsMoving() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.targetPos != nil || d.targetHeading != nil ||
		d.leftThrottle != 0 || d.rightThrottle != 0
}

func (d *SimulatedDrive) Position() models.Vector3 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.position
}

func (d *SimulatedDrive) Forward() models.Vector3 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return models.HeadingToForward(d.heading)
}

func (d *SimulatedDrive) Heading() float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.heading
}

// SetPose - 초기 포즈 설정 (테스트/초기화용)
func (d *SimulatedDrive) SetPose(position models.Vector3, heading float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.position = position.XZProjected()
	d.heading = models.NormalizeDegrees(heading)
}

// broadcastPosition - 위치 브로드캐스트
func (d *SimulatedDrive) broadcastPosition() {
	if d.broadcastFunc == nil {
		return
	}

	d.mu.RLock()
	pose := models.PoseData{
		X:         d.position.X,
		Z:         d.position.Z,
		Heading:   d.heading,
		Timestamp: float64(time.Now().UnixMilli()) / 1000.0,
	}
	d.mu.RUnlock()

	d.broadcastFunc(models.WebSocketMessage{
		Type:      models.MessageTypePosition,
		Data:      pose,
		Timestamp: time.Now().UnixMilli(),
	})
}

// Status - 현재 상태 반환
func (d *SimulatedDrive) Status() map[string]interface{} {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return map[string]interface{}{
		"running":  d.IsRunning,
		"position": d.position,
		"heading":  d.heading,
		"state":    d.state,
		"speed":    d.speed,
	}
}

func clampThrottle(v float64) float64 {
	return math.Max(-1.0, math.Min(1.0, v))
}
