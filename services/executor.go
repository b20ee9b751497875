package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"robart-backend/algorithms"
	"robart-backend/models"
)

// ========================================
// 내비게이션 실행기
// ========================================

// 실행기 상태
const (
	ExecIdle      = "idle"      // 명령 없음
	ExecPlanning  = "planning"  // 경로 계획 중
	ExecExecuting = "executing" // 웨이포인트 주행 중
	ExecAborting  = "aborting"  // 취소 처리 중
)

// 실행기 파라미터
const (
	scanStepDegrees = 45.0 // 360도 스캔 회전 단위
	scanSettleDelay = 200 * time.Millisecond
	pathSimplifyEps = 0.05 // Douglas-Peucker 허용 오차 (m)
	stallMinAdvance = 0.05 // 한 웨이포인트에서 이만큼도 못 가면 정체 (m)
)

// NavigationResult - 내비게이션 명령의 결과.
// 성공 여부와 함께 실제로 일어난 일을 서술한다. 결정 엔진은 이
// 서술을 관측으로 받아 다음 행동을 고른다.
type NavigationResult struct {
	Success     bool
	Description string
	Segments    int // 주행한 구간 수
}

// NavigationExecutor - 내비게이션 명령 실행기.
// 한 번에 하나의 명령만 실행한다: 새 명령이 들어오면 진행 중이던
// 명령의 컨텍스트를 취소하고 자리를 넘겨받는다.
type NavigationExecutor struct {
	navigator *Navigator
	drive     DriveController
	camera    AnnotatingCamera

	goalTolerance    float64       // 도착 판정 거리 (m)
	secondsPerMeter  float64       // 웨이포인트 타임아웃 계수
	turnRate         float64       // 회전 타임아웃 계산용 속도 가정 (도/초)
	waypointSlack    time.Duration // 웨이포인트당 고정 여유
	motionPollPeriod time.Duration // IsMoving 폴링 주기

	mu     sync.Mutex
	state  string
	cancel context.CancelFunc
}

// NewNavigationExecutor - 실행기 생성
func NewNavigationExecutor(navigator *Navigator, drive DriveController, camera AnnotatingCamera) *NavigationExecutor {
	return &NavigationExecutor{
		navigator:        navigator,
		drive:            drive,
		camera:           camera,
		goalTolerance:    0.3,
		secondsPerMeter:  2.0,
		turnRate:         120.0,
		waypointSlack:    2 * time.Second,
		motionPollPeriod: 50 * time.Millisecond,
	}
}

// SetTimings - 타이밍 파라미터 조정 (테스트용)
func (e *NavigationExecutor) SetTimings(secondsPerMeter float64, waypointSlack, motionPollPeriod time.Duration) {
	e.secondsPerMeter = secondsPerMeter
	e.waypointSlack = waypointSlack
	e.motionPollPeriod = motionPollPeriod
}

// State - 현재 실행기 상태
func (e *NavigationExecutor) State() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Abort - 진행 중인 명령 취소
func (e *NavigationExecutor) Abort() {
	e.mu.Lock()
	if e.cancel != nil {
		e.state = ExecAborting
		e.cancel()
	}
	e.mu.Unlock()
}

// begin - 새 명령 시작. 진행 중이던 명령을 선점한다.
func (e *NavigationExecutor) begin(ctx context.Context, state string) (context.Context, func()) {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	commandCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.state = state
	e.mu.Unlock()

	return commandCtx, func() {
		e.mu.Lock()
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
		e.state = ExecIdle
		e.mu.Unlock()
	}
}

// NavigateTo - 목표 지점까지 자율 주행.
// 매 반복마다 점유 그리드를 갱신하고 다시 계획한다. 직선이 뚫려 있으면
// 곧장 주행하고, 아니면 A* 경로의 첫 웨이포인트만 밟은 뒤 재계획한다.
// 경로가 없으면 한 번 360도 재스캔을 시도하고, 그래도 없으면 실패한다.
func (e *NavigationExecutor) NavigateTo(ctx context.Context, goal models.Vector3) NavigationResult {
	commandCtx, done := e.begin(ctx, ExecPlanning)
	defer done()
	defer e.drive.Stop() // 어떤 경로로 빠져나가든 정지는 보장한다

	goal = goal.XZProjected()
	start := e.drive.Position()
	rescanned := false
	segments := 0

	log.Printf("🧭 내비게이션 시작: (%.2f, %.2f) → (%.2f, %.2f)", start.X, start.Z, goal.X, goal.Z)

	for {
		if err := commandCtx.Err(); err != nil {
			return e.abortedResult(goal, segments)
		}

		if err := e.navigator.Refresh(commandCtx); err != nil {
			return e.abortedResult(goal, segments)
		}

		position := e.drive.Position()
		remaining := position.XZDistanceTo(goal)
		if remaining <= e.goalTolerance {
			return NavigationResult{
				Success:     true,
				Description: fmt.Sprintf("목표 지점 도착 (목표까지 %.2fm)", remaining),
				Segments:    segments,
			}
		}

		// 직선이 뚫려 있으면 계획 없이 곧장 주행하고, 아니면
		// A* 경로의 첫 웨이포인트만 밟은 뒤 재계획한다
		var target models.Vector3
		if e.navigator.IsLineUnobstructed(position, goal) {
			target = goal
		} else {
			e.setState(ExecPlanning)
			path := e.navigator.PlanPath(position, goal)
			if len(path) == 0 {
				if rescanned {
					return NavigationResult{
						Success:     false,
						Description: fmt.Sprintf("경로를 찾을 수 없습니다 (목표까지 %.2fm 남음)", remaining),
						Segments:    segments,
					}
				}
				// 시야 밖 장애물일 수 있으니 한 번은 주변을 다시 살핀다
				rescanned = true
				log.Println("🧭 경로 없음, 360도 재스캔 시도")
				if _, err := e.scanAround(commandCtx, false); err != nil {
					return e.abortedResult(goal, segments)
				}
				continue
			}
			target = path[0]
		}

		e.setState(ExecExecuting)
		advanced := e.driveSegment(commandCtx, target, e.segmentTimeout(position.XZDistanceTo(target)))
		segments++
		if commandCtx.Err() != nil {
			return e.abortedResult(goal, segments)
		}
		if advanced < stallMinAdvance {
			if rescanned {
				return NavigationResult{
					Success:     false,
					Description: fmt.Sprintf("주행이 막혔습니다 (목표까지 %.2fm 남음)", e.drive.Position().XZDistanceTo(goal)),
					Segments:    segments,
				}
			}
			rescanned = true
			log.Println("🧭 주행 정체, 360도 재스캔 시도")
			if _, err := e.scanAround(commandCtx, false); err != nil {
				return e.abortedResult(goal, segments)
			}
		}
	}
}

// FollowPath - 미리 계산된 경로를 따라 주행 (최선 노력).
// 웨이포인트마다 남은 거리에 비례한 타임아웃을 걸고, 시간을 넘기면
// 해당 웨이포인트를 포기하고 다음으로 넘어간다.
func (e *NavigationExecutor) FollowPath(ctx context.Context, path []models.Vector3) NavigationResult {
	commandCtx, done := e.begin(ctx, ExecExecuting)
	defer done()
	defer e.drive.Stop()

	if len(path) == 0 {
		return NavigationResult{Success: true, Description: "경로가 비어 있습니다"}
	}

	simplified := algorithms.SimplifyPath(path, pathSimplifyEps)
	goal := simplified[len(simplified)-1]

	segments := 0
	for i, waypoint := range simplified {
		if commandCtx.Err() != nil {
			return e.abortedResult(goal, segments)
		}
		e.driveSegment(commandCtx, waypoint, e.followTimeout(e.drive.Position(), simplified[i:]))
		segments++
	}

	remaining := e.drive.Position().XZDistanceTo(goal)
	return NavigationResult{
		Success:     remaining <= e.goalTolerance,
		Description: fmt.Sprintf("경로 추종 종료 (목표까지 %.2fm)", remaining),
		Segments:    segments,
	}
}

// Scan360 - 제자리에서 한 바퀴 돌며 사진을 찍는다.
func (e *NavigationExecutor) Scan360(ctx context.Context) ([]models.Photo, error) {
	commandCtx, done := e.begin(ctx, ExecExecuting)
	defer done()
	defer e.drive.Stop()

	return e.scanAround(commandCtx, true)
}

// scanAround - 360도 회전. takePhotos면 단계마다 촬영하고, 아니면
// 관측 갱신만 한다 (재스캔 경로).
func (e *NavigationExecutor) scanAround(ctx context.Context, takePhotos bool) ([]models.Photo, error) {
	var photos []models.Photo
	steps := int(360.0 / scanStepDegrees)

	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return photos, err
		}

		e.drive.RotateInPlaceBy(scanStepDegrees)
		e.waitForMotion(ctx, e.turnTimeout(scanStepDegrees))

		// 회전 후 프레임이 안정될 때까지 잠깐 대기
		select {
		case <-ctx.Done():
			return photos, ctx.Err()
		case <-time.After(scanSettleDelay):
		}

		if err := e.navigator.Refresh(ctx); err != nil {
			return photos, err
		}

		if takePhotos && e.camera != nil {
			photo, err := e.camera.TakePhoto(ctx)
			if err != nil {
				log.Printf("⚠️ 스캔 중 촬영 실패: %v", err)
				continue
			}
			photos = append(photos, *photo)
		}
	}

	return photos, nil
}

// driveSegment - 단일 직선 구간 주행. 실제 전진한 거리를 반환한다.
// timeout이 지나면 포기한다 (진행량은 호출자가 판단).
func (e *NavigationExecutor) driveSegment(ctx context.Context, target models.Vector3, timeout time.Duration) float64 {
	before := e.drive.Position()
	if before.XZDistanceTo(target) < 1e-6 {
		return 0
	}

	e.drive.DriveTo(target)
	e.waitForMotion(ctx, timeout)
	return before.XZDistanceTo(e.drive.Position())
}

// waitForMotion - 주행이 끝날 때까지 폴링. 취소/타임아웃이면 false.
// 취소된 경우 호출자 정리 전에 즉시 정지시킨다.
func (e *NavigationExecutor) waitForMotion(ctx context.Context, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(e.motionPollPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.drive.Stop()
			return false
		case <-ticker.C:
			if !e.drive.IsMoving() {
				return true
			}
			if time.Now().After(deadline) {
				e.drive.Stop()
				return false
			}
		}
	}
}

func (e *NavigationExecutor) segmentTimeout(distance float64) time.Duration {
	return time.Duration(distance*e.secondsPerMeter*float64(time.Second)) + e.waypointSlack
}

// followTimeout - 경로 추종 중 한 웨이포인트에 허용하는 시간.
// 해당 구간이 아니라 남은 경로 전체 길이에 비례한다 (우회/복구 여유).
func (e *NavigationExecutor) followTimeout(position models.Vector3, rest []models.Vector3) time.Duration {
	return e.segmentTimeout(algorithms.PathLength(position, rest))
}

func (e *NavigationExecutor) turnTimeout(degrees float64) time.Duration {
	seconds := math.Abs(degrees)/e.turnRate + 1.0
	return time.Duration(seconds * float64(time.Second))
}

func (e *NavigationExecutor) setState(state string) {
	e.mu.Lock()
	e.state = state
	e.mu.Unlock()
}

func (e *NavigationExecutor) abortedResult(goal models.Vector3, segments int) NavigationResult {
	return NavigationResult{
		Success:     false,
		Description: fmt.Sprintf("주행이 중단되었습니다 (목표까지 %.2fm 남음)", e.drive.Position().XZDistanceTo(goal)),
		Segments:    segments,
	}
}
