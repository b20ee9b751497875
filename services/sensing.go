package services

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"robart-backend/models"
)

// ========================================
// 인지 피드
// ========================================

// SensingFeed - 포즈가 붙은 인지 프레임 공급 인터페이스
type SensingFeed interface {
	// NextFrame - 다음 프레임이 준비될 때까지 블로킹
	NextFrame(ctx context.Context) (*models.Frame, error)
	// HumanPosition - 추적 중인 사람 위치 (보이지 않으면 false)
	HumanPosition() (models.Vector3, bool)
}

// SimObstacle - 시뮬레이션 월드의 원기둥 장애물
type SimObstacle struct {
	Center models.Vector3 // 바닥 중심 (Y=0)
	Radius float64        // 반경 (m)
	Height float64        // 높이 (m)
}

// SimulatedSensing - 인지 피드 시뮬레이터.
// 월드 장애물을 메시 조각으로 합성해 프레임에 실어 보낸다.
type SimulatedSensing struct {
	drive       DriveController
	obstacles   []SimObstacle
	framePeriod time.Duration

	humanPos     models.Vector3
	humanVisible bool
	mu           sync.RWMutex
}

// NewSimulatedSensing - 인지 피드 시뮬레이터 생성
func NewSimulatedSensing(drive DriveController, obstacles []SimObstacle, framePeriod time.Duration) *SimulatedSensing {
	if framePeriod <= 0 {
		framePeriod = 50 * time.Millisecond
	}
	return &SimulatedSensing{
		drive:       drive,
		obstacles:   obstacles,
		framePeriod: framePeriod,
	}
}

// SetHuman - 추적 대상 사람 위치 설정 (보이지 않으면 visible=false)
func (s *SimulatedSensing) SetHuman(position models.Vector3, visible bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.humanPos = position.XZProjected()
	s.humanVisible = visible
}

func (s *SimulatedSensing) HumanPosition() (models.Vector3, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.humanPos, s.humanVisible
}

// NextFrame - 프레임 주기만큼 대기 후 현재 포즈의 합성 프레임 반환
func (s *SimulatedSensing) NextFrame(ctx context.Context) (*models.Frame, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.framePeriod):
	}

	position := s.drive.Position()
	heading := s.drive.Heading()
	forward := models.HeadingToForward(heading)

	frame := &models.Frame{
		Timestamp:  time.Now(),
		Intrinsics: models.CameraIntrinsics{Fx: 500, Fy: 500, Cx: 320, Cy: 240},
		ViewMatrix: models.TranslationMatrix(position),
		Position:   position,
		Forward:    forward,
		Heading:    heading,
		Meshes:     s.buildMeshes(),
	}
	return frame, nil
}

// buildMeshes - 월드 장애물을 메시 조각으로 합성
func (s *SimulatedSensing) buildMeshes() []models.MeshFragment {
	meshes := make([]models.MeshFragment, 0, len(s.obstacles))
	for i, obstacle := range s.obstacles {
		meshes = append(meshes, cylinderMesh(i, obstacle))
	}
	return meshes
}

// cylinderMesh - 원기둥 장애물을 팔각기둥 메시로 근사
func cylinderMesh(id int, obstacle SimObstacle) models.MeshFragment {
	const sides = 8

	vertices := make([]models.Vector3, 0, sides*2)
	for i := 0; i < sides; i++ {
		angle := 2 * math.Pi * float64(i) / sides
		x := obstacle.Center.X + obstacle.Radius*math.Cos(angle)
		z := obstacle.Center.Z + obstacle.Radius*math.Sin(angle)
		vertices = append(vertices,
			models.Vector3{X: x, Y: 0, Z: z},
			models.Vector3{X: x, Y: obstacle.Height, Z: z},
		)
	}

	// 옆면 사각형마다 삼각형 2개
	triangles := make([]int, 0, sides*6)
	for i := 0; i < sides; i++ {
		b0 := i * 2
		t0 := i*2 + 1
		b1 := ((i + 1) % sides) * 2
		t1 := ((i+1)%sides)*2 + 1
		triangles = append(triangles,
			b0, t0, b1,
			t0, t1, b1,
		)
	}

	return models.MeshFragment{
		ID:        fmt.Sprintf("obstacle-%03d", id),
		Vertices:  vertices,
		Triangles: triangles,
		Transform: models.Identity4(),
	}
}
