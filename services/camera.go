package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"robart-backend/models"
)

// ========================================
// 어노테이션 카메라
// ========================================

// AnnotatingCamera - 사진을 찍고 탐색 가능 지점을 라벨링하는 인터페이스
type AnnotatingCamera interface {
	TakePhoto(ctx context.Context) (*models.Photo, error)
}

// 지점 후보 샘플링 파라미터
var (
	candidateDistances = []float64{1.0, 2.0, 3.0}       // 전방 거리 (m)
	candidateBearings  = []float64{-60, -30, 0, 30, 60} // 전방 기준 각도 (도)
)

// SimulatedCamera - 카메라 시뮬레이터.
// 실제 이미지 대신 현재 포즈에서 도달 가능한 바닥 지점들을 계산해
// 어노테이션만 채운 사진을 만든다.
type SimulatedCamera struct {
	drive     DriveController
	navigator *Navigator
	points    *NavigablePointTable

	mu      sync.Mutex
	counter int
}

// NewSimulatedCamera - 카메라 시뮬레이터 생성
func NewSimulatedCamera(drive DriveController, navigator *Navigator, points *NavigablePointTable) *SimulatedCamera {
	return &SimulatedCamera{
		drive:     drive,
		navigator: navigator,
		points:    points,
	}
}

// TakePhoto - 사진 촬영. 전방 부채꼴을 샘플링해 직선으로 도달 가능한
// 바닥 지점만 라벨링한다.
func (c *SimulatedCamera) TakePhoto(ctx context.Context) (*models.Photo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.counter++
	name := fmt.Sprintf("photo%03d", c.counter)
	c.mu.Unlock()

	position := c.drive.Position()
	heading := c.drive.Heading()

	photo := &models.Photo{
		ID:        uuid.New().String(),
		Name:      name,
		Points:    c.annotate(position, heading, name),
		Position:  position,
		Heading:   heading,
		CreatedAt: time.Now(),
	}

	log.Printf("📸 사진 촬영: %s (지점 %d개)", name, len(photo.Points))
	return photo, nil
}

// annotate - 전방 부채꼴에서 도달 가능한 바닥 지점 후보를 뽑아
// 지점 테이블에 등록한다. 같은 셀은 한 번만 라벨링한다.
func (c *SimulatedCamera) annotate(position models.Vector3, heading float64, photoName string) []models.NavigablePoint {
	var annotated []models.NavigablePoint
	seen := make(map[int]bool)

	for _, bearing := range candidateBearings {
		direction := models.HeadingToForward(heading + bearing)
		for _, distance := range candidateDistances {
			candidate := position.Add(direction.Scale(distance)).XZProjected()

			if !c.navigator.IsPositionClear(candidate) {
				continue
			}
			if !c.navigator.IsLineUnobstructed(position, candidate) {
				continue
			}

			cellIndex := c.navigator.CellIndexOf(candidate)
			if seen[cellIndex] {
				continue
			}
			seen[cellIndex] = true

			center := c.navigator.CellCenterOf(candidate)
			annotated = append(annotated, c.points.Observe(cellIndex, center, photoName))
		}
	}

	return annotated
}
