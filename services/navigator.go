package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"robart-backend/algorithms"
	"robart-backend/models"
)

// ========================================
// 점유 근거 소스
// ========================================

// EvidenceSource - 센싱 프레임에서 점유 그리드를 갱신하는 전략.
// 깊이 이미지 경로와 메시 래스터화 경로를 바꿔 끼울 수 있다.
type EvidenceSource interface {
	Name() string
	Apply(frame *models.Frame, occupancy *algorithms.OccupancyGrid)
}

// DepthEvidenceSource - 깊이 이미지 누적 경로.
// 내부 카운트 그리드에 관측을 지수이동평균으로 누적한 뒤, 임계값을
// 넘긴 셀만 점유 그리드에 고착시킨다.
type DepthEvidenceSource struct {
	counts         *algorithms.OccupancyGrid
	minDepth       float64
	maxDepth       float64
	minHeight      float64
	maxHeight      float64
	incomingWeight float64
	previousWeight float64
	threshold      float64
}

// NewDepthEvidenceSource - 깊이 누적 근거 소스 생성.
// counts 그리드는 점유 그리드와 같은 기하로 별도 생성한다.
func NewDepthEvidenceSource(occupancy *algorithms.OccupancyGrid, cfg NavigatorConfig) *DepthEvidenceSource {
	return &DepthEvidenceSource{
		counts: algorithms.NewOccupancyGrid(
			occupancy.Width(), occupancy.Depth(), occupancy.CellSide(), occupancy.CenterPoint()),
		minDepth:       cfg.MinDepth,
		maxDepth:       cfg.MaxDepth,
		minHeight:      cfg.MinHeight,
		maxHeight:      cfg.MaxHeight,
		incomingWeight: cfg.IncomingWeight,
		previousWeight: cfg.PreviousWeight,
		threshold:      cfg.CountThreshold,
	}
}

func (s *DepthEvidenceSource) Name() string { return "depth" }

func (s *DepthEvidenceSource) Apply(frame *models.Frame, occupancy *algorithms.OccupancyGrid) {
	if frame.Depth == nil {
		return
	}
	s.counts.UpdateCellCounts(
		frame.Depth, frame.Intrinsics, frame.ViewMatrix,
		s.minDepth, s.maxDepth,
		s.minHeight, s.maxHeight,
		s.incomingWeight, s.previousWeight,
	)
	occupancy.UpdateOccupancyFromCounts(s.counts, s.threshold)
}

// Reset - 누적 카운트 리셋 (임무 경계에서 호출)
func (s *DepthEvidenceSource) Reset() {
	s.counts.Clear()
}

// MeshEvidenceSource - 씬 메시 래스터화 경로.
// 프레임의 메시 조각들을 높이 맵으로 래스터화해 점유를 통째로
// 덮어쓴다. 고착 없음: 매 프레임이 완전한 관측이다.
type MeshEvidenceSource struct {
	minHeight       float64
	maxHeight       float64
	heightThreshold float64
}

func NewMeshEvidenceSource(cfg NavigatorConfig) *MeshEvidenceSource {
	return &MeshEvidenceSource{
		minHeight:       cfg.MinHeight,
		maxHeight:       cfg.MaxHeight,
		heightThreshold: cfg.HeightThreshold,
	}
}

func (s *MeshEvidenceSource) Name() string { return "mesh" }

func (s *MeshEvidenceSource) Apply(frame *models.Frame, occupancy *algorithms.OccupancyGrid) {
	if len(frame.Meshes) == 0 {
		return
	}
	heights := algorithms.RasterizeMeshHeights(frame.Meshes, occupancy, s.minHeight, s.maxHeight)
	occupancy.UpdateOccupancyFromHeightMap(heights, s.heightThreshold)
}

// ========================================
// 내비게이터
// ========================================

// NavigatorConfig - 점유 그리드 / 경로 계획 파라미터
type NavigatorConfig struct {
	Width       float64 // 그리드 폭 (미터)
	Depth       float64 // 그리드 깊이 (미터)
	CellSide    float64 // 셀 한 변 (미터)
	AgentRadius float64 // 로봇 반경 (미터, 장애물 팽창에 사용)

	// 깊이 누적 경로
	MinDepth       float64 // 유효 깊이 하한 (미터)
	MaxDepth       float64 // 유효 깊이 상한 (미터)
	MinHeight      float64 // 장애물 높이 대역 하한 (미터)
	MaxHeight      float64 // 장애물 높이 대역 상한 (미터)
	IncomingWeight float64 // 신규 관측 가중치
	PreviousWeight float64 // 기존 카운트 감쇠 계수
	CountThreshold float64 // 점유 고착 임계값

	// 메시 래스터화 경로
	HeightThreshold float64 // 점유 판정 높이 (미터)
}

// DefaultNavigatorConfig - 실내 주행 기본값
func DefaultNavigatorConfig() NavigatorConfig {
	return NavigatorConfig{
		Width:           20.0,
		Depth:           20.0,
		CellSide:        0.25,
		AgentRadius:     0.25,
		MinDepth:        0.3,
		MaxDepth:        4.0,
		MinHeight:       0.15,
		MaxHeight:       1.8,
		IncomingWeight:  1.0,
		PreviousWeight:  0.5,
		CountThreshold:  1.5,
		HeightThreshold: 0.15,
	}
}

// Navigator - 점유 그리드의 단일 소유자.
// 그리드 자체는 동기화하지 않는다. 모든 갱신은 Refresh 안에서 뮤텍스로
// 직렬화되고, 읽기 쿼리는 스냅샷 사본 위에서 동작한다.
type Navigator struct {
	mapID  string
	cfg    NavigatorConfig
	feed   SensingFeed
	source EvidenceSource

	mu   sync.RWMutex
	grid *algorithms.OccupancyGrid
}

// NewNavigator - 내비게이터 생성. center는 그리드 중심 월드 좌표.
func NewNavigator(cfg NavigatorConfig, feed SensingFeed, source EvidenceSource, center models.Vector3) *Navigator {
	return &Navigator{
		mapID:  uuid.New().String(),
		cfg:    cfg,
		feed:   feed,
		source: source,
		grid:   algorithms.NewOccupancyGrid(cfg.Width, cfg.Depth, cfg.CellSide, center.XZProjected()),
	}
}

// NewNavigatorWithGrid - 미리 만든 그리드로 내비게이터 생성 (테스트용)
func NewNavigatorWithGrid(cfg NavigatorConfig, feed SensingFeed, source EvidenceSource, grid *algorithms.OccupancyGrid) *Navigator {
	return &Navigator{
		mapID:  uuid.New().String(),
		cfg:    cfg,
		feed:   feed,
		source: source,
		grid:   grid,
	}
}

// Config - 현재 설정
func (n *Navigator) Config() NavigatorConfig { return n.cfg }

// Refresh - 다음 센싱 프레임을 받아 점유 그리드를 갱신한다.
// 갱신은 통째로 락 안에서 이루어지므로 읽는 쪽은 중간 상태를 보지 않는다.
func (n *Navigator) Refresh(ctx context.Context) error {
	frame, err := n.feed.NextFrame(ctx)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.source.Apply(frame, n.grid)
	n.mu.Unlock()
	return nil
}

// Snapshot - 현재 점유 그리드의 독립 사본
func (n *Navigator) Snapshot() *algorithms.OccupancyGrid {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.grid.Clone()
}

// PlanPath - A* 경로 계획. 경로 없으면 빈 슬라이스.
func (n *Navigator) PlanPath(from, to models.Vector3) []models.Vector3 {
	snapshot := n.Snapshot()

	start := time.Now()
	path := algorithms.FindPath(snapshot, from, to, n.cfg.AgentRadius)
	elapsed := time.Since(start)

	if len(path) > 0 {
		log.Printf("📍 경로 계획 완료: %d 웨이포인트, %.2fm (%v)",
			len(path), algorithms.PathLength(from, path), elapsed)
	} else {
		log.Printf("📍 경로 없음: (%.2f, %.2f) → (%.2f, %.2f) (%v)",
			from.X, from.Z, to.X, to.Z, elapsed)
	}
	return path
}

// IsLineUnobstructed - 직선 구간 점유 검사
func (n *Navigator) IsLineUnobstructed(from, to models.Vector3) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.grid.IsLineUnobstructed(from, to)
}

// IsPositionClear - 해당 좌표의 셀이 비어 있는지 검사
func (n *Navigator) IsPositionClear(position models.Vector3) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.grid.AtCell(n.grid.PositionToCell(position)) == 0
}

// CellIndexOf - 월드 좌표의 그리드 선형 인덱스 (탐색 가능 지점 ID 키)
func (n *Navigator) CellIndexOf(position models.Vector3) int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	cell := n.grid.PositionToCell(position)
	return n.grid.LinearIndex(cell.CellX, cell.CellZ)
}

// CellCenterOf - 월드 좌표가 속한 셀의 중심 좌표
func (n *Navigator) CellCenterOf(position models.Vector3) models.Vector3 {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.grid.CellToPosition(n.grid.PositionToCell(position))
}

// Clear - 점유 그리드 전체 리셋 (임무 경계)
func (n *Navigator) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.grid.Clear()
	if depthSource, ok := n.source.(*DepthEvidenceSource); ok {
		depthSource.Reset()
	}
	log.Println("🗺️ 점유 그리드 리셋")
}

// MapMessage - 웹 뷰어용 점유 그리드 스냅샷 메시지
func (n *Navigator) MapMessage(robotPosition models.Vector3) *models.MapUpdateMessage {
	n.mu.RLock()
	defer n.mu.RUnlock()

	robotCell := n.grid.PositionToCell(robotPosition)
	cells := n.grid.OccupiedCells()

	occupied := make([]models.OccupiedCell, len(cells))
	for i, cell := range cells {
		occupied[i] = models.OccupiedCell{CellX: cell.CellX, CellZ: cell.CellZ}
	}

	return &models.MapUpdateMessage{
		MapID:     n.mapID,
		Width:     n.grid.Width(),
		Depth:     n.grid.Depth(),
		CellSide:  n.grid.CellSide(),
		CellsWide: n.grid.CellsWide(),
		CellsDeep: n.grid.CellsDeep(),
		Center:    n.grid.CenterPoint(),
		Occupied:  occupied,
		RobotCell: models.OccupiedCell{CellX: robotCell.CellX, CellZ: robotCell.CellZ},
		CreatedAt: time.Now(),
	}
}
