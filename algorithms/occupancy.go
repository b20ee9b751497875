package algorithms

import (
	"fmt"
	"log"
	"math"

	"robart-backend/models"
)

// ========================================
// 점유 그리드 (Occupancy Grid)
// ========================================
//
// 생성 시점의 중심점 주변을 덮는 고정 크기 2D 그리드. 셀 (0,0)이 모서리이고
// 월드 → 셀 변환은 항상 centerPoint 기준이다 (스크롤/재중심화 없음).
// 셀 값은 업데이트 경로에 따라 관측 카운트 또는 이진 점유(0 = 빈 공간,
// >0 = 점유)로 해석된다.

// CellIndices - 그리드 셀 정수 인덱스
type CellIndices struct {
	CellX int `json:"cell_x"`
	CellZ int `json:"cell_z"`
}

// FractionalCellIndices - 반올림하지 않은 셀 인덱스.
// 서브셀 정밀도가 필요한 시각화/선분 쿼리에 사용.
type FractionalCellIndices struct {
	CellX float64
	CellZ float64
}

// OccupancyGrid - 고정 크기 점유 그리드
type OccupancyGrid struct {
	width       float64 // 월드 폭 (미터, X 방향)
	depth       float64 // 월드 깊이 (미터, Z 방향)
	cellSide    float64 // 정사각 셀 한 변 (미터)
	cellsWide   int
	cellsDeep   int
	centerPoint models.Vector3
	cells       []float64 // cellsWide * cellsDeep, 행(Z) 우선
}

// NewOccupancyGrid - 점유 그리드 생성.
// cellSide가 width/depth보다 크면 설정 버그이므로 즉시 panic한다.
func NewOccupancyGrid(width, depth, cellSide float64, centerPoint models.Vector3) *OccupancyGrid {
	if cellSide > width || cellSide > depth {
		panic(fmt.Sprintf("OccupancyGrid: cellSide(%.2f)가 그리드 크기(%.2f x %.2f)보다 큽니다", cellSide, width, depth))
	}

	cellsWide := int(math.Floor(width / cellSide))
	cellsDeep := int(math.Floor(depth / cellSide))

	return &OccupancyGrid{
		width:       width,
		depth:       depth,
		cellSide:    cellSide,
		cellsWide:   cellsWide,
		cellsDeep:   cellsDeep,
		centerPoint: centerPoint,
		cells:       make([]float64, cellsWide*cellsDeep),
	}
}

func (g *OccupancyGrid) Width() float64              { return g.width }
func (g *OccupancyGrid) Depth() float64              { return g.depth }
func (g *OccupancyGrid) CellSide() float64           { return g.cellSide }
func (g *OccupancyGrid) CellsWide() int              { return g.cellsWide }
func (g *OccupancyGrid) CellsDeep() int              { return g.cellsDeep }
func (g *OccupancyGrid) NumCells() int               { return g.cellsWide * g.cellsDeep }
func (g *OccupancyGrid) CenterPoint() models.Vector3 { return g.centerPoint }

// CenterCell - 그리드 중심 셀
func (g *OccupancyGrid) CenterCell() CellIndices {
	return CellIndices{
		CellX: int(math.Round(float64(g.cellsWide) * 0.5)),
		CellZ: int(math.Round(float64(g.cellsDeep) * 0.5)),
	}
}

// LinearIndex - (cellX, cellZ) → 배열 인덱스. 범위 밖은 가장자리로 클램프.
func (g *OccupancyGrid) LinearIndex(cellX, cellZ int) int {
	cellX = clampInt(cellX, 0, g.cellsWide-1)
	cellZ = clampInt(cellZ, 0, g.cellsDeep-1)
	return cellZ*g.cellsWide + cellX
}

// At - 셀 값 조회 (클램프, 범위 오류 없음)
func (g *OccupancyGrid) At(cellX, cellZ int) float64 {
	return g.cells[g.LinearIndex(cellX, cellZ)]
}

// AtCell - CellIndices 버전
func (g *OccupancyGrid) AtCell(cell CellIndices) float64 {
	return g.At(cell.CellX, cell.CellZ)
}

// Clone - 동일 기하의 독립 사본. 스냅샷 공유용.
func (g *OccupancyGrid) Clone() *OccupancyGrid {
	copied := NewOccupancyGrid(g.width, g.depth, g.cellSide, g.centerPoint)
	copy(copied.cells, g.cells)
	return copied
}

// Clear - 전체 셀을 0으로 리셋. 고착된 점유를 지우는 유일한 방법.
func (g *OccupancyGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = 0
	}
}

// PositionToCell - 월드 좌표 → 셀 인덱스.
// 맵 밖 좌표는 에러 대신 가장 가까운 경계 셀로 클램프한다.
func (g *OccupancyGrid) PositionToCell(position models.Vector3) CellIndices {
	center := g.CenterCell()
	xi := int(math.Floor((position.X-g.centerPoint.X)/g.cellSide+0.5)) + center.CellX
	zi := int(math.Floor((position.Z-g.centerPoint.Z)/g.cellSide+0.5)) + center.CellZ
	return CellIndices{
		CellX: clampInt(xi, 0, g.cellsWide-1),
		CellZ: clampInt(zi, 0, g.cellsDeep-1),
	}
}

// PositionToFractionalIndices - 반올림 없는 월드 → 셀 변환.
// PositionToCell과의 차이는 0.5를 더해 내림하는지 여부뿐이므로
// 클램프 한계는 정확히 [-0.5, cells-1+0.5]이다. 이 반 칸 오프셋은
// 맵 가장자리 선분 처리에 그대로 쓰이므로 바꾸면 안 된다.
func (g *OccupancyGrid) PositionToFractionalIndices(position models.Vector3) FractionalCellIndices {
	center := g.CenterCell()
	xf := (position.X-g.centerPoint.X)/g.cellSide + float64(center.CellX)
	zf := (position.Z-g.centerPoint.Z)/g.cellSide + float64(center.CellZ)
	return FractionalCellIndices{
		CellX: clampFloat(xf, -0.5, float64(g.cellsWide-1)+0.5),
		CellZ: clampFloat(zf, -0.5, float64(g.cellsDeep-1)+0.5),
	}
}

// ContainsXZ - 좌표가 그리드 범위 안에 드는지 (클램프 없이) 검사.
// PositionToCell은 맵 밖 좌표를 경계 셀로 끌어오므로, 일괄 기록 경로는
// 이 검사로 밖의 기하를 먼저 걸러야 한다.
func (g *OccupancyGrid) ContainsXZ(position models.Vector3) bool {
	center := g.CenterCell()
	xi := int(math.Floor((position.X-g.centerPoint.X)/g.cellSide+0.5)) + center.CellX
	zi := int(math.Floor((position.Z-g.centerPoint.Z)/g.cellSide+0.5)) + center.CellZ
	return xi >= 0 && xi < g.cellsWide && zi >= 0 && zi < g.cellsDeep
}

// CellToPosition - 셀 인덱스 → 셀 중심 월드 좌표 (Y=0, 높이는 모델링하지 않음)
func (g *OccupancyGrid) CellToPosition(cell CellIndices) models.Vector3 {
	center := g.CenterCell()
	return models.Vector3{
		X: g.centerPoint.X + float64(cell.CellX-center.CellX)*g.cellSide,
		Y: 0,
		Z: g.centerPoint.Z + float64(cell.CellZ-center.CellZ)*g.cellSide,
	}
}

// UpdateCellCounts - 깊이 이미지를 역투영해 관측 카운트를 누적한다.
// 지수이동평균: 먼저 전체 셀을 previousWeight로 감쇠한 뒤, 깊이/높이
// 대역에 든 픽셀마다 해당 셀에 incomingWeight를 더한다.
func (g *OccupancyGrid) UpdateCellCounts(
	depth *models.DepthImage,
	intrinsics models.CameraIntrinsics,
	viewMatrix models.Matrix4,
	minDepth, maxDepth float64,
	minHeight, maxHeight float64,
	incomingWeight, previousWeight float64,
) {
	// 기존 관측 감쇠
	for i := range g.cells {
		g.cells[i] *= previousWeight
	}

	for y := 0; y < depth.Height; y++ {
		for x := 0; x < depth.Width; x++ {
			d := depth.At(x, y)

			// 너무 가깝거나 먼 값은 노이즈가 심해 무시
			if d < minDepth || d > maxDepth {
				continue
			}

			// 핀홀 역투영: 카메라 공간 → 월드 공간
			cameraPos := models.Vector3{
				X: d * (float64(x) - intrinsics.Cx) / intrinsics.Fx,
				Y: d * (float64(y) - intrinsics.Cy) / intrinsics.Fy,
				Z: d,
			}
			worldPos := viewMatrix.TransformPoint(cameraPos)

			// 바닥/천장 무시: 수평 슬라이스만 사용
			if worldPos.Y < minHeight || worldPos.Y > maxHeight {
				continue
			}

			cell := g.PositionToCell(worldPos)
			g.cells[g.LinearIndex(cell.CellX, cell.CellZ)] += incomingWeight
		}
	}
}

// UpdateOccupancyFromCounts - 카운트 그리드를 임계값으로 이진화해 반영.
// counts >= threshold인 셀만 1.0으로 올리고, 그 외 셀은 건드리지 않는다.
// 점유는 고착된다: 카운트가 떨어져도 이 호출로는 해제되지 않으며
// Clear()만이 리셋한다.
func (g *OccupancyGrid) UpdateOccupancyFromCounts(counts *OccupancyGrid, threshold float64) {
	if counts.NumCells() != g.NumCells() {
		panic("OccupancyGrid: 카운트 그리드 크기가 일치하지 않습니다")
	}
	for i, count := range counts.cells {
		if count >= threshold {
			g.cells[i] = 1.0
		}
	}
}

// UpdateOccupancyFromHeightMap - 높이 맵을 임계값으로 이진화해 덮어쓴다.
func (g *OccupancyGrid) UpdateOccupancyFromHeightMap(heights []float64, heightThreshold float64) {
	if len(heights) != g.NumCells() {
		log.Printf("❌ [OccupancyGrid] 높이 맵 크기 불일치: %d != %d", len(heights), g.NumCells())
		return
	}
	for i, h := range heights {
		if h >= heightThreshold {
			g.cells[i] = 1.0
		} else {
			g.cells[i] = 0.0
		}
	}
}

// UpdateOccupancyFromArray - 외부에서 계산된 점유 배열로 통째로 덮어쓴다.
// 임계값 처리 없음: 호출자가 이미 점유/빈 공간을 결정했다고 가정한다 (>0 = 점유).
func (g *OccupancyGrid) UpdateOccupancyFromArray(occupied []float64) {
	if len(occupied) != g.NumCells() {
		log.Printf("❌ [OccupancyGrid] 점유 배열 크기 불일치: %d != %d", len(occupied), g.NumCells())
		return
	}
	copy(g.cells, occupied)
}

// OccupancyArray - 현재 셀 배열의 복사본
func (g *OccupancyGrid) OccupancyArray() []float64 {
	out := make([]float64, len(g.cells))
	copy(out, g.cells)
	return out
}

// OccupiedCells - 점유된 셀 목록 (맵 스냅샷 브로드캐스트용)
func (g *OccupancyGrid) OccupiedCells() []CellIndices {
	var occupied []CellIndices
	for z := 0; z < g.cellsDeep; z++ {
		for x := 0; x < g.cellsWide; x++ {
			if g.cells[z*g.cellsWide+x] != 0 {
				occupied = append(occupied, CellIndices{CellX: x, CellZ: z})
			}
		}
	}
	return occupied
}

// IsLineUnobstructed - 두 월드 좌표 사이 직선 구간에 점유 셀이 없는지 검사.
// 양 끝점을 포함해 cellSide/2 이하 간격으로 균등 샘플링하므로
// 방향을 뒤집어도 같은 점 집합을 검사한다 (대칭성).
func (g *OccupancyGrid) IsLineUnobstructed(from, to models.Vector3) bool {
	distance := from.XZDistanceTo(to)
	step := g.cellSide * 0.5
	n := int(math.Ceil(distance / step))
	if n < 1 {
		n = 1
	}

	delta := to.Sub(from)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		point := from.Add(delta.Scale(t))
		cell := g.PositionToCell(point)
		if g.AtCell(cell) != 0 {
			return false
		}
	}
	return true
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	return math.Min(math.Max(lo, v), hi)
}
