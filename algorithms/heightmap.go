package algorithms

import (
	"math"

	"robart-backend/models"
)

// ========================================
// 메시 → 높이 맵 래스터화
// ========================================

// RasterizeMeshHeights - 씬 메시 조각들을 XZ 평면에 투영해 셀별 최대
// 높이 맵을 만든다. 반환 배열은 grid와 같은 선형 인덱스를 쓴다.
//
// 높이 대역 [minHeight, maxHeight] 밖의 삼각형은 바닥/천장으로 보고
// 무시한다. 대역에 걸친 삼각형은 셀 중심 포함 검사로 발자국을 찍고,
// 셀보다 작은 삼각형이 빠지지 않도록 정점 셀도 함께 찍는다.
// 그리드 창 밖의 기하는 경계 셀로 클램프하지 않고 버린다.
func RasterizeMeshHeights(meshes []models.MeshFragment, grid *OccupancyGrid, minHeight, maxHeight float64) []float64 {
	heights := make([]float64, grid.NumCells())

	for _, mesh := range meshes {
		world := make([]models.Vector3, len(mesh.Vertices))
		for i, v := range mesh.Vertices {
			world[i] = mesh.Transform.TransformPoint(v)
		}

		for t := 0; t+2 < len(mesh.Triangles); t += 3 {
			a := world[mesh.Triangles[t]]
			b := world[mesh.Triangles[t+1]]
			c := world[mesh.Triangles[t+2]]
			rasterizeTriangle(heights, grid, a, b, c, minHeight, maxHeight)
		}
	}

	return heights
}

func rasterizeTriangle(heights []float64, grid *OccupancyGrid, a, b, c models.Vector3, minHeight, maxHeight float64) {
	top := math.Max(a.Y, math.Max(b.Y, c.Y))
	bottom := math.Min(a.Y, math.Min(b.Y, c.Y))
	if top < minHeight || bottom > maxHeight {
		return
	}
	height := math.Min(top, maxHeight)

	minX := math.Min(a.X, math.Min(b.X, c.X))
	maxX := math.Max(a.X, math.Max(b.X, c.X))
	minZ := math.Min(a.Z, math.Min(b.Z, c.Z))
	maxZ := math.Max(a.Z, math.Max(b.Z, c.Z))

	// 그리드 창 밖의 삼각형이 경계 셀로 클램프되어 찍히면 안 된다
	center := grid.CenterPoint()
	if maxX < center.X-grid.Width()*0.5 || minX > center.X+grid.Width()*0.5 ||
		maxZ < center.Z-grid.Depth()*0.5 || minZ > center.Z+grid.Depth()*0.5 {
		return
	}

	// 범위 안의 정점 셀은 무조건 찍는다
	for _, v := range [3]models.Vector3{a, b, c} {
		if grid.ContainsXZ(v) {
			stampHeight(heights, grid, grid.PositionToCell(v), height)
		}
	}

	// 바운딩 박스 내 셀 중심이 삼각형 안이면 찍는다
	minCell := grid.PositionToCell(models.Vector3{X: minX, Z: minZ})
	maxCell := grid.PositionToCell(models.Vector3{X: maxX, Z: maxZ})

	for cz := minCell.CellZ; cz <= maxCell.CellZ; cz++ {
		for cx := minCell.CellX; cx <= maxCell.CellX; cx++ {
			cell := CellIndices{CellX: cx, CellZ: cz}
			center := grid.CellToPosition(cell)
			if pointInTriangleXZ(center, a, b, c) {
				stampHeight(heights, grid, cell, height)
			}
		}
	}
}

func stampHeight(heights []float64, grid *OccupancyGrid, cell CellIndices, height float64) {
	idx := grid.LinearIndex(cell.CellX, cell.CellZ)
	if height > heights[idx] {
		heights[idx] = height
	}
}

// pointInTriangleXZ - XZ 평면에서의 무게중심 좌표 포함 검사
func pointInTriangleXZ(p, a, b, c models.Vector3) bool {
	v0x, v0z := c.X-a.X, c.Z-a.Z
	v1x, v1z := b.X-a.X, b.Z-a.Z
	v2x, v2z := p.X-a.X, p.Z-a.Z

	dot00 := v0x*v0x + v0z*v0z
	dot01 := v0x*v1x + v0z*v1z
	dot02 := v0x*v2x + v0z*v2z
	dot11 := v1x*v1x + v1z*v1z
	dot12 := v1x*v2x + v1z*v2z

	denom := dot00*dot11 - dot01*dot01
	if math.Abs(denom) < 1e-12 {
		return false // 퇴화 삼각형
	}

	inv := 1.0 / denom
	u := (dot11*dot02 - dot01*dot12) * inv
	v := (dot00*dot12 - dot01*dot02) * inv
	return u >= 0 && v >= 0 && u+v <= 1
}
