package algorithms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

// boxMesh - 중심 c, 반 변 h, 윗면 높이 top의 납작한 사각 기둥 윗면
func boxMesh(c models.Vector3, h, top float64) models.MeshFragment {
	return models.MeshFragment{
		ID: "box",
		Vertices: []models.Vector3{
			{X: -h, Y: top, Z: -h},
			{X: h, Y: top, Z: -h},
			{X: h, Y: top, Z: h},
			{X: -h, Y: top, Z: h},
		},
		Triangles: []int{0, 1, 2, 0, 2, 3},
		Transform: models.TranslationMatrix(c),
	}
}

func TestRasterizeMeshHeights(t *testing.T) {
	grid := NewOccupancyGrid(5, 5, 0.25, models.Vector3{})
	mesh := boxMesh(models.Vector3{X: 1.0, Z: -1.0}, 0.3, 1.0)

	heights := RasterizeMeshHeights([]models.MeshFragment{mesh}, grid, 0.15, 1.8)
	require.Len(t, heights, grid.NumCells())

	// 박스 중심 셀은 윗면 높이로 찍힌다
	center := grid.PositionToCell(models.Vector3{X: 1.0, Z: -1.0})
	assert.Equal(t, 1.0, heights[grid.LinearIndex(center.CellX, center.CellZ)])

	// 박스에서 멀리 떨어진 셀은 그대로 0
	far := grid.PositionToCell(models.Vector3{X: -2.0, Z: 2.0})
	assert.Equal(t, 0.0, heights[grid.LinearIndex(far.CellX, far.CellZ)])
}

func TestRasterizeIgnoresOutOfBandTriangles(t *testing.T) {
	grid := NewOccupancyGrid(5, 5, 0.25, models.Vector3{})

	// 바닥(0.05m)과 천장(2.5m)은 장애물 대역 밖
	floor := boxMesh(models.Vector3{}, 0.5, 0.05)
	ceiling := boxMesh(models.Vector3{}, 0.5, 2.5)

	heights := RasterizeMeshHeights([]models.MeshFragment{floor}, grid, 0.15, 1.8)
	for _, h := range heights {
		assert.Equal(t, 0.0, h)
	}

	// 대역 위로 걸친 삼각형은 상한으로 잘린다...가 아니라, 바닥이 대역
	// 안에 들어오지 않으면 통째로 무시된다 (천장 메시 전체가 2.5m)
	heights = RasterizeMeshHeights([]models.MeshFragment{ceiling}, grid, 0.15, 1.8)
	for _, h := range heights {
		assert.Equal(t, 0.0, h)
	}
}

func TestRasterizeClampsTallObstacles(t *testing.T) {
	grid := NewOccupancyGrid(5, 5, 0.25, models.Vector3{})

	// 대역에 걸친 기울어진 삼각형: 바닥 0.5m, 꼭대기 3.0m
	mesh := models.MeshFragment{
		ID: "slope",
		Vertices: []models.Vector3{
			{X: -0.4, Y: 0.5, Z: -0.4},
			{X: 0.4, Y: 0.5, Z: -0.4},
			{X: 0.0, Y: 3.0, Z: 0.4},
		},
		Triangles: []int{0, 1, 2},
		Transform: models.Identity4(),
	}

	heights := RasterizeMeshHeights([]models.MeshFragment{mesh}, grid, 0.15, 1.8)

	center := grid.PositionToCell(models.Vector3{})
	assert.Equal(t, 1.8, heights[grid.LinearIndex(center.CellX, center.CellZ)])
}

func TestRasterizeIgnoresGeometryOutsideGrid(t *testing.T) {
	grid := NewOccupancyGrid(5, 5, 0.25, models.Vector3{})

	// 그리드 창 밖의 메시가 경계 셀로 클램프되어 찍히면 안 된다
	outside := boxMesh(models.Vector3{X: 100, Z: 100}, 0.3, 1.0)
	heights := RasterizeMeshHeights([]models.MeshFragment{outside}, grid, 0.15, 1.8)
	for i, h := range heights {
		require.Equal(t, 0.0, h, "밖의 메시가 셀 %d에 찍힘", i)
	}

	// 경계에 걸친 메시는 안쪽 부분만 찍힌다
	straddle := boxMesh(models.Vector3{X: 2.5, Z: 0}, 0.3, 1.0)
	heights = RasterizeMeshHeights([]models.MeshFragment{straddle}, grid, 0.15, 1.8)

	inside := grid.PositionToCell(models.Vector3{X: 2.3, Z: 0})
	assert.Equal(t, 1.0, heights[grid.LinearIndex(inside.CellX, inside.CellZ)])

	// 반대쪽 경계는 건드리지 않는다
	opposite := grid.PositionToCell(models.Vector3{X: -2.4, Z: 0})
	assert.Equal(t, 0.0, heights[grid.LinearIndex(opposite.CellX, opposite.CellZ)])
}

func TestRasterizeKeepsMaxHeightPerCell(t *testing.T) {
	grid := NewOccupancyGrid(5, 5, 0.25, models.Vector3{})
	low := boxMesh(models.Vector3{}, 0.3, 0.5)
	high := boxMesh(models.Vector3{}, 0.3, 1.2)

	heights := RasterizeMeshHeights([]models.MeshFragment{low, high}, grid, 0.15, 1.8)
	center := grid.PositionToCell(models.Vector3{})
	assert.Equal(t, 1.2, heights[grid.LinearIndex(center.CellX, center.CellZ)])
}
