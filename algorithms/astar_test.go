package algorithms

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

func TestFindPathOnEmptyGrid(t *testing.T) {
	grid := newTestGrid()

	path := FindPath(grid, models.Vector3{}, models.Vector3{Z: 3}, 0.25)
	require.NotEmpty(t, path)

	// 빈 그리드에서도 직선 셀 경로 전체를 반환한다 (시작 셀 제외, 목표 포함)
	assert.Len(t, path, 6)
	last := path[len(path)-1]
	assert.InDelta(t, 0.0, last.X, 1e-9)
	assert.InDelta(t, 3.0, last.Z, 1e-9)
}

func TestFindPathSameCellReturnsEmpty(t *testing.T) {
	grid := newTestGrid()
	path := FindPath(grid, models.Vector3{X: 0.1}, models.Vector3{X: 0.12}, 0.25)
	assert.Empty(t, path)
}

func TestFindPathLengthMonotonicInDistance(t *testing.T) {
	grid := newTestGrid()

	previousLen := 0
	for z := 0.5; z <= 4.0; z += 0.5 {
		path := FindPath(grid, models.Vector3{}, models.Vector3{Z: z}, 0.25)
		assert.GreaterOrEqual(t, len(path), previousLen, "목표 거리 %.1f", z)
		previousLen = len(path)
	}
}

func TestFindPathIsDeterministic(t *testing.T) {
	grid := newTestGrid()
	occupyAt(t, grid,
		models.Vector3{X: 0, Z: 1.5},
		models.Vector3{X: 0.5, Z: 1.5},
		models.Vector3{X: -0.5, Z: 1.5},
	)

	first := FindPath(grid, models.Vector3{}, models.Vector3{Z: 3}, 0.25)
	second := FindPath(grid, models.Vector3{}, models.Vector3{Z: 3}, 0.25)
	assert.Equal(t, first, second)
}

func TestFindPathDeviatesAroundObstacle(t *testing.T) {
	grid := newTestGrid()

	// 로봇 (0,0), 목표 (0,3), (0,1.5)에 장애물
	occupyAt(t, grid, models.Vector3{X: 0, Z: 1.5})
	require.False(t, grid.IsLineUnobstructed(models.Vector3{}, models.Vector3{Z: 3}))

	path := FindPath(grid, models.Vector3{}, models.Vector3{Z: 3}, 0.25)
	require.NotEmpty(t, path)

	// 직선이 아니라 좌우로 우회해야 한다
	deviated := false
	for _, p := range path {
		if math.Abs(p.X) > 0.01 {
			deviated = true
		}
	}
	assert.True(t, deviated, "경로가 장애물을 우회하지 않음: %+v", path)

	// 그래도 목표에는 도달한다
	last := path[len(path)-1]
	assert.InDelta(t, 3.0, last.Z, 1e-9)
}

func TestFindPathBlockedGoalReturnsEmpty(t *testing.T) {
	grid := newTestGrid()
	occupyAt(t, grid, models.Vector3{Z: 2})

	path := FindPath(grid, models.Vector3{}, models.Vector3{Z: 2}, 0.25)
	assert.Empty(t, path)
}

func TestFindPathEnclosedGoalReturnsEmpty(t *testing.T) {
	grid := newTestGrid()

	// 목표 셀 주위 체비쇼프 거리 2의 고리로 완전히 포위
	goal := models.Vector3{Z: 2}
	goalCell := grid.PositionToCell(goal)
	occupied := make([]float64, grid.NumCells())
	for dz := -2; dz <= 2; dz++ {
		for dx := -2; dx <= 2; dx++ {
			if maxAbs(dx, dz) == 2 {
				occupied[grid.LinearIndex(goalCell.CellX+dx, goalCell.CellZ+dz)] = 1.0
			}
		}
	}
	grid.UpdateOccupancyFromArray(occupied)

	path := FindPath(grid, models.Vector3{}, goal, 0.25)
	assert.Empty(t, path)
}

func TestFindPathEscapesBlockedStartCell(t *testing.T) {
	grid := newTestGrid()

	// 로봇이 이미 점유 셀에 겹쳐 있어도 출발은 가능해야 한다
	occupyAt(t, grid, models.Vector3{})
	path := FindPath(grid, models.Vector3{}, models.Vector3{Z: 2}, 0)
	assert.NotEmpty(t, path)
}

func TestSimplifyPathCollapsesColinearPoints(t *testing.T) {
	path := []models.Vector3{
		{Z: 0}, {Z: 0.5}, {Z: 1.0}, {Z: 1.5}, {Z: 2.0},
	}
	simplified := SimplifyPath(path, 0.1)
	require.Len(t, simplified, 2)
	assert.Equal(t, path[0], simplified[0])
	assert.Equal(t, path[len(path)-1], simplified[1])
}

func TestSimplifyPathKeepsCorners(t *testing.T) {
	path := []models.Vector3{
		{Z: 0}, {Z: 1}, {X: 1, Z: 1}, {X: 2, Z: 1},
	}
	simplified := SimplifyPath(path, 0.1)
	assert.GreaterOrEqual(t, len(simplified), 3)
}

func TestPathLength(t *testing.T) {
	path := []models.Vector3{{Z: 1}, {Z: 2}, {X: 1, Z: 2}}
	assert.InDelta(t, 3.0, PathLength(models.Vector3{}, path), 1e-9)
}

func maxAbs(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	if a > b {
		return a
	}
	return b
}
