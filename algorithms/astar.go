package algorithms

import (
	"container/heap"
	"math"

	"robart-backend/models"
)

// ========================================
// 그리드 경로 계획 (A*)
// ========================================
//
// 점유 그리드 위에서 로봇 반경을 고려한 최단 경로를 찾는다.
// 8방향 이웃, 대각선 비용 √2 × cellSide, 유클리드 휴리스틱.
// 같은 입력에 대해 항상 같은 경로를 내도록 삽입 순서로 동률을 깬다.

// pathNode - A* 노드
type pathNode struct {
	x, z    int
	g, f    float64
	parent  *pathNode
	index   int // for heap
	seq     int // 삽입 순서 (동률 타이브레이크)
}

// nodeQueue - A* 우선순위 큐
type nodeQueue []*pathNode

func (pq nodeQueue) Len() int { return len(pq) }

func (pq nodeQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	return pq[i].seq < pq[j].seq
}

func (pq nodeQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *nodeQueue) Push(x interface{}) {
	n := len(*pq)
	node := x.(*pathNode)
	node.index = n
	*pq = append(*pq, node)
}

func (pq *nodeQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.index = -1
	*pq = old[0 : n-1]
	return node
}

// 8방향 이동 (상하좌우 + 대각선)
var pathDirections = [8][2]int{
	{0, 1}, {1, 0}, {0, -1}, {-1, 0},
	{1, 1}, {1, -1}, {-1, 1}, {-1, -1},
}

// FindPath - 점유 그리드에서 from → to 경로 탐색.
//
// agentRadius만큼 장애물을 팽창시킨 뒤 탐색하므로 점 에이전트 경로가
// 실제 로봇 footprint를 암묵적으로 존중한다. 반환 경로는 시작 셀
// 다음 셀부터 목표 셀까지의 월드 셀 중심 좌표이며, 경로가 없거나
// from과 to가 같은 셀이면 빈 경로를 반환한다 (이동 불필요 = 빈 경로).
func FindPath(grid *OccupancyGrid, from, to models.Vector3, agentRadius float64) []models.Vector3 {
	src := grid.PositionToCell(from)
	dst := grid.PositionToCell(to)

	if src == dst {
		return nil
	}

	// 장애물 팽창은 탐색당 한 번만 계산한다 (노드 확장마다 하면 너무 느림)
	blocked := inflateObstacles(grid, agentRadius)

	// 목표가 막혀 있으면 경로 없음. 시작 셀은 로봇 자신이 이미 겹쳐
	// 있을 수 있으므로 막지 않는다 (탈출은 가능해야 함).
	if blocked[grid.LinearIndex(dst.CellX, dst.CellZ)] {
		return nil
	}

	cellsWide := grid.CellsWide()
	cellsDeep := grid.CellsDeep()
	numCells := cellsWide * cellsDeep

	gScores := make([]float64, numCells)
	for i := range gScores {
		gScores[i] = math.Inf(1)
	}
	closed := make([]bool, numCells)

	heuristic := func(x, z int) float64 {
		dx := float64(x - dst.CellX)
		dz := float64(z - dst.CellZ)
		return math.Sqrt(dx*dx+dz*dz) * grid.CellSide()
	}

	seq := 0
	openSet := make(nodeQueue, 0)
	heap.Init(&openSet)

	start := &pathNode{x: src.CellX, z: src.CellZ, g: 0, seq: seq}
	start.f = heuristic(src.CellX, src.CellZ)
	gScores[src.CellZ*cellsWide+src.CellX] = 0
	heap.Push(&openSet, start)

	straightCost := grid.CellSide()
	diagonalCost := math.Sqrt2 * grid.CellSide()

	for openSet.Len() > 0 {
		current := heap.Pop(&openSet).(*pathNode)
		currentIdx := current.z*cellsWide + current.x

		if current.x == dst.CellX && current.z == dst.CellZ {
			return reconstructPath(grid, current)
		}

		if closed[currentIdx] {
			continue
		}
		closed[currentIdx] = true

		for _, dir := range pathDirections {
			nx, nz := current.x+dir[0], current.z+dir[1]
			if nx < 0 || nx >= cellsWide || nz < 0 || nz >= cellsDeep {
				continue
			}

			neighborIdx := nz*cellsWide + nx
			if closed[neighborIdx] || blocked[neighborIdx] {
				continue
			}

			moveCost := straightCost
			if dir[0] != 0 && dir[1] != 0 {
				moveCost = diagonalCost
			}
			tentativeG := current.g + moveCost

			if tentativeG >= gScores[neighborIdx] {
				continue
			}
			gScores[neighborIdx] = tentativeG

			seq++
			neighbor := &pathNode{
				x:      nx,
				z:      nz,
				g:      tentativeG,
				f:      tentativeG + heuristic(nx, nz),
				parent: current,
				seq:    seq,
			}
			heap.Push(&openSet, neighbor)
		}
	}

	// 경로 없음
	return nil
}

// inflateObstacles - 로봇 반경을 셀 단위로 올림한 만큼 점유 셀을
// 체비쇼프 정사각형으로 팽창시킨 차단 마스크를 만든다.
func inflateObstacles(grid *OccupancyGrid, agentRadius float64) []bool {
	cellsWide := grid.CellsWide()
	cellsDeep := grid.CellsDeep()
	radiusCells := int(math.Ceil(agentRadius / grid.CellSide()))

	blocked := make([]bool, cellsWide*cellsDeep)
	for z := 0; z < cellsDeep; z++ {
		for x := 0; x < cellsWide; x++ {
			if grid.At(x, z) == 0 {
				continue
			}
			for dz := -radiusCells; dz <= radiusCells; dz++ {
				for dx := -radiusCells; dx <= radiusCells; dx++ {
					bx, bz := x+dx, z+dz
					if bx >= 0 && bx < cellsWide && bz >= 0 && bz < cellsDeep {
						blocked[bz*cellsWide+bx] = true
					}
				}
			}
		}
	}
	return blocked
}

// reconstructPath - 목표 노드에서 부모를 따라가 시작 셀 다음 셀부터의
// 월드 좌표 경로를 만든다.
func reconstructPath(grid *OccupancyGrid, node *pathNode) []models.Vector3 {
	var cells []CellIndices
	for n := node; n != nil; n = n.parent {
		cells = append(cells, CellIndices{CellX: n.x, CellZ: n.z})
	}

	// 역순 (시작 → 목표), 시작 셀 제외
	path := make([]models.Vector3, 0, len(cells)-1)
	for i := len(cells) - 2; i >= 0; i-- {
		path = append(path, grid.CellToPosition(cells[i]))
	}
	return path
}

// PathLength - 경로 전체 길이 (미터)
func PathLength(from models.Vector3, path []models.Vector3) float64 {
	length := 0.0
	previous := from
	for _, point := range path {
		length += previous.XZDistanceTo(point)
		previous = point
	}
	return length
}

// SimplifyPath - Douglas-Peucker 알고리즘으로 경로 간소화.
// 계단 모양 셀 경로를 웨이포인트 주행에 적합한 꺾은선으로 줄인다.
func SimplifyPath(path []models.Vector3, epsilon float64) []models.Vector3 {
	if len(path) < 3 {
		return path
	}

	// 가장 먼 점 찾기
	dmax := 0.0
	index := 0
	for i := 1; i < len(path)-1; i++ {
		d := perpendicularDistance(path[i], path[0], path[len(path)-1])
		if d > dmax {
			index = i
			dmax = d
		}
	}

	// 재귀적으로 간소화
	if dmax > epsilon {
		left := SimplifyPath(path[:index+1], epsilon)
		right := SimplifyPath(path[index:], epsilon)
		return append(left[:len(left)-1], right...)
	}

	return []models.Vector3{path[0], path[len(path)-1]}
}

// perpendicularDistance - 점에서 선분까지 수직 거리 (XZ 평면)
func perpendicularDistance(point, lineStart, lineEnd models.Vector3) float64 {
	dx := lineEnd.X - lineStart.X
	dz := lineEnd.Z - lineStart.Z

	if dx == 0 && dz == 0 {
		return point.XZDistanceTo(lineStart)
	}

	t := ((point.X-lineStart.X)*dx + (point.Z-lineStart.Z)*dz) / (dx*dx + dz*dz)
	t = math.Max(0, math.Min(1, t))

	projected := models.Vector3{
		X: lineStart.X + t*dx,
		Z: lineStart.Z + t*dz,
	}
	return point.XZDistanceTo(projected)
}
