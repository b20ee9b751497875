package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"robart-backend/algorithms"
	"robart-backend/models"
)

// PathfindingRequest - 디버그 경로 계획 요청.
// 내비게이터의 현재 점유 그리드 위에서 A*를 돌린다. 장애물을 직접
// 주면 독립 그리드를 만들어 계획한다 (프론트엔드 디버깅용).
type PathfindingRequest struct {
	Start       models.Vector3 `json:"start"`
	Goal        models.Vector3 `json:"goal"`
	AgentRadius float64        `json:"agent_radius"`

	// 독립 그리드 모드 (선택)
	Width     float64          `json:"width,omitempty"`
	Depth     float64          `json:"depth,omitempty"`
	CellSide  float64          `json:"cell_side,omitempty"`
	Obstacles []models.Vector3 `json:"obstacles,omitempty"`
}

type PathfindingResponse struct {
	Success bool             `json:"success"`
	Path    []models.Vector3 `json:"path,omitempty"`
	Length  float64          `json:"length,omitempty"`
	Message string           `json:"message,omitempty"`
}

// HandlePathfinding - 경로 계획 (디버그 API)
func HandlePathfinding(c *fiber.Ctx) error {
	var req PathfindingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
			Success: false,
			Message: "잘못된 요청 형식입니다",
		})
	}

	log.Printf("📍 경로 탐색 요청: (%.1f, %.1f) → (%.1f, %.1f), 반경 %.2fm",
		req.Start.X, req.Start.Z, req.Goal.X, req.Goal.Z, req.AgentRadius)

	var path []models.Vector3

	if len(req.Obstacles) > 0 || req.Width > 0 {
		// 독립 그리드 모드
		grid, message := buildRequestGrid(req)
		if grid == nil {
			return c.Status(fiber.StatusBadRequest).JSON(PathfindingResponse{
				Success: false,
				Message: message,
			})
		}
		path = algorithms.FindPath(grid, req.Start, req.Goal, req.AgentRadius)
	} else {
		// 내비게이터의 실제 점유 그리드 사용
		if NavigatorSvc == nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(PathfindingResponse{
				Success: false,
				Message: "내비게이터가 초기화되지 않았습니다",
			})
		}
		path = NavigatorSvc.PlanPath(req.Start, req.Goal)
	}

	if len(path) == 0 {
		log.Printf("❌ 경로를 찾을 수 없습니다")
		return c.JSON(PathfindingResponse{
			Success: false,
			Message: "경로를 찾을 수 없습니다",
		})
	}

	log.Printf("✅ 경로 탐색 성공: %d개 웨이포인트", len(path))
	return c.JSON(PathfindingResponse{
		Success: true,
		Path:    path,
		Length:  algorithms.PathLength(req.Start, path),
		Message: "경로 탐색 성공",
	})
}

// buildRequestGrid - 요청에 담긴 장애물로 독립 그리드 구성
func buildRequestGrid(req PathfindingRequest) (*algorithms.OccupancyGrid, string) {
	width, depth, cellSide := req.Width, req.Depth, req.CellSide
	if width <= 0 {
		width = 20.0
	}
	if depth <= 0 {
		depth = 20.0
	}
	if cellSide <= 0 {
		cellSide = 0.25
	}
	if cellSide > width || cellSide > depth {
		return nil, "cell_side가 그리드 크기보다 큽니다"
	}

	grid := algorithms.NewOccupancyGrid(width, depth, cellSide, models.Vector3{})
	occupied := make([]float64, grid.NumCells())
	for _, obstacle := range req.Obstacles {
		cell := grid.PositionToCell(obstacle)
		occupied[grid.LinearIndex(cell.CellX, cell.CellZ)] = 1.0
	}
	grid.UpdateOccupancyFromArray(occupied)
	return grid, ""
}

// HandleGetMap - 점유 그리드 스냅샷 조회
func HandleGetMap(c *fiber.Ctx) error {
	if NavigatorSvc == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "내비게이터가 초기화되지 않았습니다",
		})
	}

	robotPosition := models.Vector3{}
	if DriveSvc != nil {
		robotPosition = DriveSvc.Position()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"map":     NavigatorSvc.MapMessage(robotPosition),
	})
}
