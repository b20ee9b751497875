package models

import "time"

// ========================================
// 점유 그리드 스냅샷 메시지
// ========================================

// OccupiedCell - 점유된 셀의 그리드 인덱스
type OccupiedCell struct {
	CellX int `json:"cell_x"`
	CellZ int `json:"cell_z"`
}

// MapUpdateMessage - 웹 뷰어용 점유 그리드 스냅샷.
// 전체 셀 배열 대신 점유 셀 목록만 보낸다 (대부분 비어 있음).
type MapUpdateMessage struct {
	MapID     string         `json:"map_id"`
	Width     float64        `json:"width"`      // 미터
	Depth     float64        `json:"depth"`      // 미터
	CellSide  float64        `json:"cell_side"`  // 미터
	CellsWide int            `json:"cells_wide"`
	CellsDeep int            `json:"cells_deep"`
	Center    Vector3        `json:"center"`
	Occupied  []OccupiedCell `json:"occupied"`
	RobotCell OccupiedCell   `json:"robot_cell"`
	CreatedAt time.Time      `json:"created_at"`
}
