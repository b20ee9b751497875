package services

import (
	"sort"
	"sync"

	"robart-backend/models"
)

// ========================================
// 탐색 가능 지점 테이블
// ========================================

// NavigablePointTable - 사진에 찍힌 탐색 가능 지점의 ID 장부.
// 그리드 셀(선형 인덱스)마다 처음 관측된 시점에 작은 정수 ID를 배정하고,
// 같은 셀이 다시 관측되면 같은 ID를 돌려준다. ID는 재사용되지 않으며
// 임무 경계에서만 Clear로 비운다.
type NavigablePointTable struct {
	mu       sync.Mutex
	nextID   int
	idByCell map[int]int
	byID     map[int]models.NavigablePoint
}

// NewNavigablePointTable - 지점 테이블 생성
func NewNavigablePointTable() *NavigablePointTable {
	return &NavigablePointTable{
		nextID:   1,
		idByCell: make(map[int]int),
		byID:     make(map[int]models.NavigablePoint),
	}
}

// Observe - 셀 관측 등록. 처음 보는 셀이면 새 ID를 배정한다.
func (t *NavigablePointTable) Observe(cellIndex int, position models.Vector3, photoName string) models.NavigablePoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.idByCell[cellIndex]; ok {
		point := t.byID[id]
		point.PhotoName = photoName // 가장 최근 사진으로 갱신
		t.byID[id] = point
		return point
	}

	point := models.NavigablePoint{
		ID:        t.nextID,
		Position:  position,
		PhotoName: photoName,
	}
	t.nextID++
	t.idByCell[cellIndex] = point.ID
	t.byID[point.ID] = point
	return point
}

// Lookup - ID로 지점 조회
func (t *NavigablePointTable) Lookup(id int) (models.NavigablePoint, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	point, ok := t.byID[id]
	return point, ok
}

// All - 등록된 모든 지점 (ID 오름차순)
func (t *NavigablePointTable) All() []models.NavigablePoint {
	t.mu.Lock()
	defer t.mu.Unlock()

	points := make([]models.NavigablePoint, 0, len(t.byID))
	for _, point := range t.byID {
		points = append(points, point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].ID < points[j].ID })
	return points
}

// Len - 등록된 지점 수
func (t *NavigablePointTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byID)
}

// Clear - 테이블 리셋. 임무 경계에서만 호출한다.
func (t *NavigablePointTable) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.nextID = 1
	t.idByCell = make(map[int]int)
	t.byID = make(map[int]models.NavigablePoint)
}
