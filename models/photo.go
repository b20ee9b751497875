package models

import "time"

// ========================================
// 사진 + 이동 가능 지점
// ========================================

// NavigablePoint - 사진에 라벨링된 바닥 지점.
// ID는 세션 내에서 안정적으로 유지되는 작은 정수이며 한 번 부여되면
// 재사용되지 않는다. 결정 엔진이 "point 7로 이동" 식으로 참조한다.
type NavigablePoint struct {
	ID        int     `json:"id"`
	Position  Vector3 `json:"position"`
	PhotoName string  `json:"photo_name"` // 이 지점이 처음 관측된 사진
}

// Photo - 어노테이션 카메라가 촬영한 이미지.
// 이미지 픽셀 자체는 외부 서브시스템이 만든 불투명 페이로드다.
type Photo struct {
	ID        string           `json:"id"`         // uuid
	Name      string           `json:"name"`       // "photo003" 형태
	Base64    string           `json:"-"`          // JPEG base64 (결정 엔진 전송용)
	Points    []NavigablePoint `json:"points"`     // 라벨링된 바닥 지점
	Position  Vector3          `json:"position"`   // 촬영 시 로봇 위치
	Heading   float64          `json:"heading"`    // 촬영 시 진행 방향 (도)
	CreatedAt time.Time        `json:"created_at"`
}
