package models

import "time"

// ========================================
// 센싱 프레임 데이터
// ========================================

// CameraIntrinsics - 카메라 내부 파라미터 (핀홀 모델)
type CameraIntrinsics struct {
	Fx float64 `json:"fx"` // 초점 거리 X (픽셀)
	Fy float64 `json:"fy"` // 초점 거리 Y (픽셀)
	Cx float64 `json:"cx"` // 주점 X (픽셀)
	Cy float64 `json:"cy"` // 주점 Y (픽셀)
}

// DepthImage - 깊이 이미지 (행 우선, 미터 단위)
type DepthImage struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Values []float64 `json:"-"`
}

// At - (x, y) 픽셀의 깊이 값
func (d *DepthImage) At(x, y int) float64 {
	return d.Values[y*d.Width+x]
}

// MeshFragment - 씬 재구성 메시 조각 (정점 + 조각별 변환)
type MeshFragment struct {
	Vertices  []Vector3 `json:"-"`  // 로컬 좌표 정점
	Triangles []int     `json:"-"`  // 정점 인덱스 3개씩
	Transform Matrix4   `json:"-"`  // 로컬 → 월드
	ID        string    `json:"id"`
}

// Frame - 센싱 피드가 넘겨주는 한 사이클 분량의 관측 데이터.
// 깊이 이미지 경로와 메시 경로 중 하나만 채워질 수 있다.
type Frame struct {
	Timestamp  time.Time        `json:"timestamp"`
	Intrinsics CameraIntrinsics `json:"intrinsics"`
	ViewMatrix Matrix4          `json:"-"` // 카메라 → 월드
	Depth      *DepthImage      `json:"-"`
	Meshes     []MeshFragment   `json:"-"`

	// 프레임에서 유도한 로봇 포즈
	Position Vector3 `json:"position"`
	Forward  Vector3 `json:"forward"`
	Heading  float64 `json:"heading"` // 도 단위
}
