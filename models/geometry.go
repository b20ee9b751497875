package models

import "math"

// ========================================
// 월드 좌표계 기하 타입
// ========================================
//
// 좌표계는 ARKit 규약을 따른다: +X 오른쪽, +Y 위, +Z 뒤.
// 평면 주행은 XZ 평면에서 이루어지며 Y는 높이로만 쓰인다.

// Vector3 - 3차원 월드 좌표 / 방향 벡터
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vector3) Add(rhs Vector3) Vector3 {
	return Vector3{X: v.X + rhs.X, Y: v.Y + rhs.Y, Z: v.Z + rhs.Z}
}

func (v Vector3) Sub(rhs Vector3) Vector3 {
	return Vector3{X: v.X - rhs.X, Y: v.Y - rhs.Y, Z: v.Z - rhs.Z}
}

func (v Vector3) Scale(s float64) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vector3) Dot(rhs Vector3) float64 {
	return v.X*rhs.X + v.Y*rhs.Y + v.Z*rhs.Z
}

func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

// Normalized - 단위 벡터 (영벡터는 그대로 반환)
func (v Vector3) Normalized() Vector3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return v.Scale(1.0 / length)
}

func (v Vector3) DistanceTo(rhs Vector3) float64 {
	return v.Sub(rhs).Length()
}

// XZDistanceTo - 높이를 무시한 평면 거리
func (v Vector3) XZDistanceTo(rhs Vector3) float64 {
	dx := v.X - rhs.X
	dz := v.Z - rhs.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// XZProjected - XZ 평면으로 투영 (Y=0)
func (v Vector3) XZProjected() Vector3 {
	return Vector3{X: v.X, Y: 0, Z: v.Z}
}

// Matrix4 - 4x4 행렬 (행 우선). 카메라 → 월드 변환에 사용.
type Matrix4 [4][4]float64

// Identity4 - 단위 행렬
func Identity4() Matrix4 {
	return Matrix4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

// TransformPoint - 점 변환 (w=1)
func (m Matrix4) TransformPoint(p Vector3) Vector3 {
	return Vector3{
		X: m[0][0]*p.X + m[0][1]*p.Y + m[0][2]*p.Z + m[0][3],
		Y: m[1][0]*p.X + m[1][1]*p.Y + m[1][2]*p.Z + m[1][3],
		Z: m[2][0]*p.X + m[2][1]*p.Y + m[2][2]*p.Z + m[2][3],
	}
}

// TranslationMatrix - 이동 행렬
func TranslationMatrix(t Vector3) Matrix4 {
	m := Identity4()
	m[0][3] = t.X
	m[1][3] = t.Y
	m[2][3] = t.Z
	return m
}

// ========================================
// 각도 유틸리티
// ========================================

// HeadingToForward - 진행 방향 각도(도, 반시계 양수) → -Z 기준 전방 벡터
func HeadingToForward(degrees float64) Vector3 {
	rad := degrees * math.Pi / 180.0
	return Vector3{X: -math.Sin(rad), Y: 0, Z: -math.Cos(rad)}
}

// ForwardToHeading - 전방 벡터 → 진행 방향 각도(도)
func ForwardToHeading(forward Vector3) float64 {
	return math.Atan2(-forward.X, -forward.Z) * 180.0 / math.Pi
}

// NormalizeDegrees - 각도를 (-180, 180] 범위로 정규화
func NormalizeDegrees(degrees float64) float64 {
	d := math.Mod(degrees, 360.0)
	if d > 180.0 {
		d -= 360.0
	} else if d <= -180.0 {
		d += 360.0
	}
	return d
}

// AngleBetweenDegrees - 두 전방 벡터 사이 부호 있는 각도(도)
func AngleBetweenDegrees(a, b Vector3) float64 {
	return NormalizeDegrees(ForwardToHeading(b) - ForwardToHeading(a))
}
