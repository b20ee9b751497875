package models

import (
	"encoding/json"
	"fmt"
)

// ========================================
// 행동 (Action)
// ========================================
//
// 결정 엔진의 ACTIONS 블록에 들어 있는 JSON 배열을 디코딩한 결과.
// type 필드가 명시적 판별자이며, 알 수 없는 타입이 하나라도 있으면
// 배치 전체가 디코드 실패한다 (부분 실행 금지).

// ActionType - 행동 판별자
type ActionType string

const (
	ActionMove              ActionType = "move"              // 전/후진 (미터, 음수 = 후진)
	ActionMoveTo            ActionType = "moveTo"            // 지점 번호로 이동
	ActionTurnInPlace       ActionType = "turnInPlace"       // 제자리 회전 (도, 반시계 양수)
	ActionFaceToward        ActionType = "faceToward"        // 지점을 바라보기
	ActionFaceTowardHeading ActionType = "faceTowardHeading" // 특정 방위를 바라보기
	ActionScan360           ActionType = "scan360"           // 360도 스캔 촬영
	ActionTakePhoto         ActionType = "takePhoto"         // 사진 한 장 촬영
	ActionBackOut           ActionType = "backOut"           // 막힌 곳에서 후진 탈출
	ActionFollowHuman       ActionType = "followHuman"       // 사람 따라가기
)

// Action - 단일 행동. 타입에 따라 쓰이는 필드가 다르다.
type Action struct {
	Type        ActionType `json:"type"`
	Distance    float64    `json:"distance,omitempty"`    // move, followHuman
	PointNumber int        `json:"pointNumber,omitempty"` // moveTo, faceToward
	Degrees     float64    `json:"degrees,omitempty"`     // turnInPlace, faceTowardHeading
	Seconds     float64    `json:"seconds,omitempty"`     // followHuman
}

// DecodeActions - JSON 배열을 행동 목록으로 디코딩.
// 알 수 없는 타입이나 형식 오류는 전체 실패로 처리한다.
func DecodeActions(data []byte) ([]Action, error) {
	var actions []Action
	if err := json.Unmarshal(data, &actions); err != nil {
		return nil, fmt.Errorf("행동 JSON 파싱 실패: %v", err)
	}

	for i, action := range actions {
		if !isKnownActionType(action.Type) {
			return nil, fmt.Errorf("알 수 없는 행동 타입 [%d]: %q", i, action.Type)
		}
	}

	return actions, nil
}

func isKnownActionType(t ActionType) bool {
	switch t {
	case ActionMove, ActionMoveTo, ActionTurnInPlace, ActionFaceToward,
		ActionFaceTowardHeading, ActionScan360, ActionTakePhoto,
		ActionBackOut, ActionFollowHuman:
		return true
	}
	return false
}

// Describe - 로그/관측 문자열용 행동 요약
func (a Action) Describe() string {
	switch a.Type {
	case ActionMove:
		return fmt.Sprintf("move(distance=%.2fm)", a.Distance)
	case ActionMoveTo:
		return fmt.Sprintf("moveTo(point=%d)", a.PointNumber)
	case ActionTurnInPlace:
		return fmt.Sprintf("turnInPlace(degrees=%.1f)", a.Degrees)
	case ActionFaceToward:
		return fmt.Sprintf("faceToward(point=%d)", a.PointNumber)
	case ActionFaceTowardHeading:
		return fmt.Sprintf("faceTowardHeading(degrees=%.1f)", a.Degrees)
	case ActionFollowHuman:
		return fmt.Sprintf("followHuman(distance=%.1fm, seconds=%.1f)", a.Distance, a.Seconds)
	default:
		return string(a.Type)
	}
}
