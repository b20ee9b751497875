package models

// ========================================
// 사고 기록 (Thought)
// ========================================
//
// 에이전트 루프의 히스토리 한 항목. 결정 엔진과의 대화는
// <TAG>...</TAG> 블록 시퀀스로 직렬화된다.

// ThoughtKind - 사고 유형 태그
type ThoughtKind string

const (
	ThoughtHumanInput           ThoughtKind = "HUMAN_INPUT"           // 사람의 지시
	ThoughtObservations         ThoughtKind = "OBSERVATIONS"          // 행동 결과 관측
	ThoughtPlan                 ThoughtKind = "PLAN"                  // 계획
	ThoughtMemory               ThoughtKind = "MEMORY"                // 장기 기억 메모
	ThoughtActions              ThoughtKind = "ACTIONS"               // 행동 목록 (JSON)
	ThoughtIntermediateResponse ThoughtKind = "INTERMEDIATE_RESPONSE" // 중간 발화
	ThoughtFinalResponse        ThoughtKind = "FINAL_RESPONSE"        // 최종 발화
)

// KnownThoughtKinds - 파서가 인식하는 태그 집합
var KnownThoughtKinds = map[ThoughtKind]bool{
	ThoughtHumanInput:           true,
	ThoughtObservations:         true,
	ThoughtPlan:                 true,
	ThoughtMemory:               true,
	ThoughtActions:              true,
	ThoughtIntermediateResponse: true,
	ThoughtFinalResponse:        true,
}

// Thought - 히스토리 항목. 텍스트와 0개 이상의 사진을 가진다.
type Thought struct {
	Kind   ThoughtKind `json:"kind"`
	Text   string      `json:"text"`
	Photos []Photo     `json:"photos,omitempty"`
}

// HasPhotos - 사진 페이로드 보유 여부
func (t Thought) HasPhotos() bool {
	return len(t.Photos) > 0
}
