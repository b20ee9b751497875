package services

import (
	"strings"

	"robart-backend/models"
)

// ========================================
// 사고 히스토리
// ========================================

// PrunePolicy - 히스토리 가지치기 정책.
// 유형별로 가장 최근 N개만 유지한다. 정책에 없는 유형
// (HUMAN_INPUT, FINAL_RESPONSE)은 항상 유지된다.
type PrunePolicy struct {
	KeepActions               int // ACTIONS 유지 개수
	KeepObservations          int // OBSERVATIONS 유지 개수
	KeepPlans                 int // PLAN 유지 개수
	KeepMemories              int // MEMORY 유지 개수
	KeepIntermediateResponses int // INTERMEDIATE_RESPONSE 유지 개수 (보통 0)
	KeepPhotoThoughts         int // 사진을 유지할 최근 사진 보유 항목 수
}

// DefaultPrunePolicy - 컨텍스트 예산에 맞춘 기본 정책
func DefaultPrunePolicy() PrunePolicy {
	return PrunePolicy{
		KeepActions:               4,
		KeepObservations:          3,
		KeepPlans:                 2,
		KeepMemories:              6,
		KeepIntermediateResponses: 0,
		KeepPhotoThoughts:         2,
	}
}

// ThoughtHistory - 에이전트 루프의 사고 히스토리.
// 루프 고루틴 하나만 만지므로 동기화하지 않는다.
type ThoughtHistory struct {
	thoughts []models.Thought
}

// NewThoughtHistory - 빈 히스토리 생성
func NewThoughtHistory() *ThoughtHistory {
	return &ThoughtHistory{}
}

// Append - 항목 추가
func (h *ThoughtHistory) Append(thought models.Thought) {
	h.thoughts = append(h.thoughts, thought)
}

// Thoughts - 현재 항목들 (시간순)
func (h *ThoughtHistory) Thoughts() []models.Thought {
	return h.thoughts
}

// Len - 항목 수
func (h *ThoughtHistory) Len() int {
	return len(h.thoughts)
}

// Last - 마지막 항목
func (h *ThoughtHistory) Last() (models.Thought, bool) {
	if len(h.thoughts) == 0 {
		return models.Thought{}, false
	}
	return h.thoughts[len(h.thoughts)-1], true
}

// Prune - 정책에 따라 히스토리를 가지치기한다.
// 유지되는 항목들의 상대 순서는 바뀌지 않는다. 사진은 가장 최근
// KeepPhotoThoughts개의 사진 보유 항목에만 남기고 떼어낸다.
func (h *ThoughtHistory) Prune(policy PrunePolicy) {
	limits := map[models.ThoughtKind]int{
		models.ThoughtActions:              policy.KeepActions,
		models.ThoughtObservations:         policy.KeepObservations,
		models.ThoughtPlan:                 policy.KeepPlans,
		models.ThoughtMemory:               policy.KeepMemories,
		models.ThoughtIntermediateResponse: policy.KeepIntermediateResponses,
	}

	// 뒤에서부터 유형별 개수를 세어 유지 여부 결정
	keep := make([]bool, len(h.thoughts))
	counts := make(map[models.ThoughtKind]int)
	for i := len(h.thoughts) - 1; i >= 0; i-- {
		limit, limited := limits[h.thoughts[i].Kind]
		if !limited {
			keep[i] = true
			continue
		}
		if counts[h.thoughts[i].Kind] < limit {
			keep[i] = true
			counts[h.thoughts[i].Kind]++
		}
	}

	pruned := make([]models.Thought, 0, len(h.thoughts))
	for i, thought := range h.thoughts {
		if keep[i] {
			pruned = append(pruned, thought)
		}
	}

	// 사진은 최근 항목들에만 남긴다 (컨텍스트 절약)
	photoBudget := policy.KeepPhotoThoughts
	for i := len(pruned) - 1; i >= 0; i-- {
		if !pruned[i].HasPhotos() {
			continue
		}
		if photoBudget > 0 {
			photoBudget--
			continue
		}
		pruned[i].Photos = nil
	}

	h.thoughts = pruned
}

// Render - 히스토리를 결정 엔진 프롬프트 텍스트로 직렬화한다.
// 각 항목은 <TAG>본문</TAG> 블록이 된다.
func (h *ThoughtHistory) Render() string {
	var sb strings.Builder
	for _, thought := range h.thoughts {
		sb.WriteString("<")
		sb.WriteString(string(thought.Kind))
		sb.WriteString(">")
		sb.WriteString(thought.Text)
		sb.WriteString("</")
		sb.WriteString(string(thought.Kind))
		sb.WriteString(">\n")
	}
	return sb.String()
}

// Photos - 히스토리에 남아 있는 사진들 (시간순)
func (h *ThoughtHistory) Photos() []models.Photo {
	var photos []models.Photo
	for _, thought := range h.thoughts {
		photos = append(photos, thought.Photos...)
	}
	return photos
}

// Reset - 히스토리 비우기 (임무 경계)
func (h *ThoughtHistory) Reset() {
	h.thoughts = nil
}
