package services

import (
	"strings"

	"robart-backend/models"
)

// ========================================
// 응답 해석기
// ========================================
//
// 결정 엔진의 응답을 <TAG>본문</TAG> 블록 시퀀스로 해석한다.
// 블록은 중첩되지 않는다. 모르는 태그는 건너뛰고, 마지막 블록의
// 닫는 태그가 잘려 있어도 본문으로 받아들인다 (스트리밍 중단 대응).

// ParseThoughts - 응답 텍스트 → 사고 목록
func ParseThoughts(text string) []models.Thought {
	var thoughts []models.Thought

	pos := 0
	for pos < len(text) {
		open := strings.Index(text[pos:], "<")
		if open < 0 {
			break
		}
		pos += open

		kind, bodyStart, ok := parseOpenTag(text, pos)
		if !ok {
			pos++
			continue
		}

		closeTag := "</" + string(kind) + ">"
		bodyEnd := strings.Index(text[bodyStart:], closeTag)
		if bodyEnd < 0 {
			// 닫는 태그 없이 끝남: 남은 전부를 본문으로
			thoughts = append(thoughts, models.Thought{
				Kind: kind,
				Text: strings.TrimSpace(text[bodyStart:]),
			})
			break
		}

		thoughts = append(thoughts, models.Thought{
			Kind: kind,
			Text: strings.TrimSpace(text[bodyStart : bodyStart+bodyEnd]),
		})
		pos = bodyStart + bodyEnd + len(closeTag)
	}

	return thoughts
}

// parseOpenTag - pos 위치의 여는 태그 해석.
// 인식 가능한 태그면 (유형, 본문 시작 위치, true)를 반환한다.
func parseOpenTag(text string, pos int) (models.ThoughtKind, int, bool) {
	end := strings.Index(text[pos:], ">")
	if end < 0 {
		return "", 0, false
	}

	name := text[pos+1 : pos+end]
	if !isTagName(name) {
		return "", 0, false
	}

	kind := models.ThoughtKind(name)
	if !models.KnownThoughtKinds[kind] {
		return "", 0, false
	}
	return kind, pos + end + 1, true
}

// isTagName - 태그 이름 형식 검사 (대문자 + 밑줄)
func isTagName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return true
}

// ExtractActionsJSON - ACTIONS 본문에서 JSON 배열을 뽑아낸다.
// 엔진이 마크다운 코드 펜스로 감싸는 경우를 허용한다.
func ExtractActionsJSON(text string) string {
	trimmed := strings.TrimSpace(text)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	return trimmed
}
