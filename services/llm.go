package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"robart-backend/models"
)

// ========================================
// 결정 엔진
// ========================================

// DecisionEngine - 에이전트 루프의 추론 백엔드.
// 프롬프트 + 사진을 주면 태그 블록 형식의 응답 텍스트를 돌려준다.
// stop 시퀀스를 만나면 생성을 중단한다.
type DecisionEngine interface {
	Generate(ctx context.Context, systemPrompt, prompt string, photos []models.Photo, stop []string) (string, error)
}

// LLMService - Ollama 기반 결정 엔진
type LLMService struct {
	BaseURL string
	Model   string
}

// NewLLMServiceFromEnv - 환경 변수에서 Ollama 설정 읽기
func NewLLMServiceFromEnv() *LLMService {
	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "llama3.2-vision"
	}

	log.Printf("✅ LLMService 초기화 (provider=ollama, baseURL=%s, model=%s)", baseURL, model)

	return &LLMService{
		BaseURL: baseURL,
		Model:   model,
	}
}

// Generate - 결정 엔진 호출.
// 사진은 base64 이미지 배열로 함께 보낸다 (비전 모델 가정).
func (s *LLMService) Generate(ctx context.Context, systemPrompt, prompt string, photos []models.Photo, stop []string) (string, error) {
	start := time.Now() // ⏱️ 시작 시간

	var images []string
	for _, photo := range photos {
		if photo.Base64 != "" {
			images = append(images, photo.Base64)
		}
	}

	body := map[string]interface{}{
		"model":  s.Model,
		"system": systemPrompt,
		"prompt": prompt,
		"stream": false,
	}
	if len(images) > 0 {
		body["images"] = images
	}
	if len(stop) > 0 {
		body["options"] = map[string]interface{}{"stop": stop}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("ollama 요청 JSON 마샬링 실패: %v", err)
	}

	url := s.BaseURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("ollama 요청 생성 실패: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 120 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama 호출 실패: %v", err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama 응답 읽기 실패: %v", err)
	}

	var result struct {
		Response string `json:"response"`
	}

	if err := json.Unmarshal(b, &result); err != nil {
		return "", fmt.Errorf("ollama 응답 파싱 실패: %v (body=%s)", err, string(b))
	}

	if result.Response == "" {
		return "", fmt.Errorf("ollama 응답이 비어있습니다: %s", string(b))
	}

	elapsed := time.Since(start) // ⏱️ 소요 시간
	log.Printf("⏱️ Ollama 응답 시간: %.2f초 (모델: %s, 사진 %d장)", elapsed.Seconds(), s.Model, len(images))

	return result.Response, nil
}
