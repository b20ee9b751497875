package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

func TestLLMServiceGenerate(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		json.NewEncoder(w).Encode(map[string]string{
			"response": "<PLAN>테스트 계획</PLAN>",
		})
	}))
	defer server.Close()

	service := &LLMService{BaseURL: server.URL, Model: "llama3.2-vision"}

	photos := []models.Photo{
		{Name: "photo001", Base64: "aGVsbG8="},
		{Name: "photo002"}, // base64 없는 사진은 보내지 않는다
	}
	response, err := service.Generate(context.Background(),
		"시스템 프롬프트", "<HUMAN_INPUT>테스트</HUMAN_INPUT>", photos, []string{"<OBSERVATIONS>"})

	require.NoError(t, err)
	assert.Equal(t, "<PLAN>테스트 계획</PLAN>", response)

	assert.Equal(t, "llama3.2-vision", captured["model"])
	assert.Equal(t, "시스템 프롬프트", captured["system"])
	assert.Equal(t, false, captured["stream"])

	images, ok := captured["images"].([]interface{})
	require.True(t, ok)
	require.Len(t, images, 1)
	assert.Equal(t, "aGVsbG8=", images[0])

	options, ok := captured["options"].(map[string]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, options["stop"])
}

func TestLLMServiceGenerateEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": ""})
	}))
	defer server.Close()

	service := &LLMService{BaseURL: server.URL, Model: "llama3.2-vision"}
	_, err := service.Generate(context.Background(), "s", "p", nil, nil)
	assert.Error(t, err)
}

func TestLLMServiceGenerateUnreachable(t *testing.T) {
	service := &LLMService{BaseURL: "http://127.0.0.1:1", Model: "llama3.2-vision"}
	_, err := service.Generate(context.Background(), "s", "p", nil, nil)
	assert.Error(t, err)
}
