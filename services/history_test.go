package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

func observation(text string, photos ...models.Photo) models.Thought {
	return models.Thought{Kind: models.ThoughtObservations, Text: text, Photos: photos}
}

func TestPruneKeepsMostRecentPerKind(t *testing.T) {
	history := NewThoughtHistory()
	history.Append(models.Thought{Kind: models.ThoughtHumanInput, Text: "노트북 찾아줘"})
	for i := 1; i <= 5; i++ {
		history.Append(observation(fmt.Sprintf("관측%d", i)))
	}
	history.Append(models.Thought{Kind: models.ThoughtPlan, Text: "계획1"})
	history.Append(models.Thought{Kind: models.ThoughtPlan, Text: "계획2"})
	history.Append(models.Thought{Kind: models.ThoughtPlan, Text: "계획3"})

	history.Prune(PrunePolicy{KeepObservations: 3, KeepPlans: 2, KeepPhotoThoughts: 2})

	var texts []string
	for _, thought := range history.Thoughts() {
		texts = append(texts, thought.Text)
	}
	// 지시는 항상 유지, 관측은 최근 3개, 계획은 최근 2개 (순서 보존)
	assert.Equal(t, []string{"노트북 찾아줘", "관측3", "관측4", "관측5", "계획2", "계획3"}, texts)
}

func TestPruneDropsIntermediateResponses(t *testing.T) {
	history := NewThoughtHistory()
	history.Append(models.Thought{Kind: models.ThoughtIntermediateResponse, Text: "찾아볼게요"})
	history.Append(models.Thought{Kind: models.ThoughtFinalResponse, Text: "다 찾았어요"})

	history.Prune(DefaultPrunePolicy())

	require.Equal(t, 1, history.Len())
	last, ok := history.Last()
	require.True(t, ok)
	assert.Equal(t, models.ThoughtFinalResponse, last.Kind)
}

func TestPruneStripsOldPhotos(t *testing.T) {
	photo := func(name string) models.Photo {
		return models.Photo{Name: name, Base64: "aGVsbG8="}
	}
	history := NewThoughtHistory()
	history.Append(observation("첫번째", photo("photo001")))
	history.Append(observation("두번째", photo("photo002")))
	history.Append(observation("세번째", photo("photo003")))

	history.Prune(PrunePolicy{KeepObservations: 10, KeepPhotoThoughts: 1})

	require.Equal(t, 3, history.Len())
	thoughts := history.Thoughts()
	assert.False(t, thoughts[0].HasPhotos())
	assert.False(t, thoughts[1].HasPhotos())
	assert.True(t, thoughts[2].HasPhotos())

	photos := history.Photos()
	require.Len(t, photos, 1)
	assert.Equal(t, "photo003", photos[0].Name)
}

func TestRenderTagBlocks(t *testing.T) {
	history := NewThoughtHistory()
	history.Append(models.Thought{Kind: models.ThoughtHumanInput, Text: "문 앞으로 가"})
	history.Append(models.Thought{Kind: models.ThoughtPlan, Text: "지점 2로 이동"})

	rendered := history.Render()
	assert.Equal(t, "<HUMAN_INPUT>문 앞으로 가</HUMAN_INPUT>\n<PLAN>지점 2로 이동</PLAN>\n", rendered)
}

func TestResetClearsHistory(t *testing.T) {
	history := NewThoughtHistory()
	history.Append(models.Thought{Kind: models.ThoughtPlan, Text: "계획"})
	history.Reset()
	assert.Equal(t, 0, history.Len())
	_, ok := history.Last()
	assert.False(t, ok)
}
