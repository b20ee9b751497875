package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeActions(t *testing.T) {
	actions, err := DecodeActions([]byte(`[{"type":"turnInPlace","degrees":30}]`))
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, ActionTurnInPlace, actions[0].Type)
	assert.Equal(t, 30.0, actions[0].Degrees)
}

func TestDecodeActionsMultiple(t *testing.T) {
	data := `[
		{"type":"move","distance":1.5},
		{"type":"moveTo","pointNumber":7},
		{"type":"scan360"},
		{"type":"backOut"}
	]`
	actions, err := DecodeActions([]byte(data))
	require.NoError(t, err)
	require.Len(t, actions, 4)
	assert.Equal(t, ActionMove, actions[0].Type)
	assert.Equal(t, 7, actions[1].PointNumber)
}

func TestDecodeActionsUnknownTypeFailsWholeBatch(t *testing.T) {
	// 하나라도 모르는 타입이면 전체가 실패해야 한다 (부분 실행 금지)
	data := `[{"type":"move","distance":1.0},{"type":"blastOff"}]`
	actions, err := DecodeActions([]byte(data))
	assert.Error(t, err)
	assert.Nil(t, actions)
	assert.Contains(t, err.Error(), "blastOff")
}

func TestDecodeActionsMalformedJSON(t *testing.T) {
	actions, err := DecodeActions([]byte(`이건 JSON이 아닙니다`))
	assert.Error(t, err)
	assert.Nil(t, actions)
}

func TestActionDescribe(t *testing.T) {
	assert.Equal(t, "move(distance=1.50m)", Action{Type: ActionMove, Distance: 1.5}.Describe())
	assert.Equal(t, "moveTo(point=3)", Action{Type: ActionMoveTo, PointNumber: 3}.Describe())
	assert.Equal(t, "scan360", Action{Type: ActionScan360}.Describe())
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeDegrees(360))
	assert.Equal(t, -170.0, NormalizeDegrees(190))
	assert.Equal(t, 170.0, NormalizeDegrees(-190))
	assert.Equal(t, 180.0, NormalizeDegrees(180))
	assert.Equal(t, 180.0, NormalizeDegrees(-180))
}

func TestHeadingForwardRoundTrip(t *testing.T) {
	for _, heading := range []float64{0, 45, 90, 135, -45, -90, -179} {
		forward := HeadingToForward(heading)
		assert.InDelta(t, heading, ForwardToHeading(forward), 1e-9)
	}
}
