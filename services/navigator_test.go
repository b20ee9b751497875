package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

func TestNavigatorRefreshFromSimulatedSensing(t *testing.T) {
	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	drive.SetPose(models.Vector3{}, 0)

	obstacle := SimObstacle{
		Center: models.Vector3{X: 1.0, Z: -1.0},
		Radius: 0.4,
		Height: 1.2,
	}
	sensing := NewSimulatedSensing(drive, []SimObstacle{obstacle}, time.Millisecond)

	cfg := DefaultNavigatorConfig()
	navigator := NewNavigatorWithGrid(cfg, sensing, NewMeshEvidenceSource(cfg), emptyGrid())

	require.NoError(t, navigator.Refresh(context.Background()))

	// 장애물 셀은 점유, 로봇 위치는 빈 공간
	assert.False(t, navigator.IsPositionClear(obstacle.Center))
	assert.True(t, navigator.IsPositionClear(models.Vector3{}))

	// 장애물을 관통하는 직선은 막힌다
	assert.False(t, navigator.IsLineUnobstructed(models.Vector3{}, models.Vector3{X: 2, Z: -2}))
	assert.True(t, navigator.IsLineUnobstructed(models.Vector3{}, models.Vector3{X: -2, Z: 2}))
}

func TestNavigatorPlanPathAvoidsObstacle(t *testing.T) {
	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	drive.SetPose(models.Vector3{}, 0)

	obstacle := SimObstacle{
		Center: models.Vector3{X: 0, Z: -1.5},
		Radius: 0.5,
		Height: 1.0,
	}
	sensing := NewSimulatedSensing(drive, []SimObstacle{obstacle}, time.Millisecond)

	cfg := DefaultNavigatorConfig()
	navigator := NewNavigatorWithGrid(cfg, sensing, NewMeshEvidenceSource(cfg), emptyGrid())
	require.NoError(t, navigator.Refresh(context.Background()))

	goal := models.Vector3{X: 0, Z: -3}
	path := navigator.PlanPath(models.Vector3{}, goal)
	require.NotEmpty(t, path)

	// 경로는 목표 근처에서 끝나고, 장애물 중심을 지나지 않는다
	last := path[len(path)-1]
	assert.LessOrEqual(t, last.XZDistanceTo(goal), cfg.CellSide)
	for _, waypoint := range path {
		assert.Greater(t, waypoint.XZDistanceTo(obstacle.Center), obstacle.Radius)
	}
}

func TestNavigatorClearResetsOccupancy(t *testing.T) {
	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	sensing := NewSimulatedSensing(drive, []SimObstacle{
		{Center: models.Vector3{X: 1, Z: -1}, Radius: 0.3, Height: 1.0},
	}, time.Millisecond)

	cfg := DefaultNavigatorConfig()
	navigator := NewNavigatorWithGrid(cfg, sensing, NewMeshEvidenceSource(cfg), emptyGrid())
	require.NoError(t, navigator.Refresh(context.Background()))
	require.NotEmpty(t, navigator.Snapshot().OccupiedCells())

	navigator.Clear()
	assert.Empty(t, navigator.Snapshot().OccupiedCells())
}

func TestNavigatorSnapshotIsIndependent(t *testing.T) {
	cfg := DefaultNavigatorConfig()
	navigator := NewNavigatorWithGrid(cfg, emptyFeed{}, NewMeshEvidenceSource(cfg), emptyGrid())

	snapshot := navigator.Snapshot()
	occupied := make([]float64, snapshot.NumCells())
	occupied[0] = 1.0
	snapshot.UpdateOccupancyFromArray(occupied)

	// 스냅샷을 더럽혀도 원본 그리드는 그대로
	assert.Empty(t, navigator.Snapshot().OccupiedCells())
}

func TestNavigatorMapMessage(t *testing.T) {
	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	sensing := NewSimulatedSensing(drive, []SimObstacle{
		{Center: models.Vector3{X: 1, Z: -1}, Radius: 0.3, Height: 1.0},
	}, time.Millisecond)

	cfg := DefaultNavigatorConfig()
	navigator := NewNavigatorWithGrid(cfg, sensing, NewMeshEvidenceSource(cfg), emptyGrid())
	require.NoError(t, navigator.Refresh(context.Background()))

	msg := navigator.MapMessage(models.Vector3{})
	require.NotNil(t, msg)
	assert.NotEmpty(t, msg.MapID)
	assert.Equal(t, 10.0, msg.Width)
	assert.Equal(t, 0.25, msg.CellSide)
	assert.NotEmpty(t, msg.Occupied)
}

func TestSensingNextFrameHonorsCancel(t *testing.T) {
	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	sensing := NewSimulatedSensing(drive, nil, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sensing.NextFrame(ctx)
	assert.Error(t, err)
}

func TestSensingHumanVisibility(t *testing.T) {
	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	sensing := NewSimulatedSensing(drive, nil, time.Millisecond)

	_, visible := sensing.HumanPosition()
	assert.False(t, visible)

	sensing.SetHuman(models.Vector3{X: 2, Y: 1.7, Z: -1}, true)
	human, visible := sensing.HumanPosition()
	require.True(t, visible)
	assert.Equal(t, 0.0, human.Y) // 평면 투영
	assert.Equal(t, 2.0, human.X)
}
