package services

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

// waitUntilStopped - 주행이 끝날 때까지 대기 (테스트 헬퍼)
func waitUntilStopped(t *testing.T, drive *SimulatedDrive, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !drive.IsMoving() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("주행이 %v 안에 끝나지 않음", timeout)
}

func newTestDrive(t *testing.T) *SimulatedDrive {
	t.Helper()
	drive := NewSimulatedDrive(2*time.Millisecond, nil)
	drive.Start()
	t.Cleanup(drive.Shutdown)
	return drive
}

func TestSimulatedDriveForward(t *testing.T) {
	drive := newTestDrive(t)
	drive.SetPose(models.Vector3{}, 0) // 방향 0도 = -Z 방향

	drive.DriveForward(1.0)
	waitUntilStopped(t, drive, 3*time.Second)

	pos := drive.Position()
	assert.InDelta(t, 0.0, pos.X, 0.1)
	assert.InDelta(t, -1.0, pos.Z, 0.1)
}

func TestSimulatedDriveBackward(t *testing.T) {
	drive := newTestDrive(t)
	drive.SetPose(models.Vector3{}, 0)

	drive.DriveForward(-0.5)
	waitUntilStopped(t, drive, 3*time.Second)

	assert.InDelta(t, 0.5, drive.Position().Z, 0.1)
}

func TestSimulatedDriveRotateInPlace(t *testing.T) {
	drive := newTestDrive(t)
	drive.SetPose(models.Vector3{}, 0)

	drive.RotateInPlaceBy(90)
	waitUntilStopped(t, drive, 3*time.Second)

	assert.InDelta(t, 90.0, drive.Heading(), 1.0)
	// 제자리 회전이므로 위치는 그대로
	assert.InDelta(t, 0.0, drive.Position().Length(), 0.01)
}

func TestSimulatedDriveToFacing(t *testing.T) {
	drive := newTestDrive(t)
	drive.SetPose(models.Vector3{}, 0)

	drive.DriveToFacing(models.Vector3{X: 1, Z: -1}, models.HeadingToForward(180))
	waitUntilStopped(t, drive, 5*time.Second)

	pos := drive.Position()
	assert.InDelta(t, 1.0, pos.X, 0.1)
	assert.InDelta(t, -1.0, pos.Z, 0.1)
	assert.InDelta(t, 180.0, math.Abs(drive.Heading()), 1.0)
}

func TestSimulatedDriveStopPreemptsCommand(t *testing.T) {
	drive := newTestDrive(t)
	drive.SetPose(models.Vector3{}, 0)

	drive.DriveTo(models.Vector3{X: 10, Z: -10})
	time.Sleep(20 * time.Millisecond)
	require.True(t, drive.IsMoving())

	drive.Stop()
	assert.False(t, drive.IsMoving())

	// 정지 후 위치가 더 이상 변하지 않는다
	pos := drive.Position()
	time.Sleep(20 * time.Millisecond)
	after := drive.Position()
	assert.InDelta(t, 0.0, after.Sub(pos).Length(), 1e-9)
}

func TestSimulatedDriveNewCommandPreemptsOld(t *testing.T) {
	drive := newTestDrive(t)
	drive.SetPose(models.Vector3{}, 0)

	drive.DriveTo(models.Vector3{X: 10, Z: 0})
	time.Sleep(20 * time.Millisecond)
	drive.DriveTo(models.Vector3{X: 0, Z: -0.3})
	waitUntilStopped(t, drive, 3*time.Second)

	// 최종 위치는 두 번째 목표 지점
	pos := drive.Position()
	assert.InDelta(t, 0.0, pos.X, 0.1)
	assert.InDelta(t, -0.3, pos.Z, 0.1)
}

func TestSimulatedDriveThrottle(t *testing.T) {
	drive := newTestDrive(t)
	drive.SetPose(models.Vector3{}, 0)

	drive.Drive(0.5, 0.5) // 직진 절반 스로틀
	time.Sleep(100 * time.Millisecond)
	drive.Stop()

	// 전진했는지만 확인 (거리는 타이밍에 따라 다름)
	assert.Less(t, drive.Position().Z, -0.01)
	assert.InDelta(t, 0.0, drive.Heading(), 1.0)
}
