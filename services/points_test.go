package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"robart-backend/models"
)

func TestPointTableAssignsStableIDs(t *testing.T) {
	table := NewNavigablePointTable()

	first := table.Observe(42, models.Vector3{X: 1, Z: -2}, "photo001")
	second := table.Observe(99, models.Vector3{X: 3, Z: -1}, "photo001")
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)

	// 같은 셀을 다시 관측하면 새 ID 없이 기존 ID를 돌려준다
	again := table.Observe(42, models.Vector3{X: 1, Z: -2}, "photo007")
	assert.Equal(t, 1, again.ID)
	assert.Equal(t, "photo007", again.PhotoName)
	assert.Equal(t, 2, table.Len())
}

func TestPointTableLookup(t *testing.T) {
	table := NewNavigablePointTable()
	table.Observe(10, models.Vector3{X: 0.5, Z: 0.5}, "photo001")

	point, ok := table.Lookup(1)
	require.True(t, ok)
	assert.Equal(t, 0.5, point.Position.X)

	_, ok = table.Lookup(7)
	assert.False(t, ok)
}

func TestPointTableAllSortedByID(t *testing.T) {
	table := NewNavigablePointTable()
	table.Observe(30, models.Vector3{}, "photo001")
	table.Observe(20, models.Vector3{}, "photo001")
	table.Observe(10, models.Vector3{}, "photo002")

	points := table.All()
	require.Len(t, points, 3)
	for i, point := range points {
		assert.Equal(t, i+1, point.ID)
	}
}

func TestPointTableClearRestartsNumbering(t *testing.T) {
	table := NewNavigablePointTable()
	table.Observe(5, models.Vector3{}, "photo001")
	table.Observe(6, models.Vector3{}, "photo001")

	table.Clear()
	assert.Equal(t, 0, table.Len())

	point := table.Observe(5, models.Vector3{}, "photo001")
	assert.Equal(t, 1, point.ID)
}
