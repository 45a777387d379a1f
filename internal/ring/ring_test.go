package ring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendBelowCapacity(t *testing.T) {
	b := New[int](3)
	for i := 1; i <= 3; i++ {
		_, evicted := b.Append(i)
		assert.False(t, evicted)
	}
	assert.Equal(t, []int{1, 2, 3}, b.Items())
	assert.Equal(t, 3, b.Len())
}

func TestAppendEvictsOldest(t *testing.T) {
	b := New[int](3)
	b.Append(1)
	b.Append(2)
	b.Append(3)

	evicted, ok := b.Append(4)
	require.True(t, ok)
	assert.Equal(t, 1, evicted)
	assert.Equal(t, []int{2, 3, 4}, b.Items())
}

func TestCapacityNeverExceeded(t *testing.T) {
	const capacity = 5
	const n = 37

	b := New[int](capacity)
	for i := 1; i <= n; i++ {
		b.Append(i)
	}

	assert.Equal(t, capacity, b.Len())

	last, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, n, last, "newest element is always retained")
	assert.Equal(t, []int{33, 34, 35, 36, 37}, b.Items())
}

func TestItemsReturnsCopy(t *testing.T) {
	b := New[int](2)
	b.Append(1)
	b.Append(2)

	items := b.Items()
	items[0] = 99
	assert.Equal(t, []int{1, 2}, b.Items())
}

func TestClear(t *testing.T) {
	b := New[int](2)
	b.Append(1)
	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 2, b.Cap())

	_, ok := b.Last()
	assert.False(t, ok)
}

func TestNewPanicsOnZeroCapacity(t *testing.T) {
	assert.Panics(t, func() { New[int](0) })
}
