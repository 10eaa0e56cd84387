package vulkan

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeletionQueueFlushOrder(t *testing.T) {
	q := NewDeletionQueue()

	var order []int
	for i := 0; i < 4; i++ {
		i := i
		q.Push(func() {
			order = append(order, i)
		})
	}
	require.Equal(t, 4, q.Len())

	q.Flush()
	require.Equal(t, []int{3, 2, 1, 0}, order)
	require.Equal(t, 0, q.Len())
}

func TestDeletionQueueFlushRunsEachDeletorOnce(t *testing.T) {
	q := NewDeletionQueue()

	count := 0
	q.Push(func() { count++ })

	q.Flush()
	q.Flush()
	require.Equal(t, 1, count)
}

func TestDeletionQueueEmptyFlush(t *testing.T) {
	q := NewDeletionQueue()
	require.NotPanics(t, q.Flush)
}

func TestDeletionQueueReusableAfterFlush(t *testing.T) {
	q := NewDeletionQueue()

	var order []string
	q.Push(func() { order = append(order, "first") })
	q.Flush()

	q.Push(func() { order = append(order, "second") })
	q.Flush()

	require.Equal(t, []string{"first", "second"}, order)
}
