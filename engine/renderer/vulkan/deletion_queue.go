package vulkan

// DeletionQueue collects teardown callbacks and runs them in reverse push
// order, so resources are destroyed opposite to their creation. Flush must
// only be called once the device is idle.
type DeletionQueue struct {
	deletors []func()
}

func NewDeletionQueue() *DeletionQueue {
	return &DeletionQueue{}
}

// Push registers a callback to run on the next Flush.
func (dq *DeletionQueue) Push(deletor func()) {
	dq.deletors = append(dq.deletors, deletor)
}

// Flush runs every registered callback, last pushed first, and empties the
// queue. Each callback runs exactly once.
func (dq *DeletionQueue) Flush() {
	for i := len(dq.deletors) - 1; i >= 0; i-- {
		dq.deletors[i]()
	}
	dq.deletors = dq.deletors[:0]
}

func (dq *DeletionQueue) Len() int {
	return len(dq.deletors)
}
