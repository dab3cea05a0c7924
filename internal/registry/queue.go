package registry

import (
	"sync"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// ChangeQueue stages change requests between admission and the monitor. It
// has its own mutex, independent from the registry's: the two collections
// are never locked together by admission, and the monitor takes them one at
// a time.
type ChangeQueue struct {
	// mu guards pending.
	mu sync.Mutex
	// pending holds staged requests in arrival order.
	pending []*alarm.ChangeRequest
}

// NewChangeQueue returns an empty queue.
func NewChangeQueue() *ChangeQueue {
	return &ChangeQueue{}
}

// Push stages a change request.
func (q *ChangeQueue) Push(cr *alarm.ChangeRequest) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.pending = append(q.pending, cr)
}

// Drain removes and returns all staged requests in arrival order. Each
// request is handed out exactly once; a drained request is never requeued.
func (q *ChangeQueue) Drain() []*alarm.ChangeRequest {
	q.mu.Lock()
	defer q.mu.Unlock()

	drained := q.pending
	q.pending = nil

	return drained
}

// Len reports the number of staged requests.
func (q *ChangeQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}
