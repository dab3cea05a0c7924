package registry

import (
	"container/heap"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/oshokin/alarm-scheduler/internal/domain/alarm"
)

// ErrDuplicateID is returned by Insert when an alarm with the same id is
// already pending. Ids are only required to be unique among pending alarms;
// an id may be reused after its alarm expired.
var ErrDuplicateID = errors.New("alarm id already pending")

// Registry is the shared collection of pending alarms, ordered by deadline
// with ids breaking ties. All operations take the registry's own mutex and
// hold it for a bounded, short critical section.
//
// The deadline order is what makes the monitor's timed wait cheap: the next
// alarm to expire is always at the top of the heap.
type Registry struct {
	// mu guards q.
	mu sync.Mutex
	// q is the deadline-ordered heap with an id index.
	q queue
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		q: queue{
			pos: make(map[int64]int),
		},
	}
}

// Insert adds a pending alarm. It fails with ErrDuplicateID when the id is
// already live; the registry is unchanged in that case.
func (r *Registry) Insert(a *alarm.Alarm) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.q.pos[a.ID]; ok {
		return ErrDuplicateID
	}

	heap.Push(&r.q, a)

	return nil
}

// RemoveExpired atomically removes and returns every alarm whose deadline has
// been reached, ordered by ascending deadline (ties by id). The registry
// retains exactly the complement, so no alarm can be returned twice across
// calls.
func (r *Registry) RemoveExpired(now time.Time) []*alarm.Alarm {
	r.mu.Lock()
	defer r.mu.Unlock()

	var due []*alarm.Alarm

	for r.q.Len() > 0 && r.q.items[0].Due(now) {
		a, _ := heap.Pop(&r.q).(*alarm.Alarm)
		due = append(due, a)
	}

	return due
}

// FindByID returns a copy of the pending alarm with the given id.
func (r *Registry) FindByID(id int64) (alarm.Alarm, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.q.pos[id]
	if !ok {
		return alarm.Alarm{}, false
	}

	return *r.q.items[idx], true
}

// Apply runs fn on the live alarm inside the registry's exclusive window and
// restores heap order afterwards, since fn may move the deadline. It reports
// whether an alarm with that id was pending. fn must not modify the ID.
func (r *Registry) Apply(id int64, fn func(*alarm.Alarm)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.q.pos[id]
	if !ok {
		return false
	}

	fn(r.q.items[idx])
	heap.Fix(&r.q, idx)

	return true
}

// GroupSnapshot returns copies of the pending alarms in one group, ordered by
// deadline (ties by id). Display workers scan with this; taken under the same
// mutex as RemoveExpired, a snapshot sees either all or none of a monitor
// pass's removals.
func (r *Registry) GroupSnapshot(group int64) []alarm.Alarm {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []alarm.Alarm

	for _, a := range r.q.items {
		if a.Group == group {
			out = append(out, *a)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Deadline.Equal(out[j].Deadline) {
			return out[i].ID < out[j].ID
		}

		return out[i].Deadline.Before(out[j].Deadline)
	})

	return out
}

// NextDeadline returns the earliest pending deadline, if any.
func (r *Registry) NextDeadline() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.q.Len() == 0 {
		return time.Time{}, false
	}

	return r.q.items[0].Deadline, true
}

// Len reports the number of pending alarms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.q.Len()
}

// queue is the heap.Interface implementation backing the registry: a slice
// ordered as a min-heap on (Deadline, ID) plus an id -> index map kept in
// sync by Swap, so lookups and removals stay cheap.
type queue struct {
	items []*alarm.Alarm
	pos   map[int64]int
}

func (q *queue) Len() int {
	return len(q.items)
}

func (q *queue) Less(i, j int) bool {
	di, dj := q.items[i].Deadline, q.items[j].Deadline
	if di.Equal(dj) {
		return q.items[i].ID < q.items[j].ID
	}

	return di.Before(dj)
}

func (q *queue) Swap(i, j int) {
	q.items[i], q.items[j] = q.items[j], q.items[i]
	q.pos[q.items[i].ID] = i
	q.pos[q.items[j].ID] = j
}

func (q *queue) Push(x any) {
	a, _ := x.(*alarm.Alarm)
	q.pos[a.ID] = len(q.items)
	q.items = append(q.items, a)
}

func (q *queue) Pop() any {
	last := len(q.items) - 1
	a := q.items[last]
	q.items[last] = nil
	q.items = q.items[:last]
	delete(q.pos, a.ID)

	return a
}
