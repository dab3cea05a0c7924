package scheduler

import (
	"fmt"
	"sync"

	"go.uber.org/atomic"
)

// slot is one display slot: a worker goroutine bound to a group, carrying up
// to capacity alarms. An inactive slot carries nothing and belongs to no group.
type slot struct {
	// worker identifies the goroutine bound to the slot while it is active.
	worker int64
	// group the slot serves while active.
	group int64
	// active reports whether a worker goroutine owns the slot.
	active bool
	// assigned counts the alarms charged to this slot, 0..capacity.
	assigned int
}

// assignment describes the outcome of charging an alarm to a slot.
type assignment struct {
	// alarmID is the alarm that was assigned.
	alarmID int64
	// slot is the table index the alarm was charged to.
	slot int
	// worker identifies the display worker serving that slot.
	worker int64
	// group the slot serves.
	group int64
	// activated reports that the assignment claimed an inactive slot, so the
	// caller must start a worker for it.
	activated bool
}

// slotTable is the bounded pool of display slots with first-fit assignment.
// It keeps an alarm -> slot index so expiry and group moves release exactly
// the capacity the alarm holds. The table has its own mutex, independent of
// the registry and the change queue.
//
// The table panics on protocol violations (releasing an alarm that holds
// nothing): such a call means the shared bookkeeping is corrupt and
// continuing would double-charge or leak slots.
type slotTable struct {
	// mu guards every field below.
	mu sync.Mutex
	// slots is the fixed table.
	slots []slot
	// byAlarm maps a pending alarm to the slot index it is charged to.
	byAlarm map[int64]int
	// capacity is the per-slot alarm bound.
	capacity int
	// seq issues worker identities.
	seq atomic.Int64
}

// newSlotTable builds a table of size slots carrying capacity alarms each.
func newSlotTable(size, capacity int) *slotTable {
	return &slotTable{
		slots:    make([]slot, size),
		byAlarm:  make(map[int64]int),
		capacity: capacity,
	}
}

// size reports the table size.
func (t *slotTable) size() int {
	return len(t.slots)
}

// assign charges an alarm to a slot of its group: first fit among active
// slots of that group below capacity, otherwise the first inactive slot is
// claimed and activated. It fails with ErrDuplicateAlarmID when the alarm
// already holds capacity, and with ErrPoolExhausted when the table is full.
func (t *slotTable) assign(alarmID, group int64) (assignment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.byAlarm[alarmID]; ok {
		return assignment{}, ErrDuplicateAlarmID
	}

	if idx, ok := t.fit(group); ok {
		s := &t.slots[idx]
		s.assigned++
		t.byAlarm[alarmID] = idx

		return assignment{alarmID: alarmID, slot: idx, worker: s.worker, group: group}, nil
	}

	idx, ok := t.claim(group)
	if !ok {
		return assignment{}, ErrPoolExhausted
	}

	t.byAlarm[alarmID] = idx

	return assignment{
		alarmID:   alarmID,
		slot:      idx,
		worker:    t.slots[idx].worker,
		group:     group,
		activated: true,
	}, nil
}

// release gives back the capacity an alarm holds and returns the slot's
// remaining load. The slot stays active until its worker finds the group
// empty and deactivates it.
func (t *slotTable) release(alarmID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx, ok := t.byAlarm[alarmID]
	if !ok {
		panic(fmt.Sprintf("slot table: release of unassigned alarm %d", alarmID))
	}

	s := &t.slots[idx]
	if s.assigned <= 0 {
		panic(fmt.Sprintf("slot table: slot %d load underflow releasing alarm %d", idx, alarmID))
	}

	s.assigned--
	delete(t.byAlarm, alarmID)

	return s.assigned
}

// move recharges an alarm from its current slot to a slot of the new group,
// atomically: on ErrPoolExhausted nothing has changed, the alarm still holds
// its old capacity. Claiming an inactive slot reports activated, like assign.
func (t *slotTable) move(alarmID, newGroup int64) (assignment, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	oldIdx, ok := t.byAlarm[alarmID]
	if !ok {
		panic(fmt.Sprintf("slot table: move of unassigned alarm %d", alarmID))
	}

	old := &t.slots[oldIdx]
	if old.group == newGroup {
		return assignment{alarmID: alarmID, slot: oldIdx, worker: old.worker, group: newGroup}, nil
	}

	idx, fits := t.fit(newGroup)
	activated := false

	if !fits {
		idx, fits = t.claim(newGroup)
		if !fits {
			return assignment{}, ErrPoolExhausted
		}

		activated = true
	} else {
		t.slots[idx].assigned++
	}

	old.assigned--
	t.byAlarm[alarmID] = idx

	return assignment{
		alarmID:   alarmID,
		slot:      idx,
		worker:    t.slots[idx].worker,
		group:     newGroup,
		activated: activated,
	}, nil
}

// tryDeactivate is called by a worker whose group scan came back empty. It
// succeeds only while the slot still belongs to that worker and carries no
// alarms; if capacity was assigned between the scan and this call, the
// worker must keep running.
func (t *slotTable) tryDeactivate(idx int, workerID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := &t.slots[idx]
	if !s.active || s.worker != workerID {
		return true
	}

	if s.assigned > 0 {
		return false
	}

	*s = slot{}

	return true
}

// fit finds an active slot of the group with spare capacity. Caller holds mu.
func (t *slotTable) fit(group int64) (int, bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if s.active && s.group == group && s.assigned < t.capacity {
			return i, true
		}
	}

	return 0, false
}

// claim activates the first inactive slot for the group and charges one
// alarm to it. Caller holds mu.
func (t *slotTable) claim(group int64) (int, bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.active {
			s.active = true
			s.group = group
			s.worker = t.seq.Inc()
			s.assigned = 1

			return i, true
		}
	}

	return 0, false
}
