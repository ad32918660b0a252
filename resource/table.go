package resource

import (
	"errors"
	"sync"
)

// ErrExhausted is returned by Insert when the table is at its limit.
var ErrExhausted = errors.New("resource limit reached")

type slot struct {
	value  any
	typeID uint32
	live   bool
}

// Table maps handles to values. Freed handles are reused most recent first.
// All methods are safe for concurrent use.
type Table struct {
	slots     []slot
	free      []Handle
	observers []Observer
	live      int
	limit     int
	mu        sync.RWMutex
}

// NewTable creates a table holding at most limit live handles.
// A limit of 0 means unlimited.
func NewTable(limit int) *Table {
	return &Table{limit: limit}
}

// Subscribe registers o for every later event.
func (t *Table) Subscribe(o Observer) {
	t.mu.Lock()
	t.observers = append(t.observers, o)
	t.mu.Unlock()
}

// Insert stores value and returns its handle.
func (t *Table) Insert(typeID uint32, value any) (Handle, error) {
	t.mu.Lock()
	if t.limit > 0 && t.live >= t.limit {
		t.mu.Unlock()
		return 0, ErrExhausted
	}

	var h Handle
	if n := len(t.free); n > 0 {
		h = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		t.slots = append(t.slots, slot{})
		h = Handle(len(t.slots))
	}
	t.slots[h-1] = slot{value: value, typeID: typeID, live: true}
	t.live++
	obs := t.observers
	t.mu.Unlock()

	notify(obs, Event{Type: EventCreated, Handle: h, TypeID: typeID, Value: value})
	return h, nil
}

// Lookup returns the value of a live handle whose type is typeID.
func (t *Table) Lookup(h Handle, typeID uint32) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.slotLocked(h)
	if !ok || s.typeID != typeID {
		return nil, false
	}
	return s.value, true
}

// Remove frees h, calling Drop on values that implement Dropper.
// Removing a handle that is not live reports false and drops nothing.
func (t *Table) Remove(h Handle) (any, bool) {
	t.mu.Lock()
	s, ok := t.slotLocked(h)
	if !ok {
		t.mu.Unlock()
		return nil, false
	}
	t.freeLocked(h)
	obs := t.observers
	t.mu.Unlock()

	drop(obs, h, s)
	return s.value, true
}

// Reap removes every live handle and returns them in ascending order.
func (t *Table) Reap() []Handle {
	t.mu.Lock()
	var (
		handles []Handle
		reaped  []slot
	)
	for i := range t.slots {
		if t.slots[i].live {
			h := Handle(i + 1)
			handles = append(handles, h)
			reaped = append(reaped, t.slots[i])
			t.freeLocked(h)
		}
	}
	obs := t.observers
	t.mu.Unlock()

	for i, h := range handles {
		drop(obs, h, reaped[i])
	}
	return handles
}

// Len returns the number of live handles.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

func (t *Table) slotLocked(h Handle) (slot, bool) {
	if h == 0 || int(h) > len(t.slots) {
		return slot{}, false
	}
	s := t.slots[h-1]
	return s, s.live
}

func (t *Table) freeLocked(h Handle) {
	t.slots[h-1] = slot{}
	t.free = append(t.free, h)
	t.live--
}

func drop(obs []Observer, h Handle, s slot) {
	if d, ok := s.value.(Dropper); ok {
		d.Drop()
	}
	notify(obs, Event{Type: EventDropped, Handle: h, TypeID: s.typeID, Value: s.value})
}

func notify(obs []Observer, e Event) {
	for _, o := range obs {
		o.OnResourceEvent(e)
	}
}
