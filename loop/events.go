package loop

import (
	"sync"
	"time"
)

// PointerEvent is a pointer position in surface coordinates.
type PointerEvent struct {
	X, Y float64
	At   time.Time
}

// PointerQueue is a FIFO of pointer events. Producers may push from any
// goroutine; the tick drains it once per frame so a target and its timestamp
// are always observed together.
type PointerQueue struct {
	mu    sync.Mutex
	items []PointerEvent
}

func (q *PointerQueue) Push(evt PointerEvent) {
	if q == nil {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, evt)
	q.mu.Unlock()
}

// Drain returns all queued events and clears the queue.
func (q *PointerQueue) Drain() []PointerEvent {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *PointerQueue) Len() int {
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
