package scheduler

import (
	"sync"
	"time"
	"treats/internal/scheduler/interfaces"
)

type timerEntry struct {
	timer *time.Timer
}

type Timers struct {
	mu      sync.Mutex
	entries map[int]*timerEntry
	stopped bool
}

func NewTimers() interfaces.TimersInterface {
	return &Timers{entries: make(map[int]*timerEntry)}
}

func (t *Timers) Schedule(key int, delay time.Duration, fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	if prev, ok := t.entries[key]; ok {
		prev.timer.Stop()
	}
	if delay < 0 {
		delay = 0
	}

	entry := &timerEntry{}
	entry.timer = time.AfterFunc(delay, func() {
		t.mu.Lock()
		current, ok := t.entries[key]
		if !ok || current != entry {
			t.mu.Unlock()
			return
		}
		delete(t.entries, key)
		t.mu.Unlock()
		fn()
	})
	t.entries[key] = entry
}

func (t *Timers) Cancel(key int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	entry, ok := t.entries[key]
	if !ok {
		return false
	}
	entry.timer.Stop()
	delete(t.entries, key)
	return true
}

func (t *Timers) Pending(key int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.entries[key]
	return ok
}

// Stop cancels every pending callback and refuses new ones.
func (t *Timers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for key, entry := range t.entries {
		entry.timer.Stop()
		delete(t.entries, key)
	}
	t.stopped = true
}
