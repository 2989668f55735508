package view

import (
	"sync"
	"time"
)

// Transient is a message that clears itself after a fixed TTL. Showing a new
// message restarts the timer; an expiring older timer never clears a newer
// message.
type Transient struct {
	mu    sync.Mutex
	ttl   time.Duration
	value string
	gen   uint64
	timer *time.Timer
}

// NewTransient returns an empty message slot. A ttl <= 0 keeps messages
// until they are replaced or stopped.
func NewTransient(ttl time.Duration) *Transient {
	return &Transient{ttl: ttl}
}

// Show displays msg and (re)starts the expiry timer
func (t *Transient) Show(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	gen := t.gen
	t.value = msg
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.ttl > 0 {
		t.timer = time.AfterFunc(t.ttl, func() { t.expire(gen) })
	}
}

func (t *Transient) expire(gen uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.gen == gen {
		t.value = ""
		t.timer = nil
	}
}

// Value returns the message currently displayed, or ""
func (t *Transient) Value() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// Stop clears the message and cancels its timer
func (t *Transient) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.gen++
	t.value = ""
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
