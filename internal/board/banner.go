package board

import (
	"sync"
	"time"
)

// Banner holds at most one user-visible error that clears itself after ttl.
// Setting a new message restarts the delay.
type Banner struct {
	mu         sync.Mutex
	ttl        time.Duration
	message    string
	timer      *time.Timer
	generation uint64
	onChange   func()
}

func NewBanner(ttl time.Duration, onChange func()) *Banner {
	if onChange == nil {
		onChange = func() {}
	}
	return &Banner{ttl: ttl, onChange: onChange}
}

// Set shows message and schedules it to clear. An empty message clears.
func (b *Banner) Set(message string) {
	if message == "" {
		b.Clear()
		return
	}
	b.mu.Lock()
	b.stopLocked()
	gen := b.generation
	b.message = message
	b.timer = time.AfterFunc(b.ttl, func() { b.expire(gen) })
	b.mu.Unlock()
	b.onChange()
}

// Clear removes the message. Clearing an empty banner is a no-op.
func (b *Banner) Clear() {
	b.mu.Lock()
	b.stopLocked()
	changed := b.message != ""
	b.message = ""
	b.mu.Unlock()
	if changed {
		b.onChange()
	}
}

// Message returns the message on display, or "".
func (b *Banner) Message() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.message
}

// Stop cancels the pending clear without touching the message.
func (b *Banner) Stop() {
	b.mu.Lock()
	b.stopLocked()
	b.mu.Unlock()
}

// stopLocked invalidates the running timer; a callback already fired sees a stale generation.
func (b *Banner) stopLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.generation++
}

func (b *Banner) expire(gen uint64) {
	b.mu.Lock()
	if gen != b.generation {
		b.mu.Unlock()
		return
	}
	b.message = ""
	b.timer = nil
	b.mu.Unlock()
	b.onChange()
}
