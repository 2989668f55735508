package view

import (
	"context"
	"sync"
)

// Ticket identifies a request issued through a Slot
type Ticket uint64

// Slot admits one outstanding request at a time. Beginning a new request
// cancels the previous one and marks it stale, so only the response of the
// latest request is ever applied.
type Slot struct {
	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// Begin supersedes any outstanding request and returns the context and
// ticket of the new one
func (s *Slot) Begin(ctx context.Context) (context.Context, Ticket) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	rctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	return rctx, Ticket(s.seq)
}

// Current reports whether t is the latest request
func (s *Slot) Current(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint64(t) == s.seq
}

// Finish releases t and reports whether its response should be applied
func (s *Slot) Finish(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uint64(t) != s.seq {
		return false
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	return true
}

// Cancel abandons the outstanding request, if any
func (s *Slot) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
