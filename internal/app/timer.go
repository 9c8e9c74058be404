package app

import (
	"sync"
	"time"
)

// Stopwatch is the level timer handed to the engine when timing is on.
type Stopwatch struct {
	mu      sync.Mutex
	now     func() time.Time
	started time.Time
	elapsed time.Duration
	running bool
}

func NewStopwatch() *Stopwatch { return &Stopwatch{now: time.Now} }

func (s *Stopwatch) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed = 0
	s.running = false
	s.started = time.Time{}
}

func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

func (s *Stopwatch) Stop() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.elapsed += s.now().Sub(s.started)
		s.running = false
	}
	return s.elapsed
}

func (s *Stopwatch) Elapsed() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return s.elapsed + s.now().Sub(s.started)
	}
	return s.elapsed
}

// StartedAt is the wall-clock origin the view counts from. Zero when stopped.
func (s *Stopwatch) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return time.Time{}
	}
	return s.started.Add(-s.elapsed)
}
