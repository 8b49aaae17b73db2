// Package monitor measures every API call: request counts, wall-clock
// duration and process memory.
package monitor

import (
	"math"
	"sync"
)

// State holds the process-wide request statistics. A single State is created
// at startup and shared by reference; all methods are safe for concurrent use.
type State struct {
	mu        sync.Mutex
	started   int64
	completed int64
	minMemory float64
	maxMemory float64
}

// Stats is a point-in-time copy of State. MinMemoryMB and MaxMemoryMB are
// +Inf and -Inf until the first memory sample is recorded.
type Stats struct {
	Started     int64
	Completed   int64
	MinMemoryMB float64
	MaxMemoryMB float64
}

// NewState returns a State with count 0, min +Inf and max -Inf.
func NewState() *State {
	return &State{minMemory: math.Inf(1), maxMemory: math.Inf(-1)}
}

// Begin counts a new request and returns its ordinal, starting at 1.
func (s *State) Begin() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started++
	return s.started
}

// Finish marks a request complete and folds memMB into the min/max.
// A NaN sample (sampling failed) only completes the request.
func (s *State) Finish(memMB float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.completed++
	if math.IsNaN(memMB) {
		return
	}
	s.minMemory = math.Min(s.minMemory, memMB)
	s.maxMemory = math.Max(s.maxMemory, memMB)
}

// Count returns the number of requests begun so far.
func (s *State) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// Stats returns a consistent copy of the counters.
func (s *State) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Started:     s.started,
		Completed:   s.completed,
		MinMemoryMB: s.minMemory,
		MaxMemoryMB: s.maxMemory,
	}
}
