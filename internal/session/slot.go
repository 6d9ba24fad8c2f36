package session

import (
	"encoding/json"
	"sync"
	"time"

	"vehicle-dismantling/backend/internal/plan"
)

// State is the top-level display state.
type State string

const (
	// StateEmpty means no plan has been received yet.
	StateEmpty State = "empty"
	// StateLoaded means a plan is held and can be presented.
	StateLoaded State = "loaded"
)

// Snapshot is an immutable received plan. Callers must not modify Raw.
type Snapshot struct {
	SubmissionID string
	Response     plan.Response
	Raw          json.RawMessage
	ReceivedAt   time.Time
}

// Slot holds the current plan. The zero value is an empty slot.
type Slot struct {
	mu      sync.RWMutex
	current *Snapshot
	version uint64
}

// Current returns the slot state and, when loaded, the held snapshot.
func (s *Slot) Current() (State, Snapshot) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return StateEmpty, Snapshot{}
	}
	return StateLoaded, *s.current
}

// Replace swaps in a new snapshot and returns the slot version it was stored
// under. Replacement is all-or-nothing; the last caller wins.
func (s *Slot) Replace(snap Snapshot) uint64 {
	if snap.ReceivedAt.IsZero() {
		snap.ReceivedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &snap
	s.version++
	return s.version
}

// Version counts successful replacements.
func (s *Slot) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Dashboard presents the held plan, reporting false when the slot is empty.
func (s *Slot) Dashboard() (plan.Dashboard, bool) {
	state, snap := s.Current()
	if state != StateLoaded {
		return plan.Dashboard{}, false
	}
	return plan.Present(snap.Response), true
}
