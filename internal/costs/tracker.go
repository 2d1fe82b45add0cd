package costs

import "sync"

// Tracker accumulates actual API spend across concurrent benchmark runs and
// answers whether new work should still be dispatched.
//
// The soft ceiling stops new dispatch; in-flight calls are allowed to finish.
// The hard ceiling is a backstop that should never bind if the soft ceiling
// works, since recorded amounts are real post-call costs.
type Tracker struct {
	mu    sync.Mutex
	spent float64
	soft  float64
	hard  float64
}

func NewTracker(softCeiling, hardCeiling float64) *Tracker {
	if hardCeiling < softCeiling {
		hardCeiling = softCeiling
	}
	return &Tracker{soft: softCeiling, hard: hardCeiling}
}

// Record adds the actual cost of a completed call. Safe for concurrent use.
func (t *Tracker) Record(amount float64) {
	t.mu.Lock()
	t.spent += amount
	t.mu.Unlock()
}

// ShouldAbort reports whether spend has reached the soft ceiling.
func (t *Tracker) ShouldAbort() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spent >= t.soft
}

// HardExceeded reports whether spend has reached the hard ceiling.
func (t *Tracker) HardExceeded() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spent >= t.hard
}

// Spent returns the running total of recorded cost.
func (t *Tracker) Spent() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.spent
}
