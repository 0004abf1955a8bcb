// Package stats contains statistics calculations and reporting.
package stats

import "time"

// Clock returns the current time. time.Now readings carry a monotonic clock.
type Clock func() time.Time

// Tracker wraps TempStatistics with a wall clock that starts on the first update.
type Tracker struct {
	stats       *TempStatistics
	now         Clock
	startedAt   time.Time
	completedAt time.Time
	started     bool
	completed   bool
}

// NewTracker returns a tracker reading time from now. A nil clock uses time.Now.
func NewTracker(now Clock) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{stats: NewTempStatistics(), now: now}
}

// Statistics returns the live statistics.
func (t *Tracker) Statistics() *TempStatistics {
	return t.stats
}

// Update records a keystroke, starting the clock on the first call.
func (t *Tracker) Update(ev Event, cfg Config) {
	if !t.started {
		t.startedAt = t.now()
		t.started = true
	}
	t.stats.Update(ev, t.now().Sub(t.startedAt), cfg)
}

// HasStarted reports whether any keystroke was recorded.
func (t *Tracker) HasStarted() bool {
	return t.started
}

// Elapsed returns the time since the first keystroke.
func (t *Tracker) Elapsed() (time.Duration, bool) {
	if !t.started {
		return 0, false
	}
	return t.now().Sub(t.startedAt), true
}

// MarkCompleted records the completion time. Later calls are ignored.
func (t *Tracker) MarkCompleted() {
	if t.completed {
		return
	}
	t.completedAt = t.now()
	t.completed = true
}

// Reopen clears the completion time so that timing continues.
func (t *Tracker) Reopen() {
	t.completed = false
	t.completedAt = time.Time{}
}

// IsCompleted reports whether MarkCompleted was called.
func (t *Tracker) IsCompleted() bool {
	return t.completed
}

// TotalDuration returns start to completion, or start to now while running.
func (t *Tracker) TotalDuration() (time.Duration, bool) {
	switch {
	case !t.started:
		return 0, false
	case t.completed:
		return t.completedAt.Sub(t.startedAt), true
	default:
		return t.now().Sub(t.startedAt), true
	}
}

// Finalize produces the session summary for a final input of inputLen runes.
func (t *Tracker) Finalize(inputLen int) Statistics {
	duration, _ := t.TotalDuration()
	return t.stats.Finalize(duration, inputLen)
}
