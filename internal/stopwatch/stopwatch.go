// Package stopwatch implements the timed-session clock. It only measures
// elapsed time; converting the measurement into a loggable session is the
// caller's job.
package stopwatch

import (
	"math"
	"time"
)

// Stopwatch measures one study sitting. It is not safe for concurrent
// use; each sitting gets its own instance.
type Stopwatch struct {
	now     func() time.Time
	started time.Time
	running bool
}

func New() *Stopwatch {
	return &Stopwatch{now: time.Now}
}

// NewWithClock is for tests that need a controllable clock.
func NewWithClock(now func() time.Time) *Stopwatch {
	return &Stopwatch{now: now}
}

// Start begins measuring. Starting an already running stopwatch does
// nothing.
func (s *Stopwatch) Start() {
	if s.running {
		return
	}
	s.started = s.now()
	s.running = true
}

// Elapsed returns the time measured so far.
func (s *Stopwatch) Elapsed() time.Duration {
	if !s.running {
		return 0
	}
	return s.now().Sub(s.started)
}

// Stop ends the measurement and converts it to loggable hours. The
// second return is false when nothing should be logged, either because
// the stopwatch was never started or because no time passed at all.
func (s *Stopwatch) Stop() (float64, bool) {
	if !s.running {
		return 0, false
	}
	elapsed := s.now().Sub(s.started)
	s.running = false
	s.started = time.Time{}

	return Hours(elapsed)
}

// Close discards any running measurement without producing a session.
// Safe to call in any state, including after Stop.
func (s *Stopwatch) Close() {
	s.running = false
	s.started = time.Time{}
}

// Hours converts an elapsed duration to session hours: rounded to two
// decimals, with any positive duration worth at least 0.01 hours. A zero
// duration yields no loggable session.
func Hours(elapsed time.Duration) (float64, bool) {
	if elapsed <= 0 {
		return 0, false
	}
	hours := math.Round(elapsed.Hours()*100) / 100
	if hours == 0 {
		hours = 0.01
	}
	return hours, true
}
