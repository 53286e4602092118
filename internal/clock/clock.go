// Package clock abstracts wall-clock time and timers so that stream sessions
// can be driven deterministically in tests.
package clock

import "time"

// Clock provides the current time and timers.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Timer
	NewTimer(d time.Duration) Timer
}

// Timer is a ticker or one-shot timer. Stop releases it; no value is delivered
// on C after Stop returns.
type Timer interface {
	C() <-chan time.Time
	Stop()
}

// SystemClock is the real clock.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

// NewTicker wraps time.NewTicker.
func (SystemClock) NewTicker(d time.Duration) Timer {
	return &systemTicker{t: time.NewTicker(d)}
}

// NewTimer wraps time.NewTimer.
func (SystemClock) NewTimer(d time.Duration) Timer {
	return &systemTimer{t: time.NewTimer(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

type systemTimer struct{ t *time.Timer }

func (s *systemTimer) C() <-chan time.Time { return s.t.C }
func (s *systemTimer) Stop()               { s.t.Stop() }
