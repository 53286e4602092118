// Package snapshot derives the inventory state from wall-clock time.
//
// Nothing here is stored. A snapshot is a pure function of the reference
// instant, the catalog, and the daily schedule, so any number of server
// instances compute identical results for the same instant.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/zaloga/internal/model"
)

const day = 24 * time.Hour

// Default boundaries, as offsets from UTC midnight.
const (
	DefaultMorning = 8 * time.Hour
	DefaultNight   = 20 * time.Hour
)

// Schedule holds the two daily boundaries. Boundaries are offsets from UTC
// midnight; local time zones are never consulted.
type Schedule struct {
	Morning time.Duration
	Night   time.Duration

	// Since marks the start of the modeled timeline. Boundaries before it never
	// happened, so LastBoundary reports none for them. Zero means unbounded.
	Since time.Time
}

// DefaultSchedule returns the 08:00 / 20:00 UTC schedule.
func DefaultSchedule() Schedule {
	return Schedule{Morning: DefaultMorning, Night: DefaultNight}
}

// ParseSchedule builds a schedule from two "HH:MM" UTC clock times.
func ParseSchedule(morning, night string) (Schedule, error) {
	m, err := parseClock(morning)
	if err != nil {
		return Schedule{}, fmt.Errorf("parsing morning boundary: %w", err)
	}
	n, err := parseClock(night)
	if err != nil {
		return Schedule{}, fmt.Errorf("parsing night boundary: %w", err)
	}
	s := Schedule{Morning: m, Night: n}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// Validate checks that 0 <= morning < night < 24h.
func (s Schedule) Validate() error {
	if s.Morning < 0 || s.Night >= day {
		return errors.New("boundaries must fall within a UTC day")
	}
	if s.Morning >= s.Night {
		return errors.New("morning boundary must be before night boundary")
	}
	return nil
}

// PhaseAt returns the phase at t. Boundaries belong to the phase they start.
func (s Schedule) PhaseAt(t time.Time) model.Phase {
	_, offset := split(t)
	switch {
	case offset < s.Morning:
		return model.PhasePreMorning
	case offset < s.Night:
		return model.PhaseMorning
	default:
		return model.PhaseNight
	}
}

// NextBoundary returns the earliest boundary strictly after t.
func (s Schedule) NextBoundary(t time.Time) time.Time {
	midnight, offset := split(t)
	switch {
	case offset < s.Morning:
		return midnight.Add(s.Morning)
	case offset < s.Night:
		return midnight.Add(s.Night)
	default:
		return midnight.AddDate(0, 0, 1).Add(s.Morning)
	}
}

// LastBoundary returns the latest boundary at or before t, looking back into
// the previous UTC day when neither of today's boundaries has passed. It
// reports false when that boundary precedes s.Since.
func (s Schedule) LastBoundary(t time.Time) (time.Time, bool) {
	midnight, offset := split(t)
	var last time.Time
	switch {
	case offset >= s.Night:
		last = midnight.Add(s.Night)
	case offset >= s.Morning:
		last = midnight.Add(s.Morning)
	default:
		last = midnight.AddDate(0, 0, -1).Add(s.Night)
	}
	if !s.Since.IsZero() && last.Before(s.Since) {
		return time.Time{}, false
	}
	return last, true
}

// Label returns the nominal boundary time for a phase, e.g. "08:00 UTC".
// Pre-morning has no boundary of its own and yields "".
func (s Schedule) Label(p model.Phase) string {
	switch p {
	case model.PhaseMorning:
		return clockLabel(s.Morning)
	case model.PhaseNight:
		return clockLabel(s.Night)
	default:
		return ""
	}
}

// split returns t's UTC midnight and the offset of t into that day.
func split(t time.Time) (time.Time, time.Duration) {
	t = t.UTC()
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight, t.Sub(midnight)
}

func parseClock(v string) (time.Duration, error) {
	t, err := time.Parse("15:04", v)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q (want HH:MM)", v)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func clockLabel(d time.Duration) string {
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d UTC", h, m)
}
