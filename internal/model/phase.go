package model

// Phase is the time-of-day state of the warehouse. It is never stored; it is
// derived from the reference instant on every read.
type Phase string

// Phases, in chronological order within a UTC day.
const (
	PhasePreMorning Phase = "pre-morning"
	PhaseMorning    Phase = "morning"
	PhaseNight      Phase = "night"
)

// Rank orders phases within a day: pre-morning < morning < night.
// Unknown phases rank below all known ones.
func (p Phase) Rank() int {
	switch p {
	case PhasePreMorning:
		return 1
	case PhaseMorning:
		return 2
	case PhaseNight:
		return 3
	default:
		return 0
	}
}

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	return p.Rank() > 0
}
