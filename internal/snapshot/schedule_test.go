package snapshot

import (
	"testing"
	"time"

	"github.com/erazemk/zaloga/internal/model"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		morning, night string
		wantErr        bool
	}{
		{"08:00", "20:00", false},
		{"06:30", "18:45", false},
		{"20:00", "08:00", true},
		{"08:00", "08:00", true},
		{"8am", "20:00", true},
		{"08:00", "24:00", true},
	}

	for _, tt := range tests {
		_, err := ParseSchedule(tt.morning, tt.night)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSchedule(%q, %q) error = %v, wantErr %v", tt.morning, tt.night, err, tt.wantErr)
		}
	}
}

func TestCustomSchedule(t *testing.T) {
	sched, err := ParseSchedule("06:30", "18:45")
	if err != nil {
		t.Fatalf("ParseSchedule: %v", err)
	}
	if got := sched.PhaseAt(at(6, 29, 59)); got != model.PhasePreMorning {
		t.Errorf("phase = %q, want pre-morning", got)
	}
	if got := sched.PhaseAt(at(6, 30, 0)); got != model.PhaseMorning {
		t.Errorf("phase = %q, want morning", got)
	}
	if got := sched.NextBoundary(at(7, 0, 0)); !got.Equal(at(18, 45, 0)) {
		t.Errorf("next = %v, want 18:45", got)
	}
}

func TestLabel(t *testing.T) {
	sched := DefaultSchedule()
	if got := sched.Label(model.PhaseMorning); got != "08:00 UTC" {
		t.Errorf("morning label = %q", got)
	}
	if got := sched.Label(model.PhaseNight); got != "20:00 UTC" {
		t.Errorf("night label = %q", got)
	}
	if got := sched.Label(model.PhasePreMorning); got != "" {
		t.Errorf("pre-morning label = %q", got)
	}

	custom := Schedule{Morning: 6*time.Hour + 30*time.Minute, Night: 18 * time.Hour}
	if got := custom.Label(model.PhaseMorning); got != "06:30 UTC" {
		t.Errorf("custom label = %q", got)
	}
}
