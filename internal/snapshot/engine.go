package snapshot

import (
	"time"

	"github.com/erazemk/zaloga/internal/model"
)

// Compute derives the snapshot at asOf using the default schedule.
func Compute(asOf time.Time, items []model.Item) model.Snapshot {
	return DefaultSchedule().Compute(asOf, items)
}

// Compute derives the snapshot at asOf. It never fails: an empty catalog gives
// an empty snapshot with zero totals. items is only read.
func (s Schedule) Compute(asOf time.Time, items []model.Item) model.Snapshot {
	asOf = asOf.UTC()
	phase := s.PhaseAt(asOf)

	snap := model.Snapshot{
		Phase:      phase,
		AsOf:       asOf,
		NextUpdate: s.NextBoundary(asOf),
		Items:      make([]model.Row, 0, len(items)),
	}
	if last, ok := s.LastBoundary(asOf); ok {
		snap.LastUpdate = &last
	}

	for _, it := range items {
		q := it.QuantityAt(phase)
		snap.Items = append(snap.Items, model.Row{Item: it, Quantity: q})
		snap.Totals.TotalUnits += q
	}
	snap.Totals.ItemCount = len(snap.Items)

	return snap
}

// SecondsUntil returns the whole seconds from now until next, never negative.
func SecondsUntil(next, now time.Time) int64 {
	d := next.Sub(now)
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
