package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ISOFormat is the wire format for instants: UTC with millisecond precision.
const ISOFormat = "2006-01-02T15:04:05.000Z"

// FormatISO formats t in UTC using ISOFormat.
func FormatISO(t time.Time) string {
	return t.UTC().Format(ISOFormat)
}

// Row is an item resolved against a phase.
type Row struct {
	Item
	Quantity int `json:"quantity"`
}

// Totals are folded over the rows of a snapshot.
type Totals struct {
	TotalUnits int `json:"totalUnits"`
	ItemCount  int `json:"itemCount"`
}

// Snapshot is the derived inventory state at a single instant. It is built
// per request or tick and not modified afterwards.
type Snapshot struct {
	Phase      Phase
	AsOf       time.Time
	NextUpdate time.Time
	LastUpdate *time.Time
	Items      []Row
	Totals     Totals
}

type snapshotJSON struct {
	Phase         Phase   `json:"phase"`
	AsOfISO       string  `json:"asOfIso"`
	NextUpdateISO string  `json:"nextUpdateIso"`
	LastUpdateISO *string `json:"lastUpdateIso"`
	Items         []Row   `json:"items"`
	Totals        Totals  `json:"totals"`
}

// MarshalJSON encodes the snapshot with ISO instants and a null lastUpdateIso
// when no boundary has passed yet.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	out := snapshotJSON{
		Phase:         s.Phase,
		AsOfISO:       FormatISO(s.AsOf),
		NextUpdateISO: FormatISO(s.NextUpdate),
		Items:         s.Items,
		Totals:        s.Totals,
	}
	if out.Items == nil {
		out.Items = []Row{}
	}
	if s.LastUpdate != nil {
		last := FormatISO(*s.LastUpdate)
		out.LastUpdateISO = &last
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire form produced by MarshalJSON.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var in snapshotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	asOf, err := time.Parse(time.RFC3339Nano, in.AsOfISO)
	if err != nil {
		return fmt.Errorf("parsing asOfIso: %w", err)
	}
	next, err := time.Parse(time.RFC3339Nano, in.NextUpdateISO)
	if err != nil {
		return fmt.Errorf("parsing nextUpdateIso: %w", err)
	}

	*s = Snapshot{
		Phase:      in.Phase,
		AsOf:       asOf.UTC(),
		NextUpdate: next.UTC(),
		Items:      in.Items,
		Totals:     in.Totals,
	}
	if in.LastUpdateISO != nil {
		last, err := time.Parse(time.RFC3339Nano, *in.LastUpdateISO)
		if err != nil {
			return fmt.Errorf("parsing lastUpdateIso: %w", err)
		}
		last = last.UTC()
		s.LastUpdate = &last
	}
	return nil
}
