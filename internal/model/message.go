package model

// Message kinds pushed over a stream.
const (
	MessageSnapshot = "snapshot"
	MessageTick     = "tick"
)

// Message is the envelope for every data frame on a stream. The first frame of
// a connection is a snapshot message; every later frame is a tick.
type Message struct {
	Type             string   `json:"type"`
	Snapshot         Snapshot `json:"snapshot"`
	SecondsUntilNext int64    `json:"secondsUntilNext"`
}
