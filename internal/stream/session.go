// Package stream pushes live inventory snapshots to connected clients.
//
// Every connection runs its own Session: there is no shared broadcast queue,
// so a slow client only ever delays itself. A session sends one snapshot
// message on open, then a tick message every TickInterval and whenever a
// daily boundary passes, and a keep-alive marker every HeartbeatInterval.
// All of its timers are tied to the connection context and stop together.
package stream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/erazemk/zaloga/internal/clock"
	"github.com/erazemk/zaloga/internal/metrics"
	"github.com/erazemk/zaloga/internal/model"
	"github.com/erazemk/zaloga/internal/snapshot"
)

// Cadence shared with the display client.
const (
	TickInterval      = 5 * time.Second
	HeartbeatInterval = 15 * time.Second
)

// ErrServerShutdown is the cancellation cause used when the server stops.
var ErrServerShutdown = errors.New("server shutting down")

// Sink delivers messages to one subscriber, in order. A returned error means
// the subscriber is gone.
type Sink interface {
	Send(msg model.Message) error
	Heartbeat() error
}

// State is the connection state.
type State int32

const (
	StateOpening State = iota
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpening:
		return "opening"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Config holds what a session needs besides its sink.
type Config struct {
	Clock    clock.Clock
	Schedule snapshot.Schedule
	Items    []model.Item // read-only
	Metrics  *metrics.Metrics
	Logger   *slog.Logger
}

// Session is one client's stream.
type Session struct {
	id    string
	sink  Sink
	cfg   Config
	state atomic.Int32
	sent  atomic.Int64
}

// NewSession creates a session in the opening state.
func NewSession(id string, sink Sink, cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = clock.SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Session{id: id, sink: sink, cfg: cfg}
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State { return State(s.state.Load()) }

// Sent returns the number of data messages written so far.
func (s *Session) Sent() int64 { return s.sent.Load() }

// Run streams until ctx is cancelled or the sink fails, then stops every
// timer and moves to closed. Cancellation returns nil; a sink failure returns
// the write error. Neither is a server fault.
func (s *Session) Run(ctx context.Context) (err error) {
	log := s.cfg.Logger.With("stream", s.id)
	started := s.cfg.Clock.Now()

	s.cfg.Metrics.StreamOpened()
	defer func() {
		s.state.Store(int32(StateClosed))
		s.cfg.Metrics.StreamClosed()

		reason := "client disconnected"
		switch {
		case err != nil:
			reason = "write failed"
		case errors.Is(context.Cause(ctx), ErrServerShutdown):
			reason = "server shutdown"
		}
		log.Info("stream closed",
			"reason", reason,
			"messages", s.Sent(),
			"duration", s.cfg.Clock.Now().Sub(started).Round(time.Millisecond),
		)
	}()

	tick := s.cfg.Clock.NewTicker(TickInterval)
	defer tick.Stop()
	heartbeat := s.cfg.Clock.NewTicker(HeartbeatInterval)
	defer heartbeat.Stop()

	snap := s.compute()
	transition := s.armTransition(snap)
	defer func() { transition.Stop() }()

	if err := s.send(model.MessageSnapshot, snap); err != nil {
		return err
	}
	s.state.Store(int32(StateStreaming))
	log.Debug("stream opened", "phase", snap.Phase, "next_update", snap.NextUpdate)

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tick.C():
			if ctx.Err() != nil {
				return nil
			}
			if err := s.send(model.MessageTick, s.compute()); err != nil {
				return err
			}

		case <-heartbeat.C():
			if ctx.Err() != nil {
				return nil
			}
			if err := s.sink.Heartbeat(); err != nil {
				return fmt.Errorf("writing heartbeat: %w", err)
			}
			s.cfg.Metrics.HeartbeatSent()

		case <-transition.C():
			if ctx.Err() != nil {
				return nil
			}
			snap := s.compute()
			transition.Stop()
			transition = s.armTransition(snap)
			log.Debug("phase boundary passed", "phase", snap.Phase)
			if err := s.send(model.MessageTick, snap); err != nil {
				return err
			}
		}
	}
}

func (s *Session) compute() model.Snapshot {
	return s.cfg.Schedule.Compute(s.cfg.Clock.Now(), s.cfg.Items)
}

// armTransition starts a one-shot timer for the snapshot's next boundary.
func (s *Session) armTransition(snap model.Snapshot) clock.Timer {
	return s.cfg.Clock.NewTimer(snap.NextUpdate.Sub(s.cfg.Clock.Now()))
}

func (s *Session) send(kind string, snap model.Snapshot) error {
	msg := model.Message{
		Type:             kind,
		Snapshot:         snap,
		SecondsUntilNext: snapshot.SecondsUntil(snap.NextUpdate, s.cfg.Clock.Now()),
	}
	if err := s.sink.Send(msg); err != nil {
		return fmt.Errorf("writing %s message: %w", kind, err)
	}
	s.sent.Add(1)
	s.cfg.Metrics.MessageSent(kind)
	return nil
}
