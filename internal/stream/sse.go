package stream

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/erazemk/zaloga/internal/model"
)

// keepAlive is an SSE comment line. EventSource clients never surface it as a
// message, but its arrival keeps intermediaries from timing the connection out.
const keepAlive = ": keep-alive\n\n"

// WriteTimeout bounds every write to a stream. A client that stays connected
// but stops reading fails its next write instead of pinning the session.
const WriteTimeout = HeartbeatInterval

// Writer is a Sink that writes server-sent events to an HTTP response.
type Writer struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	timeout time.Duration
}

// NewWriter wraps w. Call Open before the first Send.
func NewWriter(w http.ResponseWriter) *Writer {
	return &Writer{w: w, rc: http.NewResponseController(w), timeout: WriteTimeout}
}

// Open writes the event-stream headers. The server write deadline is meant for
// ordinary requests, so streams replace it with a deadline per write.
func (sw *Writer) Open() error {
	h := sw.w.Header()
	h.Set("Content-Type", "text/event-stream; charset=utf-8")
	h.Set("Cache-Control", "no-cache, no-transform")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")

	if err := sw.arm(); err != nil {
		return err
	}
	sw.w.WriteHeader(http.StatusOK)
	return sw.flush()
}

// Send writes msg as a single data event.
func (sw *Writer) Send(msg model.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encoding message: %w", err)
	}
	if err := sw.arm(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(sw.w, "data: %s\n\n", data); err != nil {
		return err
	}
	return sw.flush()
}

// Heartbeat writes the keep-alive marker.
func (sw *Writer) Heartbeat() error {
	if err := sw.arm(); err != nil {
		return err
	}
	if _, err := io.WriteString(sw.w, keepAlive); err != nil {
		return err
	}
	return sw.flush()
}

// arm sets the deadline for the next write.
func (sw *Writer) arm() error {
	err := sw.rc.SetWriteDeadline(time.Now().Add(sw.timeout))
	if err != nil && !errors.Is(err, http.ErrNotSupported) {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	return nil
}

func (sw *Writer) flush() error {
	if err := sw.rc.Flush(); err != nil && !errors.Is(err, http.ErrNotSupported) {
		return err
	}
	return nil
}
