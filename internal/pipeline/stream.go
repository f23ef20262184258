package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
)

// frameDelimiter terminates every frame so clients can split the stream on a
// blank line.
var frameDelimiter = []byte("\n\n")

// StreamWriter adapts an event sequence onto a long-lived response: one JSON
// object per event, one frame per object, flushed immediately so the client
// sees progress as it happens.
type StreamWriter struct {
	w       io.Writer
	flusher http.Flusher
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	sw := &StreamWriter{w: w}
	if f, ok := w.(http.Flusher); ok {
		sw.flusher = f
	}
	return sw
}

func (s *StreamWriter) WriteEvent(ev Event) error {
	frame, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(frame); err != nil {
		return err
	}
	if _, err := s.w.Write(frameDelimiter); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

// Serve drains events onto the stream until the sequence ends, the client
// goes away, or a write fails. The stream's lifetime is exactly the run's
// lifetime; the run's own cleanup is triggered through ctx, not here.
func (s *StreamWriter) Serve(ctx context.Context, events <-chan Event) error {
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if err := s.WriteEvent(ev); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
