package action

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Sink executes requests on the platform.
type Sink interface {
	Launch(ctx context.Context, req Request) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, req Request) error

func (f SinkFunc) Launch(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// LogSink writes one line per request. It executes nothing and is used by
// the command line tool.
type LogSink struct {
	mu sync.Mutex
	w  io.Writer
}

var _ Sink = (*LogSink)(nil)

func NewLogSink(w io.Writer) *LogSink {
	return &LogSink{w: w}
}

func (s *LogSink) Launch(ctx context.Context, req Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := fmt.Fprintln(s.w, req.String())
	return err
}
