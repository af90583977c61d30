package api

import (
	"context"
	"sync"
)

type sinkKey struct{}

// Sink carries a server side failure out of a request so the invocation itself can fail.
type Sink struct {
	mu  sync.Mutex
	err error
}

func WithSink(ctx context.Context) (context.Context, *Sink) {
	sink := &Sink{}
	return context.WithValue(ctx, sinkKey{}, sink), sink
}

func SinkFrom(ctx context.Context) *Sink {
	sink, _ := ctx.Value(sinkKey{}).(*Sink)
	return sink
}

func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Sink) record(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err == nil {
		s.err = err
	}
}
