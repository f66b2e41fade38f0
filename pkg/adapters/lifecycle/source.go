// Package lifecycle exposes storage change streams as lifecycle sources.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/minions/pkg/core"
)

type changeSource struct {
	events <-chan core.Event
	open   func(ctx context.Context) (<-chan core.Event, error)
	out    chan lifecycle.Event
}

// NewSource wraps an existing change channel as a lifecycle.Source.
func NewSource(events <-chan core.Event) lifecycle.Source {
	return &changeSource{
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

// WatchSource returns a lifecycle.Source that starts watching w for ids
// matching pattern when the source is started.
func WatchSource(w core.Watchable, pattern string) lifecycle.Source {
	return &changeSource{
		open: func(ctx context.Context) (<-chan core.Event, error) {
			return w.Watch(ctx, pattern)
		},
		out: make(chan lifecycle.Event),
	}
}

func (s *changeSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *changeSource) Start(ctx context.Context) error {
	events := s.events
	if s.open != nil {
		ch, err := s.open(ctx)
		if err != nil {
			return fmt.Errorf("failed to start watch: %w", err)
		}
		events = ch
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event through String.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
