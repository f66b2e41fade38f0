package fs

import (
	"sync"
	"time"

	"github.com/aretw0/minions/pkg/core"
)

// debouncer coalesces bursts of events for the same record id.
type debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	pending map[string]*pendingEvent
	wg      sync.WaitGroup
	stopped bool
}

type pendingEvent struct {
	event core.Event
	timer *time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]*pendingEvent)}
}

// add schedules fire for e after the quiet period. A newer event for the
// same id restarts the period and is merged with the pending one.
func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if p, ok := d.pending[e.ID]; ok && p.timer.Stop() {
		p.event = mergeEvents(p.event, e)
		p.timer.Reset(d.delay)
		return
	}

	p := &pendingEvent{event: e}
	d.pending[e.ID] = p
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		if d.pending[e.ID] == p {
			delete(d.pending, e.ID)
		}
		ev := p.event
		d.mu.Unlock()
		fire(ev)
	})
}

// stopAndWait drops pending events and waits for in-flight ones.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
		}
		delete(d.pending, id)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

func mergeEvents(prev, next core.Event) core.Event {
	switch {
	case prev.Type == core.EventCreate && next.Type == core.EventModify:
		next.Type = core.EventCreate
	case prev.Type == core.EventDelete && next.Type != core.EventDelete:
		next.Type = core.EventModify
	}
	return next
}
