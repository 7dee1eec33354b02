package fleetmanager

import (
	"fmt"
	"sync"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/internal/pkg/metrics"
	"github.com/autopeer-io/fleetclient/pkg/log"
)

// deliverFunc receives one snapshot. quit is closed when the observer is
// removed, so a blocking delivery can give up.
type deliverFunc func(state *fleetv1.FleetState, quit <-chan struct{})

// observer delivers snapshots to one callback from its own goroutine, in the
// order they were enqueued. Enqueueing never blocks.
type observer struct {
	fn      deliverFunc
	backlog int
	logger  log.Logger

	mu    sync.Mutex
	queue []*fleetv1.FleetState

	wake     chan struct{}
	quit     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

func newObserver(fn deliverFunc, backlog int, logger log.Logger) *observer {
	o := &observer{
		fn:      fn,
		backlog: backlog,
		logger:  logger,
		wake:    make(chan struct{}, 1),
		quit:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
	go o.run()
	return o
}

func (o *observer) enqueue(state *fleetv1.FleetState) {
	o.mu.Lock()
	if len(o.queue) >= o.backlog {
		o.queue[0] = nil
		o.queue = o.queue[1:]
		metrics.ObserverDropsTotal.Inc()
		o.logger.Warn("Observer is falling behind, dropping oldest snapshot", "backlog", o.backlog)
	}
	o.queue = append(o.queue, state)
	o.mu.Unlock()

	select {
	case o.wake <- struct{}{}:
	default:
	}
}

func (o *observer) next() (*fleetv1.FleetState, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.queue) == 0 {
		return nil, false
	}
	state := o.queue[0]
	o.queue[0] = nil
	o.queue = o.queue[1:]
	return state, true
}

func (o *observer) run() {
	defer close(o.exited)
	for {
		select {
		case <-o.quit:
			return
		case <-o.wake:
		}

		for {
			state, ok := o.next()
			if !ok {
				break
			}
			o.deliver(state)

			select {
			case <-o.quit:
				return
			default:
			}
		}
	}
}

func (o *observer) deliver(state *fleetv1.FleetState) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error(fmt.Errorf("panic: %v", r), "Fleet state observer failed", "tick", state.Tick)
		}
	}()
	o.fn(state, o.quit)
}

func (o *observer) stop() {
	o.stopOnce.Do(func() { close(o.quit) })
}

// observerSet is the list of registered observers.
type observerSet struct {
	backlog int
	logger  log.Logger

	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*observer
	closed bool
}

func newObserverSet(backlog int, logger log.Logger) *observerSet {
	return &observerSet{
		backlog: backlog,
		logger:  logger,
		subs:    make(map[uint64]*observer),
	}
}

// add registers fn. It returns nil once the set is closed.
func (s *observerSet) add(fn deliverFunc) (*observer, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, func() {}
	}

	id := s.nextID
	s.nextID++
	o := newObserver(fn, s.backlog, s.logger)
	s.subs[id] = o

	return o, func() { s.remove(id) }
}

func (s *observerSet) remove(id uint64) {
	s.mu.Lock()
	o, ok := s.subs[id]
	delete(s.subs, id)
	s.mu.Unlock()
	if ok {
		o.stop()
	}
}

// notify hands state to every observer without waiting for delivery.
func (s *observerSet) notify(state *fleetv1.FleetState) {
	s.mu.Lock()
	targets := make([]*observer, 0, len(s.subs))
	for _, o := range s.subs {
		targets = append(targets, o)
	}
	s.mu.Unlock()

	for _, o := range targets {
		o.enqueue(state)
	}
}

func (s *observerSet) close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[uint64]*observer)
	s.closed = true
	s.mu.Unlock()

	for _, o := range subs {
		o.stop()
	}
}
