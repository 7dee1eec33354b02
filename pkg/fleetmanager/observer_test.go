package fleetmanager

import (
	"context"
	"sync"
	"testing"
	"time"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/pkg/log"
)

func collectTicks(t *testing.T, ch <-chan uint64, n int) []uint64 {
	t.Helper()
	got := make([]uint64, 0, n)
	for len(got) < n {
		select {
		case tick := <-ch:
			got = append(got, tick)
		case <-time.After(5 * time.Second):
			t.Fatalf("received %v, want %d snapshots", got, n)
		}
	}
	return got
}

func equalTicks(a, b []uint64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestObserversSeeStreamOrder(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{{states: ticks(1, 2, 3)}}}
	c, _ := newTestClient(t, stub, Settings{})

	got := make(chan uint64, 3)
	c.OnFleetStateUpdated(func(s *fleetv1.FleetState) { got <- s.Tick })

	if err := c.Subscribe(); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	if ticks := collectTicks(t, got, 3); !equalTicks(ticks, []uint64{1, 2, 3}) {
		t.Errorf("observer ticks = %v, want [1 2 3]", ticks)
	}
	if s := c.GetFleetState(); s == nil || s.Tick != 3 {
		t.Errorf("GetFleetState() = %+v, want tick 3", s)
	}
}

func TestSlowOrFailingObserverDoesNotStallOthers(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{{states: ticks(1, 2, 3)}}}
	c, _ := newTestClient(t, stub, Settings{})

	release := make(chan struct{})
	defer close(release)
	c.OnFleetStateUpdated(func(*fleetv1.FleetState) { <-release })
	c.OnFleetStateUpdated(func(*fleetv1.FleetState) { panic("observer bug") })

	got := make(chan uint64, 3)
	c.OnFleetStateUpdated(func(s *fleetv1.FleetState) { got <- s.Tick })

	if err := c.Subscribe(); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if ticks := collectTicks(t, got, 3); !equalTicks(ticks, []uint64{1, 2, 3}) {
		t.Errorf("healthy observer ticks = %v, want [1 2 3]", ticks)
	}
}

func TestRemoveObserver(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{{states: ticks(1)}}}
	c, _ := newTestClient(t, stub, Settings{})

	var mu sync.Mutex
	calls := 0
	remove := c.OnFleetStateUpdated(func(*fleetv1.FleetState) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	remove()
	remove()

	if err := c.Subscribe(); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	eventually(t, "snapshot", func() bool { return c.GetFleetState() != nil })

	mu.Lock()
	defer mu.Unlock()
	if calls != 0 {
		t.Errorf("removed observer called %d times", calls)
	}
}

func TestObserverDropsOldestWhenBehind(t *testing.T) {
	entered := make(chan uint64, 8)
	release := make(chan struct{})
	o := newObserver(func(s *fleetv1.FleetState, _ <-chan struct{}) {
		entered <- s.Tick
		if s.Tick == 1 {
			<-release
		}
	}, 2, log.NewNopLogger())
	defer o.stop()

	o.enqueue(&fleetv1.FleetState{Tick: 1})
	if first := collectTicks(t, entered, 1); first[0] != 1 {
		t.Fatalf("first delivery = %d, want 1", first[0])
	}

	for tick := uint64(2); tick <= 4; tick++ {
		o.enqueue(&fleetv1.FleetState{Tick: tick})
	}
	close(release)

	if rest := collectTicks(t, entered, 2); !equalTicks(rest, []uint64{3, 4}) {
		t.Errorf("deliveries after backlog overflow = %v, want [3 4]", rest)
	}
}

func TestWatch(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{{states: ticks(1, 2)}}}
	c, _ := newTestClient(t, stub, Settings{})

	ctx, cancel := context.WithCancel(context.Background())
	ch := c.Watch(ctx)

	if err := c.Subscribe(); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	for _, want := range []uint64{1, 2} {
		select {
		case s := <-ch:
			if s.Tick != want {
				t.Fatalf("Watch() tick = %d, want %d", s.Tick, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for tick %d", want)
		}
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("Watch() delivered after cancel")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() channel not closed after cancel")
	}
}

func TestWatchClosedByClose(t *testing.T) {
	c, _ := newTestClient(t, &fakeStub{}, Settings{})
	ch := c.Watch(context.Background())

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("unexpected snapshot")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() channel not closed after Close")
	}

	if _, ok := <-c.Watch(context.Background()); ok {
		t.Error("Watch() on a closed client returned an open channel")
	}
}
