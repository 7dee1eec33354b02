package fleetmanager

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/autopeer-io/fleetclient/pkg/log"
)

func newTestClient(t *testing.T, stub *fakeStub, settings Settings) (*Client, *clocktesting.FakeClock) {
	t.Helper()
	clk := clocktesting.NewFakeClock(time.Now())
	c, err := NewClientFromStub(stub, &ClientConfig{Settings: settings, Clock: clk})
	if err != nil {
		t.Fatalf("NewClientFromStub() error = %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c, clk
}

func TestSubscriptionReconnectsAfterFailures(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{
		{openErr: errUnreachable},
		{endErr: status.Error(codes.Internal, "stream reset")},
		{states: ticks(1)},
	}}
	c, clk := newTestClient(t, stub, Settings{Subscribe: true})

	for i := 0; i < 2; i++ {
		eventually(t, "backoff timer", clk.HasWaiters)
		if got := c.SubscriptionState(); got != StateReconnecting {
			t.Fatalf("state during backoff = %s, want %s", got, StateReconnecting)
		}
		clk.Step(DefaultReconnectBackoff)
	}

	eventually(t, "first snapshot", func() bool {
		s := c.GetFleetState()
		return s != nil && s.Tick == 1
	})
	if got := stub.subscribeCount(); got != 3 {
		t.Errorf("subscribe attempts = %d, want 3", got)
	}
	if got := c.SubscriptionState(); got != StateStreaming {
		t.Errorf("state = %s, want %s", got, StateStreaming)
	}
}

func TestSubscriptionTreatsEndOfStreamAsFailure(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{{states: ticks(1), endErr: io.EOF}}}
	c, clk := newTestClient(t, stub, Settings{Subscribe: true})

	eventually(t, "backoff timer", clk.HasWaiters)
	clk.Step(DefaultReconnectBackoff)
	eventually(t, "second attempt", func() bool { return stub.subscribeCount() == 2 })
	eventually(t, "streaming", func() bool { return c.SubscriptionState() == StateStreaming })
}

func TestSubscriptionServerCanceledIsTransient(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{{endErr: status.Error(codes.Canceled, "server going away")}}}
	c, clk := newTestClient(t, stub, Settings{Subscribe: true})

	eventually(t, "backoff timer", clk.HasWaiters)
	clk.Step(DefaultReconnectBackoff)
	eventually(t, "streaming", func() bool { return c.SubscriptionState() == StateStreaming })
}

func TestUnsubscribeWhileStreaming(t *testing.T) {
	stub := &fakeStub{}
	c, _ := newTestClient(t, stub, Settings{Subscribe: true})

	eventually(t, "streaming", func() bool { return c.SubscriptionState() == StateStreaming })

	c.Unsubscribe()
	waitClosed(t, "loop exit", c.Done())

	if got := c.SubscriptionState(); got != StateCancelled {
		t.Errorf("state = %s, want %s", got, StateCancelled)
	}
	if got := stub.subscribeCount(); got != 1 {
		t.Errorf("subscribe attempts = %d, want 1", got)
	}
}

func TestUnsubscribeDuringBackoff(t *testing.T) {
	stub := &fakeStub{scripts: []streamScript{{openErr: errUnreachable}}}
	c, clk := newTestClient(t, stub, Settings{Subscribe: true})

	eventually(t, "backoff timer", clk.HasWaiters)
	c.Unsubscribe()
	waitClosed(t, "loop exit", c.Done())

	if got := stub.subscribeCount(); got != 1 {
		t.Errorf("subscribe attempts = %d, want 1", got)
	}
	if got := c.SubscriptionState(); got != StateCancelled {
		t.Errorf("state = %s, want %s", got, StateCancelled)
	}
}

func TestSubscribeLifecycle(t *testing.T) {
	stub := &fakeStub{}
	c, _ := newTestClient(t, stub, Settings{})

	if got := c.SubscriptionState(); got != StateIdle {
		t.Fatalf("initial state = %s, want %s", got, StateIdle)
	}

	// Unsubscribe before Subscribe does nothing.
	c.Unsubscribe()
	if got := c.SubscriptionState(); got != StateIdle {
		t.Fatalf("state after early Unsubscribe = %s, want %s", got, StateIdle)
	}

	if err := c.Subscribe(); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := c.Subscribe(); err != nil {
		t.Fatalf("second Subscribe() error = %v", err)
	}
	eventually(t, "streaming", func() bool { return c.SubscriptionState() == StateStreaming })
	if got := stub.subscribeCount(); got != 1 {
		t.Errorf("subscribe attempts = %d, want 1", got)
	}

	c.Unsubscribe()
	c.Unsubscribe()
	waitClosed(t, "loop exit", c.Done())

	if err := c.Subscribe(); !errors.Is(err, ErrSubscriptionCancelled) {
		t.Errorf("Subscribe() after Unsubscribe error = %v, want %v", err, ErrSubscriptionCancelled)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := c.Subscribe(); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Subscribe() after Close error = %v, want %v", err, ErrClientClosed)
	}
}

func TestCloseWithoutSubscription(t *testing.T) {
	c, _ := newTestClient(t, &fakeStub{}, Settings{})

	if err := c.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	waitClosed(t, "done", c.Done())
	if got := c.SubscriptionState(); got != StateCancelled {
		t.Errorf("state after Close = %s, want %s", got, StateCancelled)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestStateGaugeCountsEveryClient(t *testing.T) {
	gauge := prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: "test_subscription_state"}, []string{"state"})
	count := func(s SubscriptionState) float64 {
		return testutil.ToFloat64(gauge.WithLabelValues(string(s)))
	}

	a := newSubscriptionFSM(log.NewNopLogger(), gauge)
	b := newSubscriptionFSM(log.NewNopLogger(), gauge)
	if got := count(StateIdle); got != 2 {
		t.Fatalf("idle = %v, want 2", got)
	}

	ctx := context.Background()
	for _, event := range []string{EventConnect, EventEstablished} {
		if err := a.Event(ctx, event); err != nil {
			t.Fatalf("Event(%s) error = %v", event, err)
		}
	}
	if err := b.Event(ctx, EventCancel); err != nil {
		t.Fatalf("Event(cancel) error = %v", err)
	}

	want := map[SubscriptionState]float64{
		StateIdle:         0,
		StateConnecting:   0,
		StateStreaming:    1,
		StateReconnecting: 0,
		StateCancelled:    1,
	}
	for s, n := range want {
		if got := count(s); got != n {
			t.Errorf("%s = %v, want %v", s, got, n)
		}
	}
}
