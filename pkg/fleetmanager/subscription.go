package fleetmanager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/looplab/fsm"
	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/utils/clock"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/internal/pkg/metrics"
	fsmutil "github.com/autopeer-io/fleetclient/internal/pkg/util/fsm"
	"github.com/autopeer-io/fleetclient/pkg/log"
)

// SubscriptionState is a state of the fleet state subscription.
type SubscriptionState string

const (
	StateIdle         SubscriptionState = "idle"
	StateConnecting   SubscriptionState = "connecting"
	StateStreaming    SubscriptionState = "streaming"
	StateReconnecting SubscriptionState = "reconnecting"
	StateCancelled    SubscriptionState = "cancelled"
)

const (
	// EventConnect starts a subscribe attempt.
	EventConnect = "connect"
	// EventEstablished marks the stream as open.
	EventEstablished = "established"
	// EventFail records a stream failure; a reconnect follows after the backoff.
	EventFail = "fail"
	// EventCancel is terminal.
	EventCancel = "cancel"
)

type subscriptionFSM struct {
	*fsm.FSM
	logger log.Logger

	// gauge counts clients per state.
	gauge *prometheus.GaugeVec
}

func newSubscriptionFSM(logger log.Logger, gauge *prometheus.GaugeVec) *subscriptionFSM {
	f := &subscriptionFSM{logger: logger, gauge: gauge}

	events := fsm.Events{
		{Name: EventConnect, Src: []string{string(StateIdle), string(StateReconnecting)}, Dst: string(StateConnecting)},
		{Name: EventEstablished, Src: []string{string(StateConnecting)}, Dst: string(StateStreaming)},
		{Name: EventFail, Src: []string{string(StateConnecting), string(StateStreaming)}, Dst: string(StateReconnecting)},
		{
			Name: EventCancel,
			Src:  []string{string(StateIdle), string(StateConnecting), string(StateStreaming), string(StateReconnecting)},
			Dst:  string(StateCancelled),
		},
	}

	callbacks := fsm.Callbacks{
		"enter_state": fsmutil.WrapEvent(f.actionEnterState),
	}

	f.FSM = fsm.NewFSM(string(StateIdle), events, callbacks)
	f.gauge.WithLabelValues(string(StateIdle)).Inc()
	return f
}

func (f *subscriptionFSM) actionEnterState(_ context.Context, e *fsm.Event) error {
	f.logger.Debug("Subscription state changed", "from", e.Src, "to", e.Dst, "event", e.Event)
	f.gauge.WithLabelValues(e.Src).Dec()
	f.gauge.WithLabelValues(e.Dst).Inc()
	return nil
}

func (f *subscriptionFSM) state() SubscriptionState {
	return SubscriptionState(f.Current())
}

// subscription owns the background loop that keeps a Subscribe stream open
// and republishes every snapshot.
type subscription struct {
	stub    fleetv1.FleetManagerServiceClient
	clock   clock.Clock
	backoff time.Duration
	logger  log.Logger
	fsm     *subscriptionFSM
	publish func(*fleetv1.FleetState)

	// done is closed once the loop has exited.
	done chan struct{}
}

// transition fires event on the state machine. The loop is the only caller,
// so the events it fires are always valid except a repeated cancel.
func (s *subscription) transition(ctx context.Context, event string) {
	// A cancelled context would abort the transition inside looplab/fsm.
	err := s.fsm.Event(context.WithoutCancel(ctx), event)
	if err = fsmutil.IgnoreNoTransition(err); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) && event == EventCancel {
			return
		}
		s.logger.Error(err, "Unexpected subscription transition", "event", event, "state", s.fsm.Current())
	}
}

// run is the subscription loop. It returns only once ctx is cancelled.
func (s *subscription) run(ctx context.Context) {
	defer close(s.done)
	defer s.transition(ctx, EventCancel)

	s.logger.Debug("Subscription loop started")
	defer s.logger.Debug("Subscription loop ended")

	for {
		if ctx.Err() != nil {
			s.logger.Info("Subscription cancelled")
			return
		}

		s.transition(ctx, EventConnect)
		err := s.consume(ctx)

		// Only the client's own cancellation is terminal; a Canceled status
		// coming from the server is treated like any other stream failure.
		if ctx.Err() != nil {
			s.logger.Info("Subscription cancelled")
			return
		}

		s.transition(ctx, EventFail)
		s.logger.Warn("Fleet state stream failed, reconnecting", "error", err, "backoff", s.backoff)

		timer := s.clock.NewTimer(s.backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("Subscription cancelled")
			return
		case <-timer.C():
		}
		metrics.ReconnectsTotal.Inc()
	}
}

// consume opens one stream and reads it until it fails.
func (s *subscription) consume(ctx context.Context) error {
	s.logger.Debug("Sending subscribe request")
	stream, err := s.stub.Subscribe(ctx, &fleetv1.SubscribeRequest{})
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	s.transition(ctx, EventEstablished)

	for {
		state, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return errStreamEnded
		}
		if err != nil {
			return err
		}
		if state == nil {
			continue
		}
		s.publish(state)
	}
}
