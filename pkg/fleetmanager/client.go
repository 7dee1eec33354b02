package fleetmanager

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/internal/pkg/metrics"
	grpcmiddleware "github.com/autopeer-io/fleetclient/internal/pkg/middleware/grpc"
	"github.com/autopeer-io/fleetclient/pkg/log"
)

// Client talks to a Fleet Manager service. It wraps the request/response RPCs
// and keeps an optional fleet state subscription alive in the background.
//
// A Client must be closed to stop the subscription and release a connection
// it opened itself.
type Client struct {
	stub    fleetv1.FleetManagerServiceClient
	conn    io.Closer // nil when the stub is borrowed
	rethrow bool
	logger  log.Logger

	latest    atomic.Pointer[fleetv1.FleetState]
	observers *observerSet
	sub       *subscription

	mu        sync.Mutex
	started   bool
	cancelled bool
	closed    bool
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewClient dials the Fleet Manager at cfg.Address. The connection belongs to
// the client and is closed by Close.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("fleet manager config is required")
	}

	setDefaultConfig(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fleet manager config: %w", err)
	}
	if cfg.Address == "" {
		return nil, ErrAddressRequired
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(fleetv1.CodecName)),
		grpc.WithChainUnaryInterceptor(
			grpcmiddleware.UnaryTimeoutInterceptor(cfg.CallTimeout),
			grpcmiddleware.UnaryMetricsInterceptor,
		),
	}
	opts = append(opts, cfg.DialOptions...)

	conn, err := grpc.NewClient(cfg.Address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create fleet manager connection to %s: %w", cfg.Address, err)
	}

	return newClient(fleetv1.NewFleetManagerServiceClient(conn), conn, cfg), nil
}

// NewClientFromStub builds a client around a stub owned by someone else,
// typically the composition root. Close never closes the stub's connection.
// cfg may be nil.
func NewClientFromStub(stub fleetv1.FleetManagerServiceClient, cfg *ClientConfig) (*Client, error) {
	if stub == nil {
		return nil, fmt.Errorf("fleet manager stub is required")
	}
	if cfg == nil {
		cfg = &ClientConfig{}
	}

	setDefaultConfig(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fleet manager config: %w", err)
	}

	return newClient(stub, nil, cfg), nil
}

func newClient(stub fleetv1.FleetManagerServiceClient, conn io.Closer, cfg *ClientConfig) *Client {
	logger := cfg.Logger.WithName("fleetmanager-client")

	c := &Client{
		stub:      stub,
		conn:      conn,
		rethrow:   cfg.Settings.Rethrow,
		logger:    logger,
		observers: newObserverSet(cfg.ObserverBacklog, logger.WithName("observer")),
	}
	c.sub = &subscription{
		stub:    stub,
		clock:   cfg.Clock,
		backoff: cfg.ReconnectBackoff,
		logger:  logger.WithName("subscription"),
		fsm:     newSubscriptionFSM(logger.WithName("subscription"), metrics.SubscriptionState),
		publish: c.publish,
		done:    make(chan struct{}),
	}

	logger.Info("Fleet Manager client created", "ownsConnection", conn != nil,
		"subscribe", cfg.Settings.Subscribe, "rethrow", cfg.Settings.Rethrow)

	if cfg.Settings.Subscribe {
		_ = c.Subscribe()
	}
	return c
}

// GetFleetState returns the most recent snapshot, or nil before the first one arrives.
func (c *Client) GetFleetState() *fleetv1.FleetState {
	return c.latest.Load()
}

// publish stores the snapshot, then fans it out.
func (c *Client) publish(state *fleetv1.FleetState) {
	c.latest.Store(state)
	metrics.SnapshotsTotal.Inc()
	metrics.LatestTick.Set(float64(state.Tick))
	c.logger.Debug("Received fleet state", "tick", state.Tick, "kingpins", len(state.KingpinStates))
	c.observers.notify(state)
}

// OnFleetStateUpdated registers fn to be called with every new snapshot.
// Each observer runs on its own goroutine and sees snapshots in stream order;
// a slow observer never delays the stream or other observers. The returned
// func unregisters fn.
func (c *Client) OnFleetStateUpdated(fn func(*fleetv1.FleetState)) (remove func()) {
	_, remove = c.observers.add(func(state *fleetv1.FleetState, _ <-chan struct{}) {
		fn(state)
	})
	return remove
}

// Watch returns a channel of snapshots that is closed when ctx is done or the
// client is closed.
func (c *Client) Watch(ctx context.Context) <-chan *fleetv1.FleetState {
	ch := make(chan *fleetv1.FleetState)

	o, remove := c.observers.add(func(state *fleetv1.FleetState, quit <-chan struct{}) {
		select {
		case ch <- state:
		case <-quit:
		}
	})
	if o == nil {
		close(ch)
		return ch
	}

	go func() {
		select {
		case <-ctx.Done():
		case <-o.quit:
		}
		remove()
		<-o.exited
		close(ch)
	}()
	return ch
}

// Subscribe starts the subscription loop. It is a no-op when the loop is
// already running and fails once the subscription was cancelled or the
// client closed.
func (c *Client) Subscribe() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return ErrClientClosed
	case c.cancelled:
		return ErrSubscriptionCancelled
	case c.started:
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.started = true

	c.logger.Info("Subscribing to fleet state updates")
	go c.sub.run(ctx)
	return nil
}

// Unsubscribe cancels the subscription without waiting for the loop to exit;
// see Done. It is a no-op before Subscribe and after a previous Unsubscribe.
func (c *Client) Unsubscribe() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribeLocked()
}

func (c *Client) unsubscribeLocked() {
	if !c.started || c.cancelled {
		return
	}
	c.cancelled = true
	c.logger.Info("Unsubscribing from fleet state updates")
	c.cancel()
}

// SubscriptionState reports where the subscription loop currently is.
func (c *Client) SubscriptionState() SubscriptionState {
	return c.sub.fsm.state()
}

// Done is closed when the subscription loop has exited, or on Close if it
// never started.
func (c *Client) Done() <-chan struct{} {
	return c.sub.done
}

// Close cancels the subscription, stops the observers and closes the
// connection if the client opened it. Only the first call has any effect.
//
// Closing never panics and always releases the client. The returned error is
// only the connection's own Close error, reported once for logging; later
// calls return nil.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.logger.Debug("Disposing resources")

		c.mu.Lock()
		c.closed = true
		c.unsubscribeLocked()
		neverStarted := !c.started
		c.mu.Unlock()

		if neverStarted {
			c.sub.transition(context.Background(), EventCancel)
			close(c.sub.done)
		}
		c.observers.close()

		if c.conn != nil {
			if cerr := c.conn.Close(); cerr != nil {
				c.logger.Error(cerr, "Failed to close fleet manager connection")
				err = cerr
			}
		}
		c.logger.Info("Fleet Manager client closed")
	})
	return err
}
