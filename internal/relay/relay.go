// Package relay republishes Fleet Manager state on MQTT and, optionally,
// forwards operator commands received on MQTT back to the Fleet Manager.
package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/internal/pkg/metrics"
	"github.com/autopeer-io/fleetclient/pkg/log"
	"github.com/autopeer-io/fleetclient/pkg/mqtt"
	"github.com/autopeer-io/fleetclient/pkg/mqtt/topic"
)

// Commands accepted on {root}/fleet/command/{name}.
const (
	CommandFreeze     = "freeze"
	CommandUnfreeze   = "unfreeze"
	CommandFleetState = "fleet-state" // payload: controller state name, e.g. "Enabled"
)

const (
	statusOnline  = "online"
	statusOffline = "offline"

	defaultPublishTimeout = 5 * time.Second
)

// FleetSource delivers fleet state snapshots.
type FleetSource interface {
	OnFleetStateUpdated(fn func(*fleetv1.FleetState)) (remove func())
}

// Commander executes fleet-wide commands.
type Commander interface {
	SetFrozenState(ctx context.Context, state fleetv1.FrozenState) (bool, error)
	SetFleetState(ctx context.Context, state fleetv1.ControllerState) (bool, error)
}

// Config configures a Relay.
type Config struct {
	Source FleetSource
	MQTT   mqtt.Client
	Topics *topic.TopicBuilder
	QoS    int

	// Commander receives commands from the command topics. Nil disables them.
	Commander Commander

	// PublishTimeout bounds each MQTT publication. Default is 5s.
	PublishTimeout time.Duration

	Logger log.Logger
}

// Relay bridges the fleet state stream to MQTT.
type Relay struct {
	cfg    Config
	logger log.Logger

	// last is only touched from the observer goroutine.
	last map[string][]byte
}

// New creates a Relay.
func New(cfg Config) (*Relay, error) {
	if cfg.Source == nil || cfg.MQTT == nil || cfg.Topics == nil {
		return nil, fmt.Errorf("relay requires a fleet source, an mqtt client and a topic builder")
	}
	if cfg.PublishTimeout <= 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	return &Relay{
		cfg:    cfg,
		logger: cfg.Logger.WithName("relay"),
		last:   make(map[string][]byte),
	}, nil
}

// Run starts the MQTT client and relays until ctx is done.
func (r *Relay) Run(ctx context.Context) error {
	if err := r.cfg.MQTT.Start(ctx); err != nil {
		return fmt.Errorf("failed to start mqtt client: %w", err)
	}
	defer r.cfg.MQTT.Disconnect(context.Background())

	go r.announce(ctx)

	if r.cfg.Commander != nil {
		filter := r.cfg.Topics.CommandWildcard()
		if err := r.cfg.MQTT.Subscribe(ctx, filter, r.cfg.QoS, r.handleCommand); err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", filter, err)
		}
	}

	remove := r.cfg.Source.OnFleetStateUpdated(func(s *fleetv1.FleetState) {
		r.publishSnapshot(ctx, s)
	})
	defer remove()

	r.logger.Info("Relaying fleet state", "topic", r.cfg.Topics.FleetState(), "commands", r.cfg.Commander != nil)
	<-ctx.Done()

	r.publish(context.Background(), "status", r.cfg.Topics.RelayStatus(), []byte(statusOffline))
	r.logger.Info("Relay stopped")
	return nil
}

// announce marks the relay online once the broker connection is up.
func (r *Relay) announce(ctx context.Context) {
	if err := r.cfg.MQTT.AwaitConnection(ctx); err != nil {
		return
	}
	r.publish(ctx, "status", r.cfg.Topics.RelayStatus(), []byte(statusOnline))
}

// publishSnapshot publishes the fleet snapshot and every kingpin whose state
// changed since the previous one. Kingpins that disappeared get their
// retained message cleared.
func (r *Relay) publishSnapshot(ctx context.Context, s *fleetv1.FleetState) {
	payload, err := json.Marshal(s)
	if err != nil {
		r.logger.Error(err, "Failed to encode fleet state", "tick", s.Tick)
		metrics.RelayPublishTotal.WithLabelValues("fleet", "error").Inc()
		return
	}
	r.publish(ctx, "fleet", r.cfg.Topics.FleetState(), payload)

	seen := make(map[string]struct{}, len(s.KingpinStates))
	for _, k := range s.KingpinStates {
		seen[k.IPAddress] = struct{}{}

		payload, err := json.Marshal(k)
		if err != nil {
			r.logger.Error(err, "Failed to encode kingpin state", "address", k.IPAddress)
			continue
		}
		if prev, ok := r.last[k.IPAddress]; ok && bytes.Equal(prev, payload) {
			continue
		}
		if r.publish(ctx, "kingpin", r.cfg.Topics.KingpinState(k.IPAddress), payload) {
			r.last[k.IPAddress] = payload
		}
	}

	for addr := range r.last {
		if _, ok := seen[addr]; ok {
			continue
		}
		if r.publish(ctx, "kingpin", r.cfg.Topics.KingpinState(addr), nil) {
			delete(r.last, addr)
		}
	}
}

func (r *Relay) publish(ctx context.Context, kind, t string, payload []byte) bool {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.PublishTimeout)
	defer cancel()

	if err := r.cfg.MQTT.Publish(ctx, t, r.cfg.QoS, true, payload); err != nil {
		metrics.RelayPublishTotal.WithLabelValues(kind, "error").Inc()
		r.logger.Warn("Failed to publish", "topic", t, "error", err)
		return false
	}
	metrics.RelayPublishTotal.WithLabelValues(kind, "ok").Inc()
	r.logger.Debug("Published", "topic", t, "bytes", len(payload))
	return true
}

func (r *Relay) handleCommand(ctx context.Context, t string, payload []byte) {
	name, ok := r.cfg.Topics.CommandName(t)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.PublishTimeout)
	defer cancel()

	var (
		accepted bool
		err      error
	)
	switch name {
	case CommandFreeze:
		accepted, err = r.cfg.Commander.SetFrozenState(ctx, fleetv1.FrozenStateFrozen)
	case CommandUnfreeze:
		accepted, err = r.cfg.Commander.SetFrozenState(ctx, fleetv1.FrozenStateUnfrozen)
	case CommandFleetState:
		state, perr := fleetv1.ParseControllerState(strings.TrimSpace(string(payload)))
		if perr != nil {
			metrics.RelayCommandsTotal.WithLabelValues(name, "invalid").Inc()
			r.logger.Warn("Ignoring fleet-state command", "error", perr)
			return
		}
		accepted, err = r.cfg.Commander.SetFleetState(ctx, state)
	default:
		metrics.RelayCommandsTotal.WithLabelValues("unknown", "invalid").Inc()
		r.logger.Warn("Ignoring unknown command", "command", name)
		return
	}

	switch {
	case err != nil:
		metrics.RelayCommandsTotal.WithLabelValues(name, "error").Inc()
		r.logger.Error(err, "Command failed", "command", name)
	case !accepted:
		metrics.RelayCommandsTotal.WithLabelValues(name, "rejected").Inc()
		r.logger.Warn("Command rejected by the Fleet Manager", "command", name)
	default:
		metrics.RelayCommandsTotal.WithLabelValues(name, "ok").Inc()
		r.logger.Info("Command executed", "command", name)
	}
}
