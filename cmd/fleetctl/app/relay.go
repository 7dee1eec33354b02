package app

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"sigs.k8s.io/controller-runtime/pkg/healthz"

	"github.com/autopeer-io/fleetclient/cmd/fleetctl/app/options"
	"github.com/autopeer-io/fleetclient/internal/pkg/server"
	"github.com/autopeer-io/fleetclient/internal/relay"
	"github.com/autopeer-io/fleetclient/pkg/fleetmanager"
	"github.com/autopeer-io/fleetclient/pkg/log"
	"github.com/autopeer-io/fleetclient/pkg/mqtt"
	"github.com/autopeer-io/fleetclient/pkg/mqtt/topic"
)

var errNoSnapshot = errors.New("no fleet state received yet")

func newRelayCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Republish the fleet state stream on MQTT until interrupted",
		Long: `relay subscribes to the Fleet Manager and publishes every snapshot as
retained JSON under the configured topic root. With --mqtt.accept-commands
it also executes freeze, unfreeze and fleet-state commands received on MQTT.
Health and Prometheus metrics are served on --http.addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(opts, true, func(c *fleetmanager.Client) error {
				return runRelay(ctx, opts, c)
			})
		},
	}
}

func runRelay(ctx context.Context, opts *options.FleetctlOptions, c *fleetmanager.Client) error {
	logger := log.Std()
	topics := topic.NewTopicBuilder(opts.MqttOptions.TopicRoot)

	mc, err := mqtt.NewClient(opts.MqttOptions.ToClientConfig(logger, topics.RelayStatus()))
	if err != nil {
		return err
	}

	cfg := relay.Config{
		Source: c,
		MQTT:   mc,
		Topics: topics,
		QoS:    opts.MqttOptions.QoS,
		Logger: logger,
	}
	if opts.MqttOptions.AcceptCommands {
		cfg.Commander = c
	}
	r, err := relay.New(cfg)
	if err != nil {
		return err
	}

	httpServer := server.NewHTTPServer(opts.HttpOptions, logger, map[string]healthz.Checker{
		"fleet-state": func(*http.Request) error {
			if c.GetFleetState() == nil {
				return errNoSnapshot
			}
			return nil
		},
		"mqtt": func(*http.Request) error {
			if !mc.IsConnected() {
				return errors.New("mqtt broker not connected")
			}
			return nil
		},
	})

	return server.NewManager(logger, httpServer, server.Func(r.Run)).Start(ctx)
}
