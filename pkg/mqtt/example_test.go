package mqtt_test

import (
	"context"
	"fmt"
	"time"

	"github.com/autopeer-io/fleetclient/pkg/log"
	"github.com/autopeer-io/fleetclient/pkg/mqtt"
	"github.com/autopeer-io/fleetclient/pkg/mqtt/topic"
)

// ExampleClient shows how the relay sets up its MQTT client: publish retained
// fleet state and listen for operator commands.
func ExampleClient() {
	logger := log.NewLogger(log.NewOptions())

	cfg := &mqtt.ClientConfig{
		BrokerURL:      "tcp://localhost:1883",
		ClientID:       "fleet-relay-001",
		KeepAlive:      60,
		ConnectTimeout: 5 * time.Second,
		CleanStart:     true,
		Logger:         logger,
	}

	client, err := mqtt.NewClient(cfg)
	if err != nil {
		logger.Error(err, "Failed to create MQTT client")
		return
	}

	// Start returns immediately; connecting and reconnecting happen in the background.
	ctx := context.Background()
	if err := client.Start(ctx); err != nil {
		logger.Error(err, "Failed to start MQTT client")
		return
	}
	defer client.Disconnect(ctx)

	topics := topic.NewTopicBuilder("fleet/v1")

	// Restored automatically after a reconnect.
	if err := client.Subscribe(ctx, topics.CommandWildcard(), 1, func(ctx context.Context, t string, payload []byte) {
		name, _ := topics.CommandName(t)
		fmt.Printf("command %s: %s\n", name, payload)
	}); err != nil {
		logger.Error(err, "Failed to subscribe", "topic", topics.CommandWildcard())
	}

	if err := client.AwaitConnection(ctx); err != nil {
		logger.Error(err, "Connection timed out")
		return
	}

	payload := []byte(`{"tick":1,"frozenState":0,"controllerState":2,"kingpinStates":[]}`)
	if err := client.Publish(ctx, topics.FleetState(), 1, true, payload); err != nil {
		logger.Error(err, "Failed to publish fleet state", "topic", topics.FleetState())
	}
}
