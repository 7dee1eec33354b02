package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/autopeer-io/fleetclient/cmd/fleetctl/app/options"
	"github.com/autopeer-io/fleetclient/pkg/app"
	"github.com/autopeer-io/fleetclient/pkg/fleetmanager"
	"github.com/autopeer-io/fleetclient/pkg/log"
)

const (
	commandName = "fleetctl"
	commandDesc = `fleetctl operates a Fleet Manager: it creates and removes vehicles,
changes poses and controller states, freezes the fleet and follows the
fleet state stream. The relay command republishes that stream on MQTT.`
)

// NewApp builds the fleetctl command tree. ctx is cancelled on SIGINT/SIGTERM.
func NewApp(ctx context.Context) *app.App {
	opts := options.NewFleetctlOptions()
	return app.NewApp(
		commandName,
		"Operate a Fleet Manager",
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithDefaultValidArgs(),
		app.WithConfigChangeFunc(reloadLogLevel),
		app.WithCommands(
			newCreateCommand(ctx, opts),
			newRemoveCommand(ctx, opts),
			newDescribeCommand(ctx, opts),
			newSetPoseCommand(ctx, opts),
			newSetKingpinStateCommand(ctx, opts),
			newSetFleetStateCommand(ctx, opts),
			newFrozenCommand(ctx, opts, "freeze"),
			newFrozenCommand(ctx, opts, "unfreeze"),
			newGetCommand(ctx, opts),
			newWatchCommand(ctx, opts),
			newRelayCommand(ctx, opts),
		),
	)
}

// reloadLogLevel applies a changed log.level from the configuration file.
func reloadLogLevel(v *viper.Viper) {
	level := v.GetString("log.level")
	if err := log.SetLevel(level); err != nil {
		log.Error(err, "Ignoring invalid log level from configuration", "level", level)
		return
	}
	log.Info("Log level changed", "level", level)
}

// newClient initialises logging and dials the Fleet Manager.
func newClient(opts *options.FleetctlOptions, subscribe bool) (*fleetmanager.Client, error) {
	log.Init(opts.Log)

	cfg := opts.FleetOptions.ToClientConfig(log.Std())
	cfg.Settings.Subscribe = cfg.Settings.Subscribe || subscribe

	client, err := fleetmanager.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create fleet manager client: %w", err)
	}
	return client, nil
}

// withClient runs fn against a fresh client and closes it afterwards.
func withClient(opts *options.FleetctlOptions, subscribe bool, fn func(c *fleetmanager.Client) error) error {
	client, err := newClient(opts, subscribe)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error(err, "Failed to close fleet manager client")
		}
	}()
	return fn(client)
}

// rejected turns a false result into an error so the exit status reflects it.
func rejected(ok bool, err error, what string) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%s: rejected by the Fleet Manager", what)
	}
	return nil
}
