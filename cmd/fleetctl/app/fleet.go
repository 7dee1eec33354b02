package app

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/cmd/fleetctl/app/options"
	"github.com/autopeer-io/fleetclient/pkg/fleetmanager"
)

func newSetFleetStateCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-fleet-state STATE",
		Short: "Set the controller state (Disabled, Enabled, Paused) of the whole fleet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := fleetv1.ParseControllerState(args[0])
			if err != nil {
				return err
			}
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				ok, err := c.SetFleetState(ctx, state)
				return rejected(ok, err, "set fleet state")
			})
		},
	}
}

func newFrozenCommand(ctx context.Context, opts *options.FleetctlOptions, name string) *cobra.Command {
	state, short := fleetv1.FrozenStateFrozen, "Freeze the fleet"
	if name == "unfreeze" {
		state, short = fleetv1.FrozenStateUnfrozen, "Unfreeze the fleet"
	}
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				ok, err := c.SetFrozenState(ctx, state)
				return rejected(ok, err, name)
			})
		},
	}
}

func newGetCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	wait := 10 * time.Second
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the next fleet state snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				ctx, cancel := context.WithTimeout(ctx, wait)
				defer cancel()

				states := c.Watch(ctx)
				if err := c.Subscribe(); err != nil {
					return err
				}
				s, ok := <-states
				if !ok {
					return fmt.Errorf("no fleet state received within %s", wait)
				}
				return printFleetState(cmd.OutOrStdout(), s, opts.Output)
			})
		},
	}
	cmd.Flags().DurationVar(&wait, "wait", wait, "How long to wait for a snapshot.")
	return cmd
}

func newWatchCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print fleet state snapshots until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				states := c.Watch(ctx)
				if err := c.Subscribe(); err != nil {
					return err
				}
				for s := range states {
					if err := printFleetState(cmd.OutOrStdout(), s, opts.Output); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
