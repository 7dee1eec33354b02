package app

import (
	"context"
	"fmt"
	"net/netip"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/cmd/fleetctl/app/options"
	"github.com/autopeer-io/fleetclient/pkg/fleetmanager"
)

func addPoseFlags(fs *pflag.FlagSet, pose *fleetv1.Pose) {
	fs.Float64Var(&pose.X, "x", pose.X, "X coordinate of the pose.")
	fs.Float64Var(&pose.Y, "y", pose.Y, "Y coordinate of the pose.")
	fs.Float64Var(&pose.Heading, "heading", pose.Heading, "Heading of the pose in radians.")
}

func parseAddress(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid kingpin address %q: %w", s, err)
	}
	return addr, nil
}

func newCreateCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	var pose fleetv1.Pose
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vehicle at a pose and print its address",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				addr, ok, err := c.CreateVehicle(ctx, pose)
				if err := rejected(ok, err, "create vehicle"); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), addr)
				return nil
			})
		},
	}
	addPoseFlags(cmd.Flags(), &pose)
	return cmd
}

func newRemoveCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ADDRESS",
		Short: "Remove a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				ok, err := c.RemoveVehicle(ctx, addr)
				return rejected(ok, err, "remove vehicle "+addr.String())
			})
		},
	}
}

func newDescribeCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe ADDRESS",
		Short: "Print the description of a kingpin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				desc, ok, err := c.GetKingpinDescription(ctx, addr)
				if err := rejected(ok, err, "describe "+addr.String()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), desc)
				return nil
			})
		},
	}
}

func newSetPoseCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	var pose fleetv1.Pose
	cmd := &cobra.Command{
		Use:   "set-pose ADDRESS",
		Short: "Move a kingpin to a pose",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				ok, err := c.SetPose(ctx, addr, pose)
				return rejected(ok, err, "set pose of "+addr.String())
			})
		},
	}
	addPoseFlags(cmd.Flags(), &pose)
	return cmd
}

func newSetKingpinStateCommand(ctx context.Context, opts *options.FleetctlOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-kingpin-state ADDRESS STATE",
		Short: "Set the controller state (Disabled, Enabled, Paused) of a kingpin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			state, err := fleetv1.ParseControllerState(args[1])
			if err != nil {
				return err
			}
			return withClient(opts, false, func(c *fleetmanager.Client) error {
				ok, err := c.SetKingpinState(ctx, addr, state)
				return rejected(ok, err, "set controller state of "+addr.String())
			})
		},
	}
}
