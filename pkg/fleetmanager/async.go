package fleetmanager

import (
	"context"
	"net/netip"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
)

// Result is the outcome of an asynchronous call. OK and Err follow the same
// rules as the synchronous variant.
type Result[T any] struct {
	Value T
	OK    bool
	Err   error
}

// runAsync runs fn on its own goroutine. The returned channel receives exactly
// one Result and is then closed; it never blocks the goroutine.
func runAsync[T any](fn func() (T, bool, error)) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		defer close(ch)
		v, ok, err := fn()
		ch <- Result[T]{Value: v, OK: ok, Err: err}
	}()
	return ch
}

func runAsyncBool(fn func() (bool, error)) <-chan Result[bool] {
	return runAsync(func() (bool, bool, error) {
		ok, err := fn()
		return ok, ok, err
	})
}

// CreateVehicleAsync is the asynchronous form of CreateVehicle.
func (c *Client) CreateVehicleAsync(ctx context.Context, pose fleetv1.Pose) <-chan Result[netip.Addr] {
	return runAsync(func() (netip.Addr, bool, error) { return c.CreateVehicle(ctx, pose) })
}

// RemoveVehicleAsync is the asynchronous form of RemoveVehicle.
func (c *Client) RemoveVehicleAsync(ctx context.Context, addr netip.Addr) <-chan Result[bool] {
	return runAsyncBool(func() (bool, error) { return c.RemoveVehicle(ctx, addr) })
}

// GetKingpinDescriptionAsync is the asynchronous form of GetKingpinDescription.
func (c *Client) GetKingpinDescriptionAsync(ctx context.Context, addr netip.Addr) <-chan Result[string] {
	return runAsync(func() (string, bool, error) { return c.GetKingpinDescription(ctx, addr) })
}

// SetFleetStateAsync is the asynchronous form of SetFleetState.
func (c *Client) SetFleetStateAsync(ctx context.Context, state fleetv1.ControllerState) <-chan Result[bool] {
	return runAsyncBool(func() (bool, error) { return c.SetFleetState(ctx, state) })
}

// SetFrozenStateAsync is the asynchronous form of SetFrozenState.
func (c *Client) SetFrozenStateAsync(ctx context.Context, state fleetv1.FrozenState) <-chan Result[bool] {
	return runAsyncBool(func() (bool, error) { return c.SetFrozenState(ctx, state) })
}

// SetKingpinStateAsync is the asynchronous form of SetKingpinState.
func (c *Client) SetKingpinStateAsync(ctx context.Context, addr netip.Addr, state fleetv1.ControllerState) <-chan Result[bool] {
	return runAsyncBool(func() (bool, error) { return c.SetKingpinState(ctx, addr, state) })
}

// SetPoseAsync is the asynchronous form of SetPose.
func (c *Client) SetPoseAsync(ctx context.Context, addr netip.Addr, pose fleetv1.Pose) <-chan Result[bool] {
	return runAsyncBool(func() (bool, error) { return c.SetPose(ctx, addr, pose) })
}
