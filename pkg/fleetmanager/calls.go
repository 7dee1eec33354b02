package fleetmanager

import (
	"context"
	"fmt"
	"net/netip"

	fleetv1 "github.com/autopeer-io/fleetclient/api/fleetmanager/v1"
	"github.com/autopeer-io/fleetclient/internal/pkg/metrics"
)

const (
	resultOK             = "ok"
	resultServiceError   = "service_error"
	resultTransportError = "transport_error"
)

// callFunc performs one RPC and returns the value on success together with the
// status part of the response.
type callFunc[T any] func(ctx context.Context) (T, *fleetv1.GenericResult, error)

// invoke runs do and maps its outcome to (value, ok, err):
//   - NoError status: (value, true, nil)
//   - any other status: (zero, false, nil)
//   - local failure: (zero, false, *CallError) in rethrow mode, otherwise (zero, false, nil)
func invoke[T any](ctx context.Context, c *Client, op string, do callFunc[T], keysAndValues ...any) (T, bool, error) {
	var zero T
	logger := c.logger.WithValues(append([]any{"op", op}, keysAndValues...)...)
	logger.Debug("Fleet Manager call")

	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()

	var (
		value  T
		status *fleetv1.GenericResult
		err    error
	)
	if closed {
		err = ErrClientClosed
	} else {
		value, status, err = do(ctx)
		if err == nil && status == nil {
			err = ErrEmptyResponse
		}
	}

	if err != nil {
		metrics.CallsTotal.WithLabelValues(op, resultTransportError).Inc()
		logger.Error(err, "Fleet Manager call failed")
		if c.rethrow {
			return zero, false, &CallError{Op: op, Err: err}
		}
		return zero, false, nil
	}

	if !status.OK() {
		metrics.CallsTotal.WithLabelValues(op, resultServiceError).Inc()
		logger.Warn("Fleet Manager call was rejected",
			"serviceCode", status.ServiceCode, "message", status.ExceptionMessage)
		return zero, false, nil
	}

	metrics.CallsTotal.WithLabelValues(op, resultOK).Inc()
	logger.Info("Fleet Manager call succeeded")
	return value, true, nil
}

// CreateVehicle asks the Fleet Manager to spawn a vehicle at pose and returns
// the address it was given.
func (c *Client) CreateVehicle(ctx context.Context, pose fleetv1.Pose) (netip.Addr, bool, error) {
	return invoke(ctx, c, "CreateVehicle", func(ctx context.Context) (netip.Addr, *fleetv1.GenericResult, error) {
		res, err := c.stub.CreateVehicle(ctx, &fleetv1.CreateVehicleRequest{Pose: pose})
		if err != nil || res == nil {
			return netip.Addr{}, nil, err
		}
		if !res.OK() {
			return netip.Addr{}, &res.GenericResult, nil
		}
		addr, err := netip.ParseAddr(res.IPAddress)
		if err != nil {
			return netip.Addr{}, nil, fmt.Errorf("invalid vehicle address %q: %w", res.IPAddress, err)
		}
		return addr, &res.GenericResult, nil
	}, "pose", pose)
}

// RemoveVehicle removes the vehicle with the given address.
func (c *Client) RemoveVehicle(ctx context.Context, addr netip.Addr) (bool, error) {
	_, ok, err := invoke(ctx, c, "RemoveVehicle", func(ctx context.Context) (struct{}, *fleetv1.GenericResult, error) {
		res, err := c.stub.RemoveVehicle(ctx, &fleetv1.AddressRequest{IPAddress: addr.String()})
		return struct{}{}, res, err
	}, "address", addr)
	return ok, err
}

// GetKingpinDescription returns the description document of a kingpin.
func (c *Client) GetKingpinDescription(ctx context.Context, addr netip.Addr) (string, bool, error) {
	return invoke(ctx, c, "GetKingpinDescription", func(ctx context.Context) (string, *fleetv1.GenericResult, error) {
		res, err := c.stub.GetKingpinDescription(ctx, &fleetv1.AddressRequest{IPAddress: addr.String()})
		if err != nil || res == nil {
			return "", nil, err
		}
		return res.KingpinDescription, &res.GenericResult, nil
	}, "address", addr)
}

// SetFleetState sets the controller state of the whole fleet.
func (c *Client) SetFleetState(ctx context.Context, state fleetv1.ControllerState) (bool, error) {
	_, ok, err := invoke(ctx, c, "SetFleetState", func(ctx context.Context) (struct{}, *fleetv1.GenericResult, error) {
		res, err := c.stub.SetFleetState(ctx, &fleetv1.SetFleetStateRequest{ControllerState: state})
		return struct{}{}, res, err
	}, "controllerState", state)
	return ok, err
}

// SetFrozenState freezes or unfreezes the fleet.
func (c *Client) SetFrozenState(ctx context.Context, state fleetv1.FrozenState) (bool, error) {
	_, ok, err := invoke(ctx, c, "SetFrozenState", func(ctx context.Context) (struct{}, *fleetv1.GenericResult, error) {
		res, err := c.stub.SetFrozenState(ctx, &fleetv1.SetFrozenStateRequest{FrozenState: state})
		return struct{}{}, res, err
	}, "frozenState", state)
	return ok, err
}

// SetKingpinState sets the controller state of a single kingpin.
func (c *Client) SetKingpinState(ctx context.Context, addr netip.Addr, state fleetv1.ControllerState) (bool, error) {
	_, ok, err := invoke(ctx, c, "SetKingpinState", func(ctx context.Context) (struct{}, *fleetv1.GenericResult, error) {
		res, err := c.stub.SetKingpinState(ctx, &fleetv1.SetKingpinStateRequest{
			IPAddress:       addr.String(),
			ControllerState: state,
		})
		return struct{}{}, res, err
	}, "address", addr, "controllerState", state)
	return ok, err
}

// SetPose moves a kingpin to pose.
func (c *Client) SetPose(ctx context.Context, addr netip.Addr, pose fleetv1.Pose) (bool, error) {
	_, ok, err := invoke(ctx, c, "SetPose", func(ctx context.Context) (struct{}, *fleetv1.GenericResult, error) {
		res, err := c.stub.SetPose(ctx, &fleetv1.SetPoseRequest{IPAddress: addr.String(), Pose: pose})
		return struct{}{}, res, err
	}, "address", addr, "pose", pose)
	return ok, err
}
