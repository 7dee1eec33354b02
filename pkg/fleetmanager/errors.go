package fleetmanager

import (
	"errors"
	"fmt"
)

var (
	ErrClientClosed          = errors.New("fleetmanager: client closed")
	ErrSubscriptionCancelled = errors.New("fleetmanager: subscription cancelled")
	ErrAddressRequired       = errors.New("fleetmanager: address is required")
	ErrEmptyResponse         = errors.New("fleetmanager: empty response")

	// ErrTransport matches every CallError. A service-reported failure is
	// never an error, so errors.Is(err, ErrTransport) tells "could not ask"
	// apart from "the service said no".
	ErrTransport = errors.New("fleetmanager: transport failure")

	errStreamEnded = errors.New("fleet state stream ended")
)

// CallError is returned by façade calls in rethrow mode when the request
// could not be completed locally: connection, encoding or decoding failures.
type CallError struct {
	Op  string
	Err error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("fleetmanager: %s: %v", e.Op, e.Err)
}

func (e *CallError) Unwrap() []error {
	return []error{ErrTransport, e.Err}
}
