// Package fleetmanager is a client for the Fleet Manager service.
//
// A Client offers two things. The request/response calls (CreateVehicle,
// SetPose, SetFleetState, ...) map the service status to a plain result: a
// NoError answer yields the value and true, any other answer yields the zero
// value and false. Failures to reach the service at all are reported as a
// *CallError when Settings.Rethrow is set and are otherwise folded into the
// same false result.
//
// The fleet state subscription keeps a server stream open in the background,
// reconnecting after a constant backoff whenever it breaks, until it is
// cancelled with Unsubscribe or Close. Every snapshot becomes the value of
// GetFleetState and is handed to each observer registered with
// OnFleetStateUpdated or Watch.
package fleetmanager
