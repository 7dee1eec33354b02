package v1

import "fmt"

// ServiceCode is the status carried by every Fleet Manager response.
// Only ServiceCodeNoError denotes success.
type ServiceCode int32

const (
	ServiceCodeNoError ServiceCode = iota
	ServiceCodeUnknownFailure
	ServiceCodeInvalidPose
	ServiceCodeVehicleNotFound
	ServiceCodeInvalidState
	ServiceCodeUnavailable
)

var serviceCodeNames = map[ServiceCode]string{
	ServiceCodeNoError:         "NoError",
	ServiceCodeUnknownFailure:  "UnknownFailure",
	ServiceCodeInvalidPose:     "InvalidPose",
	ServiceCodeVehicleNotFound: "VehicleNotFound",
	ServiceCodeInvalidState:    "InvalidState",
	ServiceCodeUnavailable:     "Unavailable",
}

func (c ServiceCode) String() string {
	if s, ok := serviceCodeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("ServiceCode(%d)", int32(c))
}

// ControllerState is the controller mode of a kingpin or of the whole fleet.
type ControllerState int32

const (
	ControllerStateUnknown ControllerState = iota
	ControllerStateDisabled
	ControllerStateEnabled
	ControllerStatePaused
)

var controllerStateNames = map[ControllerState]string{
	ControllerStateUnknown:  "Unknown",
	ControllerStateDisabled: "Disabled",
	ControllerStateEnabled:  "Enabled",
	ControllerStatePaused:   "Paused",
}

func (s ControllerState) String() string {
	if n, ok := controllerStateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("ControllerState(%d)", int32(s))
}

// ParseControllerState accepts the names returned by String, case-sensitive.
func ParseControllerState(s string) (ControllerState, error) {
	for k, v := range controllerStateNames {
		if v == s {
			return k, nil
		}
	}
	return ControllerStateUnknown, fmt.Errorf("unknown controller state %q", s)
}

// FrozenState tells whether the fleet simulation is frozen.
type FrozenState int32

const (
	FrozenStateUnfrozen FrozenState = iota
	FrozenStateFrozen
)

func (s FrozenState) String() string {
	switch s {
	case FrozenStateUnfrozen:
		return "Unfrozen"
	case FrozenStateFrozen:
		return "Frozen"
	default:
		return fmt.Sprintf("FrozenState(%d)", int32(s))
	}
}

// Pose is a planar position with heading in radians.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// KingpinState is the controller view of a single vehicle.
type KingpinState struct {
	IPAddress       string          `json:"ipAddress"`
	Name            string          `json:"name,omitempty"`
	ControllerState ControllerState `json:"controllerState"`
	Pose            Pose            `json:"pose"`
	Alive           bool            `json:"alive"`
}

// FleetState is one snapshot pushed by the Subscribe stream.
// Snapshots are treated as immutable once received.
type FleetState struct {
	Tick            uint64          `json:"tick"`
	FrozenState     FrozenState     `json:"frozenState"`
	ControllerState ControllerState `json:"controllerState"`
	KingpinStates   []KingpinState  `json:"kingpinStates"`
}

// Kingpin returns the state of the kingpin with the given address.
func (s *FleetState) Kingpin(ipAddress string) (KingpinState, bool) {
	if s == nil {
		return KingpinState{}, false
	}
	for _, k := range s.KingpinStates {
		if k.IPAddress == ipAddress {
			return k, true
		}
	}
	return KingpinState{}, false
}

// --- requests ---

type CreateVehicleRequest struct {
	Pose Pose `json:"pose"`
}

// AddressRequest addresses a single kingpin; used by RemoveVehicle and
// GetKingpinDescription.
type AddressRequest struct {
	IPAddress string `json:"ipAddress"`
}

type SetFleetStateRequest struct {
	ControllerState ControllerState `json:"controllerState"`
}

type SetFrozenStateRequest struct {
	FrozenState FrozenState `json:"frozenState"`
}

type SetKingpinStateRequest struct {
	IPAddress       string          `json:"ipAddress"`
	ControllerState ControllerState `json:"controllerState"`
}

type SetPoseRequest struct {
	IPAddress string `json:"ipAddress"`
	Pose      Pose   `json:"pose"`
}

type SubscribeRequest struct{}

// --- results ---

// GenericResult is the status part shared by every response.
type GenericResult struct {
	ServiceCode      ServiceCode `json:"serviceCode"`
	ExceptionMessage string      `json:"exceptionMessage,omitempty"`
}

// OK reports whether the service answered NoError.
func (r *GenericResult) OK() bool {
	return r != nil && r.ServiceCode == ServiceCodeNoError
}

type CreateVehicleResult struct {
	GenericResult
	IPAddress string `json:"ipAddress,omitempty"`
}

type KingpinDescriptionResult struct {
	GenericResult
	KingpinDescription string `json:"kingpinDescription,omitempty"`
}
