package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/autopeer-io/fleetclient/pkg/fleetmanager"
	"github.com/autopeer-io/fleetclient/pkg/log"
)

var _ IOptions = (*FleetManagerOptions)(nil)

// FleetManagerOptions contains configuration for connecting to a Fleet Manager.
type FleetManagerOptions struct {
	// Host of the Fleet Manager service.
	Host string `json:"host" mapstructure:"host"`

	// Port of the Fleet Manager service.
	Port uint16 `json:"port" mapstructure:"port"`

	// Subscribe starts the fleet state subscription on connect.
	Subscribe bool `json:"subscribe" mapstructure:"subscribe"`

	// Rethrow reports transport failures of calls as errors.
	Rethrow bool `json:"rethrow" mapstructure:"rethrow"`

	// Timeout bounds each request/response call.
	Timeout time.Duration `json:"timeout" mapstructure:"timeout"`

	ReconnectBackoff time.Duration `json:"reconnect-backoff" mapstructure:"reconnect-backoff"`
	ObserverBacklog  int           `json:"observer-backlog" mapstructure:"observer-backlog"`
}

// NewFleetManagerOptions creates a FleetManagerOptions with default parameters.
func NewFleetManagerOptions() *FleetManagerOptions {
	return &FleetManagerOptions{
		Host:             "127.0.0.1",
		Port:             fleetmanager.DefaultPort,
		Rethrow:          true,
		Timeout:          fleetmanager.DefaultCallTimeout,
		ReconnectBackoff: fleetmanager.DefaultReconnectBackoff,
		ObserverBacklog:  fleetmanager.DefaultObserverBacklog,
	}
}

// Validate is used to parse and validate the parameters entered by the user at
// the command line when the program starts.
func (o *FleetManagerOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if o.Host == "" {
		errors = append(errors, fmt.Errorf("--fleet.host must not be empty"))
	} else if err := ValidateAddress(o.Address()); err != nil {
		errors = append(errors, err)
	}
	if o.Port == 0 {
		errors = append(errors, fmt.Errorf("--fleet.port must be greater than 0"))
	}
	if o.Timeout <= 0 {
		errors = append(errors, fmt.Errorf("--fleet.timeout must be greater than 0"))
	}
	if o.ReconnectBackoff <= 0 {
		errors = append(errors, fmt.Errorf("--fleet.reconnect-backoff must be greater than 0"))
	}
	if o.ObserverBacklog <= 0 {
		errors = append(errors, fmt.Errorf("--fleet.observer-backlog must be greater than 0"))
	}

	return errors
}

// AddFlags adds flags for FleetManagerOptions to the specified FlagSet.
func (o *FleetManagerOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Host, "fleet.host", o.Host, "Host of the Fleet Manager service.")
	fs.Uint16Var(&o.Port, "fleet.port", o.Port, "Port of the Fleet Manager service.")
	fs.BoolVar(&o.Subscribe, "fleet.subscribe", o.Subscribe, "Subscribe to fleet state updates on connect.")
	fs.BoolVar(&o.Rethrow, "fleet.rethrow", o.Rethrow, "Report transport failures of calls as errors instead of a false result.")
	fs.DurationVar(&o.Timeout, "fleet.timeout", o.Timeout, "Timeout of each request/response call.")
	fs.DurationVar(&o.ReconnectBackoff, "fleet.reconnect-backoff", o.ReconnectBackoff, "Pause between a broken fleet state stream and the next attempt.")
	fs.IntVar(&o.ObserverBacklog, "fleet.observer-backlog", o.ObserverBacklog, "Snapshots an observer may lag behind before the oldest is dropped.")
}

// Address returns the dial target of the Fleet Manager.
func (o *FleetManagerOptions) Address() string {
	return fleetmanager.Address(o.Host, o.Port)
}

// ToClientConfig converts the options into a fleetmanager.ClientConfig.
func (o *FleetManagerOptions) ToClientConfig(logger log.Logger) *fleetmanager.ClientConfig {
	return &fleetmanager.ClientConfig{
		Address: o.Address(),
		Settings: fleetmanager.Settings{
			Subscribe: o.Subscribe,
			Rethrow:   o.Rethrow,
		},
		CallTimeout:      o.Timeout,
		ReconnectBackoff: o.ReconnectBackoff,
		ObserverBacklog:  o.ObserverBacklog,
		Logger:           logger,
	}
}
