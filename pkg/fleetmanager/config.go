package fleetmanager

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"google.golang.org/grpc"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/utils/clock"

	"github.com/autopeer-io/fleetclient/pkg/log"
)

const (
	// DefaultPort is the port the Fleet Manager service listens on.
	DefaultPort uint16 = 41917

	DefaultReconnectBackoff = 100 * time.Millisecond
	DefaultCallTimeout      = 10 * time.Second
	DefaultObserverBacklog  = 1024
)

// Settings are the behavioural switches of a Client.
type Settings struct {
	// Subscribe starts the fleet state subscription when the client is created.
	Subscribe bool

	// Rethrow makes local and transport failures of façade calls come back as
	// errors. When false they yield the same absent/false result as a
	// service-reported failure.
	Rethrow bool
}

// ClientConfig holds the configuration for creating a new Client.
type ClientConfig struct {
	// Address is the host:port of the Fleet Manager. Required by NewClient,
	// ignored by NewClientFromStub.
	Address string

	Settings Settings

	// CallTimeout bounds façade calls without a deadline. Default is 10s.
	// Only applies to connections opened by NewClient.
	CallTimeout time.Duration

	// ReconnectBackoff is the constant pause between a stream failure and the
	// next subscribe attempt. Default is 100ms.
	ReconnectBackoff time.Duration

	// ObserverBacklog is how many undelivered snapshots an observer may lag
	// behind before the oldest is dropped. Default is 1024.
	ObserverBacklog int

	// DialOptions are appended to the client's own dial options.
	DialOptions []grpc.DialOption

	// Logger receives diagnostics. Nil disables logging.
	Logger log.Logger

	// Clock drives the reconnect backoff. Nil selects the real clock.
	Clock clock.Clock
}

// Address joins host and port into a dial target.
func Address(host string, port uint16) string {
	return net.JoinHostPort(host, strconv.Itoa(int(port)))
}

// setDefaultConfig applies default values to unset fields.
func setDefaultConfig(cfg *ClientConfig) {
	if cfg.CallTimeout == 0 {
		cfg.CallTimeout = DefaultCallTimeout
	}
	if cfg.ReconnectBackoff == 0 {
		cfg.ReconnectBackoff = DefaultReconnectBackoff
	}
	if cfg.ObserverBacklog == 0 {
		cfg.ObserverBacklog = DefaultObserverBacklog
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.RealClock{}
	}
}

// Validate checks if the configuration is valid.
func (c *ClientConfig) Validate() error {
	var errs []error
	if c.CallTimeout < 0 {
		errs = append(errs, fmt.Errorf("call timeout must not be negative, got %s", c.CallTimeout))
	}
	if c.ReconnectBackoff < 0 {
		errs = append(errs, fmt.Errorf("reconnect backoff must not be negative, got %s", c.ReconnectBackoff))
	}
	if c.ObserverBacklog < 0 {
		errs = append(errs, fmt.Errorf("observer backlog must not be negative, got %d", c.ObserverBacklog))
	}
	if c.Address != "" {
		if _, _, err := net.SplitHostPort(c.Address); err != nil {
			errs = append(errs, fmt.Errorf("invalid address %q: %w", c.Address, err))
		}
	}
	return utilerrors.NewAggregate(errs)
}
