package options

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

var _ IOptions = (*HttpOptions)(nil)

// HttpOptions configures the health and metrics endpoint of the relay.
type HttpOptions struct {
	Addr string `json:"addr" mapstructure:"addr"`

	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration `json:"read-header-timeout" mapstructure:"read-header-timeout"`

	// ShutdownTimeout bounds draining in-flight requests on exit.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewHttpOptions creates a HttpOptions object with default parameters.
func NewHttpOptions() *HttpOptions {
	return &HttpOptions{
		Addr:              "0.0.0.0:9090",
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   5 * time.Second,
	}
}

// Validate checks the listen address and timeouts.
func (o *HttpOptions) Validate() []error {
	if o == nil {
		return nil
	}

	errors := []error{}

	if err := ValidateAddress(o.Addr); err != nil {
		errors = append(errors, fmt.Errorf("--http.addr: %w", err))
	}
	if o.ReadHeaderTimeout <= 0 {
		errors = append(errors, fmt.Errorf("--http.read-header-timeout must be positive, got %s", o.ReadHeaderTimeout))
	}
	if o.ShutdownTimeout < 0 {
		errors = append(errors, fmt.Errorf("--http.shutdown-timeout must not be negative, got %s", o.ShutdownTimeout))
	}

	return errors
}

// AddFlags adds the http.* flags to fs.
func (o *HttpOptions) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.StringVar(&o.Addr, "http.addr", o.Addr, "Listen address of the /healthz, /readyz and /metrics endpoints.")
	fs.DurationVar(&o.ReadHeaderTimeout, "http.read-header-timeout", o.ReadHeaderTimeout, "Time allowed to read request headers.")
	fs.DurationVar(&o.ShutdownTimeout, "http.shutdown-timeout", o.ShutdownTimeout, "Time allowed to drain requests on exit.")
}
