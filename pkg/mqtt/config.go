package mqtt

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	"github.com/autopeer-io/fleetclient/pkg/log"
)

// ClientConfig holds the configuration for creating a new MQTT Client.
type ClientConfig struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string

	// KeepAlive in seconds. Default is 60.
	KeepAlive uint16

	// ConnectTimeout for each connection attempt. Default is 5s.
	ConnectTimeout time.Duration

	// ReconnectBackoff is the constant pause between connection attempts. Default is 3s.
	ReconnectBackoff time.Duration

	// SessionExpiry in seconds; 0 ends the session with the connection.
	SessionExpiry uint32

	// CleanStart indicates whether to start a clean session.
	CleanStart bool

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// Will message published by the broker when the client vanishes.
	// Ignored when WillTopic is empty.
	WillTopic   string
	WillPayload []byte
	WillQoS     byte
	WillRetain  bool

	// Logger receives connection diagnostics. Nil disables logging.
	Logger log.Logger
}

// setDefaultConfig applies safe default values to the configuration.
func setDefaultConfig(cfg *ClientConfig) {
	if cfg.ConnectTimeout == 0 {
		cfg.ConnectTimeout = 5 * time.Second
	}
	if cfg.ReconnectBackoff == 0 {
		cfg.ReconnectBackoff = 3 * time.Second
	}
	if cfg.KeepAlive == 0 {
		cfg.KeepAlive = 60
	}
	if cfg.Logger == nil {
		cfg.Logger = log.NewNopLogger()
	}
}

// Validate checks if the configuration is valid.
func (c *ClientConfig) Validate() error {
	var errs []error
	if c.BrokerURL == "" {
		errs = append(errs, errors.New("broker url is required"))
	} else if _, err := url.Parse(c.BrokerURL); err != nil {
		errs = append(errs, err)
	}
	if c.WillQoS > 2 {
		errs = append(errs, fmt.Errorf("will qos must be 0, 1 or 2, got %d", c.WillQoS))
	}
	return utilerrors.NewAggregate(errs)
}
