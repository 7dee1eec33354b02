package options

import (
	"fmt"

	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/fleetclient/pkg/app"
	"github.com/autopeer-io/fleetclient/pkg/log"
	"github.com/autopeer-io/fleetclient/pkg/options"
)

// Output formats of the get and watch commands.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

type FleetctlOptions struct {
	FleetOptions *options.FleetManagerOptions `json:"fleet" mapstructure:"fleet"`
	MqttOptions  *options.MqttOptions         `json:"mqtt" mapstructure:"mqtt"`
	HttpOptions  *options.HttpOptions         `json:"http" mapstructure:"http"`
	Log          *log.Options                 `json:"log" mapstructure:"log"`
	Output       string                       `json:"output" mapstructure:"output"`
}

var _ app.NamedFlagSetOptions = (*FleetctlOptions)(nil)

func NewFleetctlOptions() *FleetctlOptions {
	return &FleetctlOptions{
		FleetOptions: options.NewFleetManagerOptions(),
		MqttOptions:  options.NewMqttOptions(),
		HttpOptions:  options.NewHttpOptions(),
		Log:          log.NewOptions(),
		Output:       OutputTable,
	}
}

func (o *FleetctlOptions) Flags() cliflag.NamedFlagSets {
	fss := cliflag.NamedFlagSets{}
	o.FleetOptions.AddFlags(fss.FlagSet("fleet manager"))
	o.MqttOptions.AddFlags(fss.FlagSet("relay mqtt"))
	o.HttpOptions.AddFlags(fss.FlagSet("relay http"))
	o.Log.AddFlags(fss.FlagSet("log"))
	fss.FlagSet("output").StringVarP(&o.Output, "output", "o", o.Output, "Output format of get and watch: table, json or yaml.")
	return fss
}

func (o *FleetctlOptions) Complete() error {
	return nil
}

func (o *FleetctlOptions) Validate() error {
	errs := []error{}
	errs = append(errs, o.FleetOptions.Validate()...)
	errs = append(errs, o.MqttOptions.Validate()...)
	errs = append(errs, o.HttpOptions.Validate()...)
	errs = append(errs, o.Log.Validate()...)
	switch o.Output {
	case OutputTable, OutputJSON, OutputYAML:
	default:
		errs = append(errs, fmt.Errorf("--output must be one of table, json or yaml, got %q", o.Output))
	}
	return utilerrors.NewAggregate(errs)
}
