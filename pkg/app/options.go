package app

import (
	cliflag "k8s.io/component-base/cli/flag"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// Validate validates all the required options.
	Validate() error
}

// NamedFlagSetOptions is implemented by options that group their flags into
// named sections for help output.
type NamedFlagSetOptions interface {
	CliOptions

	// Flags returns flags for a specific server by section name.
	Flags() cliflag.NamedFlagSets

	// Complete completes all the required options.
	Complete() error
}
