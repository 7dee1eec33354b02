// Copyright 2025 The Autopeer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"fmt"
	"slices"

	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures the process logger of the fleet tools. Log lines go to
// stderr by default so stdout carries only command output.
type Options struct {
	Level  string `json:"level,omitempty" mapstructure:"level"`
	Format string `json:"format,omitempty" mapstructure:"format"`

	// Color colors the level of console output.
	Color bool `json:"color,omitempty" mapstructure:"color"`

	// Caller annotates each line with file:line of the call site.
	Caller bool `json:"caller,omitempty" mapstructure:"caller"`

	// Development adds stack traces to warnings and panics on DPanic.
	Development bool `json:"development,omitempty" mapstructure:"development"`

	OutputPaths []string `json:"output-paths,omitempty" mapstructure:"output-paths"`
}

func NewOptions() *Options {
	return &Options{
		Level:       "info",
		Format:      FormatConsole,
		Color:       true,
		OutputPaths: []string{"stderr"},
	}
}

// Validate checks the level and format names.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error
	if _, err := zapcore.ParseLevel(o.Level); err != nil {
		errs = append(errs, fmt.Errorf("--log.level: %w", err))
	}
	if !slices.Contains([]string{FormatConsole, FormatJSON}, o.Format) {
		errs = append(errs, fmt.Errorf("--log.format must be %q or %q, got %q", FormatConsole, FormatJSON, o.Format))
	}
	if len(o.OutputPaths) == 0 {
		errs = append(errs, fmt.Errorf("--log.output-paths must name at least one sink"))
	}
	return errs
}

// AddFlags binds the log.* flags.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.Level, "log.level", o.Level, "Minimum level to log: debug, info, warn or error. Reloaded when the config file changes.")
	fs.StringVar(&o.Format, "log.format", o.Format, "Log line format: console or json.")
	fs.BoolVar(&o.Color, "log.color", o.Color, "Color the level in console output.")
	fs.BoolVar(&o.Caller, "log.caller", o.Caller, "Annotate log lines with the calling file and line.")
	fs.BoolVar(&o.Development, "log.development", o.Development, "Development mode: stack traces on warnings.")
	fs.StringSliceVar(&o.OutputPaths, "log.output-paths", o.OutputPaths, "Log sinks: stderr, stdout or file paths.")
}
