package app

import (
	cliflag "k8s.io/component-base/cli/flag"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// CliOptions abstracts configuration options for reading parameters from the
// command line.
type CliOptions interface {
	// Flags returns the named flag sets of the command.
	Flags() cliflag.NamedFlagSets

	// Validate reports every invalid option as one aggregated error.
	Validate() error
}

// NamedFlagSetOptions is implemented by options that need a completion step
// between unmarshalling and validation.
type NamedFlagSetOptions interface {
	CliOptions

	// Complete fills in fields that are derived from other fields.
	Complete() error
}

// LogOptionsGetter is implemented by options that carry logger settings; the
// app initialises the global logger from them before running.
type LogOptionsGetter interface {
	LogOptions() *log.Options
}
