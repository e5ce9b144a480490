package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/term"

	"github.com/autopeer-io/alarmbridge/pkg/log"
)

// App is the main structure of a cli application.
type App struct {
	name        string
	shortDesc   string
	description string
	run         RunFunc
	cmd         *cobra.Command
	args        cobra.PositionalArgs
	options     CliOptions
	commands    []*cobra.Command
	onReload    func()
	silence     bool
}

// RunFunc defines the application's startup callback function.
type RunFunc func() error

// Option defines optional parameters for initializing the application structure.
type Option func(*App)

// WithOptions to open the application's function to read from the command line
// or read parameters from the configuration file.
func WithOptions(opts CliOptions) Option {
	return func(a *App) {
		a.options = opts
	}
}

// WithRunFunc is used to set the application startup callback function option.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.run = run
	}
}

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithSilence sets the application to silent mode, in which the program startup
// information, configuration information, and version information are not
// printed in the console.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithValidArgs set the validation function to valid non-flag arguments.
func WithValidArgs(args cobra.PositionalArgs) Option {
	return func(a *App) {
		a.args = args
	}
}

// WithDefaultValidArgs set default validation function to valid non-flag arguments.
func WithDefaultValidArgs() Option {
	return func(a *App) {
		a.args = func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				if len(arg) > 0 {
					return fmt.Errorf("%q does not take any arguments, got %q", cmd.CommandPath(), args)
				}
			}

			return nil
		}
	}
}

// WithCommands attaches subcommands. They share the root's flags and see fully
// loaded and validated options in their Run functions.
func WithCommands(cmds ...*cobra.Command) Option {
	return func(a *App) {
		a.commands = append(a.commands, cmds...)
	}
}

// WithConfigReload registers fn to be called after the configuration file
// changes on disk. fn reads the new values through viper.
func WithConfigReload(fn func()) Option {
	return func(a *App) {
		a.onReload = fn
	}
}

// NewApp creates a new application instance based on the given application name,
// binary name, and other options.
func NewApp(name string, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
	}

	for _, o := range opts {
		o(a)
	}

	a.buildCommand()

	return a
}

// Command returns the root cobra command.
func (a *App) Command() *cobra.Command {
	return a.cmd
}

// Run is used to launch the application.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:   a.name,
		Short: a.shortDesc,
		Long:  a.description,
		// stop printing usage when the command errors
		SilenceUsage:      true,
		SilenceErrors:     false,
		Args:              a.args,
		PersistentPreRunE: a.loadOptions,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true

	var namedFlagSets cliflag.NamedFlagSets
	if a.options != nil {
		namedFlagSets = a.options.Flags()
		fs := cmd.PersistentFlags()
		for _, f := range namedFlagSets.FlagSets {
			fs.AddFlagSet(f)
		}
	}
	AddConfigFlag(namedFlagSets.FlagSet("global"), a.name)
	cmd.PersistentFlags().AddFlagSet(namedFlagSets.FlagSet("global"))

	if a.run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			if a.onReload != nil {
				watchConfig(a.onReload)
			}
			defer func() { _ = log.Sync() }()
			return a.run()
		}
	}

	cmd.AddCommand(a.commands...)

	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cliflag.SetUsageAndHelpFunc(cmd, namedFlagSets, cols)

	a.cmd = cmd
}

// loadOptions merges flags, environment and config file into the options,
// then completes and validates them and initialises logging.
func (a *App) loadOptions(cmd *cobra.Command, _ []string) error {
	if a.options == nil {
		return nil
	}

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	if err := viper.Unmarshal(a.options); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if c, ok := a.options.(NamedFlagSetOptions); ok {
		if err := c.Complete(); err != nil {
			return err
		}
	}
	if err := a.options.Validate(); err != nil {
		return err
	}

	if l, ok := a.options.(LogOptionsGetter); ok {
		if err := log.Init(l.LogOptions()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
	}

	if !a.silence && cmd == a.cmd {
		log.Info("Starting application", "name", a.name, "config", viper.ConfigFileUsed())
	}

	return nil
}
