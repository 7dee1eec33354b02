package app

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	cliflag "k8s.io/component-base/cli/flag"
	"k8s.io/component-base/cli/globalflag"
	"k8s.io/component-base/term"
)

// RunFunc is the entry point of an application without subcommands.
type RunFunc func() error

// App is a cobra command tree whose flags come from a NamedFlagSetOptions and
// may be overridden by a configuration file and environment variables.
type App struct {
	name        string
	shortDesc   string
	description string
	options     NamedFlagSetOptions
	runFunc     RunFunc
	noConfig    bool
	args        cobra.PositionalArgs
	commands    []*cobra.Command
	onConfig    func(v *viper.Viper)

	viper *viper.Viper
	cmd   *cobra.Command
}

// Option configures an App.
type Option func(*App)

// WithOptions sets the options whose flags the application exposes.
func WithOptions(opts NamedFlagSetOptions) Option {
	return func(a *App) { a.options = opts }
}

// WithRunFunc sets the function run by the root command.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) { a.runFunc = run }
}

// WithDescription sets the long description of the application.
func WithDescription(desc string) Option {
	return func(a *App) { a.description = desc }
}

// WithNoConfig disables the --config flag and environment lookups.
func WithNoConfig() Option {
	return func(a *App) { a.noConfig = true }
}

// WithValidArgs sets the positional argument validator of the root command.
func WithValidArgs(args cobra.PositionalArgs) Option {
	return func(a *App) { a.args = args }
}

// WithDefaultValidArgs rejects any positional argument on the root command.
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

// WithCommands adds subcommands. They inherit every option flag and run after
// the options were loaded, completed and validated.
func WithCommands(cmds ...*cobra.Command) Option {
	return func(a *App) { a.commands = append(a.commands, cmds...) }
}

// WithConfigChangeFunc is called whenever the configuration file changes on
// disk. The options are not reloaded; fn reads what it needs from v.
func WithConfigChangeFunc(fn func(v *viper.Viper)) Option {
	return func(a *App) { a.onConfig = fn }
}

// NewApp creates an application.
func NewApp(name string, shortDesc string, opts ...Option) *App {
	a := &App{
		name:      name,
		shortDesc: shortDesc,
		viper:     viper.New(),
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

// Viper returns the configuration store the options were loaded from.
func (a *App) Viper() *viper.Viper {
	return a.viper
}

// Run executes the command tree and exits the process on failure.
func (a *App) Run() {
	if err := a.cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func (a *App) buildCommand() {
	cmd := &cobra.Command{
		Use:           a.name,
		Short:         a.shortDesc,
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          a.args,
	}
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)
	cmd.Flags().SortFlags = true
	cmd.PersistentFlags().SetNormalizeFunc(cliflag.WordSepNormalizeFunc)

	if a.runFunc != nil {
		cmd.RunE = func(*cobra.Command, []string) error { return a.runFunc() }
	}
	cmd.AddCommand(a.commands...)

	var namedFlagSets cliflag.NamedFlagSets
	if a.options != nil {
		namedFlagSets = a.options.Flags()
	}

	var cfgFile *string
	if !a.noConfig {
		cfgFile = addConfigFlag(a.viper, a.name, namedFlagSets.FlagSet("global"))
	}
	globalflag.AddGlobalFlags(namedFlagSets.FlagSet("global"), cmd.Name())

	fs := cmd.PersistentFlags()
	for _, f := range namedFlagSets.FlagSets {
		fs.AddFlagSet(f)
	}

	cmd.PersistentPreRunE = func(c *cobra.Command, _ []string) error {
		if a.noConfig {
			return a.completeAndValidate()
		}
		if err := a.viper.BindPFlags(c.Flags()); err != nil {
			return err
		}
		loaded, err := loadConfig(a.viper, a.name, *cfgFile)
		if err != nil {
			return err
		}
		if err := a.applyConfig(); err != nil {
			return err
		}
		if loaded && a.onConfig != nil {
			watchConfig(a.viper, a.onConfig)
		}
		return nil
	}

	setUsageAndHelpFunc(cmd, namedFlagSets)
	a.cmd = cmd
}

// applyConfig overlays config file and environment values onto the options.
func (a *App) applyConfig() error {
	if a.options == nil {
		return nil
	}
	if err := a.viper.Unmarshal(a.options); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return a.completeAndValidate()
}

func (a *App) completeAndValidate() error {
	if a.options == nil {
		return nil
	}
	if err := a.options.Complete(); err != nil {
		return err
	}
	return a.options.Validate()
}

func setUsageAndHelpFunc(cmd *cobra.Command, fss cliflag.NamedFlagSets) {
	cols, _, _ := term.TerminalSize(cmd.OutOrStdout())
	cmd.SetUsageFunc(func(cmd *cobra.Command) error {
		fmt.Fprintf(cmd.OutOrStderr(), "Usage:\n  %s\n", cmd.UseLine())
		if cmd.HasAvailableSubCommands() {
			fmt.Fprintf(cmd.OutOrStderr(), "\nAvailable Commands:\n")
			for _, sub := range cmd.Commands() {
				if sub.IsAvailableCommand() {
					fmt.Fprintf(cmd.OutOrStderr(), "  %-20s %s\n", sub.Name(), sub.Short)
				}
			}
		}
		if cmd.HasAvailableLocalFlags() && cmd.HasParent() {
			fmt.Fprintf(cmd.OutOrStderr(), "\nFlags:\n%s", cmd.LocalNonPersistentFlags().FlagUsagesWrapped(cols))
		}
		cliflag.PrintSections(cmd.OutOrStderr(), fss, cols)
		return nil
	})
	cmd.SetHelpFunc(func(cmd *cobra.Command, _ []string) {
		if cmd.Long != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", cmd.Long)
		} else if cmd.Short != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n", cmd.Short)
		}
		cmd.SetOut(cmd.OutOrStdout())
		_ = cmd.Usage()
	})
}
