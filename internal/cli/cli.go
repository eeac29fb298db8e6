package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/vk/calcform/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, a ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, a...)}
}

// options carries what every subcommand needs to build an App.
type options struct {
	v       *viper.Viper
	cfgFile string
	outW    io.Writer
	errW    io.Writer
}

// NewRootCommand builds the calcform command tree. Output goes to outW; logs
// and errors go to errW.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	o := &options{v: viper.New(), outW: outW, errW: errW}

	root := &cobra.Command{
		Use:   "calcform",
		Short: "Evaluate and serve formula-driven calculator forms.",
		Long: `calcform loads a calculator schema (.hcl, .json or .toml) made of input
components, named formulas and result sections, and renders it, evaluates
expressions against it, reports formula problems or serves it over HTTP and
socket.io.`,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.initConfig()
		},
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError("%s\nSee '%s --help'.", err, cmd.CommandPath())
	})

	pf := root.PersistentFlags()
	pf.StringVar(&o.cfgFile, "config", "", "config file (default is $HOME/.calcform.yaml)")
	pf.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	pf.String("engine", "hcl", "Expression engine. Options: 'hcl' or 'expr'.")
	for _, name := range []string{"log-level", "log-format", "engine"} {
		_ = o.v.BindPFlag(name, pf.Lookup(name))
	}

	root.AddCommand(
		newRenderCommand(o),
		newEvalCommand(o),
		newCheckCommand(o),
		newServeCommand(o),
		newPushCommand(o),
	)
	return root
}

// Execute runs the command tree with args.
func Execute(ctx context.Context, args []string, outW, errW io.Writer) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// initConfig reads in the config file and CALCFORM_* environment variables.
// Flags set on the command line take precedence over both.
func (o *options) initConfig() error {
	o.v.SetEnvPrefix("calcform")
	o.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	o.v.AutomaticEnv()

	if o.cfgFile != "" {
		o.v.SetConfigFile(o.cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			// No home directory means no default config file.
			return nil
		}
		o.v.AddConfigPath(home)
		o.v.SetConfigName(".calcform")
		o.v.SetConfigType("yaml")
	}

	if err := o.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return usageError("failed to read config file: %s", err)
	}
	return nil
}

// config builds the validated app configuration for schemaPath.
func (o *options) config(schemaPath string) (*app.Config, error) {
	cfg, err := app.NewConfig(app.Config{
		SchemaPath: schemaPath,
		Engine:     o.v.GetString("engine"),
		LogFormat:  o.v.GetString("log-format"),
		LogLevel:   o.v.GetString("log-level"),
		Addr:       o.v.GetString("addr"),
	})
	if err != nil {
		return nil, usageError("%s", err)
	}
	return cfg, nil
}

// newApp loads the schema at schemaPath.
func (o *options) newApp(schemaPath string) (*app.App, error) {
	cfg, err := o.config(schemaPath)
	if err != nil {
		return nil, err
	}
	return app.NewApp(o.outW, o.errW, cfg, nil)
}

func exactArgs(n int, names string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError("'%s' expects %s, got %d argument(s)\nSee '%s --help'.", cmd.CommandPath(), names, len(args), cmd.CommandPath())
		}
		return nil
	}
}

// parseOverrides reads repeated name=value flags.
func parseOverrides(sets []string) (app.Overrides, error) {
	overrides := app.Overrides{}
	for _, s := range sets {
		name, raw, ok := strings.Cut(s, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, usageError("invalid --set %q: expected name=value", s)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, usageError("invalid --set %q: value must be a number", s)
		}
		overrides[name] = value
	}
	return overrides, nil
}

// parseCheckboxes reads repeated component:option flags.
func parseCheckboxes(specs []string, checked bool) ([]app.CheckboxChange, error) {
	var changes []app.CheckboxChange
	for _, s := range specs {
		component, option, ok := strings.Cut(s, ":")
		if !ok || component == "" || option == "" {
			return nil, usageError("invalid checkbox %q: expected component:option", s)
		}
		changes = append(changes, app.CheckboxChange{Component: component, Option: option, Checked: checked})
	}
	return changes, nil
}
