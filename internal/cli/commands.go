package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/vk/calcform/internal/app"
	"github.com/vk/calcform/internal/ctxlog"
)

func newRenderCommand(o *options) *cobra.Command {
	var (
		sets, checks, unchecks []string
		output                 string
		color                  bool
	)
	cmd := &cobra.Command{
		Use:   "render SCHEMA",
		Short: "Render the calculator with its defaults and any overrides",
		Example: `  calcform render shop.hcl --set quantity=3 --check extras:wrap
  calcform render shop.json --output json`,
		Args: exactArgs(1, "a schema path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			boxes, err := parseCheckboxes(checks, true)
			if err != nil {
				return err
			}
			off, err := parseCheckboxes(unchecks, false)
			if err != nil {
				return err
			}
			if output != app.FormatText && output != app.FormatJSON {
				return usageError("invalid --output %q: must be 'text' or 'json'", output)
			}

			a, err := o.newApp(args[0])
			if err != nil {
				return err
			}
			return a.Render(overrides, append(boxes, off...), output, color)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a variable, as name=value. Repeatable.")
	cmd.Flags().StringArrayVar(&checks, "check", nil, "Check a checkbox option, as component:option. Repeatable.")
	cmd.Flags().StringArrayVar(&unchecks, "uncheck", nil, "Uncheck a checkbox option, as component:option. Repeatable.")
	cmd.Flags().StringVarP(&output, "output", "o", app.FormatText, "Output format. Options: 'text' or 'json'.")
	cmd.Flags().BoolVar(&color, "color", false, "Color text output.")
	return cmd
}

func newEvalCommand(o *options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "eval SCHEMA EXPRESSION",
		Short:   "Evaluate an expression against the calculator's variables and formulas",
		Example: `  calcform eval shop.hcl "total * 1.2" --set quantity=2`,
		Args:    exactArgs(2, "a schema path and an expression"),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			a, err := o.newApp(args[0])
			if err != nil {
				return err
			}
			return a.Eval(args[1], overrides)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a variable, as name=value. Repeatable.")
	return cmd
}

func newCheckCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check SCHEMA",
		Short: "Report formula cycles, self-references and unknown names",
		Args:  exactArgs(1, "a schema path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := o.newApp(args[0])
			if err != nil {
				return err
			}
			if err := a.Check(); err != nil {
				if errors.Is(err, app.ErrProblemsFound) {
					return &ExitError{Code: 1, Message: err.Error()}
				}
				return err
			}
			return nil
		},
	}
}

func newServeCommand(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve SCHEMA",
		Short: "Serve the calculator over HTTP and socket.io",
		Args:  exactArgs(1, "a schema path"),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(args[0])
			if err != nil {
				return err
			}
			a, err := app.NewApp(o.outW, o.errW, cfg, nil)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx, cfg.Addr)
		},
	}
	cmd.Flags().String("addr", ":8080", "Address to listen on.")
	_ = o.v.BindPFlag("addr", cmd.Flags().Lookup("addr"))
	return cmd
}

func newPushCommand(o *options) *cobra.Command {
	var (
		sets      []string
		namespace string
		timeout   time.Duration
		insecure  bool
	)
	cmd := &cobra.Command{
		Use:     "push URL",
		Short:   "Send variable updates to a running calculator server",
		Example: `  calcform push http://localhost:8080 --set quantity=4 --set price=9.5`,
		Args:    exactArgs(1, "a server URL"),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, err := parseOverrides(sets)
			if err != nil {
				return err
			}
			logger, err := app.NewLogger(o.v.GetString("log-level"), o.v.GetString("log-format"), o.errW)
			if err != nil {
				return usageError("%s", err)
			}

			ctx := ctxlog.WithLogger(cmd.Context(), logger)
			return app.Push(ctx, o.outW, app.PushConfig{
				URL:                args[0],
				Namespace:          namespace,
				Variables:          overrides,
				Timeout:            timeout,
				InsecureSkipVerify: insecure,
			})
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Set a variable, as name=value. Repeatable.")
	cmd.Flags().StringVar(&namespace, "namespace", "/", "Socket.io namespace.")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Time to wait for the server's final render.")
	cmd.Flags().BoolVar(&insecure, "insecure", false, "Skip TLS certificate verification.")
	return cmd
}
