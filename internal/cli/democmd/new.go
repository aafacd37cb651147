package democmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/cli/common"
	"github.com/gcstr/progressive/internal/config"
	"github.com/gcstr/progressive/internal/estimator"
	"github.com/gcstr/progressive/internal/logger"
	"github.com/gcstr/progressive/internal/scope"
	"github.com/gcstr/progressive/internal/ui"
)

// ErrSimulated is returned by the demo operation when --fail is set.
var ErrSimulated = errors.New("simulated failure")

type options struct {
	delay    time.Duration
	interval time.Duration
	fail     bool
	class    string
	html     bool
}

// New creates the `demo` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run an artificially slow operation behind a progress bar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := common.Setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = cliCtx.Close() }()

			o := options{
				delay: cliCtx.Config.Demo.DelayDuration,
				class: cliCtx.Config.Bar.Class,
			}
			if cmd.Flags().Changed("delay") {
				o.delay, _ = cmd.Flags().GetDuration("delay")
			}
			if cmd.Flags().Changed("class") {
				o.class, _ = cmd.Flags().GetString("class")
			}
			o.interval, _ = cmd.Flags().GetDuration("interval")
			o.fail, _ = cmd.Flags().GetBool("fail")
			o.html, _ = cmd.Flags().GetBool("html")

			if o.delay < 0 {
				return apperr.New("demo", apperr.InvalidInput, "--delay must not be negative, got %s", o.delay)
			}
			if o.interval <= 0 {
				return apperr.New("demo", apperr.InvalidInput, "--interval must be positive, got %s", o.interval)
			}
			return run(cliCtx, o)
		},
	}

	cmd.Flags().Duration("delay", 0, "How long the simulated operation takes (default from config, 2s)")
	cmd.Flags().Duration("interval", estimator.DefaultInterval, "Step cadence of the estimator")
	_ = cmd.Flags().MarkHidden("interval")
	cmd.Flags().Bool("fail", false, "Make the simulated operation fail")
	cmd.Flags().String("class", "", "Styling token attached to the rendered bar")
	cmd.Flags().Bool("html", false, "Print the final bar element as HTML")

	return cmd
}

func run(cliCtx *common.CLIContext, o options) error {
	opts := estimator.Options{Interval: o.interval, Logger: cliCtx.Logger}
	return scope.Run(cliCtx.Ctx, opts, func(ctx context.Context) error {
		bar, err := ui.UseBar(ctx, o.class)
		if err != nil {
			return err
		}
		est, err := scope.Lookup(ctx)
		if err != nil {
			return err
		}

		term := ui.NewTerminal(cliCtx.Out, terminalOptions(cliCtx.Config.Bar))
		if term.Enabled() {
			term.Attach(est)
		} else {
			stop := bar.Watch(func(v ui.BarView) {
				cliCtx.Logger.Info("progress", "state", v.State.String(), "value", v.Value, "visible", v.Visible)
			})
			defer stop()
		}

		r := logger.StartRun(cliCtx.Logger, "demo", "delay", o.delay.String())
		err = scope.Track(ctx, func(ctx context.Context) error {
			return slowOperation(ctx, o.delay, o.fail)
		})
		term.Close()

		v := bar.View()
		if err != nil {
			cliCtx.Printer.Warn("operation failed; bar settled at %s (%s)", v.Width, v.State)
			return r.Fail(err, "value", v.Value)
		}
		r.OK("value", v.Value)
		cliCtx.Printer.Info("operation finished; bar settled at %s (%s)", v.Width, v.State)
		if o.html {
			cliCtx.Printer.Plain("%s", v.HTML())
		}
		return nil
	})
}

// terminalOptions maps the bar section of the config onto the renderer.
func terminalOptions(bar config.BarConfig) ui.TerminalOptions {
	label := strings.TrimSpace(bar.Label)
	if label == "" {
		label = "demo"
	}
	return ui.TerminalOptions{
		Label:    label,
		Width:    bar.Width,
		Gradient: bar.GradientPair(),
	}
}

// slowOperation waits for d or until ctx is done.
func slowOperation(ctx context.Context, d time.Duration, fail bool) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	if fail {
		return fmt.Errorf("demo operation after %s: %w", d, ErrSimulated)
	}
	return nil
}
