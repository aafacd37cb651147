package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/cli/democmd"
	"github.com/gcstr/progressive/internal/cli/playcmd"
	"github.com/gcstr/progressive/internal/cli/rendercmd"
	"github.com/gcstr/progressive/internal/cli/simulatecmd"
	"github.com/gcstr/progressive/internal/cli/versioncmd"
)

// verbose controls extra error detail printing.
var verbose bool

// Execute runs the root command and handles error formatting and exit codes.
func Execute(ctx context.Context) int {
	cmd := newRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		printUserFriendly(os.Stderr, err)
	}
	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	case apperr.IsKind(err, apperr.InvalidInput) || apperr.IsKind(err, apperr.NotFound):
		return 2
	case apperr.IsKind(err, apperr.ScopeNotFound) || apperr.IsKind(err, apperr.Internal):
		return 70
	default:
		return 1
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "progressive",
		Short:         "Simulated progress for operations of unknown length",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to configuration file (defaults to progressive.yaml or progressive.yml in current directory)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose error output")
	cmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	cmd.PersistentFlags().String("log-format", "", "Log format: auto, pretty, json, logfmt")
	cmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")

	cmd.AddCommand(democmd.New())
	cmd.AddCommand(playcmd.New())
	cmd.AddCommand(rendercmd.New())
	cmd.AddCommand(simulatecmd.New())
	cmd.AddCommand(versioncmd.New())

	cmd.SetHelpTemplate(cmd.HelpTemplate() + "\n\nProject home: https://github.com/gcstr/progressive\n")

	cmd.SetVersionTemplate(fmt.Sprintf("%s\n", VersionSimple()))
	cmd.Version = VersionSimple()

	return cmd
}

// TestNewRootCmd exposes the root command to command package tests.
func TestNewRootCmd() *cobra.Command { return newRootCmd() }

func printUserFriendly(w io.Writer, err error) {
	var e *apperr.E
	if errors.As(err, &e) {
		if e.Msg != "" {
			_, _ = fmt.Fprintf(w, "Error: %s\n", e.Msg)
		} else {
			_, _ = fmt.Fprintf(w, "Error: %s\n", err.Error())
		}
		if verbose {
			_, _ = fmt.Fprintln(w, "Detail:", err)
		}
		if apperr.IsKind(err, apperr.ScopeNotFound) {
			_, _ = fmt.Fprintln(w, "Hint: progress was read outside any provider; wrap the caller in scope.Run or scope.WithProvider.")
		}
		return
	}
	if errors.Is(err, context.Canceled) {
		_, _ = fmt.Fprintln(w, "Interrupted")
		return
	}
	_, _ = fmt.Fprintln(w, "Error:", err)
}
