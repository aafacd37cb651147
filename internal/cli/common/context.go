package common

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/gcstr/progressive/internal/config"
	"github.com/gcstr/progressive/internal/logger"
	"github.com/gcstr/progressive/internal/ui"
)

// CLIContext contains all the components needed for most CLI operations.
type CLIContext struct {
	Ctx     context.Context
	Config  config.Config
	Printer ui.Printer
	Logger  logger.Logger
	Out     io.Writer
	In      io.Reader
	TTY     ttyStatus

	closer io.Closer
}

// Close releases the log file sink, if one was opened.
func (c *CLIContext) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Setup loads configuration, applies logging flag overrides and builds the
// logger. The logger is also attached to the returned context.
func Setup(cmd *cobra.Command) (*CLIContext, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	if v, _ := cmd.Flags().GetString("log-level"); v != "" {
		cfg.Log.Level = v
	}
	if v, _ := cmd.Flags().GetString("log-format"); v != "" {
		cfg.Log.Format = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		cfg.Log.File = v
	}

	l, closer, err := logger.New(logger.Options{
		Out:     cmd.ErrOrStderr(),
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		LogFile: cfg.Log.File,
	})
	if err != nil {
		return nil, err
	}
	l = l.With("command", cmd.CommandPath())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, l)

	return &CLIContext{
		Ctx:     ctx,
		Config:  cfg,
		Printer: ui.StdPrinter{Out: cmd.OutOrStdout(), Err: cmd.ErrOrStderr()},
		Logger:  l,
		Out:     cmd.OutOrStdout(),
		In:      cmd.InOrStdin(),
		TTY:     detectTTY(cmd),
		closer:  closer,
	}, nil
}
