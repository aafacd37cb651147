package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// Logger is a small facade over the underlying logging backend.
// Methods accept a message (event name in snake_case) and structured key/value fields.
type Logger interface {
	Debug(msg string, keyvals ...any)
	Info(msg string, keyvals ...any)
	Warn(msg string, keyvals ...any)
	Error(msg string, keyvals ...any)
	With(keyvals ...any) Logger
}

// Options controls logger construction.
type Options struct {
	// Out is the primary destination for human-facing logs. Defaults to os.Stderr.
	Out io.Writer
	// Level is one of: "debug", "info", "warn", "error". Defaults to "info".
	Level string
	// Format controls primary output: "auto" (default), "pretty", or "json".
	// When "auto", TTY → pretty; non-TTY → json.
	Format string
	// LogFile, when set, enables an additional JSON sink written to this path.
	LogFile string
	// ReportTimestamp toggles timestamps on the primary sink. Default: true.
	ReportTimestamp *bool
}

// New constructs a Logger according to Options. The returned closer releases
// the file sink, if any, and is nil otherwise.
func New(opts Options) (Logger, io.Closer, error) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	cl := clog.NewWithOptions(out, clog.Options{})
	cl.SetLevel(parseLevel(opts.Level))
	cl.SetFormatter(chooseFormatter(out, opts.Format))
	cl.SetReportTimestamp(opts.ReportTimestamp == nil || *opts.ReportTimestamp)
	primary := &charmLogger{l: cl}

	if strings.TrimSpace(opts.LogFile) == "" {
		return primary, nil, nil
	}
	f, err := os.OpenFile(opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	fl := clog.NewWithOptions(f, clog.Options{})
	fl.SetLevel(parseLevel(opts.Level))
	fl.SetFormatter(clog.JSONFormatter)
	fl.SetReportTimestamp(false)
	return &multiLogger{sinks: []Logger{primary, &charmLogger{l: fl}}}, f, nil
}

func chooseFormatter(w io.Writer, format string) clog.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return clog.JSONFormatter
	case "pretty", "text":
		return clog.TextFormatter
	case "logfmt":
		return clog.LogfmtFormatter
	default:
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return clog.TextFormatter
		}
		return clog.JSONFormatter
	}
}

func parseLevel(s string) clog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	default:
		return clog.InfoLevel
	}
}

type charmLogger struct{ l *clog.Logger }

func (c *charmLogger) Debug(msg string, keyvals ...any) { c.l.Debug(msg, keyvals...) }
func (c *charmLogger) Info(msg string, keyvals ...any)  { c.l.Info(msg, keyvals...) }
func (c *charmLogger) Warn(msg string, keyvals ...any)  { c.l.Warn(msg, keyvals...) }
func (c *charmLogger) Error(msg string, keyvals ...any) { c.l.Error(msg, keyvals...) }
func (c *charmLogger) With(keyvals ...any) Logger {
	return &charmLogger{l: c.l.With(keyvals...)}
}

type multiLogger struct{ sinks []Logger }

func (m *multiLogger) Debug(msg string, keyvals ...any) {
	for _, s := range m.sinks {
		s.Debug(msg, keyvals...)
	}
}
func (m *multiLogger) Info(msg string, keyvals ...any) {
	for _, s := range m.sinks {
		s.Info(msg, keyvals...)
	}
}
func (m *multiLogger) Warn(msg string, keyvals ...any) {
	for _, s := range m.sinks {
		s.Warn(msg, keyvals...)
	}
}
func (m *multiLogger) Error(msg string, keyvals ...any) {
	for _, s := range m.sinks {
		s.Error(msg, keyvals...)
	}
}
func (m *multiLogger) With(keyvals ...any) Logger {
	next := make([]Logger, 0, len(m.sinks))
	for _, s := range m.sinks {
		next = append(next, s.With(keyvals...))
	}
	return &multiLogger{sinks: next}
}

// Run brackets a tracked operation with started/ok/failed events.
type Run struct {
	logger  Logger
	op      string
	started time.Time
}

// StartRun logs a started event for op and returns a Run to finalize.
// Stable keys: op, status, duration_ms.
func StartRun(l Logger, op string, extra ...any) *Run {
	r := &Run{logger: l, op: op, started: time.Now()}
	r.logger.Info("operation", append([]any{"status", "started", "op", op}, extra...)...)
	return r
}

// OK marks the operation as finished.
func (r *Run) OK(extra ...any) {
	fields := append([]any{
		"status", "ok",
		"op", r.op,
		"duration_ms", time.Since(r.started).Milliseconds(),
	}, extra...)
	r.logger.Info("operation", fields...)
}

// Fail logs the failure once and returns err unchanged.
func (r *Run) Fail(err error, extra ...any) error {
	fields := append([]any{
		"status", "failed",
		"op", r.op,
		"duration_ms", time.Since(r.started).Milliseconds(),
	}, extra...)
	if err != nil {
		fields = append(fields, "error", err.Error())
	}
	r.logger.Error("operation", fields...)
	return err
}

// Context -----------------------------------------------------------------

type ctxKey struct{}

// WithContext returns a derived context carrying the logger.
func WithContext(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger from context or a no-op logger if absent.
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return Nop()
	}
	if l, ok := ctx.Value(ctxKey{}).(Logger); ok && l != nil {
		return l
	}
	return Nop()
}

// Nop returns a Logger that discards all logs.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) With(...any) Logger   { return nopLogger{} }
