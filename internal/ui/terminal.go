package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	bubbleprogress "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/gcstr/progressive/internal/estimator"
)

// HiddenEnv disables terminal rendering when set to a non-empty value.
const HiddenEnv = "PROGRESSIVE_BAR_HIDDEN"

// TerminalOptions configures a Terminal renderer.
type TerminalOptions struct {
	Label string
	// Width of the bar in columns. Default: 40.
	Width int
	// Gradient holds two hex colors. Default: blue.
	Gradient [2]string
}

// Terminal redraws a bar in place on a TTY every time the estimator
// publishes. When the output is not a terminal, or HiddenEnv is set, it is
// disabled and all methods become no-ops.
type Terminal struct {
	out     io.Writer
	label   string
	style   lipgloss.Style
	enabled bool

	mu    sync.Mutex
	model bubbleprogress.Model
	last  BarView
	stop  func()
	drawn bool
}

// NewTerminal creates a renderer writing to out.
func NewTerminal(out io.Writer, opts TerminalOptions) *Terminal {
	enabled := false
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		enabled = true
	}
	if strings.TrimSpace(os.Getenv(HiddenEnv)) != "" {
		enabled = false
	}
	if opts.Width <= 0 {
		opts.Width = 40
	}
	if opts.Gradient[0] == "" || opts.Gradient[1] == "" {
		opts.Gradient = [2]string{"#3478F6", "#53B6F9"}
	}
	m := bubbleprogress.New(
		bubbleprogress.WithScaledGradient(opts.Gradient[0], opts.Gradient[1]),
		bubbleprogress.WithoutPercentage(),
	)
	m.Width = opts.Width
	return &Terminal{
		out:     out,
		label:   opts.Label,
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("69")),
		enabled: enabled,
		model:   m,
	}
}

// Enabled reports whether the renderer draws anything.
func (t *Terminal) Enabled() bool { return t.enabled }

// Attach subscribes to est and draws its current snapshot. Attaching again
// replaces the previous subscription.
func (t *Terminal) Attach(est *estimator.Estimator) {
	t.Detach()
	stop := est.Subscribe(func(s estimator.Snapshot) { t.Render(Describe(s, "")) })
	t.mu.Lock()
	t.stop = stop
	t.mu.Unlock()
	t.Render(Describe(est.Snapshot(), ""))
}

// Detach stops following the estimator.
func (t *Terminal) Detach() {
	t.mu.Lock()
	stop := t.stop
	t.stop = nil
	t.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// Render draws v over the current line.
func (t *Terminal) Render(v BarView) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = v
	if !t.enabled || t.out == nil {
		return
	}
	line := fmt.Sprintf("%s %3d%% %s", t.model.ViewAs(v.Fraction()), v.Value, StateLabel(v.State))
	if t.label != "" {
		line = t.style.Render(t.label) + " " + line
	}
	_, _ = fmt.Fprintf(t.out, "\r\x1b[2K%s", line)
	t.drawn = true
}

// Last returns the most recently rendered view.
func (t *Terminal) Last() BarView {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Close detaches and clears the bar line.
func (t *Terminal) Close() {
	t.Detach()
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.enabled || t.out == nil || !t.drawn {
		return
	}
	_, _ = fmt.Fprint(t.out, "\r\x1b[2K")
	t.drawn = false
}
