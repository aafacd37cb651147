package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	bubbleprogress "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gcstr/progressive/internal/estimator"
)

const frameRate = 50 * time.Millisecond

// PlaygroundOptions configures the interactive playground.
type PlaygroundOptions struct {
	// Delay is how long a simulated slow transition takes. Default: 2s.
	Delay    time.Duration
	Width    int
	Gradient [2]string
}

type playgroundKeys struct {
	Start key.Binding
	Done  key.Binding
	Reset key.Binding
	Slow  key.Binding
	Focus key.Binding
	Help  key.Binding
	Quit  key.Binding
}

func newPlaygroundKeys() playgroundKeys {
	return playgroundKeys{
		Start: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start")),
		Done:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "done")),
		Reset: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Slow:  key.NewBinding(key.WithKeys("enter", "t"), key.WithHelp("enter", "slow transition")),
		Focus: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch bar")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp returns the bindings shown in the collapsed help bar.
func (k playgroundKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Slow, k.Focus, k.Help, k.Quit}
}

// FullHelp returns the bindings shown in the expanded help view.
func (k playgroundKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Start, k.Done, k.Reset}, {k.Slow, k.Focus}, {k.Help, k.Quit}}
}

// PlaygroundBar is one bar of the playground and the estimator behind it.
type PlaygroundBar struct {
	Title string
	Est   *estimator.Estimator
}

type frameMsg time.Time

// slowDoneMsg finishes a simulated transition on bar index.
type slowDoneMsg struct {
	bar int
	seq uint64
}

// Playground is a Bubble Tea model that drives independent estimators from
// the keyboard: one page-level bar and any number of nested ones.
type Playground struct {
	bars     []PlaygroundBar
	views    []BarView
	focus    int
	delay    time.Duration
	model    bubbleprogress.Model
	keys     playgroundKeys
	help     help.Model
	width    int
	count    int
	pending  map[int]uint64
	issued   map[int]uint64
	quitting bool
}

// NewPlayground builds the model. bars must not be empty.
func NewPlayground(bars []PlaygroundBar, opts PlaygroundOptions) Playground {
	if opts.Delay <= 0 {
		opts.Delay = 2 * time.Second
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
	p := Playground{
		bars:    bars,
		views:   make([]BarView, len(bars)),
		delay:   opts.Delay,
		model:   m,
		keys:    newPlaygroundKeys(),
		help:    help.New(),
		width:   80,
		pending: map[int]uint64{},
		issued:  map[int]uint64{},
	}
	p.refresh()
	return p
}

func frame() tea.Cmd {
	return tea.Tick(frameRate, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (p *Playground) refresh() {
	for i, b := range p.bars {
		p.views[i] = Describe(b.Est.Snapshot(), "")
	}
}

// Views returns the last rendered view of every bar.
func (p Playground) Views() []BarView { return append([]BarView(nil), p.views...) }

// Count is the number of finished slow transitions.
func (p Playground) Count() int { return p.count }

// Focus is the index of the bar the keys act on.
func (p Playground) Focus() int { return p.focus }

func (p Playground) Init() tea.Cmd { return frame() }

func (p Playground) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.help.Width = msg.Width
	case frameMsg:
		p.refresh()
		return p, frame()
	case slowDoneMsg:
		// Only the latest slow transition of a bar may finish it.
		if p.pending[msg.bar] == msg.seq {
			delete(p.pending, msg.bar)
			p.bars[msg.bar].Est.Done()
			p.count++
		}
		p.refresh()
	case tea.KeyMsg:
		est := p.bars[p.focus].Est
		switch {
		case key.Matches(msg, p.keys.Quit):
			p.quitting = true
			return p, tea.Quit
		case key.Matches(msg, p.keys.Start):
			est.Start()
		case key.Matches(msg, p.keys.Done):
			est.Done()
		case key.Matches(msg, p.keys.Reset):
			delete(p.pending, p.focus)
			est.Reset()
		case key.Matches(msg, p.keys.Focus):
			p.focus = (p.focus + 1) % len(p.bars)
		case key.Matches(msg, p.keys.Help):
			p.help.ShowAll = !p.help.ShowAll
		case key.Matches(msg, p.keys.Slow):
			est.Start()
			// issued only grows, so a reset never lets an older timer match.
			p.issued[p.focus]++
			seq := p.issued[p.focus]
			p.pending[p.focus] = seq
			bar, delay := p.focus, p.delay
			p.refresh()
			return p, tea.Tick(delay, func(time.Time) tea.Msg { return slowDoneMsg{bar: bar, seq: seq} })
		}
		p.refresh()
	}
	return p, nil
}

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#3478F6", Dark: "#4A9EFF"})
	styleFocused = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("69")).Padding(0, 1)
	styleBlurred = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	styleMuted   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func (p Playground) View() string {
	if p.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleTitle.Render("progressive playground"))
	b.WriteString("\n")
	b.WriteString(styleMuted.Render(fmt.Sprintf("slow transitions finished: %d", p.count)))
	b.WriteString("\n\n")
	for i, bar := range p.bars {
		v := p.views[i]
		body := fmt.Sprintf("%s\n%s %3d%% %s", bar.Title, p.model.ViewAs(v.Fraction()), v.Value, StateLabel(v.State))
		box := styleBlurred
		if i == p.focus {
			box = styleFocused
		}
		b.WriteString(box.Render(body))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.help.View(p.keys))
	b.WriteString("\n")
	return b.String()
}
