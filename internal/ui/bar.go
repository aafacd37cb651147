package ui

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/gcstr/progressive/internal/estimator"
	"github.com/gcstr/progressive/internal/scope"
)

// BarView is everything a renderer needs to draw a bar. It is derived from a
// snapshot and carries no state of its own.
type BarView struct {
	State   estimator.State
	Value   int
	Width   string // CSS-style percentage, e.g. "42%"
	Visible bool
	Class   string // caller-supplied styling token, passed through untouched
}

// Fraction returns the value as a ratio in [0, 1].
func (v BarView) Fraction() float64 {
	return float64(max(0, min(v.Value, estimator.MaxValue))) / estimator.MaxValue
}

// HTML renders the bar as a single element exposing the state as a
// data-state attribute and the value as its width.
func (v BarView) HTML() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div data-state="%s" style="width: %s"`, html.EscapeString(v.State.String()), html.EscapeString(v.Width))
	if v.Class != "" {
		fmt.Fprintf(&b, ` class="%s"`, html.EscapeString(v.Class))
	}
	b.WriteString("></div>")
	return b.String()
}

// Describe maps a snapshot to its view. The bar is visible while the
// estimator is in progress or completing.
func Describe(s estimator.Snapshot, class string) BarView {
	return BarView{
		State:   s.State,
		Value:   s.Value,
		Width:   fmt.Sprintf("%d%%", s.Value),
		Visible: s.State.Active(),
		Class:   class,
	}
}

// Bar is a read-only consumer of the nearest provider's estimator.
type Bar struct {
	est   *estimator.Estimator
	class string
}

// UseBar binds a Bar to the provider in ctx. It fails with
// scope.ErrScopeNotFound when there is none.
func UseBar(ctx context.Context, class string) (*Bar, error) {
	est, err := scope.Lookup(ctx)
	if err != nil {
		return nil, err
	}
	return &Bar{est: est, class: class}, nil
}

// View returns the current view.
func (b *Bar) View() BarView { return Describe(b.est.Snapshot(), b.class) }

// HTML renders the current view as markup.
func (b *Bar) HTML() string { return b.View().HTML() }

// Watch calls fn with the view of every published snapshot until the
// returned function is called.
func (b *Bar) Watch(fn func(BarView)) (stop func()) {
	return b.est.Subscribe(func(s estimator.Snapshot) { fn(Describe(s, b.class)) })
}
