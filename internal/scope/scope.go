// Package scope shares one progress estimator with everything running
// beneath a context, and hands triggering code a handle that can only
// start and finish it.
package scope

import (
	"context"
	"errors"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/estimator"
)

// ErrScopeNotFound is returned when progress is read from a context that no
// Provider has been attached to.
var ErrScopeNotFound = errors.New("no progress provider in scope")

// Provider owns the estimator of one scope.
type Provider struct {
	est *estimator.Estimator
}

// New creates a Provider with a fresh estimator.
func New(opts estimator.Options) *Provider {
	return &Provider{est: estimator.New(opts)}
}

// Estimator returns the estimator owned by the provider.
func (p *Provider) Estimator() *estimator.Estimator { return p.est }

// Close ends the scope and releases the estimator's ticker.
func (p *Provider) Close() error { return p.est.Close() }

type ctxKey struct{}

// WithProvider returns a derived context through which consumers reach p.
// An inner provider shadows an outer one.
func WithProvider(ctx context.Context, p *Provider) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// Run opens a scope for the duration of fn. The estimator is closed when fn
// returns, errors or panics.
func Run(ctx context.Context, opts estimator.Options, fn func(ctx context.Context) error) error {
	p := New(opts)
	defer p.Close()
	return fn(WithProvider(ctx, p))
}

// Lookup returns the estimator of the nearest enclosing provider.
func Lookup(ctx context.Context) (*estimator.Estimator, error) {
	if ctx != nil {
		if p, ok := ctx.Value(ctxKey{}).(*Provider); ok && p != nil {
			return p.est, nil
		}
	}
	return nil, apperr.Wrap("scope.Lookup", apperr.ScopeNotFound, ErrScopeNotFound,
		"progress used outside a provider: wrap the caller with scope.Run or scope.WithProvider")
}

// Control is the narrow handle given to code that triggers transitions.
type Control interface {
	Start()
	Done()
}

type control struct{ est *estimator.Estimator }

func (c control) Start() { c.est.Start() }
func (c control) Done()  { c.est.Done() }

// UseControl returns the start/done handle of the nearest provider.
func UseControl(ctx context.Context) (Control, error) {
	est, err := Lookup(ctx)
	if err != nil {
		return nil, err
	}
	return control{est: est}, nil
}

// MustControl is UseControl for call sites where a missing provider is a
// wiring bug. It panics with the lookup error.
func MustControl(ctx context.Context) Control {
	c, err := UseControl(ctx)
	if err != nil {
		panic(err)
	}
	return c
}

// Track runs op between Start and Done on the nearest provider's estimator.
// Done is called however op exits.
func Track(ctx context.Context, op func(ctx context.Context) error) error {
	c, err := UseControl(ctx)
	if err != nil {
		return err
	}
	c.Start()
	defer c.Done()
	return op(ctx)
}
