package scope

import (
	"context"
	"errors"
	"testing"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/estimator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup_OutsideScopeFails(t *testing.T) {
	ctxs := map[string]context.Context{
		"background": context.Background(),
		"nil":        nil,
		"other":      context.WithValue(context.Background(), struct{}{}, "x"),
	}
	for name, ctx := range ctxs {
		t.Run(name, func(t *testing.T) {
			est, err := Lookup(ctx)
			assert.Nil(t, est)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrScopeNotFound)
			assert.True(t, apperr.IsKind(err, apperr.ScopeNotFound))

			_, err = UseControl(ctx)
			assert.ErrorIs(t, err, ErrScopeNotFound)
			assert.Panics(t, func() { MustControl(ctx) })
		})
	}
}

func TestRun_SharesOneEstimator(t *testing.T) {
	err := Run(context.Background(), estimator.Options{}, func(ctx context.Context) error {
		a, err := Lookup(ctx)
		require.NoError(t, err)
		b, err := Lookup(ctx)
		require.NoError(t, err)
		assert.Same(t, a, b)

		MustControl(ctx).Start()
		assert.Equal(t, estimator.StateInProgress, a.State())
		assert.Equal(t, 15, a.Value())
		return nil
	})
	require.NoError(t, err)
}

func TestRun_ClosesEstimatorOnEveryExit(t *testing.T) {
	var captured *estimator.Estimator
	boom := errors.New("boom")
	err := Run(context.Background(), estimator.Options{}, func(ctx context.Context) error {
		captured, _ = Lookup(ctx)
		captured.Start()
		return boom
	})
	require.ErrorIs(t, err, boom)

	// A closed estimator ignores transitions.
	captured.Done()
	assert.Equal(t, estimator.StateInProgress, captured.State())

	assert.Panics(t, func() {
		_ = Run(context.Background(), estimator.Options{}, func(ctx context.Context) error {
			captured, _ = Lookup(ctx)
			captured.Start()
			panic("render failed")
		})
	})
	captured.Done()
	assert.Equal(t, estimator.StateInProgress, captured.State())
}

func TestNestedProvidersAreIndependent(t *testing.T) {
	outer := New(estimator.Options{})
	defer outer.Close()
	inner := New(estimator.Options{})
	defer inner.Close()

	outerCtx := WithProvider(context.Background(), outer)
	innerCtx := WithProvider(outerCtx, inner)

	MustControl(innerCtx).Done()
	got, err := Lookup(innerCtx)
	require.NoError(t, err)
	assert.Same(t, inner.Estimator(), got)
	assert.Equal(t, estimator.StateComplete, inner.Estimator().State())
	assert.Equal(t, estimator.StateInitial, outer.Estimator().State())
}

func TestTrack_FinishesOnError(t *testing.T) {
	p := New(estimator.Options{})
	defer p.Close()
	ctx := WithProvider(context.Background(), p)

	boom := errors.New("boom")
	err := Track(ctx, func(ctx context.Context) error {
		assert.Equal(t, estimator.StateInProgress, p.Estimator().State())
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, estimator.StateComplete, p.Estimator().State())
	assert.Equal(t, 100, p.Estimator().Value())

	err = Track(context.Background(), func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrScopeNotFound)
}
