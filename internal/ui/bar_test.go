package ui

import (
	"context"
	"testing"

	"github.com/gcstr/progressive/internal/estimator"
	"github.com/gcstr/progressive/internal/scope"
)

func TestDescribe_VisibilityPerState(t *testing.T) {
	cases := []struct {
		state   estimator.State
		visible bool
	}{
		{estimator.StateInitial, false},
		{estimator.StateInProgress, true},
		{estimator.StateCompleting, true},
		{estimator.StateComplete, false},
	}
	for _, tc := range cases {
		v := Describe(estimator.Snapshot{State: tc.state, Value: 42}, "bar")
		if v.Visible != tc.visible {
			t.Fatalf("state %s: expected visible=%v", tc.state, tc.visible)
		}
		if v.Width != "42%" {
			t.Fatalf("expected width 42%%, got %q", v.Width)
		}
		if v.Class != "bar" {
			t.Fatalf("expected class passthrough, got %q", v.Class)
		}
	}
}

func TestBarViewHTML(t *testing.T) {
	v := Describe(estimator.Snapshot{State: estimator.StateInProgress, Value: 15}, `h-1 data-[state="in-progress"]:opacity-100`)
	want := `<div data-state="in-progress" style="width: 15%" class="h-1 data-[state=&#34;in-progress&#34;]:opacity-100"></div>`
	if got := v.HTML(); got != want {
		t.Fatalf("unexpected markup\nwant: %s\ngot:  %s", want, got)
	}

	bare := Describe(estimator.Snapshot{State: estimator.StateInitial}, "")
	if got := bare.HTML(); got != `<div data-state="initial" style="width: 0%"></div>` {
		t.Fatalf("unexpected markup without class: %s", got)
	}
}

func TestBarViewFraction(t *testing.T) {
	if f := (BarView{Value: 50}).Fraction(); f != 0.5 {
		t.Fatalf("expected 0.5, got %v", f)
	}
	if f := (BarView{Value: 100}).Fraction(); f != 1 {
		t.Fatalf("expected 1, got %v", f)
	}
}

func TestUseBar_OutsideScope(t *testing.T) {
	if _, err := UseBar(context.Background(), "bar"); err == nil {
		t.Fatalf("expected error outside provider scope")
	}
}

func TestUseBar_FollowsEstimator(t *testing.T) {
	err := scope.Run(context.Background(), estimator.Options{}, func(ctx context.Context) error {
		bar, err := UseBar(ctx, "top")
		if err != nil {
			return err
		}
		var seen []BarView
		stop := bar.Watch(func(v BarView) { seen = append(seen, v) })
		defer stop()

		ctl := scope.MustControl(ctx)
		ctl.Start()
		if v := bar.View(); v.Value != 15 || !v.Visible {
			t.Fatalf("expected visible bar at 15%%, got %+v", v)
		}
		ctl.Done()
		if v := bar.View(); v.Value != 100 || v.Visible || v.State != estimator.StateComplete {
			t.Fatalf("expected hidden complete bar at 100%%, got %+v", v)
		}
		if len(seen) != 4 || seen[2].State != estimator.StateCompleting || !seen[2].Visible {
			t.Fatalf("expected completing to be observed, got %+v", seen)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
}
