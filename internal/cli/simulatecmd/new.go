package simulatecmd

import (
	"fmt"
	"math/rand/v2"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/estimator"
)

const maxSteps = 10000

// New creates the `simulate` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Print a stepping trajectory without waiting for the cadence",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, _ := cmd.Flags().GetInt("steps")
			if steps < 1 || steps > maxSteps {
				return apperr.New("simulate", apperr.InvalidInput, "--steps must be between 1 and %d, got %d", maxSteps, steps)
			}
			interval, _ := cmd.Flags().GetDuration("interval")
			if interval <= 0 {
				return apperr.New("simulate", apperr.InvalidInput, "--interval must be positive, got %s", interval)
			}

			var r estimator.Rand
			if cmd.Flags().Changed("seed") {
				seed, _ := cmd.Flags().GetUint64("seed")
				r = rand.New(rand.NewPCG(seed, seed))
			} else {
				r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "STEP\tAT\tVALUE\tINCREMENT")
			for i, p := range Trajectory(steps, r) {
				// The first step fires immediately on Start.
				at := time.Duration(i) * interval
				_, _ = fmt.Fprintf(tw, "%d\t%s\t%d%%\t+%d\n", i+1, at, p.Value, p.Increment)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("steps", 20, "Number of steps to simulate")
	cmd.Flags().Uint64("seed", 0, "Seed for a reproducible trajectory")
	cmd.Flags().Duration("interval", estimator.DefaultInterval, "Step cadence used for the AT column")

	return cmd
}

// Point is one step of a trajectory.
type Point struct {
	Value     int
	Increment int
}

// Trajectory applies the stepping function n times starting from 0.
func Trajectory(n int, r estimator.Rand) []Point {
	out := make([]Point, 0, n)
	v := 0
	for range n {
		next := estimator.NextValue(v, r)
		out = append(out, Point{Value: next, Increment: next - v})
		v = next
	}
	return out
}
