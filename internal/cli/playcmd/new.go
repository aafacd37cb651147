package playcmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/cli/common"
	"github.com/gcstr/progressive/internal/estimator"
	"github.com/gcstr/progressive/internal/scope"
	"github.com/gcstr/progressive/internal/ui"
)

// New creates the `play` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Drive a page-level bar and a nested bar from the keyboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := common.Setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = cliCtx.Close() }()

			if !cliCtx.TTY.Interactive() {
				return apperr.New("play", apperr.InvalidInput, "play needs an interactive terminal; use `progressive demo` for non-interactive output")
			}

			delay := cliCtx.Config.Demo.DelayDuration
			if cmd.Flags().Changed("delay") {
				delay, _ = cmd.Flags().GetDuration("delay")
			}
			if delay <= 0 {
				return apperr.New("play", apperr.InvalidInput, "--delay must be positive, got %s", delay)
			}

			// The nested provider shadows the page provider for everything
			// beneath it; each owns an independent estimator.
			page := scope.New(estimator.Options{Logger: cliCtx.Logger.With("bar", "page")})
			defer func() { _ = page.Close() }()
			nested := scope.New(estimator.Options{Logger: cliCtx.Logger.With("bar", "nested")})
			defer func() { _ = nested.Close() }()

			pageCtx := scope.WithProvider(cliCtx.Ctx, page)
			nestedCtx := scope.WithProvider(pageCtx, nested)

			pageEst, err := scope.Lookup(pageCtx)
			if err != nil {
				return err
			}
			nestedEst, err := scope.Lookup(nestedCtx)
			if err != nil {
				return err
			}

			m := ui.NewPlayground([]ui.PlaygroundBar{
				{Title: "page", Est: pageEst},
				{Title: "nested", Est: nestedEst},
			}, ui.PlaygroundOptions{
				Delay:    delay,
				Width:    cliCtx.Config.Bar.Width,
				Gradient: cliCtx.Config.Bar.GradientPair(),
			})
			p := tea.NewProgram(m, tea.WithContext(cliCtx.Ctx), tea.WithInput(cliCtx.In), tea.WithOutput(cliCtx.Out))
			final, err := p.Run()
			if err != nil {
				return err
			}
			if pg, ok := final.(ui.Playground); ok {
				cliCtx.Logger.Info("play_finished", "slow_transitions", pg.Count())
			}
			return nil
		},
	}

	cmd.Flags().Duration("delay", 0, "How long a slow transition takes (default from config, 2s)")

	return cmd
}
