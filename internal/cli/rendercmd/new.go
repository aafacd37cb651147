package rendercmd

import (
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/cli/common"
	"github.com/gcstr/progressive/internal/estimator"
	"github.com/gcstr/progressive/internal/ui"
)

// renderedBar is the YAML shape of a rendered bar.
type renderedBar struct {
	State   string `yaml:"state"`
	Value   int    `yaml:"value"`
	Width   string `yaml:"width"`
	Visible bool   `yaml:"visible"`
	Class   string `yaml:"class,omitempty"`
	HTML    string `yaml:"html"`
}

// New creates the `render` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the bar element for a given state and value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := common.Setup(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = cliCtx.Close() }()

			rawState, _ := cmd.Flags().GetString("state")
			state, err := estimator.ParseState(rawState)
			if err != nil {
				return err
			}
			value, _ := cmd.Flags().GetInt("value")
			if value < 0 || value > estimator.MaxValue {
				return apperr.New("render", apperr.InvalidInput, "--value must be between 0 and %d, got %d", estimator.MaxValue, value)
			}
			class := cliCtx.Config.Bar.Class
			if cmd.Flags().Changed("class") {
				class, _ = cmd.Flags().GetString("class")
			}

			v := ui.Describe(estimator.Snapshot{State: state, Value: value}, class)

			format, _ := cmd.Flags().GetString("format")
			switch strings.ToLower(strings.TrimSpace(format)) {
			case "", "html":
				cliCtx.Printer.Plain("%s", v.HTML())
			case "yaml":
				b, err := yaml.Marshal(renderedBar{
					State:   v.State.String(),
					Value:   v.Value,
					Width:   v.Width,
					Visible: v.Visible,
					Class:   v.Class,
					HTML:    v.HTML(),
				})
				if err != nil {
					return apperr.Wrap("render", apperr.Internal, err, "encode yaml")
				}
				cliCtx.Printer.Plain("%s", strings.TrimRight(string(b), "\n"))
			default:
				return apperr.New("render", apperr.InvalidInput, "unknown --format %q (want html or yaml)", format)
			}
			return nil
		},
	}

	cmd.Flags().String("state", string(estimator.StateInProgress), "Bar state: initial, in-progress, completing, complete")
	cmd.Flags().Int("value", 0, "Bar value, 0 to 100")
	cmd.Flags().String("class", "", "Styling token attached to the element")
	cmd.Flags().String("format", "html", "Output format: html or yaml")

	return cmd
}
