package versioncmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/gcstr/progressive/internal/cli/buildinfo"
)

// New creates the `version` command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show detailed version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "progressive\n")
			_, _ = fmt.Fprintf(w, " Version:\t%s\n", buildinfo.Version())

			goVer := buildinfo.GoVersion()
			if goVer == "" {
				goVer = runtime.Version()
			}
			_, _ = fmt.Fprintf(w, " Go version:\t%s\n", goVer)
			_, _ = fmt.Fprintf(w, " Git commit:\t%s\n", orUnknown(buildinfo.Commit()))

			built := orUnknown(buildinfo.BuildDate())
			if by := buildinfo.BuiltBy(); by != "" && built != "<unknown>" {
				built = built + " (" + by + ")"
			}
			_, _ = fmt.Fprintf(w, " Built:\t\t%s\n", built)
			_, _ = fmt.Fprintf(w, " OS/Arch:\t%s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
	return cmd
}

func orUnknown(s string) string {
	if s == "" {
		return "<unknown>"
	}
	return s
}
