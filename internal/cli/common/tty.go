package common

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ttyStatus reports whether the command's stdin and stdout are terminals.
type ttyStatus struct {
	In  bool
	Out bool
}

// Interactive reports whether both ends are terminals.
func (s ttyStatus) Interactive() bool { return s.In && s.Out }

// detectTTY checks whether cmd's stdin and stdout are connected to a terminal.
func detectTTY(cmd *cobra.Command) ttyStatus {
	var s ttyStatus
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.In = true
	}
	if f, ok := cmd.OutOrStdout().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.Out = true
	}
	return s
}
