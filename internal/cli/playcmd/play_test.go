package playcmd_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gcstr/progressive/internal/apperr"
	"github.com/gcstr/progressive/internal/cli"
)

func TestPlay_RequiresTerminal(t *testing.T) {
	t.Chdir(t.TempDir())
	root := cli.TestNewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs([]string{"play"})

	err := root.Execute()
	if err == nil {
		t.Fatalf("expected play to refuse a non-interactive terminal")
	}
	if !apperr.IsKind(err, apperr.InvalidInput) {
		t.Fatalf("expected invalid input kind, got %v", err)
	}
	if !strings.Contains(err.Error(), "interactive terminal") {
		t.Fatalf("unexpected error message: %v", err)
	}
}

func TestPlay_HasDelayFlag(t *testing.T) {
	root := cli.TestNewRootCmd()
	play, _, err := root.Find([]string{"play"})
	if err != nil {
		t.Fatalf("find play: %v", err)
	}
	if play.Flags().Lookup("delay") == nil {
		t.Fatalf("expected --delay flag on play")
	}
}
