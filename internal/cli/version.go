package cli

import (
	"github.com/gcstr/progressive/internal/cli/buildinfo"
)

// Version wrapper for tests and other packages referencing cli.Version().
func Version() string { return buildinfo.Version() }

// VersionSimple is what --version prints.
func VersionSimple() string { return buildinfo.VersionSimple() }
