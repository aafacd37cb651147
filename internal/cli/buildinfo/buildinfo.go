package buildinfo

import "runtime/debug"

// Build-time variables injected via -ldflags; defaults are used for dev builds.
var (
	version   = "0.1.0-dev"
	commit    = ""
	date      = ""
	builtBy   = ""
	goVersion = ""
)

// readBuildInfo is swapped in tests.
var readBuildInfo = debug.ReadBuildInfo

// Version returns the semantic version string.
func Version() string {
	return version
}

// VersionSimple returns version number with short commit hash for --version flag.
func VersionSimple() string {
	v := version
	if c := Commit(); c != "" {
		if len(c) > 7 {
			c = c[:7]
		}
		v += " (" + c + ")"
	}
	return v
}

// GoVersion returns the Go version the binary was built with, preferring the
// ldflags value.
func GoVersion() string {
	if goVersion != "" {
		return goVersion
	}
	if bi, ok := readBuildInfo(); ok {
		return bi.GoVersion
	}
	return ""
}

// Commit returns the commit hash from ldflags, or from the VCS stamp the Go
// toolchain embeds when building inside a checkout.
func Commit() string {
	if commit != "" {
		return commit
	}
	return vcsSetting("vcs.revision")
}

// BuildDate returns the build date from ldflags or the VCS commit time.
func BuildDate() string {
	if date != "" {
		return date
	}
	return vcsSetting("vcs.time")
}

// BuiltBy returns the builder identifier if provided via -ldflags.
func BuiltBy() string { return builtBy }

func vcsSetting(key string) string {
	bi, ok := readBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
