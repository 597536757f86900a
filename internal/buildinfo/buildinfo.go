// Package buildinfo holds the firmware build identifiers, set at build time:
//
//	-ldflags "-X stopwatch/internal/buildinfo.Version=v1.2.0 -X stopwatch/internal/buildinfo.Commit=abc123"
package buildinfo

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the window title and the
// boot line.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// String returns every known identifier, e.g. "v1.2.0 commit=abc123 date=2026-01-02".
func String() string {
	s := Short()
	if Commit != "" && Commit != "unknown" && s != Commit {
		s += " commit=" + Commit
	}
	if Date != "" && Date != "unknown" {
		s += " date=" + Date
	}
	return s
}
