// Package buildinfo carries version metadata stamped in with -ldflags, e.g.
//
//	go build -ldflags "-X retrocalc/internal/buildinfo.Version=v1.2.0"
package buildinfo

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for the window title.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return shortCommit(Commit)
	}
	return "dev"
}

// String returns version, commit and date for logs.
func String() string {
	return Version + " (" + shortCommit(Commit) + ", " + Date + ")"
}

func shortCommit(c string) string {
	if len(c) > 12 {
		return c[:12]
	}
	return c
}
