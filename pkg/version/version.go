// Package version holds the release version reported by the binaries and
// the API.
package version

// Version is the current release. Overridden at build time with
// -ldflags "-X aeroprofile/pkg/version.Version=...".
var Version = "v0.3.1"
