// Package version contains netwatch's version. It is set at build time
// via -ldflags.
package version

// Version is this binary's symbolic version.
var Version = "v0.0.0-dev"
