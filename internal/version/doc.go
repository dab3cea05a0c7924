// Package version exposes build metadata for the alarm scheduler binaries.
//
// Version, Commit and BuildTime carry local defaults and are meant to be
// overridden with Go ldflags at release builds. Short and Full render them
// for CLI output; AttachCobraVersionCommand gives every binary the same
// `version` subcommand.
package version
