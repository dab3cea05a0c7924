// Package console implements the interactive prompt that feeds alarm
// requests to the scheduling engine.
package console
