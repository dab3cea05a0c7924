// Package config defines scheduler settings used by the alarm binaries and
// provides helpers to load, validate and save them in YAML format.
//
// The Config type holds the monitor strategy, the display worker pool
// dimensions and the render cadence.
package config
