// Package replay runs a scripted alarm session: request lines are fed to the
// engine in order, with optional sleeps between them, and the run ends with a
// printed summary.
package replay
