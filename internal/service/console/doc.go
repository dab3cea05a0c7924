// Package console runs the interactive alarm scheduling session: the engine,
// the terminal event stream and the request prompt wired together.
package console
