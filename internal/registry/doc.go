// Package registry holds the scheduler's two shared collections: the
// deadline-ordered registry of pending alarms and the queue of staged change
// requests. Each has its own mutex and bounded critical sections; neither
// knows about the other.
package registry
