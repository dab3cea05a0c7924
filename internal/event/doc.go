// Package event defines the scheduler's observable event stream.
//
// Every significant occurrence (insertions, changes, expiries, renders,
// worker lifecycle, rejections) is emitted as an Event into a Sink. The
// package ships a colored console sink, a fan-out, a test capture sink and a
// bounded history ring for summaries.
package event
