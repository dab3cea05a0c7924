// Package alarm contains core domain types for the scheduler business logic.
//
// It defines Alarm (a pending timed notification with its group and deadline)
// and ChangeRequest (a staged modification of a pending alarm) together with
// the message truncation rule shared by both.
package alarm
