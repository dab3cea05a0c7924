package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrBadCommand is returned for input that does not follow the command
// grammar.
var ErrBadCommand = errors.New("bad command")

// commandRE captures the verb, alarm id, group id, delay in seconds and
// message of one request line.
var commandRE = regexp.MustCompile(`^(Start_Alarm|Change_Alarm)\((\d+)\)\s*:\s*Group\((\d+)\)\s+(\d+)\s+(.+)$`)

// Command is one parsed request line.
type Command interface {
	isCommand()
}

// Start requests scheduling of a new alarm.
type Start struct {
	// AlarmID identifies the alarm to create.
	AlarmID int64
	// Group is the display group the alarm belongs to.
	Group int64
	// Seconds is the delay until the alarm goes off.
	Seconds int64
	// Message is the text to display while the alarm is pending.
	Message string
}

// Change requests an update to a pending alarm.
type Change struct {
	// AlarmID identifies the alarm to update.
	AlarmID int64
	// Group is the display group the alarm moves to.
	Group int64
	// Seconds is the new delay, counted from when the change is applied.
	Seconds int64
	// Message is the replacement text.
	Message string
}

func (Start) isCommand()  {}
func (Change) isCommand() {}

// Parse turns one request line into a command.
//
// The accepted forms are:
//
//	Start_Alarm(id): Group(group) seconds message...
//	Change_Alarm(id): Group(group) seconds message...
//
// Surrounding whitespace is ignored and the message runs to the end of the
// line. Anything else fails with ErrBadCommand.
func Parse(line string) (Command, error) {
	m := commandRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return nil, fmt.Errorf("%w: %q", ErrBadCommand, line)
	}

	id, err := parseNumber(m[2])
	if err != nil {
		return nil, err
	}

	group, err := parseNumber(m[3])
	if err != nil {
		return nil, err
	}

	seconds, err := parseNumber(m[4])
	if err != nil {
		return nil, err
	}

	message := strings.TrimSpace(m[5])

	if m[1] == "Start_Alarm" {
		return Start{AlarmID: id, Group: group, Seconds: seconds, Message: message}, nil
	}

	return Change{AlarmID: id, Group: group, Seconds: seconds, Message: message}, nil
}

func parseNumber(raw string) (int64, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: number %q is out of range", ErrBadCommand, raw)
	}

	return n, nil
}
