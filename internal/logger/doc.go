// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder writing to stderr,
//     leaving stdout free for the alarm display,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// Every component logs through a named context logger: the services run
// under "alarm-console" and "alarm-replay", the engine under "monitor" and
// "worker-<n>". Names accumulate through WithName, so nested components show
// their full path.
package logger
