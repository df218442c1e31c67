package logger

import "os"

// Logger is the base logger interface
type Logger interface {
	// basic messages, appends a newline (\n) after each entry
	Info(msg string)

	// basic messages, can be custom formatted, similar to fmt.Printf
	Infof(msg string, args ...interface{})

	// messages about recoverable problems, e.g. a transient exchange failure that will be retried on the next cycle
	Warn(msg string)

	Warnf(msg string, args ...interface{})

	// error messages, the logger should NOT panic on these messages
	Error(msg string)

	Errorf(msg string, args ...interface{})
}

// Fatal is a convenience method that can be used with any Logger to log a fatal error
func Fatal(l Logger, e error) {
	l.Info("")
	l.Errorf("%s", e)
	os.Exit(1)
}
