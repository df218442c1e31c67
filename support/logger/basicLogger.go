package logger

import "log"

// basicLogger is a standard logger
type basicLogger struct {
}

// ensure it implements Logger
var _ Logger = &basicLogger{}

// MakeBasicLogger is the factory method
func MakeBasicLogger() Logger {
	return &basicLogger{}
}

// Info impl
func (l *basicLogger) Info(msg string) {
	log.Println(msg)
}

// Infof impl
func (l *basicLogger) Infof(msg string, args ...interface{}) {
	log.Printf(msg, args...)
}

// Warn impl
func (l *basicLogger) Warn(msg string) {
	log.Println("WARN " + msg)
}

// Warnf impl
func (l *basicLogger) Warnf(msg string, args ...interface{}) {
	log.Printf("WARN "+msg, args...)
}

// Error impl
func (l *basicLogger) Error(msg string) {
	log.Println("ERROR " + msg)
}

// Errorf impl
func (l *basicLogger) Errorf(msg string, args ...interface{}) {
	log.Printf("ERROR "+msg, args...)
}
