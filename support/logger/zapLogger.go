package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// zapLogger writes structured JSON entries through zap
type zapLogger struct {
	l *zap.SugaredLogger
}

// ensure it implements Logger
var _ Logger = &zapLogger{}

// MakeZapLogger builds a JSON logger on stdout; when logFile is set entries are also appended to that file
func MakeZapLogger(level string, logFile string) (Logger, func() error, error) {
	lvl := zap.NewAtomicLevel()
	if level != "" {
		if e := lvl.UnmarshalText([]byte(strings.ToLower(level))); e != nil {
			return nil, nil, fmt.Errorf("invalid log level '%s': %s", level, e)
		}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(os.Stdout), lvl),
	}
	closeFn := func() error { return nil }
	if logFile != "" {
		if e := os.MkdirAll(filepath.Dir(logFile), 0755); e != nil {
			return nil, nil, fmt.Errorf("could not create log directory: %s", e)
		}
		file, e := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if e != nil {
			return nil, nil, fmt.Errorf("could not open log file: %s", e)
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), lvl))
		closeFn = file.Close
	}

	sugared := zap.New(zapcore.NewTee(cores...)).Sugar()
	return &zapLogger{l: sugared}, func() error {
		_ = sugared.Sync()
		return closeFn()
	}, nil
}

// Info impl
func (z *zapLogger) Info(msg string) {
	z.l.Info(msg)
}

// Infof impl
func (z *zapLogger) Infof(msg string, args ...interface{}) {
	z.l.Infof(strings.TrimSuffix(msg, "\n"), args...)
}

// Warn impl
func (z *zapLogger) Warn(msg string) {
	z.l.Warn(msg)
}

// Warnf impl
func (z *zapLogger) Warnf(msg string, args ...interface{}) {
	z.l.Warnf(strings.TrimSuffix(msg, "\n"), args...)
}

// Error impl
func (z *zapLogger) Error(msg string) {
	z.l.Error(msg)
}

// Errorf impl
func (z *zapLogger) Errorf(msg string, args ...interface{}) {
	z.l.Errorf(strings.TrimSuffix(msg, "\n"), args...)
}
