package logger

import (
  "fmt"

  "go.uber.org/zap"
)

// Logger wraps a sugared zap logger so call sites can pass key/value
// pairs without importing zap directly.
type Logger struct {
  sugar *zap.SugaredLogger
}

// New builds a Logger for the given mode ("development" or "production").
func New(mode string) (*Logger, error) {
  var base *zap.Logger
  var err error
  switch mode {
  case "production":
    base, err = zap.NewProduction()
  case "development", "":
    base, err = zap.NewDevelopment()
  default:
    return nil, fmt.Errorf("unknown log mode %q", mode)
  }
  if err != nil {
    return nil, err
  }
  return &Logger{sugar: base.Sugar()}, nil
}

func (l *Logger) With(keysAndValues ...interface{}) *Logger {
  return &Logger{sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
  l.sugar.Debugw(msg, keysAndValues...)
}

func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
  l.sugar.Infow(msg, keysAndValues...)
}

func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
  l.sugar.Warnw(msg, keysAndValues...)
}

func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
  l.sugar.Errorw(msg, keysAndValues...)
}

func (l *Logger) Sync() error {
  return l.sugar.Sync()
}
