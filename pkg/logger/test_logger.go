package logger

import (
	"github.com/rs/zerolog"
)

// NopLogger is a Logger implementation that discards everything. It keeps
// package tests quiet without touching the global logger.
type NopLogger struct {
	zerolog *zerolog.Logger
}

// NewNopLogger creates a logger that discards all messages
func NewNopLogger() *NopLogger {
	nop := zerolog.Nop()
	return &NopLogger{zerolog: &nop}
}

func (l *NopLogger) Debug(msg string) {}
func (l *NopLogger) Info(msg string)  {}
func (l *NopLogger) Warn(msg string)  {}
func (l *NopLogger) Error(msg string) {}

func (l *NopLogger) WithField(key string, value interface{}) Logger          { return l }
func (l *NopLogger) WithFields(fields map[string]interface{}) Logger         { return l }
func (l *NopLogger) WithError(err error) Logger                              { return l }
func (l *NopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (l *NopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (l *NopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (l *NopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}

func (l *NopLogger) GetZerolog() *zerolog.Logger { return l.zerolog }
