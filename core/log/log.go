// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package log provides context carried logging.
// The logger travels in the context.Context so that library code can log
// without holding its own reference, and tests can route everything to the
// testing.T that owns them.
package log

import (
	"context"

	"go.uber.org/zap"
)

// Logger provides a printf-style logging interface over a zap logger.
type Logger struct {
	s *zap.SugaredLogger
}

// From returns a new Logger from the context ctx.
func From(ctx context.Context) *Logger {
	return &Logger{s: GetLogger(ctx).WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// D logs a debug message to the logging target.
func D(ctx context.Context, fmt string, args ...interface{}) { from(ctx).Debugf(fmt, args...) }

// I logs a info message to the logging target.
func I(ctx context.Context, fmt string, args ...interface{}) { from(ctx).Infof(fmt, args...) }

// W logs a warning message to the logging target.
func W(ctx context.Context, fmt string, args ...interface{}) { from(ctx).Warnf(fmt, args...) }

// E logs a error message to the logging target.
func E(ctx context.Context, fmt string, args ...interface{}) { from(ctx).Errorf(fmt, args...) }

// D logs a debug message to the logging target.
func (l *Logger) D(fmt string, args ...interface{}) { l.s.Debugf(fmt, args...) }

// I logs a info message to the logging target.
func (l *Logger) I(fmt string, args ...interface{}) { l.s.Infof(fmt, args...) }

// W logs a warning message to the logging target.
func (l *Logger) W(fmt string, args ...interface{}) { l.s.Warnf(fmt, args...) }

// E logs a error message to the logging target.
func (l *Logger) E(fmt string, args ...interface{}) { l.s.Errorf(fmt, args...) }

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error { return l.s.Sync() }

func from(ctx context.Context) *zap.SugaredLogger {
	return GetLogger(ctx).WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// New builds a process logger. Verbose loggers use the zap development
// configuration, which logs at debug level in a human readable form.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
