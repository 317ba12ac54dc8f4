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

package log

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

type loggerKeyTy string

const loggerKey = loggerKeyTy("log.logger")

// PutLogger returns a new context with the logger assigned.
func PutLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// GetLogger returns the zap logger assigned to ctx.
// If no logger has been assigned a no-op logger is returned.
func GetLogger(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*zap.Logger); ok {
			return l
		}
	}
	return zap.NewNop()
}

// V is a map of key-value pairs that can be bound to a context so that every
// message logged with that context carries them.
type V map[string]interface{}

// Bind returns a new context with the values of v attached to its logger.
func (v V) Bind(ctx context.Context) context.Context {
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)
	fields := make([]zap.Field, len(names))
	for i, name := range names {
		fields[i] = zap.Any(name, v[name])
	}
	return PutLogger(ctx, GetLogger(ctx).With(fields...))
}

// Enter returns a new context whose logger is named with the additional
// segment name.
func Enter(ctx context.Context, name string) context.Context {
	return PutLogger(ctx, GetLogger(ctx).Named(name))
}
