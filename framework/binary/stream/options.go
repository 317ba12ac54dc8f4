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

package stream

import (
	"github.com/google/objgraph/core/event/task"
	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/refs"
	lru "github.com/hashicorp/golang-lru"
)

// DefaultMaxDepth is the object nesting depth at which a Writer moves the
// rest of a subtree onto another goroutine.
const DefaultMaxDepth = 50

// Config holds the settings of a Writer or Reader.
type Config struct {
	Binder   binary.Binder
	Executor task.Executor
	MaxDepth int

	BaseStrings *refs.Shared
	BaseTypes   *refs.Shared
	BaseObjects *refs.Shared

	StringCache *lru.Cache
}

func defaultConfig() Config {
	return Config{
		Executor: task.Go,
		MaxDepth: DefaultMaxDepth,
	}
}

// Option is a function that configures a Writer or Reader.
type Option func(*Config)

func configure(opts []Option) Config {
	c := defaultConfig()
	for _, o := range opts {
		o(&c)
	}
	return c
}

// WithBinder sets the binder used to resolve types and objects.
func WithBinder(b binary.Binder) Option {
	return func(c *Config) {
		c.Binder = b
	}
}

// WithExecutor sets the executor used to continue deep writes.
func WithExecutor(e task.Executor) Option {
	return func(c *Config) {
		c.Executor = e
	}
}

// WithMaxDepth sets the nesting depth at which a Writer hands off work.
// A depth of zero or less disables the hand off.
func WithMaxDepth(depth int) Option {
	return func(c *Config) {
		c.MaxDepth = depth
	}
}

// WithBaseStrings sets the base table for strings. Both ends of a stream
// must use the same base table.
func WithBaseStrings(s *refs.Shared) Option {
	return func(c *Config) {
		c.BaseStrings = s
	}
}

// WithBaseTypes sets the base table for types.
func WithBaseTypes(s *refs.Shared) Option {
	return func(c *Config) {
		c.BaseTypes = s
	}
}

// WithBaseObjects sets the base table for objects.
func WithBaseObjects(s *refs.Shared) Option {
	return func(c *Config) {
		c.BaseObjects = s
	}
}

// WithStringCache sets a cache a Reader uses to share the storage of decoded
// strings across sessions. The cache is safe to share between Readers.
func WithStringCache(cache *lru.Cache) Option {
	return func(c *Config) {
		c.StringCache = cache
	}
}
