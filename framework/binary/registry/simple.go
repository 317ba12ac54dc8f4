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

package registry

import (
	"reflect"

	"github.com/google/objgraph/framework/binary"
)

// Simple is a Binder for use by a single goroutine. Lookups that miss in a
// Simple binder are passed on to its fallbacks in order, which allows a
// session binder to be layered over a shared one.
type Simple struct {
	fallbacks []binary.Binder
	keys      map[reflect.Type]binary.TypeKey
	types     map[binary.TypeKey]reflect.Type
	readers   map[reflect.Type]binary.ReadFunc
}

var _ binary.Binder = &Simple{}

// NewSimple returns a Simple binder holding the built-in types, layered on top
// of the specified fallbacks.
func NewSimple(fallbacks ...binary.Binder) *Simple {
	s := &Simple{
		fallbacks: fallbacks,
		keys:      map[reflect.Type]binary.TypeKey{},
		types:     map[binary.TypeKey]reflect.Type{},
		readers:   map[reflect.Type]binary.ReadFunc{},
	}
	for _, t := range builtins {
		s.Record(t)
	}
	return s
}

// AddFallbacks appends binders to the fallback list of s.
func (s *Simple) AddFallbacks(fallbacks ...binary.Binder) {
	s.fallbacks = append(s.fallbacks, fallbacks...)
}

// Record adds t to the binder.
func (s *Simple) Record(t reflect.Type) {
	if t == nil {
		return
	}
	if _, found := s.keys[t]; found {
		return
	}
	k := KeyOf(t)
	s.keys[t] = k
	if _, found := s.types[k]; !found {
		s.types[k] = t
	}
	if r := readerOf(t); r != nil {
		s.readers[t] = r
	}
}

// RecordValue adds the type of v to the binder.
func (s *Simple) RecordValue(v interface{}) {
	s.Record(reflect.TypeOf(v))
}

// Count returns the number of types recorded directly in s.
func (s *Simple) Count() int {
	return len(s.keys)
}

// TypeKey implements binary.Binder.
func (s *Simple) TypeKey(t reflect.Type) (binary.TypeKey, bool) {
	if t == nil {
		return binary.TypeKey{}, false
	}
	s.Record(t)
	return s.keys[t], true
}

// Type implements binary.Binder.
func (s *Simple) Type(k binary.TypeKey) (reflect.Type, bool) {
	if t, found := s.types[k]; found {
		return t, true
	}
	for _, f := range s.fallbacks {
		if t, found := f.Type(k); found {
			return t, true
		}
	}
	if t, ok := compose(k, s.Type); ok {
		s.Record(t)
		return t, true
	}
	return nil, false
}

// Reader implements binary.Binder.
func (s *Simple) Reader(t reflect.Type) (binary.ReadFunc, bool) {
	if t == nil {
		return nil, false
	}
	s.Record(t)
	if r, found := s.readers[t]; found {
		return r, true
	}
	for _, f := range s.fallbacks {
		if r, found := f.Reader(t); found {
			return r, true
		}
	}
	return nil, false
}

// Writer implements binary.Binder.
func (s *Simple) Writer(v interface{}) (binary.WriteFunc, bool) {
	if _, ok := v.(binary.Writable); !ok {
		return nil, false
	}
	s.RecordValue(v)
	return writeWritable, true
}
