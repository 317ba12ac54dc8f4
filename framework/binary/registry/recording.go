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
	"sync"

	"github.com/google/objgraph/framework/binary"
	"go.uber.org/atomic"
)

const shardCount = 16

type entry struct {
	key    binary.TypeKey
	reader binary.ReadFunc
}

type shard struct {
	sync.RWMutex
	types map[binary.TypeKey]reflect.Type
}

// Recording is a Binder that records every type it is asked about. It is safe
// for concurrent use by any number of writers and readers. When several
// goroutines record the same type at once exactly one entry wins, and every
// caller sees that entry.
type Recording struct {
	entries sync.Map // reflect.Type -> *entry
	shards  [shardCount]shard
	count   atomic.Int64
}

var _ binary.Binder = &Recording{}

// NewRecording returns a Recording binder holding the built-in types.
func NewRecording() *Recording {
	r := &Recording{}
	for i := range r.shards {
		r.shards[i].types = map[binary.TypeKey]reflect.Type{}
	}
	for _, t := range builtins {
		r.Record(t)
	}
	return r
}

func (r *Recording) shard(k binary.TypeKey) *shard {
	return &r.shards[k.Hash()%shardCount]
}

func (r *Recording) entry(t reflect.Type) *entry {
	if e, ok := r.entries.Load(t); ok {
		return e.(*entry)
	}
	e, loaded := r.entries.LoadOrStore(t, &entry{key: KeyOf(t), reader: readerOf(t)})
	won := e.(*entry)
	if !loaded {
		r.count.Inc()
		s := r.shard(won.key)
		s.Lock()
		if _, found := s.types[won.key]; !found {
			s.types[won.key] = t
		}
		s.Unlock()
	}
	return won
}

// Record adds t to the binder.
func (r *Recording) Record(t reflect.Type) {
	if t != nil {
		r.entry(t)
	}
}

// RecordValue adds the type of v to the binder.
func (r *Recording) RecordValue(v interface{}) {
	r.Record(reflect.TypeOf(v))
}

// Count returns the number of types recorded.
func (r *Recording) Count() int {
	return int(r.count.Load())
}

// TypeKey implements binary.Binder.
func (r *Recording) TypeKey(t reflect.Type) (binary.TypeKey, bool) {
	if t == nil {
		return binary.TypeKey{}, false
	}
	return r.entry(t).key, true
}

// Type implements binary.Binder.
func (r *Recording) Type(k binary.TypeKey) (reflect.Type, bool) {
	s := r.shard(k)
	s.RLock()
	t, ok := s.types[k]
	s.RUnlock()
	if ok {
		return t, true
	}
	if t, ok := compose(k, r.Type); ok {
		r.Record(t)
		return t, true
	}
	return nil, false
}

// Reader implements binary.Binder.
func (r *Recording) Reader(t reflect.Type) (binary.ReadFunc, bool) {
	if t == nil {
		return nil, false
	}
	e := r.entry(t)
	return e.reader, e.reader != nil
}

// Writer implements binary.Binder.
func (r *Recording) Writer(v interface{}) (binary.WriteFunc, bool) {
	if _, ok := v.(binary.Writable); !ok {
		return nil, false
	}
	r.RecordValue(v)
	return writeWritable, true
}
