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

package registry_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pkg = "github.com/google/objgraph/framework/binary/registry_test"

type point struct{ X, Y int32 }

func (p *point) Encode(e binary.Encoder) {
	e.Int32(p.X)
	e.Int32(p.Y)
}

func (*point) Constructor() binary.ReadFunc {
	return func(d binary.Decoder) (interface{}, error) {
		return &point{X: d.Int32(), Y: d.Int32()}, nil
	}
}

type label struct{ text string }

func (l label) Encode(e binary.Encoder) { e.String(l.text) }

type weekday uint8

func TestKeyOf(t *testing.T) {
	for _, test := range []struct {
		value    interface{}
		expected binary.TypeKey
	}{
		{int32(0), binary.TypeKey{Name: "int32"}},
		{"", binary.TypeKey{Name: "string"}},
		{point{}, binary.TypeKey{Assembly: pkg, Name: "point"}},
		{&point{}, binary.TypeKey{Assembly: pkg, Name: "*point"}},
		{[]*point{}, binary.TypeKey{Assembly: pkg, Name: "[]*point"}},
		{[3]weekday{}, binary.TypeKey{Assembly: pkg, Name: "[3]weekday"}},
		{[][]string{}, binary.TypeKey{Name: "[][]string"}},
		{map[string]int{}, binary.TypeKey{Name: "map[string]int"}},
	} {
		assert.Equal(t, test.expected, registry.KeyOf(reflect.TypeOf(test.value)), "%T", test.value)
	}
}

func testBinder(t *testing.T, b binary.Binder) {
	assert := assert.New(t)
	ptr := reflect.TypeOf(&point{})

	k, ok := b.TypeKey(ptr)
	assert.True(ok)
	assert.Equal(binary.TypeKey{Assembly: pkg, Name: "*point"}, k)
	got, ok := b.Type(k)
	assert.True(ok)
	assert.Equal(ptr, got)

	read, ok := b.Reader(ptr)
	require.True(t, ok)
	assert.NotNil(read)

	_, ok = b.Reader(reflect.TypeOf(label{}))
	assert.False(ok, "label has no constructor")
	write, ok := b.Writer(label{"x"})
	assert.True(ok)
	assert.NotNil(write)
	_, ok = b.Writer(42)
	assert.False(ok)

	got, ok = b.Type(binary.TypeKey{Name: "int32"})
	assert.True(ok)
	assert.Equal(reflect.TypeOf(int32(0)), got)
	got, ok = b.Type(binary.TypeKey{Name: "[][]string"})
	assert.True(ok)
	assert.Equal(reflect.TypeOf([][]string{}), got)
	got, ok = b.Type(binary.TypeKey{Assembly: pkg, Name: "[]*point"})
	assert.True(ok)
	assert.Equal(reflect.TypeOf([]*point{}), got)
	got, ok = b.Type(binary.TypeKey{Name: "[2]int32"})
	assert.True(ok)
	assert.Equal(reflect.TypeOf([2]int32{}), got)

	_, ok = b.Type(binary.TypeKey{Assembly: pkg, Name: "weekday"})
	assert.False(ok, "weekday is not recorded yet")
	registry.Register(b, weekday(0))
	got, ok = b.Type(binary.TypeKey{Assembly: pkg, Name: "weekday"})
	assert.True(ok)
	assert.Equal(reflect.TypeOf(weekday(0)), got)
	_, ok = b.Type(binary.TypeKey{Name: "[x]int32"})
	assert.False(ok)
}

func TestRecording(t *testing.T) {
	testBinder(t, registry.NewRecording())
}

func TestSimple(t *testing.T) {
	testBinder(t, registry.NewSimple())
}

func TestSimpleFallbacks(t *testing.T) {
	assert := assert.New(t)
	shared := registry.NewRecording()
	registry.Register(shared, weekday(0))
	session := registry.NewSimple(shared)
	got, ok := session.Type(binary.TypeKey{Assembly: pkg, Name: "weekday"})
	assert.True(ok)
	assert.Equal(reflect.TypeOf(weekday(0)), got)
	got, ok = session.Type(binary.TypeKey{Assembly: pkg, Name: "[]weekday"})
	assert.True(ok)
	assert.Equal(reflect.TypeOf([]weekday{}), got)
	_, ok = registry.NewSimple().Type(binary.TypeKey{Assembly: pkg, Name: "weekday"})
	assert.False(ok)
}

func TestRecordingConcurrentFirstUse(t *testing.T) {
	b := registry.NewRecording()
	before := b.Count()
	ptr := reflect.TypeOf(&point{})
	keys := make([]binary.TypeKey, 64)
	start := make(chan struct{})
	wg := sync.WaitGroup{}
	for i := range keys {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			b.Record(ptr)
			keys[i], _ = b.TypeKey(ptr)
		}(i)
	}
	close(start)
	wg.Wait()
	assert.Equal(t, before+1, b.Count())
	for _, k := range keys {
		assert.Equal(t, keys[0], k)
	}
	b.Record(ptr)
	assert.Equal(t, before+1, b.Count())
}
