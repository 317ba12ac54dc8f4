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

package refs_test

import (
	"reflect"
	"sync"
	"testing"

	"github.com/google/objgraph/framework/binary"
	"github.com/google/objgraph/framework/binary/refs"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type thing struct{ name string }

func TestKey(t *testing.T) {
	assert := assert.New(t)
	a, b := &thing{"x"}, &thing{"x"}
	assert.Equal(refs.Key(a), refs.Key(a))
	assert.NotEqual(refs.Key(a), refs.Key(b))
	assert.Equal("abc", refs.Key("abc"))
	assert.Equal(reflect.TypeOf(a), refs.Key(reflect.TypeOf(a)))
	assert.Nil(refs.Key(thing{"x"}))
	assert.Nil(refs.Key((*thing)(nil)))
	assert.Nil(refs.Key(nil))
	m := map[string]int{}
	assert.Equal(refs.Key(m), refs.Key(m))
}

func TestMap(t *testing.T) {
	assert := assert.New(t)
	m := refs.NewMap(nil)
	defer m.Release()
	_, found := m.Lookup("a")
	assert.False(found)
	assert.Equal(uint32(0), m.Add("a"))
	assert.Equal(uint32(1), m.Reserve())
	assert.Equal(uint32(2), m.Add("b"))
	id, found := m.Lookup("a")
	assert.True(found)
	assert.Equal(uint32(0), id)
	id, found = m.Lookup("b")
	assert.True(found)
	assert.Equal(uint32(2), id)
	assert.Equal(3, m.Len())
}

func TestMapOverShared(t *testing.T) {
	assert := assert.New(t)
	shared, err := refs.NewShared("shared", "common")
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		m := refs.NewMap(shared)
		id, found := m.Lookup("shared")
		assert.True(found)
		assert.Equal(uint32(0), id)
		assert.Equal(uint32(2), m.Add("local"))
		m.Release()
	}
}

func TestSharedRejectsDuplicates(t *testing.T) {
	_, err := refs.NewShared("a", "b", "a")
	assert.Error(t, err)
	_, err = refs.NewShared(thing{})
	assert.Error(t, err)
	var s *refs.Shared
	assert.Equal(t, 0, s.Len())
}

func TestTable(t *testing.T) {
	assert := assert.New(t)
	shared, err := refs.NewShared("shared")
	require.NoError(t, err)
	table := refs.NewTable("string", shared)
	defer table.Release()

	v, err := table.Get(0)
	assert.NoError(err)
	assert.Equal("shared", v)

	assert.Equal(uint32(1), table.Add("one"))
	id := table.Reserve()
	assert.Equal(uint32(2), id)
	_, err = table.Get(id)
	assert.Equal(binary.ErrPendingReference, errors.Cause(err))
	require.NoError(t, table.Set(id, "two"))
	v, err = table.Get(id)
	assert.NoError(err)
	assert.Equal("two", v)

	_, err = table.Get(3)
	assert.Equal(binary.ErrReferenceRange{Table: "string", ID: 3, Len: 3}, err)
	assert.Error(table.Set(0, "base"))
	assert.Error(table.Set(7, "nowhere"))
}

func TestPoolDiscardsLargeTables(t *testing.T) {
	before := refs.Stats()
	m := refs.NewMap(nil)
	for i := 0; i <= refs.MaxPooled; i++ {
		m.Add(i)
	}
	m.Release()
	small := refs.NewTable("object", nil)
	small.Add("x")
	small.Release()
	after := refs.Stats()
	assert.Equal(t, before.Discarded+1, after.Discarded)
	assert.Equal(t, before.Returned+1, after.Returned)
}

func TestPoolConcurrent(t *testing.T) {
	wg := sync.WaitGroup{}
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m := refs.NewMap(nil)
				m.Add(j)
				if id, ok := m.Lookup(j); !ok || id != 0 {
					t.Errorf("lookup of fresh map returned %d, %v", id, ok)
				}
				m.Release()
			}
		}()
	}
	wg.Wait()
}
