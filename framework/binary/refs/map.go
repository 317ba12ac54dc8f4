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

package refs

// Map assigns ids to values as a writer sees them for the first time.
// A Map is not safe for concurrent use.
type Map struct {
	base *Shared
	ids  map[interface{}]uint32
	next uint32
}

// NewMap returns an empty Map whose ids follow on from base, which may be nil.
func NewMap(base *Shared) *Map {
	return &Map{base: base, ids: getMap(), next: uint32(base.Len())}
}

// Lookup returns the id of key, searching the base table first.
func (m *Map) Lookup(key interface{}) (uint32, bool) {
	if key == nil {
		return 0, false
	}
	if id, ok := m.base.Lookup(key); ok {
		return id, true
	}
	id, ok := m.ids[key]
	return id, ok
}

// Add assigns the next id to key. key must not already have an id.
func (m *Map) Add(key interface{}) uint32 {
	id := m.next
	m.next++
	if key != nil {
		m.ids[key] = id
	}
	return id
}

// Reserve consumes the next id without associating a key with it.
func (m *Map) Reserve() uint32 {
	return m.Add(nil)
}

// Len returns the number of ids assigned, including those of the base.
func (m *Map) Len() int {
	return int(m.next)
}

// Release returns the storage of m to the pool. m must not be used again.
func (m *Map) Release() {
	if m.ids != nil {
		putMap(m.ids)
		m.ids = nil
	}
}
