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

import (
	"github.com/google/objgraph/framework/binary"
	"github.com/pkg/errors"
)

type pending struct{}

// Table holds the values a reader has assigned ids to.
// A Table is not safe for concurrent use.
type Table struct {
	name   string
	base   *Shared
	values []interface{}
}

// NewTable returns an empty Table whose ids follow on from base, which may be
// nil. The name is used in errors.
func NewTable(name string, base *Shared) *Table {
	return &Table{name: name, base: base, values: getSlice()}
}

// Add assigns the next id to v.
func (t *Table) Add(v interface{}) uint32 {
	t.values = append(t.values, v)
	return uint32(t.base.Len() + len(t.values) - 1)
}

// Reserve assigns the next id to a value that is not yet known. Get fails
// with binary.ErrPendingReference until Set is called for the id.
func (t *Table) Reserve() uint32 {
	return t.Add(pending{})
}

// Set fills in the value of a reserved id.
func (t *Table) Set(id uint32, v interface{}) error {
	i := int(id) - t.base.Len()
	if i < 0 || i >= len(t.values) {
		return errors.Errorf("Cannot set %s id %d: not a local id", t.name, id)
	}
	t.values[i] = v
	return nil
}

// Get returns the value with the given id, searching the base table first.
func (t *Table) Get(id uint32) (interface{}, error) {
	n := t.base.Len()
	if int(id) < n {
		return t.base.Get(int(id)), nil
	}
	i := int(id) - n
	if i >= len(t.values) {
		return nil, binary.ErrReferenceRange{Table: t.name, ID: int(id), Len: t.Len()}
	}
	v := t.values[i]
	if _, ok := v.(pending); ok {
		return nil, binary.ErrPendingReference
	}
	return v, nil
}

// Len returns the number of ids assigned, including those of the base.
func (t *Table) Len() int {
	return t.base.Len() + len(t.values)
}

// Release returns the storage of t to the pool. t must not be used again.
func (t *Table) Release() {
	if t.values != nil {
		putSlice(t.values)
		t.values = nil
	}
}
