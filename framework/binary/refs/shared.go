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

import "github.com/pkg/errors"

// Shared is an immutable base table. A nil *Shared is an empty table.
type Shared struct {
	ids    map[interface{}]uint32
	values []interface{}
}

// NewShared returns a base table assigning ids to values in order.
// Every value must have a Key, and no two values may share one.
func NewShared(values ...interface{}) (*Shared, error) {
	s := &Shared{
		ids:    make(map[interface{}]uint32, len(values)),
		values: make([]interface{}, len(values)),
	}
	for i, v := range values {
		key := Key(v)
		if key == nil {
			return nil, errors.Errorf("Shared table value %d (%T) has no identity", i, v)
		}
		if prev, dup := s.ids[key]; dup {
			return nil, errors.Errorf("Shared table value %d duplicates value %d", i, prev)
		}
		s.ids[key] = uint32(i)
		s.values[i] = v
	}
	return s, nil
}

// Len returns the number of ids held by s.
func (s *Shared) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}

// Lookup returns the id assigned to key.
func (s *Shared) Lookup(key interface{}) (uint32, bool) {
	if s == nil || key == nil {
		return 0, false
	}
	id, ok := s.ids[key]
	return id, ok
}

// Get returns the value with the given id, which must be less than Len.
func (s *Shared) Get(id int) interface{} {
	return s.values[id]
}

// Values returns a copy of the values of s in id order.
func (s *Shared) Values() []interface{} {
	if s == nil {
		return nil
	}
	return append([]interface{}(nil), s.values...)
}
