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

package binary

import "reflect"

// Binder maps between Go types and the TypeKeys that identify them in a
// stream, and supplies the functions used to write and rebuild objects.
//
// Entries are only ever added. Record and RecordValue may be called any number
// of times for the same type.
type Binder interface {
	// TypeKey returns the key for t, recording t if it is not yet known.
	TypeKey(t reflect.Type) (TypeKey, bool)
	// Type returns the type identified by k.
	Type(k TypeKey) (reflect.Type, bool)
	// Reader returns the function that rebuilds values of type t.
	Reader(t reflect.Type) (ReadFunc, bool)
	// Writer returns the function that writes the members of v, or false if v
	// is not writable.
	Writer(v interface{}) (WriteFunc, bool)
	// Record adds t to the binder.
	Record(t reflect.Type)
	// RecordValue adds the type of v to the binder.
	RecordValue(v interface{})
}
