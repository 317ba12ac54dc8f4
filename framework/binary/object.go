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

// Writable is the interface to any type that encodes itself as an object.
// Encode must write the same number of members, in the same order, for every
// value of the type.
type Writable interface {
	Encode(Encoder)
}

// Readable is a Writable that can also be rebuilt from its members.
type Readable interface {
	Writable
	// Constructor returns the function used to rebuild values of this type.
	// The method must be valid on the zero value, including a nil pointer.
	Constructor() ReadFunc
}

// ReadFunc builds a value from the members that were written by the
// matching Writable. It must consume exactly those members, in order.
type ReadFunc func(Decoder) (interface{}, error)

// WriteFunc writes the members of v to e.
type WriteFunc func(e Encoder, v interface{})
